package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/config"
	"kambaz-quiz-service/internal/infra/memory"
	pgstore "kambaz-quiz-service/internal/infra/postgres"
	redisstore "kambaz-quiz-service/internal/infra/redis"
	transport "kambaz-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	svc := buildServices(cfg, pool, redisClient)
	router := transport.NewRouter(svc, transport.Options{
		CORSOrigins:  cfg.Server.CORSOrigins,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.Secure,
		SessionTTL:   config.TTLDuration(cfg.Session.TTL, 24*time.Hour),
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: live attempt feeds hold their connection open.
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildServices picks Postgres or in-memory documents and Redis or in-memory
// sessions, caches and feeds. Both services share one quiz repository so cache
// invalidation on writes is seen by attempts.
func buildServices(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) transport.Services {
	var (
		quizStore app.QuizRepository    = memory.NewQuizStore()
		attempts  app.AttemptRepository = memory.NewAttemptStore()
		users     app.UserRepository    = memory.NewUserStore()
	)
	if pool != nil {
		quizStore = pgstore.NewQuizStore(pool)
		attempts = pgstore.NewAttemptStore(pool)
		users = pgstore.NewUserStore(pool)
		log.Printf("using postgres document store")
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var (
		quizzes  app.QuizRepository
		sessions app.SessionRepository
		feeds    app.FeedRepository
	)
	if redisClient != nil {
		quizzes = redisstore.NewQuizCache(redisClient, quizStore, quizTTL)
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
		feeds = redisstore.NewFeedStore(redisClient, redisTTL)
		log.Printf("using redis for sessions and quiz cache")
	} else {
		quizzes = memory.NewQuizCache(quizStore, quizTTL)
		sessions = memory.NewSessionStore(sessionTTL)
		feeds = memory.NewFeedStore()
	}

	return transport.Services{
		Users:    app.NewUserService(users, sessions),
		Quizzes:  app.NewQuizService(quizzes),
		Attempts: app.NewAttemptService(quizzes, attempts, feeds),
	}
}
