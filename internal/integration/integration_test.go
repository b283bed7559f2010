package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
	pgstore "kambaz-quiz-service/internal/infra/postgres"
	pgmigrations "kambaz-quiz-service/internal/infra/postgres/migrations"
	infraredis "kambaz-quiz-service/internal/infra/redis"
)

func TestAttemptLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	quizRepo := infraredis.NewQuizCache(redisClient, pgstore.NewQuizStore(pool), 5*time.Minute)
	users := app.NewUserService(pgstore.NewUserStore(pool), infraredis.NewSessionStore(redisClient, time.Hour))
	quizzes := app.NewQuizService(quizRepo)
	attempts := app.NewAttemptService(quizRepo, pgstore.NewAttemptStore(pool), infraredis.NewFeedStore(redisClient, time.Minute))

	prof, _, err := users.Signup(ctx, app.Credentials{Username: "prof", Password: "pw"}, domain.User{Role: domain.RoleFaculty})
	if err != nil {
		t.Fatalf("signup faculty: %v", err)
	}
	alice, token, err := users.Signup(ctx, app.Credentials{Username: "alice", Password: "pw"}, domain.User{FirstName: "Alice"})
	if err != nil {
		t.Fatalf("signup student: %v", err)
	}
	if _, _, err := users.Signup(ctx, app.Credentials{Username: "alice", Password: "pw"}, domain.User{}); err != domain.ErrUsernameTaken {
		t.Fatalf("expected username taken, got %v", err)
	}
	if current, err := users.Current(ctx, token); err != nil || current.ID != alice.ID {
		t.Fatalf("session lookup: %+v err=%v", current, err)
	}

	quiz, err := quizzes.CreateQuiz(ctx, prof, "RS101", sampleQuiz())
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if _, err := attempts.StartAttempt(ctx, alice, quiz.ID); err != domain.ErrQuizNotFound {
		t.Fatalf("draft quiz should be hidden, got %v", err)
	}
	if _, err := quizzes.Publish(ctx, prof, quiz.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	listed, err := quizzes.ListForCourse(ctx, alice, "RS101")
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one published quiz, got %d err=%v", len(listed), err)
	}

	attempt, err := attempts.StartAttempt(ctx, alice, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if _, err := attempts.StartAttempt(ctx, alice, quiz.ID); err != domain.ErrAttemptLimitReached {
		t.Fatalf("expected limit reached, got %v", err)
	}

	graded, err := attempts.SubmitAttempt(ctx, alice, attempt.ID, []domain.Answer{
		{QuestionID: "q1", Response: domain.ChoiceResponse{ChoiceID: "c2"}},
		{QuestionID: "q2", Response: domain.TextResponse{Text: "  PARIS "}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !graded.Completed || graded.Score != 3 {
		t.Fatalf("expected score 3, got %+v", graded)
	}
	if _, err := attempts.SubmitAttempt(ctx, alice, attempt.ID, nil); err != domain.ErrAttemptCompleted {
		t.Fatalf("expected completed error, got %v", err)
	}

	stored, err := attempts.GetAttempt(ctx, prof, attempt.ID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if stored.Score != 3 || len(stored.Answers) != 2 || !stored.Answers[1].IsCorrect {
		t.Fatalf("unexpected stored attempt %+v", stored)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleQuiz() domain.Quiz {
	quiz := domain.NewQuiz()
	quiz.Title = "Warm-up"
	quiz.Questions = []domain.Question{
		{
			ID:           "q1",
			Title:        "Sum",
			QuestionType: domain.QuestionMultipleChoice,
			QuestionText: "What is 2 + 2?",
			Choices: []domain.Choice{
				{ID: "c1", Text: "3"},
				{ID: "c2", Text: "4", IsCorrect: true},
			},
			Points: 1,
		},
		{
			ID:             "q2",
			Title:          "Capital",
			QuestionType:   domain.QuestionFillBlank,
			QuestionText:   "The capital of France is ___.",
			CorrectAnswers: []string{"Paris"},
			Points:         2,
		},
	}
	return quiz
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
