package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"kambaz-quiz-service/internal/app"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Users    *app.UserService
	Quizzes  *app.QuizService
	Attempts *app.AttemptService
}

// Options configures the session cookie and CORS.
type Options struct {
	CORSOrigins  []string
	CookieName   string
	SecureCookie bool
	SessionTTL   time.Duration
}

// NewRouter wires every route of the quiz API.
func NewRouter(svc Services, opts Options) http.Handler {
	if opts.CookieName == "" {
		opts.CookieName = "kambaz.sid"
	}
	sessions := &sessionCookies{users: svc.Users, opts: opts}
	users := &userHandler{users: svc.Users, cookies: sessions}
	quizzes := &quizHandler{quizzes: svc.Quizzes}
	attempts := &attemptHandler{attempts: svc.Attempts}
	live := NewWSHandler(svc.Attempts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(sessions.load)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/signup", users.signup)
		r.Post("/users/signin", users.signin)
		r.Post("/users/signout", users.signout)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Get("/users/profile", users.profile)
			r.Post("/users/profile", users.profile)
			r.Get("/users", users.list)
			r.Get("/users/{userId}", users.get)
			r.Put("/users/{userId}", users.update)
			r.Delete("/users/{userId}", users.delete)

			r.Get("/courses/{courseId}/quizzes", quizzes.listForCourse)
			r.Post("/courses/{courseId}/quizzes", quizzes.create)
			r.Get("/quizzes/{quizId}", quizzes.get)
			r.Put("/quizzes/{quizId}", quizzes.update)
			r.Delete("/quizzes/{quizId}", quizzes.delete)
			r.Put("/quizzes/{quizId}/publish", quizzes.publish)
			r.Put("/quizzes/{quizId}/unpublish", quizzes.unpublish)

			r.Post("/quizzes/{quizId}/attempts", attempts.start)
			r.Get("/quizzes/{quizId}/attempts", attempts.list)
			r.Get("/quizzes/{quizId}/attempts/live", live.ServeWS)
			r.Get("/attempts/{attemptId}", attempts.get)
			r.Put("/attempts/{attemptId}", attempts.submit)
		})
	})
	return r
}
