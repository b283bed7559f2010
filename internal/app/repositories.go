package app

import (
	"context"

	"kambaz-quiz-service/internal/domain"
)

// QuizRepository stores quiz documents (in-memory, Postgres, optionally behind a cache).
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error)
}

// AttemptRepository stores attempt documents.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt domain.Attempt) error
	GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error)
	// ListAttempts returns matching attempts, newest first.
	ListAttempts(ctx context.Context, filter domain.AttemptFilter) ([]domain.Attempt, error)
	// CompleteAttempt replaces an in-progress attempt with its graded version.
	// It returns domain.ErrAttemptCompleted if the stored attempt is already completed.
	CompleteAttempt(ctx context.Context, attempt domain.Attempt) error
}

// UserRepository stores user accounts. CreateUser returns domain.ErrUsernameTaken
// when the username exists.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
}

// SessionRepository maps opaque session tokens to the signed-in user.
type SessionRepository interface {
	Create(ctx context.Context, user domain.User) (string, error)
	Get(ctx context.Context, token string) (domain.User, error)
	Save(ctx context.Context, token string, user domain.User) error
	Delete(ctx context.Context, token string) error
}

// FeedRepository abstracts where live attempt feeds are kept.
type FeedRepository interface {
	GetOrCreate(quizID string) *Feed
	Get(quizID string) (*Feed, bool)
	DeleteIfEmpty(quizID string)
}
