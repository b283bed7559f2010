package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"kambaz-quiz-service/internal/domain"
)

// QuizStore keeps quiz documents as JSONB in the quizzes table.
type QuizStore struct {
	docs collection[domain.Quiz]
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{docs: collection[domain.Quiz]{pool: pool, table: "quizzes", notFound: domain.ErrQuizNotFound}}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	return s.docs.insert(ctx, quiz.ID, quiz)
}

func (s *QuizStore) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.docs.get(ctx, quizID)
}

func (s *QuizStore) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	ok, err := s.docs.replace(ctx, quiz.ID, quiz, "")
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID string) error {
	return s.docs.delete(ctx, quizID)
}

// ListQuizzes matches the course whether it was stored as a code or a reference.
func (s *QuizStore) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return s.docs.find(ctx,
		`($1 = '' OR data->>'course' = $1 OR data->'course'->>'id' = $1)
		 AND (NOT $2 OR COALESCE((data->>'published')::boolean, false))`,
		`created_at`,
		filter.CourseID, filter.PublishedOnly,
	)
}
