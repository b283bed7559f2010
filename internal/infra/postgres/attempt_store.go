package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"kambaz-quiz-service/internal/domain"
)

// AttemptStore keeps attempt documents as JSONB in the attempts table.
type AttemptStore struct {
	docs collection[domain.Attempt]
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{docs: collection[domain.Attempt]{pool: pool, table: "attempts", notFound: domain.ErrAttemptNotFound}}
}

func (s *AttemptStore) CreateAttempt(ctx context.Context, attempt domain.Attempt) error {
	return s.docs.insert(ctx, attempt.ID, attempt)
}

func (s *AttemptStore) GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error) {
	return s.docs.get(ctx, attemptID)
}

func (s *AttemptStore) ListAttempts(ctx context.Context, filter domain.AttemptFilter) ([]domain.Attempt, error) {
	return s.docs.find(ctx,
		`($1 = '' OR data->>'user' = $1) AND ($2 = '' OR data->>'quiz' = $2)`,
		`(data->>'startTime')::timestamptz DESC, created_at DESC`,
		filter.UserID, filter.QuizID,
	)
}

// CompleteAttempt only overwrites a row that is still in progress, so two
// concurrent submissions cannot both complete the attempt.
func (s *AttemptStore) CompleteAttempt(ctx context.Context, attempt domain.Attempt) error {
	ok, err := s.docs.replace(ctx, attempt.ID, attempt, `NOT COALESCE((data->>'completed')::boolean, false)`)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.docs.get(ctx, attempt.ID); err != nil {
		return err
	}
	return domain.ErrAttemptCompleted
}
