package memory

import (
	"context"
	"sort"

	"kambaz-quiz-service/internal/domain"
)

// AttemptStore is an in-memory app.AttemptRepository.
type AttemptStore struct {
	docs *documents[domain.Attempt]
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{docs: newDocuments[domain.Attempt]()}
}

func (s *AttemptStore) CreateAttempt(_ context.Context, attempt domain.Attempt) error {
	return s.docs.put(attempt.ID, attempt)
}

func (s *AttemptStore) GetAttempt(_ context.Context, attemptID string) (domain.Attempt, error) {
	attempt, ok, err := s.docs.get(attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptStore) ListAttempts(_ context.Context, filter domain.AttemptFilter) ([]domain.Attempt, error) {
	attempts, err := s.docs.find(filter.Match)
	if err != nil {
		return nil, err
	}
	// find returns insertion order; reverse it, then order by start time.
	for i, j := 0, len(attempts)-1; i < j; i, j = i+1, j-1 {
		attempts[i], attempts[j] = attempts[j], attempts[i]
	}
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].StartTime.After(attempts[j].StartTime)
	})
	return attempts, nil
}

// CompleteAttempt swaps in the graded attempt only while the stored one is in progress.
func (s *AttemptStore) CompleteAttempt(_ context.Context, attempt domain.Attempt) error {
	ok, err := s.docs.update(attempt.ID, func(stored *domain.Attempt) error {
		if stored.Completed {
			return domain.ErrAttemptCompleted
		}
		*stored = attempt
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return nil
}
