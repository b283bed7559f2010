package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"kambaz-quiz-service/internal/domain"
)

// AttemptService runs the attempt lifecycle: start under the attempt limit,
// submit and grade once, list, and watch live.
type AttemptService struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	feeds    FeedRepository
	now      func() time.Time
	newID    func() string
}

func NewAttemptService(quizzes QuizRepository, attempts AttemptRepository, feeds FeedRepository) *AttemptService {
	return NewAttemptServiceWithClock(quizzes, attempts, feeds, time.Now)
}

// NewAttemptServiceWithClock allows deterministic timestamps in tests.
func NewAttemptServiceWithClock(quizzes QuizRepository, attempts AttemptRepository, feeds FeedRepository, now func() time.Time) *AttemptService {
	return &AttemptService{
		quizzes:  quizzes,
		attempts: attempts,
		feeds:    feeds,
		now:      now,
		newID:    uuid.NewString,
	}
}

// StartAttempt creates an in-progress attempt for user, or refuses with
// domain.ErrAttemptLimitReached.
func (s *AttemptService) StartAttempt(ctx context.Context, user domain.User, quizID string) (domain.Attempt, error) {
	if user.ID == "" {
		return domain.Attempt{}, domain.ErrUnauthenticated
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !quiz.VisibleTo(user) {
		return domain.Attempt{}, domain.ErrQuizNotFound
	}

	prior, err := s.attempts.ListAttempts(ctx, domain.AttemptFilter{UserID: user.ID, QuizID: quiz.ID})
	if err != nil {
		return domain.Attempt{}, err
	}
	if !MayStartAttempt(quiz, prior) {
		return domain.Attempt{}, domain.ErrAttemptLimitReached
	}

	attempt := domain.Attempt{
		ID:        s.newID(),
		UserID:    user.ID,
		QuizID:    quiz.ID,
		Answers:   []domain.Answer{},
		StartTime: s.now().UTC(),
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	s.publish(domain.AttemptStarted, attempt)
	return attempt, nil
}

// SubmitAttempt grades answers and completes the attempt. Only the attempt's
// owner may submit, and only while it is in progress.
func (s *AttemptService) SubmitAttempt(ctx context.Context, user domain.User, attemptID string, answers []domain.Answer) (domain.Attempt, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !attempt.OwnedBy(user.ID) {
		return domain.Attempt{}, domain.ErrNotAttemptOwner
	}
	if attempt.Completed {
		return domain.Attempt{}, domain.ErrAttemptCompleted
	}

	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.Attempt{}, err
	}

	result := Grade(quiz, answers)
	end := s.now().UTC()
	attempt.Answers = result.Answers
	attempt.Score = result.Score
	attempt.Completed = true
	attempt.EndTime = &end

	if err := s.attempts.CompleteAttempt(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	log.Printf("attempt %s on quiz %s completed by %s: score %.2f/%.2f", attempt.ID, quiz.ID, user.ID, attempt.Score, quiz.TotalPoints)
	s.publish(domain.AttemptCompleted, attempt)
	return attempt, nil
}

// ListAttempts returns the user's own attempts on a quiz, newest first.
func (s *AttemptService) ListAttempts(ctx context.Context, user domain.User, quizID string) ([]domain.Attempt, error) {
	if user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.attempts.ListAttempts(ctx, domain.AttemptFilter{UserID: user.ID, QuizID: quizID})
}

// GetAttempt returns an attempt to its owner or to a quiz manager.
func (s *AttemptService) GetAttempt(ctx context.Context, user domain.User, attemptID string) (domain.Attempt, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !attempt.OwnedBy(user.ID) && !user.CanManageQuizzes() {
		return domain.Attempt{}, domain.ErrNotAttemptOwner
	}
	return attempt, nil
}

// Subscribe returns a channel of attempt events for a quiz. Only quiz managers
// may watch. The caller must invoke the returned cancel function to avoid leaks.
func (s *AttemptService) Subscribe(ctx context.Context, user domain.User, quizID string) (<-chan domain.AttemptEvent, func(), error) {
	if !user.CanManageQuizzes() {
		return nil, nil, domain.ErrForbidden
	}
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}
	feed := s.feeds.GetOrCreate(quizID)
	ch, cancel := feed.subscribe()
	return ch, func() {
		cancel()
		s.feeds.DeleteIfEmpty(quizID)
	}, nil
}

func (s *AttemptService) publish(typ domain.AttemptEventType, attempt domain.Attempt) {
	feed, ok := s.feeds.Get(attempt.QuizID)
	if !ok {
		return
	}
	feed.publish(domain.AttemptEvent{
		Type:    typ,
		QuizID:  attempt.QuizID,
		Attempt: attempt,
		At:      s.now().UTC(),
	})
}
