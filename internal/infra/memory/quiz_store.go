package memory

import (
	"context"

	"kambaz-quiz-service/internal/domain"
)

// QuizStore is an in-memory app.QuizRepository, useful for tests and demos.
type QuizStore struct {
	docs *documents[domain.Quiz]
}

func NewQuizStore(quizzes ...domain.Quiz) *QuizStore {
	s := &QuizStore{docs: newDocuments[domain.Quiz]()}
	for _, quiz := range quizzes {
		_ = s.docs.put(quiz.ID, quiz)
	}
	return s
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	return s.docs.put(quiz.ID, quiz)
}

func (s *QuizStore) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok, err := s.docs.get(quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizStore) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	ok, err := s.docs.update(quiz.ID, func(stored *domain.Quiz) error {
		*stored = quiz
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) DeleteQuiz(_ context.Context, quizID string) error {
	if !s.docs.remove(quizID) {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) ListQuizzes(_ context.Context, filter domain.QuizFilter) ([]domain.Quiz, error) {
	return s.docs.find(filter.Match)
}
