package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"kambaz-quiz-service/internal/domain"
)

// QuizService contains the quiz authoring use cases.
type QuizService struct {
	quizzes  QuizRepository
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

func NewQuizService(quizzes QuizRepository) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ListForCourse lists a course's quizzes. Users who cannot manage quizzes only
// see published ones.
func (s *QuizService) ListForCourse(ctx context.Context, user domain.User, courseID string) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx, domain.QuizFilter{
		CourseID:      courseID,
		PublishedOnly: !user.CanManageQuizzes(),
	})
}

// CreateQuiz stores a new quiz for a course with user as its creator.
func (s *QuizService) CreateQuiz(ctx context.Context, user domain.User, courseID string, quiz domain.Quiz) (domain.Quiz, error) {
	if !user.CanManageQuizzes() {
		return domain.Quiz{}, domain.ErrForbidden
	}
	now := s.now().UTC()
	quiz.ID = s.newID()
	if !quiz.Course.Matches(courseID) {
		quiz.Course = domain.ByCode(courseID)
	}
	quiz.Creator = domain.ByReference(user.ID)
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if err := s.prepare(&quiz); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// GetQuiz returns a quiz if it is visible to user.
func (s *QuizService) GetQuiz(ctx context.Context, user domain.User, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if !quiz.VisibleTo(user) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// UpdateQuiz applies a partial JSON update to the stored quiz: only the fields
// present in patch change. Identity, creator and creation time are kept, and
// the course stays unless patch names a new one.
func (s *QuizService) UpdateQuiz(ctx context.Context, user domain.User, quizID string, patch []byte) (domain.Quiz, error) {
	if !user.CanManageQuizzes() {
		return domain.Quiz{}, domain.ErrForbidden
	}
	existing, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz, err := existing.Patch(patch)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	quiz.ID = existing.ID
	if quiz.Course.IsZero() {
		quiz.Course = existing.Course
	}
	quiz.Creator = existing.Creator
	quiz.CreatedAt = existing.CreatedAt
	quiz.UpdatedAt = s.now().UTC()
	if err := s.prepare(&quiz); err != nil {
		return domain.Quiz{}, err
	}
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, user domain.User, quizID string) error {
	if !user.CanManageQuizzes() {
		return domain.ErrForbidden
	}
	return s.quizzes.DeleteQuiz(ctx, quizID)
}

func (s *QuizService) Publish(ctx context.Context, user domain.User, quizID string) (domain.Quiz, error) {
	return s.setPublished(ctx, user, quizID, true)
}

func (s *QuizService) Unpublish(ctx context.Context, user domain.User, quizID string) (domain.Quiz, error) {
	return s.setPublished(ctx, user, quizID, false)
}

func (s *QuizService) setPublished(ctx context.Context, user domain.User, quizID string, published bool) (domain.Quiz, error) {
	if !user.CanManageQuizzes() {
		return domain.Quiz{}, domain.ErrForbidden
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz.Published = published
	quiz.UpdatedAt = s.now().UTC()
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// prepare assigns missing question and choice ids, recomputes totalPoints and
// validates the document.
func (s *QuizService) prepare(quiz *domain.Quiz) error {
	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		if question.ID == "" {
			question.ID = s.newID()
		}
		for j := range question.Choices {
			if question.Choices[j].ID == "" {
				question.Choices[j].ID = s.newID()
			}
		}
	}
	quiz.TotalPoints = quiz.CalculateTotalPoints()
	if err := s.validate.Struct(quiz); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
