package domain

import (
	"encoding/json"
	"time"
)

// QuizType classifies how a quiz counts toward a grade.
type QuizType string

const (
	QuizTypeGradedQuiz     QuizType = "GRADED_QUIZ"
	QuizTypePracticeQuiz   QuizType = "PRACTICE_QUIZ"
	QuizTypeGradedSurvey   QuizType = "GRADED_SURVEY"
	QuizTypeUngradedSurvey QuizType = "UNGRADED_SURVEY"
)

// AssignmentGroup is the gradebook bucket a quiz belongs to.
type AssignmentGroup string

const (
	AssignmentGroupQuizzes     AssignmentGroup = "QUIZZES"
	AssignmentGroupExams       AssignmentGroup = "EXAMS"
	AssignmentGroupAssignments AssignmentGroup = "ASSIGNMENTS"
	AssignmentGroupProject     AssignmentGroup = "PROJECT"
)

// QuestionType selects the grading rule for a question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionFillBlank      QuestionType = "FILL_BLANK"
)

// Choice is one option of a multiple choice question.
type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question carries the answer key for its QuestionType:
// Choices for MULTIPLE_CHOICE, CorrectAnswer for TRUE_FALSE, CorrectAnswers for FILL_BLANK.
type Question struct {
	ID             string       `json:"id"`
	Title          string       `json:"title" validate:"required"`
	Points         float64      `json:"points" validate:"gte=0"`
	QuestionType   QuestionType `json:"questionType" validate:"oneof=MULTIPLE_CHOICE TRUE_FALSE FILL_BLANK"`
	QuestionText   string       `json:"questionText" validate:"required"`
	Choices        []Choice     `json:"choices" validate:"dive"`
	CorrectAnswer  *bool        `json:"correctAnswer,omitempty"`
	CorrectAnswers []string     `json:"correctAnswers"`
}

// FindChoice returns the choice with the given id.
func (q Question) FindChoice(choiceID string) (Choice, bool) {
	if choiceID == "" {
		return Choice{}, false
	}
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return c, true
		}
	}
	return Choice{}, false
}

// UnmarshalJSON defaults points to 1 when the field is absent.
func (q *Question) UnmarshalJSON(data []byte) error {
	type questionAlias Question
	a := questionAlias{Points: 1}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*q = Question(a)
	return nil
}

// Quiz is a course quiz definition with its ordered questions.
type Quiz struct {
	ID                          string          `json:"id"`
	Title                       string          `json:"title" validate:"required"`
	Description                 string          `json:"description"`
	Course                      Ref             `json:"course"`
	Creator                     Ref             `json:"creator"`
	QuizType                    QuizType        `json:"quizType" validate:"oneof=GRADED_QUIZ PRACTICE_QUIZ GRADED_SURVEY UNGRADED_SURVEY"`
	TotalPoints                 float64         `json:"totalPoints"`
	AssignmentGroup             AssignmentGroup `json:"assignmentGroup" validate:"oneof=QUIZZES EXAMS ASSIGNMENTS PROJECT"`
	ShuffleAnswers              bool            `json:"shuffleAnswers"`
	TimeLimit                   int             `json:"timeLimit" validate:"gte=0"` // minutes
	MultipleAttempts            bool            `json:"multipleAttempts"`
	AttemptsAllowed             int             `json:"attemptsAllowed" validate:"gte=0"`
	ShowCorrectAnswers          bool            `json:"showCorrectAnswers"`
	AccessCode                  string          `json:"accessCode"`
	OneQuestionAtTime           bool            `json:"oneQuestionAtTime"`
	WebcamRequired              bool            `json:"webcamRequired"`
	LockQuestionsAfterAnswering bool            `json:"lockQuestionsAfterAnswering"`
	DueDate                     *time.Time      `json:"dueDate,omitempty"`
	AvailableDate               *time.Time      `json:"availableDate,omitempty"`
	UntilDate                   *time.Time      `json:"untilDate,omitempty"`
	Published                   bool            `json:"published"`
	Questions                   []Question      `json:"questions" validate:"dive"`
	CreatedAt                   time.Time       `json:"createdAt"`
	UpdatedAt                   time.Time       `json:"updatedAt"`
}

// NewQuiz returns a quiz with the default settings of a freshly created quiz.
func NewQuiz() Quiz {
	return Quiz{
		QuizType:          QuizTypeGradedQuiz,
		AssignmentGroup:   AssignmentGroupQuizzes,
		ShuffleAnswers:    true,
		TimeLimit:         20,
		AttemptsAllowed:   1,
		OneQuestionAtTime: true,
	}
}

// UnmarshalJSON fills settings missing from data with the NewQuiz defaults.
func (q *Quiz) UnmarshalJSON(data []byte) error {
	type quizAlias Quiz
	a := quizAlias(NewQuiz())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*q = Quiz(a)
	return nil
}

// Patch returns a copy of q with the fields present in patch applied. Fields
// missing from patch keep their current value rather than the NewQuiz defaults.
func (q Quiz) Patch(patch []byte) (Quiz, error) {
	type quizAlias Quiz
	base, err := json.Marshal(quizAlias(q))
	if err != nil {
		return Quiz{}, err
	}
	// Decoding through the alias skips UnmarshalJSON and deep-copies q, so the
	// patch never writes into slices shared with the caller.
	var a quizAlias
	if err := json.Unmarshal(base, &a); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal(patch, &a); err != nil {
		return Quiz{}, err
	}
	return Quiz(a), nil
}

// CalculateTotalPoints sums question points; 0 for a quiz without questions.
func (q Quiz) CalculateTotalPoints() float64 {
	total := 0.0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// FindQuestion returns the question with the given id. A missing id is an expected
// input when grading stale answers, so it is reported with ok=false only.
func (q Quiz) FindQuestion(questionID string) (Question, bool) {
	if questionID == "" {
		return Question{}, false
	}
	for _, question := range q.Questions {
		if question.ID == questionID {
			return question, true
		}
	}
	return Question{}, false
}

// VisibleTo reports whether u may see the quiz. Unpublished quizzes are hidden
// from everyone who cannot manage quizzes.
func (q Quiz) VisibleTo(u User) bool {
	return q.Published || u.CanManageQuizzes()
}

// QuizFilter selects quizzes in a listing.
type QuizFilter struct {
	CourseID      string
	PublishedOnly bool
}

// Match reports whether q passes the filter.
func (f QuizFilter) Match(q Quiz) bool {
	if f.CourseID != "" && !q.Course.Matches(f.CourseID) {
		return false
	}
	if f.PublishedOnly && !q.Published {
		return false
	}
	return true
}
