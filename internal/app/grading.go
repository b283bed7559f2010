package app

import (
	"strings"

	"kambaz-quiz-service/internal/domain"
)

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Answers []domain.Answer
	Score   float64
}

// Grade evaluates answers against the quiz's answer key. It is pure: the input
// slice is not modified and the same inputs always give the same result.
//
// Answers keep their order and fields; IsCorrect is always recomputed. An answer
// whose question does not exist on the quiz is incorrect, not an error. A question
// is scored at most once: only its first answer is graded, later ones are incorrect.
func Grade(quiz domain.Quiz, answers []domain.Answer) GradeResult {
	processed := make([]domain.Answer, len(answers))
	graded := make(map[string]struct{}, len(answers))
	score := 0.0

	for i, answer := range answers {
		answer.IsCorrect = false
		question, ok := quiz.FindQuestion(answer.QuestionID)
		if ok {
			if _, seen := graded[question.ID]; !seen {
				graded[question.ID] = struct{}{}
				answer.IsCorrect = isCorrect(question, answer.Response)
			}
		}
		if answer.IsCorrect {
			score += question.Points
		}
		processed[i] = answer
	}

	return GradeResult{Answers: processed, Score: score}
}

func isCorrect(question domain.Question, response domain.Response) bool {
	switch question.QuestionType {
	case domain.QuestionMultipleChoice:
		r, ok := response.(domain.ChoiceResponse)
		if !ok {
			return false
		}
		choice, found := question.FindChoice(r.ChoiceID)
		return found && choice.IsCorrect
	case domain.QuestionTrueFalse:
		r, ok := response.(domain.BooleanResponse)
		return ok && question.CorrectAnswer != nil && r.Value == *question.CorrectAnswer
	case domain.QuestionFillBlank:
		text := ""
		if r, ok := response.(domain.TextResponse); ok {
			text = r.Text
		}
		given := normalizeBlank(text)
		for _, accepted := range question.CorrectAnswers {
			if normalizeBlank(accepted) == given {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func normalizeBlank(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
