package app_test

import (
	"reflect"
	"testing"

	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

func TestGradeAllCorrect(t *testing.T) {
	quiz := gradingQuiz()
	answers := []domain.Answer{
		{QuestionID: "q1", Response: domain.ChoiceResponse{ChoiceID: "c2"}},
		{QuestionID: "q2", Response: domain.BooleanResponse{Value: true}},
		{QuestionID: "q3", Response: domain.TextResponse{Text: " Paris "}},
	}

	result := app.Grade(quiz, answers)
	if result.Score != quiz.CalculateTotalPoints() {
		t.Fatalf("expected full score %v, got %v", quiz.CalculateTotalPoints(), result.Score)
	}
	for i, a := range result.Answers {
		if !a.IsCorrect {
			t.Fatalf("answer %d should be correct: %+v", i, a)
		}
	}
	if answers[0].IsCorrect {
		t.Fatalf("input answers must not be modified")
	}
}

func TestGradeIsDeterministic(t *testing.T) {
	quiz := gradingQuiz()
	answers := []domain.Answer{
		{QuestionID: "q1", Response: domain.ChoiceResponse{ChoiceID: "c1"}},
		{QuestionID: "q3", Response: domain.TextResponse{Text: "PARIS"}},
		{QuestionID: "q3", Response: domain.TextResponse{Text: "paris"}},
		{QuestionID: "missing", Response: domain.BooleanResponse{Value: true}},
	}

	first := app.Grade(quiz, answers)
	second := app.Grade(quiz, answers)
	if first.Score != second.Score {
		t.Fatalf("scores differ: %v vs %v", first.Score, second.Score)
	}
	if !reflect.DeepEqual(first.Answers, second.Answers) {
		t.Fatalf("answers differ:\n%+v\n%+v", first.Answers, second.Answers)
	}
	if first.Score != 2 {
		t.Fatalf("expected score 2, got %v", first.Score)
	}
}

func TestGradeWrongAnswers(t *testing.T) {
	quiz := gradingQuiz()
	result := app.Grade(quiz, []domain.Answer{
		{QuestionID: "q1", Response: domain.ChoiceResponse{ChoiceID: "c1"}},
		{QuestionID: "q2", Response: domain.BooleanResponse{Value: false}},
		{QuestionID: "q3", Response: domain.TextResponse{Text: "Lyon"}},
	})
	if result.Score != 0 {
		t.Fatalf("expected score 0, got %v", result.Score)
	}
	for _, a := range result.Answers {
		if a.IsCorrect {
			t.Fatalf("expected all incorrect, got %+v", result.Answers)
		}
	}
}

func TestGradeIgnoresClientCorrectness(t *testing.T) {
	result := app.Grade(gradingQuiz(), []domain.Answer{
		{QuestionID: "q1", Response: domain.ChoiceResponse{ChoiceID: "c1"}, IsCorrect: true},
	})
	if result.Answers[0].IsCorrect || result.Score != 0 {
		t.Fatalf("client isCorrect must be recomputed, got %+v score %v", result.Answers[0], result.Score)
	}
}

func TestGradeUnknownQuestionAndMismatchedResponse(t *testing.T) {
	result := app.Grade(gradingQuiz(), []domain.Answer{
		{QuestionID: "missing", Response: domain.ChoiceResponse{ChoiceID: "c2"}},
		{QuestionID: "q1", Response: domain.BooleanResponse{Value: true}},
		{QuestionID: "q2"},
		{QuestionID: "q3"},
	})
	if result.Score != 0 {
		t.Fatalf("expected score 0, got %v", result.Score)
	}
	if len(result.Answers) != 4 || result.Answers[0].QuestionID != "missing" {
		t.Fatalf("answers must keep order and length, got %+v", result.Answers)
	}
}

func TestGradeScoresQuestionOnce(t *testing.T) {
	result := app.Grade(gradingQuiz(), []domain.Answer{
		{QuestionID: "q2", Response: domain.BooleanResponse{Value: true}},
		{QuestionID: "q2", Response: domain.BooleanResponse{Value: true}},
	})
	if result.Score != 3 {
		t.Fatalf("expected 3, got %v", result.Score)
	}
	if !result.Answers[0].IsCorrect || result.Answers[1].IsCorrect {
		t.Fatalf("only the first answer should count, got %+v", result.Answers)
	}
}

func TestGradeEmptySubmission(t *testing.T) {
	result := app.Grade(gradingQuiz(), nil)
	if result.Score != 0 || len(result.Answers) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func gradingQuiz() domain.Quiz {
	correct := true
	return domain.Quiz{
		ID:        "quiz-1",
		Title:     "Geography",
		Published: true,
		Questions: []domain.Question{
			{
				ID:           "q1",
				Title:        "Sum",
				QuestionType: domain.QuestionMultipleChoice,
				QuestionText: "What is 2 + 2?",
				Choices: []domain.Choice{
					{ID: "c1", Text: "3"},
					{ID: "c2", Text: "4", IsCorrect: true},
				},
				Points: 5,
			},
			{
				ID:            "q2",
				Title:         "Sky",
				QuestionType:  domain.QuestionTrueFalse,
				QuestionText:  "The sky is blue.",
				CorrectAnswer: &correct,
				Points:        3,
			},
			{
				ID:             "q3",
				Title:          "Capital",
				QuestionType:   domain.QuestionFillBlank,
				QuestionText:   "The capital of France is ___.",
				CorrectAnswers: []string{"paris"},
				Points:         2,
			},
		},
	}
}
