package domain

import (
	"encoding/json"
	"testing"
)

func TestQuizUnmarshalAppliesDefaults(t *testing.T) {
	var quiz Quiz
	data := `{"title":"Q","course":"RS101","questions":[{"title":"t","questionType":"TRUE_FALSE","questionText":"?"}]}`
	if err := json.Unmarshal([]byte(data), &quiz); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if quiz.QuizType != QuizTypeGradedQuiz || quiz.AttemptsAllowed != 1 || quiz.TimeLimit != 20 {
		t.Fatalf("expected defaults, got %+v", quiz)
	}
	if quiz.Questions[0].Points != 1 {
		t.Fatalf("expected default points 1, got %v", quiz.Questions[0].Points)
	}
	if quiz.Course != ByCode("RS101") {
		t.Fatalf("expected course code, got %+v", quiz.Course)
	}
}

func TestQuizUnmarshalKeepsExplicitZeroPoints(t *testing.T) {
	var q Question
	if err := json.Unmarshal([]byte(`{"points":0}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Points != 0 {
		t.Fatalf("expected 0 points, got %v", q.Points)
	}
}

func TestCalculateTotalPoints(t *testing.T) {
	if got := (Quiz{}).CalculateTotalPoints(); got != 0 {
		t.Fatalf("expected 0 for empty quiz, got %v", got)
	}
	quiz := Quiz{Questions: []Question{{Points: 2}, {Points: 3}, {Points: 5}}}
	if got := quiz.CalculateTotalPoints(); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}

func TestQuizPatchKeepsMissingFields(t *testing.T) {
	correct := true
	quiz := Quiz{
		ID:               "quiz-1",
		Title:            "Old",
		Course:           ByCode("RS101"),
		Published:        true,
		MultipleAttempts: true,
		AttemptsAllowed:  3,
		Questions:        []Question{{ID: "q1", Title: "Sky", Points: 4, CorrectAnswer: &correct}},
	}

	patched, err := quiz.Patch([]byte(`{"title":"Renamed"}`))
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Title != "Renamed" || !patched.Published || patched.AttemptsAllowed != 3 || !patched.MultipleAttempts {
		t.Fatalf("settings lost: %+v", patched)
	}
	if len(patched.Questions) != 1 || patched.Questions[0].Points != 4 || !patched.Course.Matches("RS101") {
		t.Fatalf("questions or course lost: %+v", patched)
	}

	replaced, err := quiz.Patch([]byte(`{"questions":[{"id":"q9","title":"New"}]}`))
	if err != nil {
		t.Fatalf("patch questions: %v", err)
	}
	if len(replaced.Questions) != 1 || replaced.Questions[0].ID != "q9" || replaced.Questions[0].Points != 1 {
		t.Fatalf("expected replaced questions, got %+v", replaced.Questions)
	}
	if quiz.Questions[0].ID != "q1" || quiz.Title != "Old" {
		t.Fatalf("original quiz modified: %+v", quiz)
	}

	if _, err := quiz.Patch([]byte(`{"title":`)); err == nil {
		t.Fatalf("expected error for malformed patch")
	}
}

func TestFindQuestionMissing(t *testing.T) {
	quiz := Quiz{Questions: []Question{{ID: "q1"}}}
	if _, ok := quiz.FindQuestion("q1"); !ok {
		t.Fatalf("expected q1")
	}
	if _, ok := quiz.FindQuestion("nope"); ok {
		t.Fatalf("expected missing question")
	}
}

func TestRefJSON(t *testing.T) {
	for _, ref := range []Ref{ByCode("RS101"), ByReference("64ab"), {}} {
		data, err := json.Marshal(ref)
		if err != nil {
			t.Fatalf("marshal %+v: %v", ref, err)
		}
		var back Ref
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != ref {
			t.Fatalf("expected %+v, got %+v (%s)", ref, back, data)
		}
	}
	if !ByReference("c1").Matches("c1") || !ByCode("c1").Matches("c1") || (Ref{}).Matches("") {
		t.Fatalf("unexpected Matches result")
	}
}

func TestAnswerDecodesVariant(t *testing.T) {
	cases := []struct {
		raw  string
		want Response
	}{
		{`{"question":"q1","answerChoice":"c1"}`, ChoiceResponse{ChoiceID: "c1"}},
		{`{"question":"q1","answerBoolean":false}`, BooleanResponse{Value: false}},
		{`{"question":"q1","answerText":" Paris "}`, TextResponse{Text: " Paris "}},
		{`{"question":"q1","isCorrect":true}`, nil},
	}
	for _, tc := range cases {
		var a Answer
		if err := json.Unmarshal([]byte(tc.raw), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if a.QuestionID != "q1" || a.Response != tc.want {
			t.Fatalf("%s: got %+v", tc.raw, a)
		}
	}
}

func TestAnswerEncodesSingleField(t *testing.T) {
	data, err := json.Marshal(Answer{QuestionID: "q2", Response: BooleanResponse{Value: true}, IsCorrect: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"question":"q2","answerBoolean":true,"isCorrect":true}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestUserFilter(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace", Role: RoleStudent}
	if !(UserFilter{Role: "ALL", Name: "love"}).Match(u) {
		t.Fatalf("expected match on last name")
	}
	if (UserFilter{Role: RoleFaculty}).Match(u) {
		t.Fatalf("expected role mismatch")
	}
}
