package domain

import (
	"encoding/json"
	"time"
)

// Response is what a user answered. Exactly one concrete type per answer:
// ChoiceResponse, BooleanResponse or TextResponse.
type Response interface {
	isResponse()
}

// ChoiceResponse answers a MULTIPLE_CHOICE question.
type ChoiceResponse struct {
	ChoiceID string
}

// BooleanResponse answers a TRUE_FALSE question.
type BooleanResponse struct {
	Value bool
}

// TextResponse answers a FILL_BLANK question.
type TextResponse struct {
	Text string
}

func (ChoiceResponse) isResponse()  {}
func (BooleanResponse) isResponse() {}
func (TextResponse) isResponse()    {}

// Answer is one submitted answer. IsCorrect is derived by grading and is never
// taken from the client.
type Answer struct {
	QuestionID string
	Response   Response
	IsCorrect  bool
}

type answerJSON struct {
	Question      string  `json:"question"`
	AnswerChoice  *string `json:"answerChoice,omitempty"`
	AnswerBoolean *bool   `json:"answerBoolean,omitempty"`
	AnswerText    *string `json:"answerText,omitempty"`
	IsCorrect     bool    `json:"isCorrect"`
}

func (a Answer) MarshalJSON() ([]byte, error) {
	out := answerJSON{Question: a.QuestionID, IsCorrect: a.IsCorrect}
	switch r := a.Response.(type) {
	case ChoiceResponse:
		out.AnswerChoice = &r.ChoiceID
	case BooleanResponse:
		out.AnswerBoolean = &r.Value
	case TextResponse:
		out.AnswerText = &r.Text
	}
	return json.Marshal(out)
}

// UnmarshalJSON picks the first present of answerChoice, answerBoolean, answerText.
// An answer with none of them decodes with a nil Response.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var in answerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*a = Answer{QuestionID: in.Question, IsCorrect: in.IsCorrect}
	switch {
	case in.AnswerChoice != nil:
		a.Response = ChoiceResponse{ChoiceID: *in.AnswerChoice}
	case in.AnswerBoolean != nil:
		a.Response = BooleanResponse{Value: *in.AnswerBoolean}
	case in.AnswerText != nil:
		a.Response = TextResponse{Text: *in.AnswerText}
	}
	return nil
}

// Attempt is one user's run at a quiz. It starts in progress and is completed
// exactly once, when its answers are graded.
type Attempt struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	QuizID    string     `json:"quiz"`
	Answers   []Answer   `json:"answers"`
	Score     float64    `json:"score"`
	Completed bool       `json:"completed"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

// OwnedBy reports whether the attempt belongs to userID.
func (a Attempt) OwnedBy(userID string) bool {
	return a.UserID != "" && a.UserID == userID
}

// AttemptFilter selects attempts in a listing. Empty fields do not filter.
type AttemptFilter struct {
	UserID string
	QuizID string
}

func (f AttemptFilter) Match(a Attempt) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	if f.QuizID != "" && a.QuizID != f.QuizID {
		return false
	}
	return true
}

// AttemptEventType names what happened to an attempt.
type AttemptEventType string

const (
	AttemptStarted   AttemptEventType = "attemptStarted"
	AttemptCompleted AttemptEventType = "attemptCompleted"
)

// AttemptEvent is pushed to subscribers watching a quiz's attempts.
type AttemptEvent struct {
	Type    AttemptEventType `json:"type"`
	QuizID  string           `json:"quizId"`
	Attempt Attempt          `json:"attempt"`
	At      time.Time        `json:"at"`
}
