package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

type attemptHandler struct {
	attempts *app.AttemptService
}

type submitRequest struct {
	Answers []domain.Answer `json:"answers"`
}

func (h *attemptHandler) start(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	attempt, err := h.attempts.StartAttempt(r.Context(), user, chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (h *attemptHandler) list(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	attempts, err := h.attempts.ListAttempts(r.Context(), user, chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *attemptHandler) get(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	attempt, err := h.attempts.GetAttempt(r.Context(), user, chi.URLParam(r, "attemptId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *attemptHandler) submit(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	var req submitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	attempt, err := h.attempts.SubmitAttempt(r.Context(), user, chi.URLParam(r, "attemptId"), req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}
