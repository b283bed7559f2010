package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

type quizHandler struct {
	quizzes *app.QuizService
}

func (h *quizHandler) listForCourse(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	quizzes, err := h.quizzes.ListForCourse(r.Context(), user, chi.URLParam(r, "courseId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *quizHandler) create(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	var quiz domain.Quiz
	if err := decode(r, &quiz); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.quizzes.CreateQuiz(r.Context(), user, chi.URLParam(r, "courseId"), quiz)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *quizHandler) get(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	quiz, err := h.quizzes.GetQuiz(r.Context(), user, chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *quizHandler) update(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	updated, err := h.quizzes.UpdateQuiz(r.Context(), user, chi.URLParam(r, "quizId"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *quizHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	if err := h.quizzes.DeleteQuiz(r.Context(), user, chi.URLParam(r, "quizId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *quizHandler) publish(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	quiz, err := h.quizzes.Publish(r.Context(), user, chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *quizHandler) unpublish(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	quiz, err := h.quizzes.Unpublish(r.Context(), user, chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}
