package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

type userHandler struct {
	users   *app.UserService
	cookies *sessionCookies
}

type signupRequest struct {
	app.Credentials
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	DOB       string      `json:"dob"`
	Role      domain.Role `json:"role"`
	Section   string      `json:"section"`
}

func (h *userHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, token, err := h.users.Signup(r.Context(), req.Credentials, domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		DOB:       req.DOB,
		Role:      req.Role,
		Section:   req.Section,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.cookies.set(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (h *userHandler) signin(w http.ResponseWriter, r *http.Request) {
	var creds app.Credentials
	if err := decode(r, &creds); err != nil {
		writeError(w, err)
		return
	}
	user, token, err := h.users.Signin(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cookies.set(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (h *userHandler) signout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.users.Signout(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}
	h.cookies.clear(w)
	w.WriteHeader(http.StatusOK)
}

func (h *userHandler) profile(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	writeJSON(w, http.StatusOK, user)
}

func (h *userHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), domain.UserFilter{
		Role: domain.Role(r.URL.Query().Get("role")),
		Name: r.URL.Query().Get("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *userHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *userHandler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := currentUser(r)
	var update app.UserUpdate
	if err := decode(r, &update); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.UpdateUser(r.Context(), actor, sessionToken(r), chi.URLParam(r, "userId"), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *userHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := currentUser(r)
	if err := h.users.DeleteUser(r.Context(), actor, chi.URLParam(r, "userId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
