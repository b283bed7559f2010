package domain

import (
	"strings"
	"time"
)

// Role is a user's role in the LMS.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
	RoleAdmin   Role = "ADMIN"
	RoleTA      Role = "TA"
)

// User is an LMS account. PasswordHash is persisted but must never leave the
// service; use Public before returning or caching a user.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username" validate:"required"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email" validate:"omitempty,email"`
	DOB          string     `json:"dob,omitempty"`
	Role         Role       `json:"role" validate:"oneof=STUDENT FACULTY ADMIN TA"`
	Section      string     `json:"section,omitempty"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

// Public strips credentials.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// CanManageQuizzes reports whether the user may author and publish quizzes.
func (u User) CanManageQuizzes() bool {
	return u.Role == RoleFaculty || u.Role == RoleAdmin
}

// UserFilter selects users in a listing.
type UserFilter struct {
	Role Role   // "" or "ALL" means any role
	Name string // case-insensitive substring of first or last name
}

func (f UserFilter) Match(u User) bool {
	if f.Role != "" && f.Role != "ALL" && u.Role != f.Role {
		return false
	}
	if f.Name != "" {
		name := strings.ToLower(f.Name)
		if !strings.Contains(strings.ToLower(u.FirstName), name) &&
			!strings.Contains(strings.ToLower(u.LastName), name) {
			return false
		}
	}
	return true
}
