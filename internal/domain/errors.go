package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz does not exist or is hidden from the caller.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned when an attempt id does not resolve.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrUserNotFound is returned when a user id or username does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned when a session token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAttemptLimitReached is the refusal returned when a user may not start another attempt.
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	// ErrNotAttemptOwner is returned when someone other than the attempt's user acts on it.
	ErrNotAttemptOwner = errors.New("not the owner of this attempt")
	// ErrAttemptCompleted is returned when submitting an attempt that was already graded.
	ErrAttemptCompleted = errors.New("attempt already completed")
	// ErrForbidden is returned when the caller's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrUsernameTaken is returned on signup with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when signin fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
