package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"kambaz-quiz-service/internal/domain"
)

// Credentials is a username/password pair from signup or signin.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserUpdate is a partial profile change; nil fields are left alone.
type UserUpdate struct {
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Email     *string      `json:"email"`
	DOB       *string      `json:"dob"`
	Section   *string      `json:"section"`
	Role      *domain.Role `json:"role"`
	Password  *string      `json:"password"`
}

// UserService handles accounts and sign-in sessions. The signed-in user lives
// only in the session store; callers pass it explicitly to other services.
type UserService struct {
	users    UserRepository
	sessions SessionRepository
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

func NewUserService(users UserRepository, sessions SessionRepository) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Signup creates an account from creds and profile and signs it in. Role
// defaults to STUDENT; ADMIN cannot be self-assigned.
func (s *UserService) Signup(ctx context.Context, creds Credentials, profile domain.User) (domain.User, string, error) {
	if err := s.validate.Struct(creds); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if _, err := s.users.FindByUsername(ctx, creds.Username); err == nil {
		return domain.User{}, "", domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", err
	}
	if profile.Role == "" {
		profile.Role = domain.RoleStudent
	}
	if profile.Role == domain.RoleAdmin {
		return domain.User{}, "", domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}
	now := s.now().UTC()
	user := profile
	user.ID = s.newID()
	user.Username = creds.Username
	user.PasswordHash = string(hash)
	user.LastActivity = &now
	if err := s.validate.Struct(user); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.sessions.Create(ctx, user.Public())
	if err != nil {
		return domain.User{}, "", err
	}
	return user.Public(), token, nil
}

// Signin checks creds and opens a session.
func (s *UserService) Signin(ctx context.Context, creds Credentials) (domain.User, string, error) {
	user, err := s.users.FindByUsername(ctx, creds.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	user.LastActivity = &now
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return domain.User{}, "", err
	}
	token, err := s.sessions.Create(ctx, user.Public())
	if err != nil {
		return domain.User{}, "", err
	}
	return user.Public(), token, nil
}

func (s *UserService) Signout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Current resolves a session token to its user. The account is re-read so a
// deleted user loses the session and role changes apply immediately.
func (s *UserService) Current(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrSessionNotFound
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.GetUser(ctx, session.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = s.sessions.Delete(ctx, token)
		return domain.User{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user.Public(), nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	return user.Public(), nil
}

func (s *UserService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	users, err := s.users.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// UpdateUser applies a profile change. Users may edit themselves; admins may
// edit anyone and are the only ones who can change roles. When actor edits
// their own account the session under token is refreshed.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.User, token, userID string, update UserUpdate) (domain.User, error) {
	self := actor.ID == userID
	if !self && actor.Role != domain.RoleAdmin {
		return domain.User{}, domain.ErrForbidden
	}
	if update.Role != nil && actor.Role != domain.RoleAdmin {
		return domain.User{}, domain.ErrForbidden
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	applyString(&user.FirstName, update.FirstName)
	applyString(&user.LastName, update.LastName)
	applyString(&user.Email, update.Email)
	applyString(&user.DOB, update.DOB)
	applyString(&user.Section, update.Section)
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Password != nil {
		if *update.Password == "" {
			return domain.User{}, fmt.Errorf("%w: empty password", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.validate.Struct(user); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	if self && token != "" {
		if err := s.sessions.Save(ctx, token, user.Public()); err != nil {
			return domain.User{}, err
		}
	}
	return user.Public(), nil
}

// DeleteUser removes an account; allowed for the account itself and admins.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.User, userID string) error {
	if actor.ID != userID && actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.users.DeleteUser(ctx, userID)
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
