package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	"kambaz-quiz-service/internal/domain"
)

const uniqueViolation = "23505"

// UserStore keeps user accounts as JSONB in the users table. Usernames are
// unique through an expression index on data->>'username'.
type UserStore struct {
	docs collection[domain.User]
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{docs: collection[domain.User]{pool: pool, table: "users", notFound: domain.ErrUserNotFound}}
}

func (s *UserStore) CreateUser(ctx context.Context, user domain.User) error {
	return usernameTaken(s.docs.insert(ctx, user.ID, user))
}

func (s *UserStore) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.docs.get(ctx, userID)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	users, err := s.docs.find(ctx, `data->>'username' = $1`, "", username)
	if err != nil {
		return domain.User{}, err
	}
	if len(users) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return users[0], nil
}

func (s *UserStore) UpdateUser(ctx context.Context, user domain.User) error {
	ok, err := s.docs.replace(ctx, user.ID, user, "")
	if err != nil {
		return usernameTaken(err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, userID string) error {
	return s.docs.delete(ctx, userID)
}

func (s *UserStore) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	role := string(filter.Role)
	if role == "ALL" {
		role = ""
	}
	return s.docs.find(ctx,
		`($1 = '' OR data->>'role' = $1)
		 AND ($2 = '' OR data->>'firstName' ILIKE '%' || $2 || '%' OR data->>'lastName' ILIKE '%' || $2 || '%')`,
		`created_at`,
		role, filter.Name,
	)
}

func usernameTaken(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrUsernameTaken
	}
	return err
}
