package memory

import (
	"context"
	"sync"

	"kambaz-quiz-service/internal/domain"
)

// UserStore is an in-memory app.UserRepository with a unique username index.
type UserStore struct {
	mu         sync.Mutex
	docs       *documents[domain.User]
	byUsername map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		docs:       newDocuments[domain.User](),
		byUsername: make(map[string]string),
	}
}

func (s *UserStore) CreateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[user.Username]; taken {
		return domain.ErrUsernameTaken
	}
	if err := s.docs.put(user.ID, user); err != nil {
		return err
	}
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *UserStore) GetUser(_ context.Context, userID string) (domain.User, error) {
	user, ok, err := s.docs.get(userID)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	id, ok := s.byUsername[username]
	s.mu.Unlock()
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *UserStore) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, taken := s.byUsername[user.Username]; taken && owner != user.ID {
		return domain.ErrUsernameTaken
	}
	var previous string
	ok, err := s.docs.update(user.ID, func(stored *domain.User) error {
		previous = stored.Username
		*stored = user
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	if previous != user.Username {
		delete(s.byUsername, previous)
		s.byUsername[user.Username] = user.ID
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok, err := s.docs.get(userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	s.docs.remove(userID)
	delete(s.byUsername, user.Username)
	return nil
}

func (s *UserStore) ListUsers(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.docs.find(filter.Match)
}
