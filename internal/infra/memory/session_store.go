package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"kambaz-quiz-service/internal/domain"
)

// SessionStore is an in-memory app.SessionRepository. Sessions slide: every
// successful Get pushes the expiry out by ttl. A zero ttl never expires.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]session
}

type session struct {
	user      domain.User
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]session),
	}
}

func (s *SessionStore) Create(_ context.Context, user domain.User) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{user: user, expiresAt: s.expiry()}
	return token, nil
}

func (s *SessionStore) Get(_ context.Context, token string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return domain.User{}, domain.ErrSessionNotFound
	}
	if s.ttl > 0 && !entry.expiresAt.After(s.clock()) {
		delete(s.sessions, token)
		return domain.User{}, domain.ErrSessionNotFound
	}
	entry.expiresAt = s.expiry()
	s.sessions[token] = entry
	return entry.user, nil
}

func (s *SessionStore) Save(_ context.Context, token string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[token] = session{user: user, expiresAt: s.expiry()}
	return nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.clock().Add(s.ttl)
}
