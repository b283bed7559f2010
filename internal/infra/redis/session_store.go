package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"kambaz-quiz-service/internal/domain"
)

// SessionStore keeps signed-in users in Redis as JSON under session:{token},
// so sessions survive restarts and are shared between instances. Every read
// extends the key's TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, user domain.User) (string, error) {
	token := uuid.NewString()
	if err := s.write(ctx, token, user); err != nil {
		return "", err
	}
	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.User, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.User{}, err
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	}
	return user, nil
}

func (s *SessionStore) Save(ctx context.Context, token string, user domain.User) error {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return s.write(ctx, token, user)
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) write(ctx context.Context, token string, user domain.User) error {
	data, err := json.Marshal(user.Public())
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(token), data, s.ttl).Err()
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}
