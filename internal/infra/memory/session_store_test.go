package memory

import (
	"context"
	"testing"
	"time"

	"kambaz-quiz-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)

	token, err := store.Create(ctx, domain.User{ID: "u1", Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	user, err := store.Get(ctx, token)
	if err != nil || user.ID != "u1" {
		t.Fatalf("expected u1, got %+v err=%v", user, err)
	}

	if err := store.Save(ctx, token, domain.User{ID: "u1", Username: "alice", FirstName: "Alice"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	user, _ = store.Get(ctx, token)
	if user.FirstName != "Alice" {
		t.Fatalf("expected refreshed user, got %+v", user)
	}

	_ = store.Delete(ctx, token)
	if _, err := store.Get(ctx, token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestSessionStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Minute)
	store.clock = func() time.Time { return now }

	token, _ := store.Create(ctx, domain.User{ID: "u1"})
	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}
