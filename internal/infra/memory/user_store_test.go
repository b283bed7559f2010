package memory

import (
	"context"
	"testing"

	"kambaz-quiz-service/internal/domain"
)

func TestUserStoreUniqueUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	if err := store.CreateUser(ctx, domain.User{ID: "u1", Username: "alice", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "u2", Username: "alice"}); err != domain.ErrUsernameTaken {
		t.Fatalf("expected username taken, got %v", err)
	}

	user, err := store.FindByUsername(ctx, "alice")
	if err != nil || user.ID != "u1" {
		t.Fatalf("expected u1, got %+v err=%v", user, err)
	}

	user.Username = "alice2"
	if err := store.UpdateUser(ctx, user); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := store.FindByUsername(ctx, "alice"); err != domain.ErrUserNotFound {
		t.Fatalf("expected old username released, got %v", err)
	}

	if err := store.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetUser(ctx, "u1"); err != domain.ErrUserNotFound {
		t.Fatalf("expected deleted, got %v", err)
	}
}

func TestUserStoreListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	_ = store.CreateUser(ctx, domain.User{ID: "u1", Username: "a", FirstName: "Ada", Role: domain.RoleStudent})
	_ = store.CreateUser(ctx, domain.User{ID: "u2", Username: "b", FirstName: "Grace", Role: domain.RoleFaculty})

	got, err := store.ListUsers(ctx, domain.UserFilter{Role: domain.RoleFaculty})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u2" {
		t.Fatalf("expected only u2, got %+v", got)
	}
}
