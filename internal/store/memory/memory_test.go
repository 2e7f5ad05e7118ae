package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/notibox/internal/store/core"
)

func seed(id, username, email, key string) *core.User {
	return &core.User{
		ID:              id,
		Username:        username,
		Email:           email,
		APIKey:          key,
		CreatedAt:       time.Now().UTC(),
		LastResetDate:   time.Now().UTC(),
		IsActive:        true,
		DailyEmailLimit: core.DefaultDailyEmailLimit,
	}
}

func TestCreateAndLookups(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := seed("id-1", "Alice", "Alice@Example.com", "key-1")
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Las búsquedas por username/email son case-insensitive; por key no.
	if _, err := s.GetByUsername(ctx, "alice"); err != nil {
		t.Fatalf("getByUsername: %v", err)
	}
	if _, err := s.GetByEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("getByEmail: %v", err)
	}
	if _, err := s.GetByAPIKey(ctx, "key-1"); err != nil {
		t.Fatalf("getByAPIKey: %v", err)
	}
	if _, err := s.GetByAPIKey(ctx, "KEY-1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("api key lookup should be case-sensitive, got %v", err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreate_Conflicts(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, seed("id-1", "alice", "alice@x.com", "key-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		name  string
		user  *core.User
		field string
	}{
		{"username", seed("id-2", "ALICE", "other@x.com", "key-2"), "username"},
		{"email", seed("id-3", "bob", "ALICE@X.COM", "key-3"), "email"},
		{"api key", seed("id-4", "carol", "carol@x.com", "key-1"), "api_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Create(ctx, tc.user)
			var conflict *core.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("want *ConflictError, got %v", err)
			}
			if conflict.Field != tc.field {
				t.Fatalf("conflict field = %q, want %q", conflict.Field, tc.field)
			}
			if !errors.Is(err, core.ErrConflict) {
				t.Fatal("conflict does not unwrap to ErrConflict")
			}
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := seed("id-1", "alice", "alice@x.com", "key-1")
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	u.EmailsSentToday = 7
	if !s.Update(ctx, u) {
		t.Fatal("update failed")
	}
	got, _ := s.GetByID(ctx, "id-1")
	if got.EmailsSentToday != 7 {
		t.Fatalf("counter = %d after update", got.EmailsSentToday)
	}

	if s.Update(ctx, seed("missing", "x", "x@x.com", "k")) {
		t.Fatal("update succeeded for unknown user")
	}

	if !s.Delete(ctx, "id-1") {
		t.Fatal("delete failed")
	}
	if s.Delete(ctx, "id-1") {
		t.Fatal("second delete succeeded")
	}
}

func TestClonesAreIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, seed("id-1", "alice", "alice@x.com", "key-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutar lo retornado no toca el store.
	got, _ := s.GetByID(ctx, "id-1")
	got.EmailsSentToday = 999

	fresh, _ := s.GetByID(ctx, "id-1")
	if fresh.EmailsSentToday != 0 {
		t.Fatal("store state leaked through a returned pointer")
	}
}

func TestList(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, name := range []string{"alice", "bob", "carol"} {
		u := seed(name, name, name+"@x.com", "key-"+name)
		u.EmailsSentToday = i
		if err := s.Create(ctx, u); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	users, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("list returned %d users, want 3", len(users))
	}
}
