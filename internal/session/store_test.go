package session

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/storage"
)

func newTestStore() *Store {
	return NewStore(storage.NewMemory(), zerolog.Nop())
}

func TestStore_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	token, err := s.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}

	if err := s.SaveToken(ctx, "abc.def.ghi"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	token, err = s.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("expected stored token, got %q", token)
	}

	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	token, _ = s.Token(ctx)
	if token != "" {
		t.Fatalf("expected cleared token, got %q", token)
	}
}

func TestStore_RememberDefaultsOn(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	remember, email, err := s.LoadRemember(ctx)
	if err != nil {
		t.Fatalf("load remember: %v", err)
	}
	if !remember {
		t.Fatalf("expected remember to default on")
	}
	if email != "" {
		t.Fatalf("expected no remembered email, got %q", email)
	}
}

func TestStore_RememberOnKeepsEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	if err := s.SaveRemember(ctx, "ana@example.com", true); err != nil {
		t.Fatalf("save remember: %v", err)
	}
	remember, email, err := s.LoadRemember(ctx)
	if err != nil {
		t.Fatalf("load remember: %v", err)
	}
	if !remember || email != "ana@example.com" {
		t.Fatalf("expected (true, ana@example.com), got (%v, %q)", remember, email)
	}
}

func TestStore_RememberOffDropsEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	if err := s.SaveRemember(ctx, "ana@example.com", true); err != nil {
		t.Fatalf("save remember: %v", err)
	}
	if err := s.SaveRemember(ctx, "ana@example.com", false); err != nil {
		t.Fatalf("save remember off: %v", err)
	}

	remember, email, err := s.LoadRemember(ctx)
	if err != nil {
		t.Fatalf("load remember: %v", err)
	}
	if remember {
		t.Fatalf("expected remember off")
	}
	if email != "" {
		t.Fatalf("expected email dropped, got %q", email)
	}
}

func TestStore_SessionOnlyFlag(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	on, err := s.IsSessionOnly(ctx)
	if err != nil {
		t.Fatalf("is session only: %v", err)
	}
	if on {
		t.Fatalf("expected session-only off by default")
	}

	if err := s.SetSessionOnly(ctx, true); err != nil {
		t.Fatalf("set session only: %v", err)
	}
	if on, _ = s.IsSessionOnly(ctx); !on {
		t.Fatalf("expected session-only on")
	}

	if err := s.ClearSessionOnly(ctx); err != nil {
		t.Fatalf("clear session only: %v", err)
	}
	if on, _ = s.IsSessionOnly(ctx); on {
		t.Fatalf("expected session-only cleared")
	}
}

func TestStore_CachedRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	role, err := s.CachedRole(ctx)
	if err != nil {
		t.Fatalf("cached role: %v", err)
	}
	if role != "" {
		t.Fatalf("expected no cached role, got %q", role)
	}

	if err := s.SaveCachedRole(ctx, domain.RoleTherapist); err != nil {
		t.Fatalf("save cached role: %v", err)
	}
	if role, _ = s.CachedRole(ctx); role != domain.RoleTherapist {
		t.Fatalf("expected therapist, got %q", role)
	}

	// Saving the empty role clears the cache.
	if err := s.SaveCachedRole(ctx, ""); err != nil {
		t.Fatalf("save empty role: %v", err)
	}
	if role, _ = s.CachedRole(ctx); role != "" {
		t.Fatalf("expected cleared role, got %q", role)
	}
}
