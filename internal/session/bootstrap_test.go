package session

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
)

type fakeNavigator struct {
	replaced []domain.Destination
}

func (f *fakeNavigator) Replace(dest domain.Destination) {
	f.replaced = append(f.replaced, dest)
}

func TestBootstrap_NoToken(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	nav := &fakeNavigator{}

	dest, err := NewBootstrap(store, nav, zerolog.Nop()).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if dest != domain.DestLogin {
		t.Fatalf("expected login destination, got %q", dest)
	}
	if len(nav.replaced) != 1 || nav.replaced[0] != domain.DestLogin {
		t.Fatalf("expected one replace to login, got %v", nav.replaced)
	}
}

func TestBootstrap_SessionOnlyDiscardsToken(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	nav := &fakeNavigator{}

	token := signedToken(t, jwt.MapClaims{"sub": "7", "role": "therapist"})
	if err := store.SaveToken(ctx, token); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := store.SetSessionOnly(ctx, true); err != nil {
		t.Fatalf("set session only: %v", err)
	}

	dest, err := NewBootstrap(store, nav, zerolog.Nop()).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if dest != domain.DestLogin {
		t.Fatalf("expected login destination, got %q", dest)
	}

	if got, _ := store.Token(ctx); got != "" {
		t.Fatalf("expected token discarded, got %q", got)
	}
	if on, _ := store.IsSessionOnly(ctx); on {
		t.Fatalf("expected session-only flag cleared")
	}
}

func TestBootstrap_RoutesByRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want domain.Destination
	}{
		{"therapist", "therapist", domain.DestTherapistHome},
		{"client", "client", domain.DestClientHome},
		{"unknown role falls back to client area", "admin", domain.DestClientHome},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore()
			nav := &fakeNavigator{}

			token := signedToken(t, jwt.MapClaims{"sub": "1", "role": tc.role})
			if err := store.SaveToken(ctx, token); err != nil {
				t.Fatalf("save token: %v", err)
			}

			dest, err := NewBootstrap(store, nav, zerolog.Nop()).Run(ctx)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if dest != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, dest)
			}
			if len(nav.replaced) != 1 || nav.replaced[0] != tc.want {
				t.Fatalf("expected one replace to %q, got %v", tc.want, nav.replaced)
			}
		})
	}
}

func TestBootstrap_GarbledTokenStillLands(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	nav := &fakeNavigator{}

	if err := store.SaveToken(ctx, "not-a-jwt"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	dest, err := NewBootstrap(store, nav, zerolog.Nop()).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// An undecodable credential routes to the client area; the first API
	// call answers 401 and the transport layer cleans up from there.
	if dest != domain.DestClientHome {
		t.Fatalf("expected client home, got %q", dest)
	}
}
