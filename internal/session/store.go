// Package session owns everything about the local session: the token store
// over persistent key-value storage, the unverified role decode used for
// routing, and the start-up bootstrap that picks the first screen.
package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/core/ports"
)

// Storage keys. Booleans are stored as "1"/"0" strings.
const (
	keyToken       = "elomind_token"
	keyEmail       = "elomind_email"
	keyRemember    = "elomind_remember"
	keySessionOnly = "elomind_session_only"
	keyCachedRole  = "elomind_user_role"
)

// Store persists the bearer credential and the small session flags around it.
// All reads and writes go straight to the KeyValue backend; absence of a key
// is a normal result, not an error.
type Store struct {
	kv  ports.KeyValue
	log zerolog.Logger
}

func NewStore(kv ports.KeyValue, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log.With().Str("component", "session").Logger()}
}

// SaveToken stores the bearer credential.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, keyToken, token); err != nil {
		return err
	}
	s.log.Debug().Msg("credential stored")
	return nil
}

// Token returns the stored credential, or "" when none exists.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, keyToken)
	return v, err
}

// ClearToken drops the stored credential.
func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyToken); err != nil {
		return err
	}
	s.log.Debug().Msg("credential cleared")
	return nil
}

// SaveRemember records the remember-me preference. The email is only kept
// while remember is on.
func (s *Store) SaveRemember(ctx context.Context, email string, remember bool) error {
	if err := s.kv.Set(ctx, keyRemember, boolFlag(remember)); err != nil {
		return err
	}
	if remember {
		return s.kv.Set(ctx, keyEmail, email)
	}
	return s.kv.Delete(ctx, keyEmail)
}

// LoadRemember returns the remember-me preference and the remembered email.
// A never-set preference defaults to remembering; with remember off the
// email always comes back empty.
func (s *Store) LoadRemember(ctx context.Context) (remember bool, email string, err error) {
	raw, found, err := s.kv.Get(ctx, keyRemember)
	if err != nil {
		return false, "", err
	}
	remember = !found || raw == "1"

	if !remember {
		return false, "", nil
	}
	email, _, err = s.kv.Get(ctx, keyEmail)
	return remember, email, err
}

// SetSessionOnly marks the current login as not surviving an app restart.
func (s *Store) SetSessionOnly(ctx context.Context, sessionOnly bool) error {
	return s.kv.Set(ctx, keySessionOnly, boolFlag(sessionOnly))
}

// IsSessionOnly reports whether the stored login is session-scoped.
func (s *Store) IsSessionOnly(ctx context.Context) (bool, error) {
	raw, _, err := s.kv.Get(ctx, keySessionOnly)
	return raw == "1", err
}

// ClearSessionOnly removes the session-only flag.
func (s *Store) ClearSessionOnly(ctx context.Context) error {
	return s.kv.Delete(ctx, keySessionOnly)
}

// SaveCachedRole caches the role resolved from /auth/me at login time.
func (s *Store) SaveCachedRole(ctx context.Context, role domain.Role) error {
	if role == "" {
		return s.kv.Delete(ctx, keyCachedRole)
	}
	return s.kv.Set(ctx, keyCachedRole, string(role))
}

// CachedRole returns the cached role, or "" when none (or an unknown value)
// is stored.
func (s *Store) CachedRole(ctx context.Context) (domain.Role, error) {
	raw, _, err := s.kv.Get(ctx, keyCachedRole)
	if err != nil {
		return "", err
	}
	return domain.ParseRole(raw), nil
}

// ClearCachedRole removes the cached role.
func (s *Store) ClearCachedRole(ctx context.Context) error {
	return s.kv.Delete(ctx, keyCachedRole)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
