package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/core/ports"
)

// Bootstrap decides where the app lands after process start. It performs two
// local storage reads and one token decode; it never touches the network.
type Bootstrap struct {
	store *Store
	nav   ports.Navigator
	log   zerolog.Logger
}

func NewBootstrap(store *Store, nav ports.Navigator, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{store: store, nav: nav, log: log.With().Str("component", "bootstrap").Logger()}
}

// Run evaluates the stored session and navigates to the starting area.
//
//  1. A session-only login never survives a restart: drop the credential and
//     the flag, land on login.
//  2. No credential, no session: land on login.
//  3. Otherwise route by the unverified role decode; therapist goes to the
//     therapist area, anything else to the client area.
func (b *Bootstrap) Run(ctx context.Context) (domain.Destination, error) {
	sessionOnly, err := b.store.IsSessionOnly(ctx)
	if err != nil {
		return "", err
	}
	if sessionOnly {
		if err := b.store.ClearToken(ctx); err != nil {
			return "", err
		}
		if err := b.store.ClearSessionOnly(ctx); err != nil {
			return "", err
		}
		b.log.Info().Msg("session-only login discarded on restart")
		b.nav.Replace(domain.DestLogin)
		return domain.DestLogin, nil
	}

	token, err := b.store.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		b.nav.Replace(domain.DestLogin)
		return domain.DestLogin, nil
	}

	role := RoleFromToken(token)
	dest := domain.StartDestination(role)
	b.log.Info().Str("role", string(role)).Str("dest", string(dest)).Msg("session resumed")
	b.nav.Replace(dest)
	return dest, nil
}
