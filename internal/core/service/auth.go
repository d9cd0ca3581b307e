package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/session"
	"github.com/elomind/elomind-client/internal/transport"
)

// AuthService drives the login, logout and password-recovery flows.
type AuthService struct {
	api   *transport.Client
	store *session.Store
	log   zerolog.Logger
}

func NewAuthService(api *transport.Client, store *session.Store, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, store: store, log: log.With().Str("component", "auth").Logger()}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// LoginResult reports where the user should land and under which role.
type LoginResult struct {
	Role        domain.Role
	Destination domain.Destination
}

// Login authenticates and prepares the session:
//
//  1. persist the remember-me preference,
//  2. exchange credentials for a bearer token and store it,
//  3. mark the session as session-only when remember is off,
//  4. best-effort resolve and cache the role from /auth/me.
//
// A failing /auth/me never fails the login; the role simply stays unknown and
// routing falls back to the client area.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	if err := s.store.SaveRemember(ctx, email, remember); err != nil {
		return nil, err
	}

	var res loginResponse
	if err := s.api.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, errors.New("login response carried no token")
	}

	if err := s.store.SaveToken(ctx, res.AccessToken); err != nil {
		return nil, err
	}
	if err := s.store.SetSessionOnly(ctx, !remember); err != nil {
		return nil, err
	}
	// A fresh session re-arms the forced-logout latch.
	s.api.ResetLogoutGuard()

	role := s.resolveRole(ctx)
	s.log.Info().Str("role", string(role)).Msg("login complete")

	return &LoginResult{Role: role, Destination: domain.StartDestination(role)}, nil
}

func (s *AuthService) resolveRole(ctx context.Context) domain.Role {
	profile, err := s.Me(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("role resolution failed, clearing cache")
		_ = s.store.ClearCachedRole(ctx)
		return ""
	}

	role := profile.ResolveRole()
	if err := s.store.SaveCachedRole(ctx, role); err != nil {
		s.log.Debug().Err(err).Msg("caching role failed")
	}
	return role
}

// Me fetches the authenticated profile.
func (s *AuthService) Me(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := s.api.Get(ctx, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ForgotPassword starts the recovery flow for an email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.api.Post(ctx, "/auth/forgot-password", map[string]string{"email": strings.TrimSpace(email)}, nil)
}

// ResetPassword completes the recovery flow with the emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, password string) error {
	payload := map[string]string{
		"email":    email,
		"token":    strings.TrimSpace(token),
		"password": password,
	}
	return s.api.Post(ctx, "/auth/reset-password", payload, nil)
}

// Logout is the user-initiated teardown: credential, session-only flag and
// cached role all go.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.ClearToken(ctx); err != nil {
		return err
	}
	if err := s.store.ClearSessionOnly(ctx); err != nil {
		return err
	}
	return s.store.ClearCachedRole(ctx)
}
