package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/transport"
)

// InvitationService covers the invite-only onboarding: a therapist issues an
// invitation, the invitee validates the emailed token and signs up with it.
type InvitationService struct {
	api *transport.Client
}

func NewInvitationService(api *transport.Client) *InvitationService {
	return &InvitationService{api: api}
}

// Validate checks an invitation token and returns the invited email.
// Public route; the backend expects the token as a query parameter.
func (s *InvitationService) Validate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("invitation token is required")
	}

	var out struct {
		Email string `json:"email"`
	}
	query := url.Values{"token": {token}}
	if err := s.api.Get(ctx, "/invitations/validate", query, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

// Signup creates a client account from a validated invitation. Public route.
func (s *InvitationService) Signup(ctx context.Context, signup domain.InviteSignup) error {
	signup.Token = strings.TrimSpace(signup.Token)
	signup.Name = strings.TrimSpace(signup.Name)
	if signup.Token == "" {
		return errors.New("invitation token is required")
	}
	if signup.Name == "" {
		return errors.New("name is required")
	}
	if len(signup.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	return s.api.Post(ctx, "/invitations/signup", signup, nil)
}

// Send issues a new invitation to an email. Therapist only.
func (s *InvitationService) Send(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	return s.api.Post(ctx, "/invitations", map[string]string{"email": email}, nil)
}
