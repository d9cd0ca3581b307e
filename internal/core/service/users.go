package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/transport"
)

// UserService manages the therapist's client roster.
type UserService struct {
	api *transport.Client
}

func NewUserService(api *transport.Client) *UserService {
	return &UserService{api: api}
}

// ListClients returns the therapist's clients. Therapist only.
func (s *UserService) ListClients(ctx context.Context) ([]domain.ClientAccount, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/users/clients", nil, &raw); err != nil {
		return nil, err
	}
	return asList[domain.ClientAccount](raw), nil
}

// SetClientActive activates or deactivates a client account. A deactivated
// client is forced out of the app on their next request. Therapist only.
func (s *UserService) SetClientActive(ctx context.Context, userID int64, active bool) (*domain.ClientAccount, error) {
	var out domain.ClientAccount
	payload := map[string]bool{"is_active": active}
	if err := s.api.Patch(ctx, fmt.Sprintf("/users/%d/status", userID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
