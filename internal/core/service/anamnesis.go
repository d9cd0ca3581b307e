package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/transport"
)

// AnamnesisService maintains the therapist's clinical summary per client.
// Therapist only; clients have no access to this resource.
type AnamnesisService struct {
	api *transport.Client
}

func NewAnamnesisService(api *transport.Client) *AnamnesisService {
	return &AnamnesisService{api: api}
}

// Get fetches the anamnesis for a client.
func (s *AnamnesisService) Get(ctx context.Context, clientID int64) (*domain.Anamnesis, error) {
	var out domain.Anamnesis
	if err := s.api.Get(ctx, fmt.Sprintf("/anamnesis/%d", clientID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create writes the first anamnesis for a client. One per therapist/client
// pair; the backend rejects duplicates.
func (s *AnamnesisService) Create(ctx context.Context, clientID int64, summary string) (*domain.Anamnesis, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, errors.New("summary is required")
	}

	var out domain.Anamnesis
	payload := domain.AnamnesisInput{Summary: summary}
	if err := s.api.Post(ctx, fmt.Sprintf("/anamnesis/%d", clientID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the client's anamnesis summary.
func (s *AnamnesisService) Update(ctx context.Context, clientID int64, summary string) (*domain.Anamnesis, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, errors.New("summary is required")
	}

	var out domain.Anamnesis
	payload := domain.AnamnesisInput{Summary: summary}
	if err := s.api.Patch(ctx, fmt.Sprintf("/anamnesis/%d", clientID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
