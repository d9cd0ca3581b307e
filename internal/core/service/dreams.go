package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/transport"
)

// DreamService registers dreams on the client side and lets the therapist
// read and annotate them.
type DreamService struct {
	api *transport.Client
}

func NewDreamService(api *transport.Client) *DreamService {
	return &DreamService{api: api}
}

// Create registers a dream for the authenticated client. Clients do not list
// dreams back; only the receipt is returned.
func (s *DreamService) Create(ctx context.Context, description string) (*domain.DreamReceipt, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return nil, errors.New("dream description is required")
	}

	var out domain.DreamReceipt
	if err := s.api.Post(ctx, "/dreams", map[string]string{"description": desc}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByClient returns a client's dreams. Therapist only.
func (s *DreamService) ListByClient(ctx context.Context, clientID int64) ([]domain.Dream, error) {
	var out []domain.Dream
	if err := s.api.Get(ctx, fmt.Sprintf("/dreams/%d", clientID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update patches the therapist's tags and notes on a dream. Nil fields are
// omitted and stay untouched; whitespace-only values are sent as explicit
// nulls so the backend clears the stored value instead of keeping blanks.
func (s *DreamService) Update(ctx context.Context, dreamID int64, payload domain.DreamUpdate) (*domain.Dream, error) {
	normalized := map[string]any{}
	putOptional(normalized, "therapist_tags", payload.TherapistTags)
	putOptional(normalized, "therapist_notes", payload.TherapistNotes)

	var out domain.Dream
	if err := s.api.Patch(ctx, fmt.Sprintf("/dreams/%d", dreamID), normalized, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func putOptional(dst map[string]any, key string, v *string) {
	if v == nil {
		return
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		dst[key] = trimmed
		return
	}
	dst[key] = nil
}
