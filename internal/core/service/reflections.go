package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/transport"
)

// Reflection route pairs. The therapist endpoints moved under /therapist;
// older backends still serve them at the root.
var (
	pendingReflectionsRoutes = transport.RoutePair{
		Primary: "/therapist/reflections/pending",
		Legacy:  "/reflections/pending",
	}
	therapistReflectionRoutes = func(id int64) transport.RoutePair {
		return transport.RoutePair{
			Primary: fmt.Sprintf("/therapist/reflections/%d", id),
			Legacy:  fmt.Sprintf("/reflections/%d", id),
		}
	}
)

// ReflectionService covers the client's own reflections and the therapist's
// review queue.
type ReflectionService struct {
	api *transport.Client
}

func NewReflectionService(api *transport.Client) *ReflectionService {
	return &ReflectionService{api: api}
}

// ListPending returns the therapist's queue of reflections awaiting review.
func (s *ReflectionService) ListPending(ctx context.Context) ([]domain.PendingReflection, error) {
	var raw json.RawMessage
	if err := s.api.GetFallback(ctx, pendingReflectionsRoutes, nil, &raw); err != nil {
		return nil, err
	}
	return asList[domain.PendingReflection](raw), nil
}

// TherapistDetail fetches one reflection as the treating therapist.
func (s *ReflectionService) TherapistDetail(ctx context.Context, id int64) (*domain.Reflection, error) {
	var out domain.Reflection
	if err := s.api.GetFallback(ctx, therapistReflectionRoutes(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMine returns the authenticated client's reflections.
func (s *ReflectionService) ListMine(ctx context.Context) ([]domain.ReflectionSummary, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/reflections/me", nil, &raw); err != nil {
		return nil, err
	}
	return asList[domain.ReflectionSummary](raw), nil
}

// MyDetail fetches one of the client's own reflections.
func (s *ReflectionService) MyDetail(ctx context.Context, id int64) (*domain.Reflection, error) {
	var out domain.Reflection
	if err := s.api.Get(ctx, fmt.Sprintf("/reflections/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits a new reflection. Note the trailing slash: the backend
// redirects the bare path and the redirect drops the method.
func (s *ReflectionService) Create(ctx context.Context, payload domain.CreateReflection) (*domain.Reflection, error) {
	if strings.TrimSpace(payload.FeelingAfterSession) == "" {
		return nil, errors.New("feeling_after_session is required")
	}

	var out domain.Reflection
	if err := s.api.Post(ctx, "/reflections/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes one of the client's reflections.
func (s *ReflectionService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, fmt.Sprintf("/reflections/%d", id))
}
