package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/transport"
)

func feedbackByReflectionRoutes(reflectionID int64) transport.RoutePair {
	return transport.RoutePair{
		Primary: fmt.Sprintf("/feedback/reflection/%d", reflectionID),
		Legacy:  fmt.Sprintf("/feedback/by-reflection/%d", reflectionID),
	}
}

// FeedbackService drives the AI-feedback workflow: the therapist generates a
// draft per reflection, edits and approves or rejects it; the client reads
// approved feedback back.
type FeedbackService struct {
	api *transport.Client
}

func NewFeedbackService(api *transport.Client) *FeedbackService {
	return &FeedbackService{api: api}
}

// Generate asks the backend to draft AI feedback for a reflection.
// Therapist only.
func (s *FeedbackService) Generate(ctx context.Context, reflectionID int64) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := s.api.Post(ctx, fmt.Sprintf("/feedback/generate/%d", reflectionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPending returns drafts awaiting the therapist's review.
func (s *FeedbackService) ListPending(ctx context.Context) ([]domain.Feedback, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/feedback/pending", nil, &raw); err != nil {
		return nil, err
	}
	return asList[domain.Feedback](raw), nil
}

// Approve releases a draft to the client, with the therapist's final edits.
func (s *FeedbackService) Approve(ctx context.Context, feedbackID int64, payload domain.ApproveFeedback) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := s.api.Patch(ctx, fmt.Sprintf("/feedback/%d/approve", feedbackID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject discards a draft with an optional note.
func (s *FeedbackService) Reject(ctx context.Context, feedbackID int64, payload domain.RejectFeedback) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := s.api.Patch(ctx, fmt.Sprintf("/feedback/%d/reject", feedbackID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientByReflection returns the approved feedback for one of the client's
// own reflections. Client only.
func (s *FeedbackService) ClientByReflection(ctx context.Context, reflectionID int64) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := s.api.Get(ctx, fmt.Sprintf("/feedback/by-reflection/%d", reflectionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TherapistByReflection returns the feedback for a reflection in any status.
// Therapist only.
func (s *FeedbackService) TherapistByReflection(ctx context.Context, reflectionID int64) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := s.api.Get(ctx, fmt.Sprintf("/feedback/therapist/by-reflection/%d", reflectionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByReflection is the role-agnostic lookup with the legacy-route fallback.
// Kept for screens that render either side of the relationship.
func (s *FeedbackService) ByReflection(ctx context.Context, reflectionID int64) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := s.api.GetFallback(ctx, feedbackByReflectionRoutes(reflectionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByClient returns a client's reviewed feedback history, filtered by
// status. Default: approved and rejected. Therapist only.
func (s *FeedbackService) ListByClient(ctx context.Context, clientID int64, statuses string) ([]domain.Feedback, error) {
	if statuses == "" {
		statuses = "approved,rejected"
	}
	query := url.Values{"status": {statuses}}

	var raw json.RawMessage
	if err := s.api.Get(ctx, fmt.Sprintf("/feedback/by-client/%d", clientID), query, &raw); err != nil {
		return nil, err
	}
	return asList[domain.Feedback](raw), nil
}
