package domain

import "time"

// FeedbackStatus values the backend emits today. Kept as a string type so an
// unknown future status degrades gracefully instead of failing to decode.
type FeedbackStatus string

const (
	FeedbackPendingApproval FeedbackStatus = "pending_approval"
	FeedbackApproved        FeedbackStatus = "approved"
	FeedbackRejected        FeedbackStatus = "rejected"
)

// Feedback is an AI-drafted feedback record attached to one reflection.
// The therapist reviews, optionally edits and approves or rejects it before
// the client ever sees it.
type Feedback struct {
	ID           int64          `json:"id"`
	ReflectionID int64          `json:"reflection_id"`
	Status       FeedbackStatus `json:"status"`

	IAGeneratedContent   string  `json:"ia_generated_content"`
	IANeuroNutritionTip  *string `json:"ia_neuro_nutrition_tip,omitempty"`
	IAActivitySuggestion *string `json:"ia_activity_suggestion,omitempty"`
	TherapistApprovedBy  *int64  `json:"therapist_approved_by,omitempty"`
	TherapistNotes       *string `json:"therapist_notes,omitempty"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`

	// Listing extras some endpoints inline.
	ClientID            *int64     `json:"client_id,omitempty"`
	ClientName          *string    `json:"client_name,omitempty"`
	ReflectionCreatedAt *time.Time `json:"reflection_created_at,omitempty"`
}

// ApproveFeedback carries the therapist's (possibly edited) final content.
type ApproveFeedback struct {
	IAGeneratedContent   *string `json:"ia_generated_content,omitempty"`
	IANeuroNutritionTip  *string `json:"ia_neuro_nutrition_tip,omitempty"`
	IAActivitySuggestion *string `json:"ia_activity_suggestion,omitempty"`
	TherapistNotes       *string `json:"therapist_notes,omitempty"`
}

// RejectFeedback carries the rejection note.
type RejectFeedback struct {
	TherapistNotes *string `json:"therapist_notes,omitempty"`
}
