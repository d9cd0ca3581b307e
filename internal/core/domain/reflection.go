package domain

import "time"

// PendingReflection is a row in the therapist's review queue.
type PendingReflection struct {
	ID                  int64     `json:"id"`
	ClientID            int64     `json:"client_id"`
	ClientName          string    `json:"client_name"`
	FeelingAfterSession string    `json:"feeling_after_session"`
	CreatedAt           time.Time `json:"created_at"`
	FeedbackStatus      *string   `json:"feedback_status,omitempty"`
}

// Reflection is the full record a client submits after a session.
type Reflection struct {
	ID                       int64     `json:"id"`
	ClientID                 int64     `json:"client_id"`
	ClientName               string    `json:"client_name,omitempty"`
	FeelingAfterSession      string    `json:"feeling_after_session"`
	WhatLearned              string    `json:"what_learned"`
	PositivePoint            string    `json:"positive_point"`
	ResistanceOrDisagreement *string   `json:"resistance_or_disagreement,omitempty"`
	CreatedAt                time.Time `json:"created_at"`

	// LastFeedback is populated only when the backend inlines it.
	LastFeedback *Feedback `json:"last_feedback,omitempty"`
}

// ReflectionSummary is the trimmed listing shape of "my reflections".
type ReflectionSummary struct {
	ID                  int64     `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	FeelingAfterSession string    `json:"feeling_after_session"`
	FeedbackStatus      *string   `json:"feedback_status,omitempty"`
}

// CreateReflection is the payload for submitting a new reflection.
type CreateReflection struct {
	FeelingAfterSession      string  `json:"feeling_after_session"`
	WhatLearned              string  `json:"what_learned"`
	PositivePoint            string  `json:"positive_point"`
	ResistanceOrDisagreement *string `json:"resistance_or_disagreement,omitempty"`
}
