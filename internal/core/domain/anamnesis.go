package domain

import "time"

// Anamnesis is the clinical summary a therapist keeps per client. One record
// per therapist and client pair.
type Anamnesis struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	TherapistID int64     `json:"therapist_id"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnamnesisInput is the create/update payload.
type AnamnesisInput struct {
	Summary string `json:"summary"`
}
