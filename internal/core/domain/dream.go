package domain

import "time"

// Dream is a dream record a client registers for their therapist.
type Dream struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"client_id"`
	TherapistID    int64     `json:"therapist_id"`
	Description    string    `json:"description"`
	TherapistTags  *string   `json:"therapist_tags,omitempty"`
	TherapistNotes *string   `json:"therapist_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DreamReceipt is the minimal acknowledgement returned to the client on
// creation; clients do not list their dreams back.
type DreamReceipt struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// DreamUpdate is the therapist's annotation patch. A nil field is left
// untouched; an empty string clears the stored value.
type DreamUpdate struct {
	TherapistTags  *string `json:"therapist_tags,omitempty"`
	TherapistNotes *string `json:"therapist_notes,omitempty"`
}
