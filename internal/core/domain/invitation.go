package domain

// Invitation is the backend's record of a therapist inviting a client.
// Clients redeem the token through the public validate/signup flow.
type Invitation struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
	Used  bool   `json:"used"`
}

// InviteSignup creates an account from a validated invitation token.
type InviteSignup struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}
