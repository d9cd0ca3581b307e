package domain

import "time"

// User is the authenticated profile returned by the backend. Older backend
// versions reported the role under different field names; Profile.Role below
// reconciles them.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	UserType string `json:"user_type,omitempty"`
	Type     string `json:"type,omitempty"`
	IsActive bool   `json:"is_active"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Profile is the /auth/me response. Some deployments nest the user, some
// flatten it; both shapes decode.
type Profile struct {
	User
	Nested *User `json:"user,omitempty"`
}

// ResolveRole picks the first usable role claim out of the profile, in the
// same precedence the backend versions introduced them.
func (p *Profile) ResolveRole() Role {
	candidates := []string{p.User.Role, "", p.UserType, p.Type}
	if p.Nested != nil {
		candidates[1] = p.Nested.Role
	}
	for _, c := range candidates {
		if r := ParseRole(c); r != "" {
			return r
		}
	}
	return ""
}

// ClientAccount is a row in the therapist's client roster.
type ClientAccount struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
