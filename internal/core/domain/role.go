package domain

// Role is the coarse user category returned by the backend. It decides which
// area of the app a user lands in; authorization is always re-checked
// server-side.
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
)

// ParseRole normalises a raw role value to one of the two known roles.
// Anything else, including backend roles this client has no area for,
// comes back empty.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleClient:
		return RoleClient
	case RoleTherapist:
		return RoleTherapist
	default:
		return ""
	}
}

// Destination is a navigation target inside the app shell.
type Destination string

const (
	DestLogin         Destination = "/auth/login"
	DestClientHome    Destination = "/client/home"
	DestTherapistHome Destination = "/therapist/home"
)

// StartDestination maps a role to the area the user should land in after a
// successful session check. Unknown or missing roles default to the client
// area; the backend rejects anything the user may not actually do there.
func StartDestination(role Role) Destination {
	if role == RoleTherapist {
		return DestTherapistHome
	}
	return DestClientHome
}
