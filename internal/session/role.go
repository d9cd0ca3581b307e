package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/elomind/elomind-client/internal/core/domain"
)

// RoleFromToken decodes the role claim out of a bearer credential without
// verifying its signature. It exists purely so the app can route to the right
// area before any network call; it is never an authorization decision, which
// the backend re-checks on every request.
//
// Any decode problem, a missing claim or a role outside the known set yields
// "" rather than an error.
func RoleFromToken(token string) domain.Role {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}

	role, _ := claims["role"].(string)
	return domain.ParseRole(role)
}
