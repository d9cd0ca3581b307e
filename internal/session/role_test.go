package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/elomind/elomind-client/internal/core/domain"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRoleFromToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  domain.Role
	}{
		{
			name:  "therapist claim",
			token: "", // filled below
			want:  domain.RoleTherapist,
		},
		{
			name: "client claim",
			want: domain.RoleClient,
		},
		{
			name: "unknown role value",
			want: "",
		},
		{
			name: "missing role claim",
			want: "",
		},
		{
			name:  "not a token at all",
			token: "definitely-not-a-jwt",
			want:  "",
		},
		{
			name:  "two segments only",
			token: "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiY2xpZW50In0",
			want:  "",
		},
		{
			name:  "empty string",
			token: "",
			want:  "",
		},
	}

	tests[0].token = signedToken(t, jwt.MapClaims{"sub": "7", "role": "therapist"})
	tests[1].token = signedToken(t, jwt.MapClaims{"sub": "3", "role": "client"})
	tests[2].token = signedToken(t, jwt.MapClaims{"sub": "1", "role": "admin"})
	tests[3].token = signedToken(t, jwt.MapClaims{"sub": "1"})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoleFromToken(tc.token); got != tc.want {
				t.Fatalf("RoleFromToken = %q, want %q", got, tc.want)
			}
		})
	}
}

// The decode must not care who signed the token; routing happens before any
// backend round trip and authorization is re-checked server side.
func TestRoleFromToken_IgnoresSignature(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "therapist"}).
		SignedString([]byte("a-key-the-client-never-knows"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if got := RoleFromToken(token); got != domain.RoleTherapist {
		t.Fatalf("RoleFromToken = %q, want therapist", got)
	}
}
