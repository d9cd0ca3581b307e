package stubserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/elomind/elomind-client/internal/core/domain"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// authRequired validates the bearer token and injects the caller's identity
// into the echo context. A deactivated account is rejected with the same 403
// detail the production backend uses, which is what drives the client's
// forced-logout path.
func (s *Server) authRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}

		s.store.mu.Lock()
		user, ok := s.store.users[userID]
		active := ok && user.Active
		role := domain.Role("")
		if ok {
			role = user.Role
		}
		s.store.mu.Unlock()

		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		if !active {
			return echo.NewHTTPError(http.StatusForbidden, "User inactive")
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		return next(c)
	}
}

// requireRole gates a route to one or more roles.
func requireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ctxRole).(domain.Role)
			if _, ok := set[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func requireTherapist() echo.MiddlewareFunc { return requireRole(domain.RoleTherapist) }
func requireClient() echo.MiddlewareFunc    { return requireRole(domain.RoleClient) }

func callerID(c echo.Context) int64 {
	id, _ := c.Get(ctxUserID).(int64)
	return id
}

func callerRole(c echo.Context) domain.Role {
	role, _ := c.Get(ctxRole).(domain.Role)
	return role
}
