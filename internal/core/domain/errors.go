package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoToken is returned by operations that require a stored credential
	// when none exists.
	ErrNoToken = errors.New("no credential stored")
	// ErrStorageUnavailable wraps failures of the local key-value store.
	// Without storage no session is possible, so callers treat it as fatal.
	ErrStorageUnavailable = errors.New("session storage unavailable")
)

// ErrorKind is the closed classification applied to every failed request at
// the response-interceptor boundary. Downstream code switches on the kind
// instead of probing nested response fields.
type ErrorKind int

const (
	// KindBusiness covers validation and business failures (4xx with a
	// domain detail). Surfaced verbatim, session untouched.
	KindBusiness ErrorKind = iota
	// KindAuthExpired is an HTTP 401. Always fatal to the session.
	KindAuthExpired
	// KindAccountInactive is an HTTP 403 whose detail marks the account as
	// deactivated. Fatal to the session unless raised by a login attempt.
	KindAccountInactive
	// KindRouteNotFound covers 404/405 responses. The only kind eligible
	// for the legacy-route fallback.
	KindRouteNotFound
	// KindTransport covers timeouts and connectivity failures. Never
	// classified further and never retried.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindAccountInactive:
		return "account_inactive"
	case KindRouteNotFound:
		return "route_not_found"
	case KindTransport:
		return "transport"
	default:
		return "business"
	}
}

// APIError is the normalized form of any failed request: HTTP status, the
// backend's detail message and the classification kind. Status 0 means the
// request never produced a response.
type APIError struct {
	Status int
	Detail string
	Kind   ErrorKind
	cause  error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Kind, e.Detail)
}

func (e *APIError) Unwrap() error { return e.cause }

// NewAPIError builds an APIError and derives its kind from the status and
// detail. Transport failures carry status 0.
func NewAPIError(status int, detail string, cause error) *APIError {
	return &APIError{
		Status: status,
		Detail: detail,
		Kind:   classify(status, detail),
		cause:  cause,
	}
}

// inactiveMarker is the substring the backend places in the 403 detail of a
// deactivated account.
const inactiveMarker = "inactive"

func classify(status int, detail string) ErrorKind {
	switch {
	case status == 0:
		return KindTransport
	case status == 401:
		return KindAuthExpired
	case status == 403 && strings.Contains(strings.ToLower(detail), inactiveMarker):
		return KindAccountInactive
	case status == 404 || status == 405:
		return KindRouteNotFound
	default:
		return KindBusiness
	}
}

// AsAPIError unwraps err to an *APIError when one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
