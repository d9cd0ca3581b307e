// Package transport implements the HTTP client core: one shared client with a
// request stage (public-route classification, bearer header injection) and a
// response stage (error normalization, forced logout on session-ending
// failures). Every domain API service sends through it.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/core/ports"
	"github.com/elomind/elomind-client/internal/metrics"
	"github.com/elomind/elomind-client/internal/session"
)

const defaultTimeout = 15 * time.Second

// Options configures the shared client. Store, Navigator and Notifier are
// required; the rest has working defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Store      *session.Store
	Navigator  ports.Navigator
	Notifier   ports.Notifier
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

// Client is the single shared API client. Construct once at process start
// and pass by reference to every domain API service.
type Client struct {
	base   string
	http   *http.Client
	store  *session.Store
	nav    ports.Navigator
	notify ports.Notifier
	log    zerolog.Logger

	// loggingOut latches once a forced logout runs, so N concurrent
	// session-ending failures tear the session down exactly once. The
	// latch re-arms on the next successful login via ResetLogoutGuard.
	loggingOut atomic.Bool
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		http:   httpClient,
		store:  opts.Store,
		nav:    opts.Navigator,
		notify: opts.Notifier,
		log:    opts.Logger.With().Str("component", "transport").Logger(),
	}
}

// BaseURL returns the base URL the client was built with.
func (c *Client) BaseURL() string { return c.base }

// Get issues a GET and decodes the response body into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body (may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE. The response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// RoutePair names the current and the legacy path of one logical operation.
// The legacy path exists as a versioning compatibility shim for backends that
// have not picked up the renamed routes yet.
type RoutePair struct {
	Primary string
	Legacy  string
}

// GetFallback GETs the primary path and, only when that fails with a
// route-not-found-class error, retries once against the legacy path. Auth,
// validation and transport failures are never masked by a fallback.
func (c *Client) GetFallback(ctx context.Context, pair RoutePair, query url.Values, out any) error {
	err := c.Get(ctx, pair.Primary, query, out)
	if err == nil {
		return nil
	}

	apiErr, ok := domain.AsAPIError(err)
	if !ok || apiErr.Kind != domain.KindRouteNotFound {
		return err
	}

	c.log.Debug().Str("primary", pair.Primary).Str("legacy", pair.Legacy).
		Int("status", apiErr.Status).Msg("primary route missing, trying legacy")

	if err := c.Get(ctx, pair.Legacy, query, out); err != nil {
		metrics.FallbackTotal.WithLabelValues(pair.Primary, "miss").Inc()
		return err
	}
	metrics.FallbackTotal.WithLabelValues(pair.Primary, "hit").Inc()
	return nil
}

// ResetLogoutGuard re-arms the forced-logout latch. Called after a new
// credential is stored, i.e. when a fresh session begins.
func (c *Client) ResetLogoutGuard() {
	c.loggingOut.Store(false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	start := time.Now()
	p := normalizePath(path)

	target := c.base + p
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("transport: encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	public := IsPublicRoute(p)
	if !public {
		token, err := c.store.Token(ctx)
		if err != nil {
			// Storage down means no session is possible at all.
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		// No token on a private route still goes out; the backend
		// answers 401 and the response stage takes over.
	}

	c.log.Debug().Str("method", method).Str("path", p).Bool("public", public).Msg("request")

	resp, err := c.http.Do(req)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "transport_error").Inc()
		detail := "network error"
		if isTimeout(err) {
			detail = "request timed out"
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", p).Msg("transport failure")
		return domain.NewAPIError(0, detail, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "transport_error").Inc()
		return domain.NewAPIError(0, "network error", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.RequestsTotal.WithLabelValues(method, "ok").Inc()
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("transport: decode response: %w", err)
		}
		return nil
	}

	metrics.RequestsTotal.WithLabelValues(method, "api_error").Inc()
	apiErr := domain.NewAPIError(resp.StatusCode, errorDetail(raw), nil)
	c.log.Warn().Int("status", apiErr.Status).Str("kind", apiErr.Kind.String()).
		Str("path", p).Str("detail", apiErr.Detail).Msg("api error")

	c.react(ctx, p, apiErr)
	return apiErr
}

// react is the response-stage classification: session-ending failures notify
// the user and force a logout; everything else passes through to the caller.
func (c *Client) react(ctx context.Context, path string, apiErr *domain.APIError) {
	if c.loggingOut.Load() {
		return
	}

	switch apiErr.Kind {
	case domain.KindAuthExpired:
		metrics.AuthFailuresTotal.WithLabelValues(apiErr.Kind.String()).Inc()
		c.notify.Notify("Sessão expirada", "Faça login novamente.")
		c.forceLogout(ctx, "401 unauthorized")

	case domain.KindAccountInactive:
		// A failed login never had a session to tear down; the login
		// screen shows its own message.
		if strings.Contains(path, "/auth/login") {
			return
		}
		metrics.AuthFailuresTotal.WithLabelValues(apiErr.Kind.String()).Inc()
		c.notify.Notify("Conta desativada", "Seu acesso foi desativado. Fale com o terapeuta/suporte.")
		c.forceLogout(ctx, "403 account inactive")
	}
}

// forceLogout clears the session and returns the user to login. It runs at
// most once per session (latched), best-effort and without returning errors,
// since it executes inside error-handling paths.
func (c *Client) forceLogout(ctx context.Context, reason string) {
	if !c.loggingOut.CompareAndSwap(false, true) {
		return
	}

	metrics.ForcedLogoutsTotal.Inc()
	c.log.Warn().Str("reason", reason).Msg("forced logout")

	if err := c.store.ClearToken(ctx); err != nil {
		c.log.Error().Err(err).Msg("forced logout: clear credential")
	}
	if err := c.store.ClearSessionOnly(ctx); err != nil {
		c.log.Error().Err(err).Msg("forced logout: clear session-only flag")
	}
	c.nav.Replace(domain.DestLogin)
}

// IsPublicRoute reports whether a path is reachable without authentication.
// Public paths never receive an Authorization header, even with a stored
// credential.
func IsPublicRoute(path string) bool {
	p := strings.ToLower(normalizePath(path))
	for _, marker := range []string{"login", "signup", "/docs", "/openapi", "/health"} {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return "/" + strings.TrimLeft(path, "/")
}

// errorDetail pulls the backend's message out of an error body. Backend
// versions have used "detail" (current), "message" and "error".
func errorDetail(raw []byte) string {
	var envelope struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, d := range []string{envelope.Detail, envelope.Message, envelope.Err} {
			if d != "" {
				return d
			}
		}
	}
	if len(raw) > 0 {
		return strings.TrimSpace(string(raw))
	}
	return "request failed"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}
