// Package stubserver is a development stand-in for the EloMind backend. It
// implements the REST surface the client core consumes, backed by in-memory
// fixtures, so the CLI can run and the end-to-end tests can exercise the full
// request/response pipeline including forced logout.
//
// Business behavior here is deliberately shallow: just enough fidelity
// (status codes, error envelope, token contract) to be indistinguishable to
// the client core.
package stubserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const defaultSecret = "elomind-dev-secret"

// Options configures the stub.
type Options struct {
	// Secret signs the HS256 access tokens. Defaults to a fixed dev value.
	Secret string
	// Metrics enables the echoprometheus middleware and the /metrics route.
	// Off in tests to avoid duplicate collector registration.
	Metrics bool
	Logger  zerolog.Logger
}

// Server is the stub backend.
type Server struct {
	echo   *echo.Echo
	store  *fixtureStore
	secret string
	log    zerolog.Logger
}

func New(opts Options) *Server {
	secret := opts.Secret
	if secret == "" {
		secret = defaultSecret
	}

	s := &Server{
		echo:   echo.New(),
		store:  newFixtureStore(),
		secret: secret,
		log:    opts.Logger.With().Str("component", "stubserver").Logger(),
	}

	e := s.echo
	e.HideBanner = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = s.errorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	if opts.Metrics {
		e.Use(echoprometheus.NewMiddleware("elomind_stub"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	// Public surface.
	e.POST("/auth/login", s.login)
	e.POST("/auth/forgot-password", s.forgotPassword)
	e.POST("/auth/reset-password", s.resetPassword)
	e.GET("/invitations/validate", s.validateInvitation)
	e.POST("/invitations/signup", s.inviteSignup)
	e.GET("/health", s.health)

	// Authenticated surface.
	auth := e.Group("", s.authRequired)
	auth.GET("/auth/me", s.me)

	auth.POST("/invitations", s.sendInvitation, requireTherapist())

	// The therapist pending queue lives on the renamed path; the detail
	// endpoint is intentionally only served on the legacy path so the
	// client's fallback shim stays exercised.
	auth.GET("/therapist/reflections/pending", s.pendingReflections, requireTherapist())
	auth.GET("/reflections/pending", s.pendingReflections, requireTherapist())
	auth.GET("/reflections/me", s.myReflections, requireClient())
	auth.POST("/reflections/", s.createReflection, requireClient())
	auth.GET("/reflections/:id", s.reflectionDetail)
	auth.DELETE("/reflections/:id", s.deleteReflection, requireClient())

	auth.POST("/feedback/generate/:reflectionID", s.generateFeedback, requireTherapist())
	auth.GET("/feedback/pending", s.pendingFeedback, requireTherapist())
	auth.PATCH("/feedback/:id/approve", s.approveFeedback, requireTherapist())
	auth.PATCH("/feedback/:id/reject", s.rejectFeedback, requireTherapist())
	auth.GET("/feedback/by-reflection/:reflectionID", s.clientFeedbackByReflection, requireClient())
	auth.GET("/feedback/therapist/by-reflection/:reflectionID", s.therapistFeedbackByReflection, requireTherapist())
	auth.GET("/feedback/by-client/:clientID", s.feedbackByClient, requireTherapist())

	auth.POST("/dreams", s.createDream, requireClient())
	auth.GET("/dreams/:id", s.dreamsByClient, requireTherapist())
	auth.PATCH("/dreams/:id", s.updateDream, requireTherapist())

	auth.GET("/anamnesis/:clientID", s.getAnamnesis, requireTherapist())
	auth.POST("/anamnesis/:clientID", s.createAnamnesis, requireTherapist())
	auth.PATCH("/anamnesis/:clientID", s.updateAnamnesis, requireTherapist())

	auth.GET("/users/clients", s.listClients, requireTherapist())
	auth.PATCH("/users/:id/status", s.setClientStatus, requireTherapist())
}

// Handler exposes the stub as an http.Handler, for httptest servers.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until the process ends.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("stub backend listening")
	return s.echo.Start(addr)
}

// SetUserActive flips an account directly, bypassing the API. Tests use it to
// simulate server-side deactivation while a session is live.
func (s *Server) SetUserActive(email string, active bool) bool {
	return s.store.SetUserActive(email, active)
}

// errorHandler renders the FastAPI-style envelope the client core parses:
// {"detail": "<message>"}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = fmt.Sprintf("%v", he.Message)
	} else {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	_ = c.JSON(code, map[string]string{"detail": detail})
}
