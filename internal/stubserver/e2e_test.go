package stubserver_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/core/service"
	"github.com/elomind/elomind-client/internal/session"
	"github.com/elomind/elomind-client/internal/storage"
	"github.com/elomind/elomind-client/internal/stubserver"
	"github.com/elomind/elomind-client/internal/transport"
)

type memNavigator struct {
	mu       sync.Mutex
	replaced []domain.Destination
}

func (m *memNavigator) Replace(dest domain.Destination) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaced = append(m.replaced, dest)
}

func (m *memNavigator) last() domain.Destination {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replaced) == 0 {
		return ""
	}
	return m.replaced[len(m.replaced)-1]
}

type memNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (m *memNotifier) Notify(title, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, title)
}

// app wires the full client core against one backend URL, the way the CLI
// shell does, with its own isolated session storage.
type app struct {
	store       *session.Store
	nav         *memNavigator
	notify      *memNotifier
	auth        *service.AuthService
	reflections *service.ReflectionService
	feedback    *service.FeedbackService
	dreams      *service.DreamService
	anamnesis   *service.AnamnesisService
	invitations *service.InvitationService
	users       *service.UserService
	home        *service.HomeService
}

func newApp(baseURL string) *app {
	store := session.NewStore(storage.NewMemory(), zerolog.Nop())
	nav := &memNavigator{}
	notify := &memNotifier{}
	api := transport.New(transport.Options{
		BaseURL:   baseURL,
		Store:     store,
		Navigator: nav,
		Notifier:  notify,
		Logger:    zerolog.Nop(),
	})

	reflections := service.NewReflectionService(api)
	feedback := service.NewFeedbackService(api)
	users := service.NewUserService(api)
	return &app{
		store:       store,
		nav:         nav,
		notify:      notify,
		auth:        service.NewAuthService(api, store, zerolog.Nop()),
		reflections: reflections,
		feedback:    feedback,
		dreams:      service.NewDreamService(api),
		anamnesis:   service.NewAnamnesisService(api),
		invitations: service.NewInvitationService(api),
		users:       users,
		home:        service.NewHomeService(reflections, feedback, users),
	}
}

func newStub(t *testing.T) (*stubserver.Server, string) {
	t.Helper()
	stub := stubserver.New(stubserver.Options{Logger: zerolog.Nop()})
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	return stub, srv.URL
}

func loginAs(t *testing.T, a *app, email, password string) *service.LoginResult {
	t.Helper()
	res, err := a.auth.Login(context.Background(), email, password, true)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return res
}

func TestE2E_ReviewWorkflow(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)

	client := newApp(url)
	therapist := newApp(url)

	if res := loginAs(t, client, stubserver.SeedClientEmail, stubserver.SeedClientPassword); res.Role != domain.RoleClient {
		t.Fatalf("expected client role, got %q", res.Role)
	}
	if res := loginAs(t, therapist, stubserver.SeedTherapistEmail, stubserver.SeedTherapistPassword); res.Role != domain.RoleTherapist {
		t.Fatalf("expected therapist role, got %q", res.Role)
	}

	created, err := client.reflections.Create(ctx, domain.CreateReflection{
		FeelingAfterSession: "Drained but hopeful",
		WhatLearned:         "Avoidance has a cost",
		PositivePoint:       "Stayed in the conversation",
	})
	if err != nil {
		t.Fatalf("create reflection: %v", err)
	}

	// Seed reflection plus the one just created.
	pending, err := therapist.reflections.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending reflections, got %d", len(pending))
	}

	// The detail endpoint only exists on the legacy path; the fallback shim
	// must make that invisible here.
	detail, err := therapist.reflections.TherapistDetail(ctx, created.ID)
	if err != nil {
		t.Fatalf("therapist detail: %v", err)
	}
	if detail.FeelingAfterSession != "Drained but hopeful" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	draft, err := therapist.feedback.Generate(ctx, created.ID)
	if err != nil {
		t.Fatalf("generate feedback: %v", err)
	}
	if draft.Status != domain.FeedbackPendingApproval {
		t.Fatalf("expected pending draft, got %q", draft.Status)
	}

	drafts, err := therapist.feedback.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending feedback: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != draft.ID {
		t.Fatalf("unexpected pending drafts: %+v", drafts)
	}

	edited := "Edited before approval."
	approved, err := therapist.feedback.Approve(ctx, draft.ID, domain.ApproveFeedback{IAGeneratedContent: &edited})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.FeedbackApproved || approved.IAGeneratedContent != edited {
		t.Fatalf("unexpected approved record: %+v", approved)
	}

	// An approved reflection leaves the review queue.
	pending, err = therapist.reflections.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending after approve: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending reflection after approve, got %d", len(pending))
	}

	// The client reads the approved feedback, via the fallback pair.
	got, err := client.feedback.ByReflection(ctx, created.ID)
	if err != nil {
		t.Fatalf("client feedback: %v", err)
	}
	if got.IAGeneratedContent != edited {
		t.Fatalf("client sees %q, want the edited content", got.IAGeneratedContent)
	}

	// The client home screen prefetches the approved feedback.
	home, err := client.home.ClientHome(ctx)
	if err != nil {
		t.Fatalf("client home: %v", err)
	}
	if home.LatestFeedback == nil || home.LatestFeedback.ID != draft.ID {
		t.Fatalf("expected latest feedback on the home screen, got %+v", home.LatestFeedback)
	}

	// Approving twice is rejected.
	if _, err := therapist.feedback.Approve(ctx, draft.ID, domain.ApproveFeedback{}); err == nil {
		t.Fatalf("expected second approve to fail")
	}
}

func TestE2E_DeactivationForcesLogout(t *testing.T) {
	ctx := context.Background()
	stub, url := newStub(t)
	client := newApp(url)

	loginAs(t, client, stubserver.SeedClientEmail, stubserver.SeedClientPassword)
	if _, err := client.reflections.ListMine(ctx); err != nil {
		t.Fatalf("list mine: %v", err)
	}

	if !stub.SetUserActive(stubserver.SeedClientEmail, false) {
		t.Fatalf("deactivate seed client")
	}

	_, err := client.reflections.ListMine(ctx)
	apiErr, ok := domain.AsAPIError(err)
	if !ok || apiErr.Kind != domain.KindAccountInactive {
		t.Fatalf("expected account-inactive error, got %v", err)
	}
	if client.nav.last() != domain.DestLogin {
		t.Fatalf("expected forced navigation to login, got %q", client.nav.last())
	}
	if token, _ := client.store.Token(ctx); token != "" {
		t.Fatalf("expected token cleared")
	}

	// A login attempt on the deactivated account fails without another
	// forced-logout round.
	if _, err := client.auth.Login(ctx, stubserver.SeedClientEmail, stubserver.SeedClientPassword, true); err == nil {
		t.Fatalf("expected login to fail while inactive")
	}

	// Reactivation restores normal login.
	stub.SetUserActive(stubserver.SeedClientEmail, true)
	loginAs(t, client, stubserver.SeedClientEmail, stubserver.SeedClientPassword)
	if _, err := client.reflections.ListMine(ctx); err != nil {
		t.Fatalf("list mine after reactivation: %v", err)
	}
}

func TestE2E_TamperedTokenLogsOut(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)
	client := newApp(url)

	loginAs(t, client, stubserver.SeedClientEmail, stubserver.SeedClientPassword)
	if err := client.store.SaveToken(ctx, "tampered.token.value"); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}

	_, err := client.reflections.ListMine(ctx)
	apiErr, ok := domain.AsAPIError(err)
	if !ok || apiErr.Kind != domain.KindAuthExpired {
		t.Fatalf("expected auth-expired error, got %v", err)
	}
	if client.nav.last() != domain.DestLogin {
		t.Fatalf("expected navigation to login")
	}
	if len(client.notify.notices) == 0 {
		t.Fatalf("expected a session-expired notice")
	}
}

func TestE2E_InvitationSignup(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)
	invitee := newApp(url)

	email, err := invitee.invitations.Validate(ctx, stubserver.SeedInviteToken)
	if err != nil {
		t.Fatalf("validate invitation: %v", err)
	}
	if email != stubserver.SeedInviteEmail {
		t.Fatalf("expected invited email, got %q", email)
	}

	err = invitee.invitations.Signup(ctx, domain.InviteSignup{
		Token:    stubserver.SeedInviteToken,
		Name:     "Ana",
		Password: "primeira-sessao",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	// The token is single-use.
	if _, err := invitee.invitations.Validate(ctx, stubserver.SeedInviteToken); err == nil {
		t.Fatalf("expected used token to be rejected")
	}

	res := loginAs(t, invitee, stubserver.SeedInviteEmail, "primeira-sessao")
	if res.Role != domain.RoleClient || res.Destination != domain.DestClientHome {
		t.Fatalf("unexpected login result: %+v", res)
	}
	list, err := invitee.reflections.ListMine(ctx)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("fresh account should have no reflections, got %d", len(list))
	}
}

func TestE2E_TherapistClientManagement(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)
	therapist := newApp(url)
	client := newApp(url)

	loginAs(t, therapist, stubserver.SeedTherapistEmail, stubserver.SeedTherapistPassword)
	loginAs(t, client, stubserver.SeedClientEmail, stubserver.SeedClientPassword)

	home, err := therapist.home.TherapistHome(ctx)
	if err != nil {
		t.Fatalf("therapist home: %v", err)
	}
	if len(home.Clients) != 1 || len(home.Pending) != 1 {
		t.Fatalf("unexpected home: %d clients, %d pending", len(home.Clients), len(home.Pending))
	}
	clientID := home.Clients[0].ID

	// Dream flow: client registers, therapist reads and annotates.
	receipt, err := client.dreams.Create(ctx, "Walking through an empty school")
	if err != nil {
		t.Fatalf("create dream: %v", err)
	}
	dreams, err := therapist.dreams.ListByClient(ctx, clientID)
	if err != nil {
		t.Fatalf("list dreams: %v", err)
	}
	if len(dreams) != 1 || dreams[0].ID != receipt.ID {
		t.Fatalf("unexpected dreams: %+v", dreams)
	}

	tags := "school, absence"
	updated, err := therapist.dreams.Update(ctx, receipt.ID, domain.DreamUpdate{TherapistTags: &tags})
	if err != nil {
		t.Fatalf("update dream: %v", err)
	}
	if updated.TherapistTags == nil || *updated.TherapistTags != tags {
		t.Fatalf("unexpected tags: %+v", updated.TherapistTags)
	}

	// Anamnesis is one per client: create, reject duplicate, update.
	if _, err := therapist.anamnesis.Create(ctx, clientID, "First clinical summary."); err != nil {
		t.Fatalf("create anamnesis: %v", err)
	}
	if _, err := therapist.anamnesis.Create(ctx, clientID, "Second record"); err == nil {
		t.Fatalf("expected duplicate anamnesis to fail")
	}
	a, err := therapist.anamnesis.Update(ctx, clientID, "Revised summary.")
	if err != nil {
		t.Fatalf("update anamnesis: %v", err)
	}
	if a.Summary != "Revised summary." {
		t.Fatalf("unexpected summary %q", a.Summary)
	}

	// Roster management.
	acc, err := therapist.users.SetClientActive(ctx, clientID, false)
	if err != nil {
		t.Fatalf("deactivate client: %v", err)
	}
	if acc.IsActive {
		t.Fatalf("expected account deactivated")
	}
	clients, err := therapist.users.ListClients(ctx)
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if clients[0].IsActive {
		t.Fatalf("roster should show the account inactive")
	}

	// The client area is off limits to a therapist token.
	_, err = therapist.reflections.ListMine(ctx)
	apiErr, ok := domain.AsAPIError(err)
	if !ok || apiErr.Kind != domain.KindBusiness || apiErr.Status != 403 {
		t.Fatalf("expected plain 403 for role mismatch, got %v", err)
	}
	if therapist.nav.last() == domain.DestLogin {
		t.Fatalf("role mismatch must not force a logout")
	}
}

func TestE2E_BootstrapAfterRememberedLogin(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)
	a := newApp(url)

	loginAs(t, a, stubserver.SeedTherapistEmail, stubserver.SeedTherapistPassword)

	dest, err := session.NewBootstrap(a.store, a.nav, zerolog.Nop()).Run(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if dest != domain.DestTherapistHome {
		t.Fatalf("expected therapist home, got %q", dest)
	}
}

func TestE2E_BootstrapAfterSessionOnlyLogin(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)
	a := newApp(url)

	if _, err := a.auth.Login(ctx, stubserver.SeedClientEmail, stubserver.SeedClientPassword, false); err != nil {
		t.Fatalf("login: %v", err)
	}

	dest, err := session.NewBootstrap(a.store, a.nav, zerolog.Nop()).Run(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if dest != domain.DestLogin {
		t.Fatalf("session-only login must not survive a restart, got %q", dest)
	}
	if token, _ := a.store.Token(ctx); token != "" {
		t.Fatalf("expected token discarded")
	}
}

func TestE2E_PasswordRecoveryAnswersUniformly(t *testing.T) {
	ctx := context.Background()
	_, url := newStub(t)
	a := newApp(url)

	if err := a.auth.ForgotPassword(ctx, stubserver.SeedClientEmail); err != nil {
		t.Fatalf("forgot password, known account: %v", err)
	}
	if err := a.auth.ForgotPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("forgot password, unknown account: %v", err)
	}
}
