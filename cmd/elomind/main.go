// Command elomind is a terminal shell over the client core. It drives the
// same session, transport and API modules the mobile shell uses, which makes
// it both a debugging tool against real or stub backends and a reference for
// wiring the core.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/elomind/elomind-client/internal/core/domain"
	"github.com/elomind/elomind-client/internal/core/ports"
	"github.com/elomind/elomind-client/internal/core/service"
	"github.com/elomind/elomind-client/internal/pkg/config"
	"github.com/elomind/elomind-client/internal/session"
	"github.com/elomind/elomind-client/internal/storage"
	"github.com/elomind/elomind-client/internal/transport"
	"github.com/elomind/elomind-client/pkg/logger"
)

func main() {
	var (
		cmd      = flag.String("cmd", "bootstrap", "command to run (see -cmd help)")
		email    = flag.String("email", "", "email address")
		password = flag.String("password", "", "password")
		remember = flag.Bool("remember", true, "remember this login across restarts")
		id       = flag.Int64("id", 0, "record id (reflection, feedback, dream, user)")
		client   = flag.Int64("client", 0, "client id (therapist commands)")
		text     = flag.String("text", "", "free-text payload (description, summary, notes)")
		tags     = flag.String("tags", "", "therapist tags for a dream")
		token    = flag.String("token", "", "invitation or reset token")
		name     = flag.String("name", "", "display name (signup)")
		active   = flag.Bool("active", true, "target active state (set-active)")
		feeling  = flag.String("feeling", "", "feeling after session (new-reflection)")
		learned  = flag.String("learned", "", "what was learned (new-reflection)")
		positive = flag.String("positive", "", "positive point (new-reflection)")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	app, err := buildApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	ctx := context.Background()
	if err := app.run(ctx, *cmd, cmdArgs{
		email: *email, password: *password, remember: *remember,
		id: *id, client: *client, text: *text, tags: *tags,
		token: *token, name: *name, active: *active,
		feeling: *feeling, learned: *learned, positive: *positive,
	}); err != nil {
		if apiErr, ok := domain.AsAPIError(err); ok {
			fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", apiErr.Detail, apiErr.Kind)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type cmdArgs struct {
	email, password            string
	remember                   bool
	id, client                 int64
	text, tags, token, name    string
	active                     bool
	feeling, learned, positive string
}

type app struct {
	store       *session.Store
	bootstrap   *session.Bootstrap
	auth        *service.AuthService
	reflections *service.ReflectionService
	feedback    *service.FeedbackService
	dreams      *service.DreamService
	anamnesis   *service.AnamnesisService
	invites     *service.InvitationService
	users       *service.UserService
	home        *service.HomeService
}

func buildApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	kv, err := openStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(kv, log)
	nav := &consoleNavigator{}
	api := transport.New(transport.Options{
		BaseURL:   cfg.BaseURL(),
		Timeout:   cfg.Timeout,
		Store:     store,
		Navigator: nav,
		Notifier:  &consoleNotifier{},
		Logger:    log,
	})

	reflections := service.NewReflectionService(api)
	feedback := service.NewFeedbackService(api)
	users := service.NewUserService(api)

	return &app{
		store:       store,
		bootstrap:   session.NewBootstrap(store, nav, log),
		auth:        service.NewAuthService(api, store, log),
		reflections: reflections,
		feedback:    feedback,
		dreams:      service.NewDreamService(api),
		anamnesis:   service.NewAnamnesisService(api),
		invites:     service.NewInvitationService(api),
		users:       users,
		home:        service.NewHomeService(reflections, feedback, users),
	}, nil
}

func openStorage(cfg *config.Config, log zerolog.Logger) (ports.KeyValue, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "redis":
		return storage.NewRedis(context.Background(), storage.RedisConfig{
			Addr:   cfg.Redis.Addr,
			DB:     cfg.Redis.DB,
			Prefix: cfg.Redis.Prefix,
		})
	default:
		log.Debug().Str("dir", cfg.Storage.Dir).Msg("using file session storage")
		return storage.NewFile(cfg.Storage.Dir)
	}
}

func (a *app) run(ctx context.Context, cmd string, args cmdArgs) error {
	switch cmd {
	case "bootstrap":
		dest, err := a.bootstrap.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Println("start destination:", dest)
		return nil

	case "login":
		res, err := a.auth.Login(ctx, args.email, args.password, args.remember)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s, landing on %s\n", orUnknown(string(res.Role)), res.Destination)
		return nil

	case "logout":
		if err := a.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "me":
		return printJSON(a.auth.Me(ctx))

	case "home":
		role, err := a.store.CachedRole(ctx)
		if err != nil {
			return err
		}
		if role == domain.RoleTherapist {
			return printJSON(a.home.TherapistHome(ctx))
		}
		return printJSON(a.home.ClientHome(ctx))

	case "reflections":
		return printJSON(a.reflections.ListMine(ctx))
	case "reflection":
		return printJSON(a.reflections.MyDetail(ctx, args.id))
	case "new-reflection":
		return printJSON(a.reflections.Create(ctx, domain.CreateReflection{
			FeelingAfterSession:      args.feeling,
			WhatLearned:              args.learned,
			PositivePoint:            args.positive,
			ResistanceOrDisagreement: optional(args.text),
		}))
	case "delete-reflection":
		if err := a.reflections.Delete(ctx, args.id); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	case "pending":
		return printJSON(a.reflections.ListPending(ctx))
	case "review":
		return printJSON(a.reflections.TherapistDetail(ctx, args.id))

	case "generate":
		return printJSON(a.feedback.Generate(ctx, args.id))
	case "pending-feedback":
		return printJSON(a.feedback.ListPending(ctx))
	case "approve":
		return printJSON(a.feedback.Approve(ctx, args.id, domain.ApproveFeedback{TherapistNotes: optional(args.text)}))
	case "reject":
		return printJSON(a.feedback.Reject(ctx, args.id, domain.RejectFeedback{TherapistNotes: optional(args.text)}))
	case "feedback":
		return printJSON(a.feedback.ByReflection(ctx, args.id))
	case "feedback-history":
		return printJSON(a.feedback.ListByClient(ctx, args.client, args.text))

	case "new-dream":
		return printJSON(a.dreams.Create(ctx, args.text))
	case "dreams":
		return printJSON(a.dreams.ListByClient(ctx, args.client))
	case "tag-dream":
		return printJSON(a.dreams.Update(ctx, args.id, domain.DreamUpdate{
			TherapistTags:  optional(args.tags),
			TherapistNotes: optional(args.text),
		}))

	case "anamnesis":
		return printJSON(a.anamnesis.Get(ctx, args.client))
	case "new-anamnesis":
		return printJSON(a.anamnesis.Create(ctx, args.client, args.text))
	case "update-anamnesis":
		return printJSON(a.anamnesis.Update(ctx, args.client, args.text))

	case "invite":
		if err := a.invites.Send(ctx, args.email); err != nil {
			return err
		}
		fmt.Println("invitation sent")
		return nil
	case "validate-invite":
		invited, err := a.invites.Validate(ctx, args.token)
		if err != nil {
			return err
		}
		fmt.Println("invitation for:", invited)
		return nil
	case "signup":
		if err := a.invites.Signup(ctx, domain.InviteSignup{
			Token:    args.token,
			Name:     args.name,
			Password: args.password,
			Email:    args.email,
		}); err != nil {
			return err
		}
		fmt.Println("account created, log in with your email and password")
		return nil

	case "clients":
		return printJSON(a.users.ListClients(ctx))
	case "set-active":
		return printJSON(a.users.SetClientActive(ctx, args.id, args.active))

	case "forgot":
		if err := a.auth.ForgotPassword(ctx, args.email); err != nil {
			return err
		}
		fmt.Println("recovery email requested")
		return nil
	case "reset":
		if err := a.auth.ResetPassword(ctx, args.email, args.token, args.password); err != nil {
			return err
		}
		fmt.Println("password updated, log in again")
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// consoleNavigator stands in for the mobile navigation stack.
type consoleNavigator struct{}

func (n *consoleNavigator) Replace(dest domain.Destination) {
	fmt.Fprintln(os.Stderr, "navigating to", dest)
}

// consoleNotifier renders blocking notices on the terminal.
type consoleNotifier struct{}

func (n *consoleNotifier) Notify(title, message string) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", title, message)
}

func printJSON(v any, err error) error {
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown role"
	}
	return s
}
