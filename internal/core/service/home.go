package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/elomind/elomind-client/internal/core/domain"
)

// ClientHome is everything the client's home screen shows on entry.
type ClientHome struct {
	Reflections []domain.ReflectionSummary
	// LatestFeedback is the approved feedback on the most recent reflection
	// that has one, or nil.
	LatestFeedback *domain.Feedback
}

// TherapistHome is everything the therapist's home screen shows on entry.
type TherapistHome struct {
	Pending []domain.PendingReflection
	Clients []domain.ClientAccount
}

// HomeService prefetches a home screen's data in one go. The fetches run
// concurrently; the first failure cancels the rest.
type HomeService struct {
	reflections *ReflectionService
	feedback    *FeedbackService
	users       *UserService
}

func NewHomeService(reflections *ReflectionService, feedback *FeedbackService, users *UserService) *HomeService {
	return &HomeService{reflections: reflections, feedback: feedback, users: users}
}

// ClientHome loads the client area's landing data. The latest-feedback fetch
// is best effort; a reflection list without it is still a usable screen.
func (s *HomeService) ClientHome(ctx context.Context) (*ClientHome, error) {
	list, err := s.reflections.ListMine(ctx)
	if err != nil {
		return nil, err
	}

	home := &ClientHome{Reflections: list}
	for _, r := range list {
		if r.FeedbackStatus == nil || *r.FeedbackStatus != string(domain.FeedbackApproved) {
			continue
		}
		if fb, err := s.feedback.ClientByReflection(ctx, r.ID); err == nil {
			home.LatestFeedback = fb
		}
		break
	}
	return home, nil
}

// TherapistHome loads the therapist area's landing data.
func (s *HomeService) TherapistHome(ctx context.Context) (*TherapistHome, error) {
	var home TherapistHome

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pending, err := s.reflections.ListPending(gctx)
		if err != nil {
			return err
		}
		home.Pending = pending
		return nil
	})
	g.Go(func() error {
		clients, err := s.users.ListClients(gctx)
		if err != nil {
			return err
		}
		home.Clients = clients
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}
