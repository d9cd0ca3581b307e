package stubserver

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/elomind/elomind-client/internal/core/domain"
)

// fixtureStore is the stub's in-memory state. It exists to make the client
// core runnable and testable without the real backend; nothing here survives
// the process.
type fixtureStore struct {
	mu sync.Mutex

	users       map[int64]*stubUser
	invitations map[string]*domain.Invitation
	reflections map[int64]*domain.Reflection
	feedback    map[int64]*domain.Feedback
	dreams      map[int64]*domain.Dream
	anamnesis   map[int64]*domain.Anamnesis // keyed by client id
	resetTokens map[string]int64            // token -> user id

	nextID int64
}

type stubUser struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Role         domain.Role
	Active       bool
}

// Seed credentials for local development and the e2e tests.
const (
	SeedTherapistEmail    = "therapist@elomind.dev"
	SeedTherapistPassword = "sessions123"
	SeedClientEmail       = "client@elomind.dev"
	SeedClientPassword    = "reflect123"
	SeedInviteToken       = "welcome-ana"
	SeedInviteEmail       = "ana@example.com"
)

func newFixtureStore() *fixtureStore {
	s := &fixtureStore{
		users:       map[int64]*stubUser{},
		invitations: map[string]*domain.Invitation{},
		reflections: map[int64]*domain.Reflection{},
		feedback:    map[int64]*domain.Feedback{},
		dreams:      map[int64]*domain.Dream{},
		anamnesis:   map[int64]*domain.Anamnesis{},
		resetTokens: map[string]int64{},
	}

	therapist := s.addUser("Dra. Helena", SeedTherapistEmail, SeedTherapistPassword, domain.RoleTherapist)
	client := s.addUser("Marcos", SeedClientEmail, SeedClientPassword, domain.RoleClient)
	_ = therapist

	s.invitations[SeedInviteToken] = &domain.Invitation{
		ID:    s.id(),
		Email: SeedInviteEmail,
		Token: SeedInviteToken,
	}

	past := time.Now().Add(-48 * time.Hour).UTC()
	r := &domain.Reflection{
		ID:                  s.id(),
		ClientID:            client.ID,
		ClientName:          client.Name,
		FeelingAfterSession: "Lighter than last week",
		WhatLearned:         "Naming the feeling takes power away from it",
		PositivePoint:       "Spoke up instead of shutting down",
		CreatedAt:           past,
	}
	s.reflections[r.ID] = r

	return s
}

func (s *fixtureStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fixtureStore) addUser(name, email, password string, role domain.Role) *stubUser {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &stubUser{
		ID:           s.id(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	s.users[u.ID] = u
	return u
}

func (s *fixtureStore) userByEmail(email string) *stubUser {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// SetUserActive flips an account's active flag directly, bypassing the API.
// Used by tests to simulate server-side deactivation under a live session.
func (s *fixtureStore) SetUserActive(email string, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmail(email)
	if u == nil {
		return false
	}
	u.Active = active
	return true
}

func (s *fixtureStore) newInvitation(email string) (*domain.Invitation, bool) {
	for _, inv := range s.invitations {
		if inv.Email == email && !inv.Used {
			return nil, false
		}
	}
	inv := &domain.Invitation{
		ID:    s.id(),
		Email: email,
		Token: uuid.NewString(),
	}
	s.invitations[inv.Token] = inv
	return inv, true
}
