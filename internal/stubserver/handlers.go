package stubserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/elomind/elomind-client/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

// ── auth ──

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	user := s.store.userByEmail(req.Email)
	s.store.mu.Unlock()

	if user == nil || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if !user.Active {
		return echo.NewHTTPError(http.StatusForbidden, "User inactive")
	}

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) me(c echo.Context) error {
	s.store.mu.Lock()
	user := s.store.users[callerID(c)]
	s.store.mu.Unlock()

	return c.JSON(http.StatusOK, domain.User{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		IsActive: user.Active,
	})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	// Same answer whether or not the account exists.
	if user := s.store.userByEmail(req.Email); user != nil {
		token := uuid.NewString()
		s.store.resetTokens[token] = user.ID
		s.log.Info().Str("email", user.Email).Str("token", token).Msg("password reset issued")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	userID, ok := s.store.resetTokens[req.Token]
	user := s.store.users[userID]
	if !ok || user == nil || !strings.EqualFold(user.Email, strings.TrimSpace(req.Email)) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	delete(s.store.resetTokens, req.Token)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ── invitations ──

func (s *Server) validateInvitation(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))

	s.store.mu.Lock()
	inv := s.store.invitations[token]
	s.store.mu.Unlock()

	if token == "" || inv == nil || inv.Used {
		return echo.NewHTTPError(http.StatusNotFound, "Invitation not found or expired")
	}
	return c.JSON(http.StatusOK, map[string]string{"email": inv.Email})
}

func (s *Server) inviteSignup(c echo.Context) error {
	var req struct {
		Token    string `json:"token" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	inv := s.store.invitations[strings.TrimSpace(req.Token)]
	if inv == nil || inv.Used {
		return echo.NewHTTPError(http.StatusBadRequest, "Invitation not found or expired")
	}
	if s.store.userByEmail(inv.Email) != nil {
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}

	s.store.addUser(req.Name, inv.Email, req.Password, domain.RoleClient)
	inv.Used = true
	return c.JSON(http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) sendInvitation(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if s.store.userByEmail(email) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}
	inv, ok := s.store.newInvitation(email)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invitation already sent for this email")
	}
	return c.JSON(http.StatusCreated, inv)
}

// ── reflections ──

func (s *Server) pendingReflections(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := []domain.PendingReflection{}
	for _, r := range s.store.reflections {
		status := s.feedbackStatusFor(r.ID)
		if status != nil && *status == string(domain.FeedbackApproved) {
			continue
		}
		client := s.store.users[r.ClientID]
		name := ""
		if client != nil {
			name = client.Name
		}
		out = append(out, domain.PendingReflection{
			ID:                  r.ID,
			ClientID:            r.ClientID,
			ClientName:          name,
			FeelingAfterSession: r.FeelingAfterSession,
			CreatedAt:           r.CreatedAt,
			FeedbackStatus:      status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) myReflections(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := []domain.ReflectionSummary{}
	for _, r := range s.store.reflections {
		if r.ClientID != callerID(c) {
			continue
		}
		out = append(out, domain.ReflectionSummary{
			ID:                  r.ID,
			CreatedAt:           r.CreatedAt,
			FeelingAfterSession: r.FeelingAfterSession,
			FeedbackStatus:      s.feedbackStatusFor(r.ID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createReflection(c echo.Context) error {
	var req struct {
		FeelingAfterSession      string  `json:"feeling_after_session" validate:"required"`
		WhatLearned              string  `json:"what_learned" validate:"required"`
		PositivePoint            string  `json:"positive_point" validate:"required"`
		ResistanceOrDisagreement *string `json:"resistance_or_disagreement"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	caller := s.store.users[callerID(c)]
	r := &domain.Reflection{
		ID:                       s.store.id(),
		ClientID:                 caller.ID,
		ClientName:               caller.Name,
		FeelingAfterSession:      req.FeelingAfterSession,
		WhatLearned:              req.WhatLearned,
		PositivePoint:            req.PositivePoint,
		ResistanceOrDisagreement: req.ResistanceOrDisagreement,
		CreatedAt:                time.Now().UTC(),
	}
	s.store.reflections[r.ID] = r
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) reflectionDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r := s.store.reflections[id]
	if r == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reflection not found")
	}
	if callerRole(c) == domain.RoleClient && r.ClientID != callerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) deleteReflection(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r := s.store.reflections[id]
	if r == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reflection not found")
	}
	if r.ClientID != callerID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	delete(s.store.reflections, id)
	return c.NoContent(http.StatusNoContent)
}

// feedbackStatusFor returns the latest feedback status for a reflection.
// Caller must hold the store lock.
func (s *Server) feedbackStatusFor(reflectionID int64) *string {
	var latest *domain.Feedback
	for _, f := range s.store.feedback {
		if f.ReflectionID != reflectionID {
			continue
		}
		if latest == nil || f.ID > latest.ID {
			latest = f
		}
	}
	if latest == nil {
		return nil
	}
	status := string(latest.Status)
	return &status
}

// ── feedback ──

func (s *Server) generateFeedback(c echo.Context) error {
	reflectionID, err := pathID(c, "reflectionID")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r := s.store.reflections[reflectionID]
	if r == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reflection not found")
	}

	now := time.Now().UTC()
	tip := "Magnesium-rich foods in the evening can support sleep quality."
	activity := "Write down one situation this week where you noticed the feeling before reacting."
	f := &domain.Feedback{
		ID:                   s.store.id(),
		ReflectionID:         r.ID,
		Status:               domain.FeedbackPendingApproval,
		IAGeneratedContent:   "You described feeling \"" + r.FeelingAfterSession + "\" and connected it to what you learned. That link is worth revisiting before the next session.",
		IANeuroNutritionTip:  &tip,
		IAActivitySuggestion: &activity,
		CreatedAt:            &now,
	}
	s.store.feedback[f.ID] = f
	return c.JSON(http.StatusCreated, f)
}

func (s *Server) pendingFeedback(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := []domain.Feedback{}
	for _, f := range s.store.feedback {
		if f.Status == domain.FeedbackPendingApproval {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) approveFeedback(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req domain.ApproveFeedback
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	f := s.store.feedback[id]
	if f == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
	}
	if f.Status != domain.FeedbackPendingApproval {
		return echo.NewHTTPError(http.StatusBadRequest, "Feedback already reviewed")
	}

	if req.IAGeneratedContent != nil {
		f.IAGeneratedContent = *req.IAGeneratedContent
	}
	if req.IANeuroNutritionTip != nil {
		f.IANeuroNutritionTip = req.IANeuroNutritionTip
	}
	if req.IAActivitySuggestion != nil {
		f.IAActivitySuggestion = req.IAActivitySuggestion
	}
	f.TherapistNotes = req.TherapistNotes

	now := time.Now().UTC()
	approver := callerID(c)
	f.Status = domain.FeedbackApproved
	f.TherapistApprovedBy = &approver
	f.ApprovedAt = &now
	return c.JSON(http.StatusOK, f)
}

func (s *Server) rejectFeedback(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req domain.RejectFeedback
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	f := s.store.feedback[id]
	if f == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
	}
	if f.Status != domain.FeedbackPendingApproval {
		return echo.NewHTTPError(http.StatusBadRequest, "Feedback already reviewed")
	}

	f.Status = domain.FeedbackRejected
	f.TherapistNotes = req.TherapistNotes
	return c.JSON(http.StatusOK, f)
}

func (s *Server) clientFeedbackByReflection(c echo.Context) error {
	reflectionID, err := pathID(c, "reflectionID")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r := s.store.reflections[reflectionID]
	if r == nil || r.ClientID != callerID(c) {
		return echo.NewHTTPError(http.StatusNotFound, "Reflection not found")
	}
	for _, f := range s.store.feedback {
		if f.ReflectionID == reflectionID && f.Status == domain.FeedbackApproved {
			return c.JSON(http.StatusOK, f)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
}

func (s *Server) therapistFeedbackByReflection(c echo.Context) error {
	reflectionID, err := pathID(c, "reflectionID")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var latest *domain.Feedback
	for _, f := range s.store.feedback {
		if f.ReflectionID == reflectionID && (latest == nil || f.ID > latest.ID) {
			latest = f
		}
	}
	if latest == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feedback not found")
	}
	return c.JSON(http.StatusOK, latest)
}

func (s *Server) feedbackByClient(c echo.Context) error {
	clientID, err := pathID(c, "clientID")
	if err != nil {
		return err
	}

	wanted := map[string]struct{}{}
	statuses := c.QueryParam("status")
	if statuses == "" {
		statuses = "approved,rejected"
	}
	for _, st := range strings.Split(statuses, ",") {
		wanted[strings.TrimSpace(st)] = struct{}{}
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := []domain.Feedback{}
	for _, f := range s.store.feedback {
		r := s.store.reflections[f.ReflectionID]
		if r == nil || r.ClientID != clientID {
			continue
		}
		if _, ok := wanted[string(f.Status)]; !ok {
			continue
		}
		clone := *f
		clone.ClientID = &r.ClientID
		if client := s.store.users[r.ClientID]; client != nil {
			name := client.Name
			clone.ClientName = &name
		}
		created := r.CreatedAt
		clone.ReflectionCreatedAt = &created
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

// ── dreams ──

func (s *Server) createDream(c echo.Context) error {
	var req struct {
		Description string `json:"description" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now().UTC()
	d := &domain.Dream{
		ID:          s.store.id(),
		ClientID:    callerID(c),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.dreams[d.ID] = d
	return c.JSON(http.StatusCreated, domain.DreamReceipt{ID: d.ID, CreatedAt: d.CreatedAt})
}

func (s *Server) dreamsByClient(c echo.Context) error {
	clientID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := []domain.Dream{}
	for _, d := range s.store.dreams {
		if d.ClientID == clientID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateDream(c echo.Context) error {
	dreamID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req domain.DreamUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	d := s.store.dreams[dreamID]
	if d == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Dream not found")
	}
	if req.TherapistTags != nil {
		d.TherapistTags = req.TherapistTags
	}
	if req.TherapistNotes != nil {
		d.TherapistNotes = req.TherapistNotes
	}
	d.TherapistID = callerID(c)
	d.UpdatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, d)
}

// ── anamnesis ──

func (s *Server) getAnamnesis(c echo.Context) error {
	clientID, err := pathID(c, "clientID")
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a := s.store.anamnesis[clientID]
	if a == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Anamnesis not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) createAnamnesis(c echo.Context) error {
	clientID, err := pathID(c, "clientID")
	if err != nil {
		return err
	}

	var req domain.AnamnesisInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Summary) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "summary is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.anamnesis[clientID] != nil {
		return echo.NewHTTPError(http.StatusConflict, "Anamnesis already exists")
	}

	now := time.Now().UTC()
	a := &domain.Anamnesis{
		ID:          s.store.id(),
		ClientID:    clientID,
		TherapistID: callerID(c),
		Summary:     req.Summary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.anamnesis[clientID] = a
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAnamnesis(c echo.Context) error {
	clientID, err := pathID(c, "clientID")
	if err != nil {
		return err
	}

	var req domain.AnamnesisInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Summary) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "summary is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	a := s.store.anamnesis[clientID]
	if a == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Anamnesis not found")
	}
	a.Summary = req.Summary
	a.UpdatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, a)
}

// ── users ──

func (s *Server) listClients(c echo.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := []domain.ClientAccount{}
	for _, u := range s.store.users {
		if u.Role != domain.RoleClient {
			continue
		}
		out = append(out, domain.ClientAccount{
			ID:       u.ID,
			Name:     u.Name,
			Email:    u.Email,
			IsActive: u.Active,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) setClientStatus(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_active is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u := s.store.users[userID]
	if u == nil || u.Role != domain.RoleClient {
		return echo.NewHTTPError(http.StatusNotFound, "Client not found")
	}
	u.Active = *req.IsActive
	return c.JSON(http.StatusOK, domain.ClientAccount{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		IsActive: u.Active,
	})
}

// ── misc ──

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
