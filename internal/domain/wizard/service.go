package wizard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mariiahub/booking-api/internal/domain/booking"
	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	apperrors "github.com/mariiahub/booking-api/pkg/errors"
	"github.com/mariiahub/booking-api/pkg/metrics"
	"github.com/mariiahub/booking-api/pkg/util"
)

// Session is a persisted wizard.
type Session struct {
	ID string `json:"id"`
	Controller
	CanAdvance bool      `json:"canAdvance"`
	CanSubmit  bool      `json:"canSubmit"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SessionStore keeps sessions for a bounded time.
type SessionStore interface {
	Save(ctx context.Context, session Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}

// RequestPatch carries the fields a step edits. Nil fields are left untouched.
type RequestPatch struct {
	ServiceType   *string                 `json:"serviceType"`
	PreferredTime *string                 `json:"preferredTime"`
	Duration      *int                    `json:"duration"`
	Name          *string                 `json:"name"`
	Email         *string                 `json:"email"`
	Phone         *string                 `json:"phone"`
	Flexibility   *scheduling.Flexibility `json:"flexibility"`
	Budget        *scheduling.BudgetRange `json:"budget"`
	Notes         *string                 `json:"notes"`
}

// AdvanceResult reports whether a forward transition happened.
type AdvanceResult struct {
	Session  Session `json:"session"`
	Advanced bool    `json:"advanced"`
}

// SubmitResult is returned after a confirmed booking.
type SubmitResult struct {
	Session     Session             `json:"session"`
	Appointment booking.Appointment `json:"appointment"`
}

// Config drives session lifetime.
type Config struct {
	SessionTTL time.Duration
}

// Service runs wizard sessions on top of the slot and booking services.
type Service interface {
	Start(ctx context.Context, seed RequestPatch) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	UpdateRequest(ctx context.Context, id string, patch RequestPatch) (Session, error)
	ViewDate(ctx context.Context, id, date string) (Session, error)
	SelectSlot(ctx context.Context, id, slotID string) (Session, error)
	Advance(ctx context.Context, id string) (AdvanceResult, error)
	Retreat(ctx context.Context, id string) (Session, error)
	Submit(ctx context.Context, id string) (SubmitResult, error)
}

type service struct {
	cfg      Config
	store    SessionStore
	slots    scheduling.Service
	bookings booking.Service
	metrics  *metrics.BookingMetrics
	logger   *slog.Logger
	now      util.Clock
}

// NewService constructs the wizard service.
func NewService(cfg Config, store SessionStore, slots scheduling.Service, bookings booking.Service, m *metrics.BookingMetrics, logger *slog.Logger) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &service{
		cfg:      cfg,
		store:    store,
		slots:    slots,
		bookings: bookings,
		metrics:  m,
		logger:   logger.With("component", "wizard.service"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Start(ctx context.Context, seed RequestPatch) (Session, error) {
	now := s.now()
	session := Session{
		ID:         uuid.NewString(),
		Controller: NewController(),
		CreatedAt:  now,
	}
	if err := applyPatch(&session.Request, seed); err != nil {
		return Session{}, err
	}
	if seed.ServiceType != nil && seed.Duration == nil {
		session.Request.Duration = s.slots.DefaultDuration(ctx, session.Request.ServiceType)
	}
	if err := s.save(ctx, &session); err != nil {
		return Session{}, err
	}
	s.logger.Debug("wizard started", "session_id", session.ID)
	return session, nil
}

func (s *service) Get(ctx context.Context, id string) (Session, error) {
	return s.load(ctx, id)
}

func (s *service) UpdateRequest(ctx context.Context, id string, patch RequestPatch) (Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		previousService := session.Request.ServiceType
		if err := applyPatch(&session.Request, patch); err != nil {
			return err
		}
		serviceChanged := session.Request.ServiceType != previousService
		if serviceChanged && patch.Duration == nil {
			session.Request.Duration = s.slots.DefaultDuration(ctx, session.Request.ServiceType)
		}
		// the viewed grid is kept as drawn; only ViewDate lays out a new one
		if len(session.Slots) > 0 && (patch.PreferredTime != nil || patch.Budget != nil || serviceChanged) {
			session.Controller.RefreshSlots(s.slots.Rerank(ctx, session.Slots, session.Request, serviceChanged))
		}
		return nil
	})
}

func (s *service) ViewDate(ctx context.Context, id, date string) (Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return s.refreshSlots(ctx, session, date)
	})
}

func (s *service) SelectSlot(ctx context.Context, id, slotID string) (Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		switch err := session.Controller.SelectSlot(slotID); {
		case errors.Is(err, ErrSlotNotFound):
			return apperrors.Wrap("not_found", err.Error(), err)
		case errors.Is(err, ErrSlotUnavailable):
			return apperrors.WithDescription(
				apperrors.Wrap("slot_unavailable", err.Error(), err),
				"This time is already taken. Please pick another slot.")
		}
		return nil
	})
}

func (s *service) Advance(ctx context.Context, id string) (AdvanceResult, error) {
	var moved bool
	session, err := s.mutate(ctx, id, func(session *Session) error {
		moved = session.Controller.Advance()
		return nil
	})
	if err != nil {
		return AdvanceResult{}, err
	}
	s.metrics.ObserveTransition("advance", moved)
	return AdvanceResult{Session: session, Advanced: moved}, nil
}

func (s *service) Retreat(ctx context.Context, id string) (Session, error) {
	var moved bool
	session, err := s.mutate(ctx, id, func(session *Session) error {
		moved = session.Controller.Retreat()
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	s.metrics.ObserveTransition("retreat", moved)
	return session, nil
}

func (s *service) Submit(ctx context.Context, id string) (SubmitResult, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return SubmitResult{}, err
	}
	if !session.Controller.CanSubmit() {
		return SubmitResult{}, apperrors.WithDescription(
			apperrors.Wrap("invalid_state", "submit is only available on the confirmation step", nil),
			"Please complete the previous steps first.")
	}

	appt, err := s.bookings.Submit(ctx, session.Request, *session.Selected)
	if err != nil {
		s.logger.Warn("wizard submit failed", "session_id", id, "error", err)
		return SubmitResult{}, err
	}

	session.Controller.Reset()
	if err := s.save(ctx, &session); err != nil {
		// the appointment exists; a stale session only costs the customer a restart
		s.logger.Error("wizard reset not persisted", "session_id", id, "appointment_id", appt.ID, "error", err)
	}
	s.metrics.ObserveTransition("submit", true)
	return SubmitResult{Session: session, Appointment: appt}, nil
}

func (s *service) refreshSlots(ctx context.Context, session *Session, date string) error {
	resp, err := s.slots.Slots(ctx, scheduling.Query{Date: date, Request: session.Request})
	if err != nil {
		return err
	}
	session.Controller.SetDate(resp.Date, resp.Slots)
	return nil
}

func (s *service) mutate(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if err := fn(&session); err != nil {
		return Session{}, err
	}
	if err := s.save(ctx, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *service) load(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, apperrors.Wrap("invalid_input", "session id cannot be empty", nil)
	}
	session, found, err := s.store.Load(ctx, id)
	if err != nil {
		return Session{}, apperrors.Wrap("wizard_error", "failed to load session", err)
	}
	if !found {
		return Session{}, apperrors.WithDescription(
			apperrors.Wrap("not_found", "session not found", nil),
			"Your booking session has expired. Please start again.")
	}
	return session, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = s.now()
	session.CanAdvance = session.Controller.CanAdvance()
	session.CanSubmit = session.Controller.CanSubmit()
	if err := s.store.Save(ctx, *session, s.cfg.SessionTTL); err != nil {
		return apperrors.Wrap("wizard_error", "failed to save session", err)
	}
	return nil
}

func applyPatch(req *scheduling.AppointmentRequest, patch RequestPatch) error {
	if patch.PreferredTime != nil && *patch.PreferredTime != "" {
		if _, err := scheduling.ParseClock(*patch.PreferredTime); err != nil {
			return apperrors.Wrap("invalid_input", err.Error(), nil)
		}
	}
	if patch.Flexibility != nil && *patch.Flexibility != "" && !patch.Flexibility.Valid() {
		return apperrors.Wrap("invalid_input", "unknown flexibility "+string(*patch.Flexibility), nil)
	}
	if patch.Duration != nil && *patch.Duration < 0 {
		return apperrors.Wrap("invalid_input", "duration cannot be negative", nil)
	}
	if patch.Budget != nil && patch.Budget.Max > 0 && patch.Budget.Min > patch.Budget.Max {
		return apperrors.Wrap("invalid_input", "budget min exceeds max", nil)
	}

	setString(&req.ServiceType, patch.ServiceType)
	setString(&req.PreferredTime, patch.PreferredTime)
	setString(&req.Name, patch.Name)
	setString(&req.Email, patch.Email)
	setString(&req.Phone, patch.Phone)
	setString(&req.Notes, patch.Notes)
	if patch.Duration != nil {
		req.Duration = *patch.Duration
	}
	if patch.Flexibility != nil {
		req.Flexibility = *patch.Flexibility
	}
	if patch.Budget != nil {
		budget := *patch.Budget
		req.Budget = &budget
		if budget.Min == 0 && budget.Max == 0 {
			req.Budget = nil
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
