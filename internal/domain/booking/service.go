package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	apperrors "github.com/mariiahub/booking-api/pkg/errors"
	"github.com/mariiahub/booking-api/pkg/metrics"
	"github.com/mariiahub/booking-api/pkg/util"
)

// Service submits appointments and lists them for dashboards.
type Service interface {
	Submit(ctx context.Context, req scheduling.AppointmentRequest, slot scheduling.TimeSlot) (Appointment, error)
	ListMine(ctx context.Context, email string) ([]Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)
}

type service struct {
	cfg     Config
	repo    Repository
	queue   JobQueue
	metrics *metrics.BookingMetrics
	logger  *slog.Logger
	now     util.Clock
}

// NewService constructs the booking submitter.
func NewService(cfg Config, repo Repository, queue JobQueue, m *metrics.BookingMetrics, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		repo:    repo,
		queue:   queue,
		metrics: m,
		logger:  logger.With("component", "booking.service"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Submit(ctx context.Context, req scheduling.AppointmentRequest, slot scheduling.TimeSlot) (Appointment, error) {
	started := time.Now()
	appt, err := s.submit(ctx, req, slot)
	status := string(StatusConfirmed)
	if err != nil {
		status = apperrors.CodeOf(err)
		if status == "" {
			status = "failed"
		}
	}
	s.metrics.ObserveSubmission(status, time.Since(started).Seconds())
	return appt, err
}

func (s *service) submit(ctx context.Context, req scheduling.AppointmentRequest, slot scheduling.TimeSlot) (Appointment, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return Appointment{}, err
	}
	now := s.now()
	if err := validateSlot(slot, now); err != nil {
		return Appointment{}, err
	}
	if req.Duration == 0 {
		req.Duration = int(slot.End.Sub(slot.Start) / time.Minute)
	}

	appt := Appointment{
		ID:        uuid.New(),
		Request:   req,
		Slot:      slot,
		Status:    StatusConfirmed,
		CreatedAt: now,
	}

	if s.cfg.SimulatedDelay > 0 {
		timer := time.NewTimer(s.cfg.SimulatedDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Appointment{}, apperrors.Wrap("cancelled", "submission cancelled", ctx.Err())
		case <-timer.C:
		}
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return Appointment{}, apperrors.WithDescription(
				apperrors.Wrap("slot_taken", "slot already booked", err),
				"Someone just booked this time. Please choose another slot.")
		}
		return Appointment{}, apperrors.WithDescription(
			apperrors.Wrap("booking_failed", "failed to save appointment", err),
			"Your booking could not be saved. Please try again.")
	}
	s.logger.Info("appointment confirmed",
		"appointment_id", appt.ID,
		"service_type", req.ServiceType,
		"provider_id", slot.ProviderID,
		"start", slot.Start)

	if s.queue != nil {
		payload := map[string]any{
			"appointmentId": appt.ID.String(),
			"email":         req.Email,
			"name":          req.Name,
			"serviceType":   req.ServiceType,
			"start":         slot.Start.Format(time.RFC3339),
			"providerName":  slot.ProviderName,
		}
		if err := s.queue.Enqueue(ctx, ConfirmationJob, payload); err != nil {
			s.logger.Warn("confirmation enqueue failed", "appointment_id", appt.ID, "error", err)
		}
	}
	return appt, nil
}

func (s *service) ListMine(ctx context.Context, email string) ([]Appointment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.Wrap("invalid_input", "email cannot be empty", nil)
	}
	items, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Wrap("booking_error", "failed to load appointments", err)
	}
	return items, nil
}

func (s *service) ListAll(ctx context.Context) ([]Appointment, error) {
	limit := s.cfg.ListLimit
	if limit <= 0 {
		limit = 100
	}
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("booking_error", "failed to load appointments", err)
	}
	return items, nil
}

func normalizeRequest(req scheduling.AppointmentRequest) (scheduling.AppointmentRequest, error) {
	req.ServiceType = strings.TrimSpace(req.ServiceType)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Notes = strings.TrimSpace(req.Notes)

	switch {
	case req.ServiceType == "":
		return req, apperrors.Wrap("invalid_input", "service type cannot be empty", nil)
	case req.Name == "":
		return req, apperrors.Wrap("invalid_input", "name cannot be empty", nil)
	case req.Email == "":
		return req, apperrors.Wrap("invalid_input", "email cannot be empty", nil)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return req, apperrors.Wrap("invalid_input", "invalid email address", err)
	}
	if req.Flexibility == "" {
		req.Flexibility = scheduling.FlexibilityFlexible
	}
	if !req.Flexibility.Valid() {
		return req, apperrors.Wrap("invalid_input", "unknown flexibility "+string(req.Flexibility), nil)
	}
	if req.Duration < 0 {
		return req, apperrors.Wrap("invalid_input", "duration cannot be negative", nil)
	}
	return req, nil
}

func validateSlot(slot scheduling.TimeSlot, now time.Time) error {
	switch {
	case slot.Start.IsZero() || !slot.End.After(slot.Start):
		return apperrors.Wrap("invalid_input", "slot must have a start before its end", nil)
	case !slot.Available:
		return apperrors.WithDescription(
			apperrors.Wrap("slot_unavailable", "slot is not available", nil),
			"This time is no longer available. Please choose another slot.")
	case slot.Start.Before(now):
		return apperrors.Wrap("invalid_input", "slot is in the past", nil)
	}
	return nil
}
