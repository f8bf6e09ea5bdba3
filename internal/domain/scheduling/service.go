package scheduling

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/mariiahub/booking-api/pkg/errors"
	"github.com/mariiahub/booking-api/pkg/metrics"
	"github.com/mariiahub/booking-api/pkg/util"
)

// Service produces ranked slots for a date.
type Service interface {
	Slots(ctx context.Context, q Query) (SlotsResponse, error)
	// Rerank re-scores an existing grid for an edited request. Availability and providers
	// are kept; prices are refreshed from the catalog when reprice is set.
	Rerank(ctx context.Context, slots []TimeSlot, req AppointmentRequest, reprice bool) []TimeSlot
	// DefaultDuration is the catalog length of serviceType in minutes, or 0 when unknown.
	DefaultDuration(ctx context.Context, serviceType string) int
	ParseDate(raw string) (time.Time, error)
}

// Offer is what the catalog charges for a service type and how long it takes.
type Offer struct {
	Price           float64
	DurationMinutes int
}

// OfferLookup resolves the catalog offer of a service type.
type OfferLookup interface {
	LookupOffer(ctx context.Context, serviceType string) (Offer, bool, error)
}

// Query selects the date to lay out and the request the ranking is personalised for.
type Query struct {
	Date    string             `json:"date"`
	Request AppointmentRequest `json:"request"`
}

// SlotsResponse is returned to the HTTP transport.
type SlotsResponse struct {
	Date            string     `json:"date"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
	Slots           []TimeSlot `json:"slots"`
	Available       int        `json:"available"`
	Recommended     int        `json:"recommended"`
}

type service struct {
	cfg       Config
	generator *Generator
	ranker    *Ranker
	offers    OfferLookup
	metrics   *metrics.BookingMetrics
	logger    *slog.Logger
	now       util.Clock
}

// NewService wires the generator and ranker behind a single entry point.
func NewService(cfg Config, generator *Generator, offers OfferLookup, m *metrics.BookingMetrics, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &service{
		cfg:       cfg,
		generator: generator,
		ranker:    NewRanker(cfg.Ranking),
		offers:    offers,
		metrics:   m,
		logger:    logger.With("component", "scheduling.service"),
		now:       time.Now,
	}
}

func (s *service) Slots(ctx context.Context, q Query) (SlotsResponse, error) {
	date, err := s.ParseDate(q.Date)
	if err != nil {
		return SlotsResponse{}, err
	}
	today := util.DateOnly(s.now().In(s.cfg.Location))
	if date.Before(today) {
		return SlotsResponse{}, apperrors.WithDescription(
			apperrors.Wrap("invalid_input", "date is in the past", nil),
			"Please choose today or a later date.")
	}

	offer := s.lookupOffer(ctx, q.Request.ServiceType)
	slots := s.ranker.Rank(s.generator.Generate(date, offer.Price), q.Request)

	resp := SlotsResponse{Date: FormatDate(date), DurationMinutes: offer.DurationMinutes, Slots: slots}
	for _, slot := range slots {
		if slot.Available {
			resp.Available++
		}
		if slot.Recommended {
			resp.Recommended++
		}
	}
	s.metrics.ObserveSlots(resp.Available, len(slots)-resp.Available)
	return resp, nil
}

func (s *service) ParseDate(raw string) (time.Time, error) {
	date, err := ParseDate(raw, s.cfg.Location)
	if err != nil {
		return time.Time{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	return date, nil
}

func (s *service) Rerank(ctx context.Context, slots []TimeSlot, req AppointmentRequest, reprice bool) []TimeSlot {
	if reprice && len(slots) > 0 {
		offer := s.lookupOffer(ctx, req.ServiceType)
		repriced := make([]TimeSlot, len(slots))
		for i, slot := range slots {
			slot.Price = s.generator.PriceAt(slot.Start, offer.Price)
			repriced[i] = slot
		}
		slots = repriced
	}
	return s.ranker.Rank(slots, req)
}

func (s *service) DefaultDuration(ctx context.Context, serviceType string) int {
	return s.lookupOffer(ctx, serviceType).DurationMinutes
}

// lookupOffer falls back to the configured default price when the catalog has no match.
func (s *service) lookupOffer(ctx context.Context, serviceType string) Offer {
	fallback := Offer{Price: s.cfg.DefaultPrice}
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" || s.offers == nil {
		return fallback
	}
	offer, found, err := s.offers.LookupOffer(ctx, serviceType)
	if err != nil {
		s.logger.Warn("service offer lookup failed, using default price", "service_type", serviceType, "error", err)
		return fallback
	}
	if !found {
		return fallback
	}
	if offer.Price <= 0 {
		offer.Price = s.cfg.DefaultPrice
	}
	return offer
}
