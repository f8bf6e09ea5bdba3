package scheduling

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/mariiahub/booking-api/pkg/errors"
)

type stubOffers struct {
	offer Offer
	found bool
	err   error
	calls []string
}

func (s *stubOffers) LookupOffer(_ context.Context, serviceType string) (Offer, bool, error) {
	s.calls = append(s.calls, serviceType)
	return s.offer, s.found, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServiceUnderTest(offers OfferLookup) *service {
	cfg := DefaultConfig()
	svc := NewService(cfg, NewGenerator(cfg, fixedRand{value: 0.1}), offers, nil, newTestLogger()).(*service)
	svc.now = func() time.Time { return time.Date(2099, 1, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestServiceSlotsUsesCatalogPrice(t *testing.T) {
	offers := &stubOffers{offer: Offer{Price: 120, DurationMinutes: 60}, found: true}
	svc := newServiceUnderTest(offers)

	resp, err := svc.Slots(context.Background(), Query{
		Date:    "2099-01-05",
		Request: AppointmentRequest{ServiceType: "beauty", PreferredTime: "10:00"},
	})
	require.NoError(t, err)
	require.Equal(t, "2099-01-05", resp.Date)
	require.Len(t, resp.Slots, 18)
	require.Equal(t, 18, resp.Available)
	require.Positive(t, resp.Recommended)
	require.Equal(t, 60, resp.DurationMinutes)
	require.Equal(t, []string{"beauty"}, offers.calls)
	for _, slot := range resp.Slots {
		require.Equal(t, 120.0, slot.Price)
	}
}

func TestServiceSlotsFallsBackToDefaultPrice(t *testing.T) {
	svc := newServiceUnderTest(&stubOffers{err: errors.New("table unavailable")})

	resp, err := svc.Slots(context.Background(), Query{Date: "2099-01-05", Request: AppointmentRequest{ServiceType: "fitness"}})
	require.NoError(t, err)
	require.Equal(t, 180.0, resp.Slots[0].Price)
	require.Zero(t, resp.DurationMinutes)
}

func TestServiceSlotsRejectsBadDates(t *testing.T) {
	svc := newServiceUnderTest(nil)

	_, err := svc.Slots(context.Background(), Query{Date: "05/01/2099"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Slots(context.Background(), Query{Date: "2098-12-31"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.NotEmpty(t, apperrors.DescriptionOf(err))

	_, err = svc.Slots(context.Background(), Query{Date: "2099-01-01"})
	require.NoError(t, err)
}

func TestServiceRerankKeepsGrid(t *testing.T) {
	offers := &stubOffers{offer: Offer{Price: 120}, found: true}
	svc := newServiceUnderTest(offers)
	slots := []TimeSlot{
		{ID: "a", Start: time.Date(2099, 1, 5, 10, 0, 0, 0, time.UTC), Available: true, ProviderID: "anna", Price: 250},
		{ID: "b", Start: time.Date(2099, 1, 5, 15, 0, 0, 0, time.UTC), Available: false, ProviderID: "mariia", Price: 250},
	}

	reranked := svc.Rerank(context.Background(), slots, AppointmentRequest{PreferredTime: "15:00"}, false)
	require.Len(t, reranked, 2)
	require.Empty(t, offers.calls)
	require.Equal(t, 250.0, reranked[0].Price)
	require.True(t, reranked[0].Available)
	require.False(t, reranked[1].Available)
	require.Equal(t, "mariia", reranked[1].ProviderID)
	require.Contains(t, reranked[1].Reasons, "Close to your preferred time")
	require.NotContains(t, reranked[0].Reasons, "Close to your preferred time")

	repriced := svc.Rerank(context.Background(), slots, AppointmentRequest{ServiceType: "nails"}, true)
	require.Equal(t, []string{"nails"}, offers.calls)
	require.Equal(t, 120.0, repriced[0].Price)
	require.Equal(t, "anna", repriced[0].ProviderID)
	require.Equal(t, 250.0, slots[0].Price)
}

func TestServiceRerankAppliesWeekendSurcharge(t *testing.T) {
	svc := newServiceUnderTest(&stubOffers{offer: Offer{Price: 100}, found: true})
	weekendSlots := []TimeSlot{{ID: "s", Start: time.Date(2099, 1, 10, 10, 0, 0, 0, time.UTC), Available: true}}

	repriced := svc.Rerank(context.Background(), weekendSlots, AppointmentRequest{ServiceType: "nails"}, true)
	require.Equal(t, 115.0, repriced[0].Price)
}

func TestServiceDefaultDuration(t *testing.T) {
	svc := newServiceUnderTest(&stubOffers{offer: Offer{Price: 90, DurationMinutes: 45}, found: true})
	require.Equal(t, 45, svc.DefaultDuration(context.Background(), "pilates"))
	require.Zero(t, svc.DefaultDuration(context.Background(), ""))

	missing := newServiceUnderTest(&stubOffers{})
	require.Zero(t, missing.DefaultDuration(context.Background(), "pilates"))
}
