package bookingrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mariiahub/booking-api/internal/domain/booking"
)

// MemoryRepository keeps appointments in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []booking.Appointment
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create stores the appointment unless the provider is already booked at that start.
func (r *MemoryRepository) Create(_ context.Context, appt booking.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Slot.ProviderID == appt.Slot.ProviderID && existing.Slot.Start.Equal(appt.Slot.Start) {
			return booking.ErrSlotTaken
		}
	}
	r.items = append(r.items, appt)
	return nil
}

// ListByEmail returns the customer's appointments, newest first.
func (r *MemoryRepository) ListByEmail(_ context.Context, email string) ([]booking.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []booking.Appointment
	for _, appt := range r.items {
		if strings.EqualFold(appt.Request.Email, email) {
			out = append(out, appt)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// List returns up to limit appointments, newest first.
func (r *MemoryRepository) List(_ context.Context, limit int) ([]booking.Appointment, error) {
	r.mu.RLock()
	out := make([]booking.Appointment, len(r.items))
	copy(out, r.items)
	r.mu.RUnlock()
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(items []booking.Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
