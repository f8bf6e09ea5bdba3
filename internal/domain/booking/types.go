package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mariiahub/booking-api/internal/domain/scheduling"
)

// Status of a submitted appointment. Only confirmed exists today; there is no
// reschedule or cancel lifecycle.
type Status string

const StatusConfirmed Status = "confirmed"

// ConfirmationJob is the queue job name emitted after a successful booking.
const ConfirmationJob = "booking.confirmation"

// ErrSlotTaken is returned by repositories when (provider, start) is already booked.
var ErrSlotTaken = errors.New("slot already booked")

// Appointment is the record created on submission.
type Appointment struct {
	ID        uuid.UUID                     `json:"id"`
	Request   scheduling.AppointmentRequest `json:"request"`
	Slot      scheduling.TimeSlot           `json:"slot"`
	Status    Status                        `json:"status"`
	CreatedAt time.Time                     `json:"createdAt"`
}

// Config drives submission behavior.
type Config struct {
	SimulatedDelay time.Duration
	ListLimit      int
}

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, appt Appointment) error
	ListByEmail(ctx context.Context, email string) ([]Appointment, error)
	List(ctx context.Context, limit int) ([]Appointment, error)
}

// JobQueue enqueues background work.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}
