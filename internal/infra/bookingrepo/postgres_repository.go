package bookingrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mariiahub/booking-api/internal/domain/booking"
	"github.com/mariiahub/booking-api/internal/infra/pgxdb"
)

// PostgresRepository persists appointments in the appointments table.
// A unique index on (provider_id, start_time) guards double booking.
type PostgresRepository struct {
	db pgxdb.DB
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(db pgxdb.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the appointment row.
func (r *PostgresRepository) Create(ctx context.Context, appt booking.Appointment) error {
	request, err := json.Marshal(appt.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	slot, err := json.Marshal(appt.Slot)
	if err != nil {
		return fmt.Errorf("encode slot: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO appointments (id, email, provider_id, start_time, status, request, slot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, appt.ID, appt.Request.Email, appt.Slot.ProviderID, appt.Slot.Start, string(appt.Status), request, slot, appt.CreatedAt)
	if err != nil {
		if pgxdb.IsUniqueViolation(err) {
			return booking.ErrSlotTaken
		}
		return err
	}
	return nil
}

// ListByEmail returns the customer's appointments, newest first.
func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]booking.Appointment, error) {
	return r.query(ctx, `
		SELECT id, status, request, slot, created_at
		FROM appointments
		WHERE email = $1
		ORDER BY created_at DESC
	`, email)
}

// List returns up to limit appointments, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]booking.Appointment, error) {
	return r.query(ctx, `
		SELECT id, status, request, slot, created_at
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]booking.Appointment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.Appointment
	for rows.Next() {
		var (
			appt    booking.Appointment
			status  string
			request []byte
			slot    []byte
		)
		if err := rows.Scan(&appt.ID, &status, &request, &slot, &appt.CreatedAt); err != nil {
			return nil, err
		}
		appt.Status = booking.Status(status)
		if err := decode(request, &appt.Request); err != nil {
			return nil, fmt.Errorf("decode request of %s: %w", appt.ID, err)
		}
		if err := decode(slot, &appt.Slot); err != nil {
			return nil, fmt.Errorf("decode slot of %s: %w", appt.ID, err)
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

func decode(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
