package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mariiahub/booking-api/internal/domain/baas"
	"github.com/mariiahub/booking-api/internal/infra/pgxdb"
)

// PostgresStore implements baas.RecordStore on JSONB tables shaped
// (id TEXT PRIMARY KEY, data JSONB, created_at TIMESTAMPTZ, updated_at TIMESTAMPTZ).
type PostgresStore struct {
	db pgxdb.DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db pgxdb.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert adds a record.
func (s *PostgresStore) Insert(ctx context.Context, table, id string, data json.RawMessage) (baas.Record, error) {
	if err := baas.CheckTable(table); err != nil {
		return baas.Record{}, err
	}
	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, data)
		VALUES ($1, $2)
		RETURNING id, data, created_at, updated_at
	`, table), id, []byte(data))
	return scanRecord(row)
}

// Get fetches a record by id.
func (s *PostgresStore) Get(ctx context.Context, table, id string) (baas.Record, bool, error) {
	if err := baas.CheckTable(table); err != nil {
		return baas.Record{}, false, err
	}
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT id, data, created_at, updated_at
		FROM %s
		WHERE id = $1
		LIMIT 1
	`, table), id)
	if err != nil {
		return baas.Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return baas.Record{}, false, rows.Err()
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return baas.Record{}, false, err
	}
	return rec, true, rows.Err()
}

// List returns all records in creation order.
func (s *PostgresStore) List(ctx context.Context, table string) ([]baas.Record, error) {
	if err := baas.CheckTable(table); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT id, data, created_at, updated_at
		FROM %s
		ORDER BY created_at, id
	`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []baas.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Update replaces the record payload.
func (s *PostgresStore) Update(ctx context.Context, table, id string, data json.RawMessage) (baas.Record, error) {
	if err := baas.CheckTable(table); err != nil {
		return baas.Record{}, err
	}
	row := s.db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s
		SET data = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, data, created_at, updated_at
	`, table), id, []byte(data))
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return baas.Record{}, baas.ErrRecordNotFound
	}
	return rec, err
}

// Delete removes the record.
func (s *PostgresStore) Delete(ctx context.Context, table, id string) error {
	if err := baas.CheckTable(table); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return baas.ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (baas.Record, error) {
	var (
		rec              baas.Record
		data             []byte
		created, updated time.Time
	)
	if err := row.Scan(&rec.ID, &data, &created, &updated); err != nil {
		return baas.Record{}, err
	}
	rec.Data = json.RawMessage(data)
	rec.CreatedAt = created.UTC()
	rec.UpdatedAt = updated.UTC()
	return rec, nil
}

var _ baas.RecordStore = (*PostgresStore)(nil)
