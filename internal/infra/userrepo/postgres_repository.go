package userrepo

import (
	"context"
	"time"

	"github.com/mariiahub/booking-api/internal/domain/auth"
	"github.com/mariiahub/booking-api/internal/infra/pgxdb"
)

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	db pgxdb.DB
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(db pgxdb.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, phone, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, name, phone, role, password_hash, created_at
	`, user.Email, user.Name, user.Phone, string(user.Role), user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if pgxdb.IsUniqueViolation(err) {
			return auth.User{}, auth.ErrEmailExists
		}
		return auth.User{}, err
	}
	return created, nil
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.getOne(ctx, `
		SELECT id, email, name, phone, role, password_hash, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	return r.getOne(ctx, `
		SELECT id, email, name, phone, role, password_hash, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
}

// UpdateRole changes the stored role.
func (r *PostgresRepository) UpdateRole(ctx context.Context, id int64, role auth.Role) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(role))
	return err
}

func (r *PostgresRepository) getOne(ctx context.Context, sql string, arg any) (auth.User, bool, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return auth.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var (
		user    auth.User
		role    string
		created time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &role, &user.PasswordHash, &created); err != nil {
		return auth.User{}, err
	}
	user.Role = auth.Role(role)
	user.CreatedAt = created.UTC()
	return user, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
