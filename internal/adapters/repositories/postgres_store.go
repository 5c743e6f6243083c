package repositories

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/ports"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Unique constraints mapped to the field they protect.
var pgConstraintFields = map[string]string{
	"businesses_name_key":     "name",
	"businesses_site_url_key": "site_url",
	"customers_email_key":     "email",
	"businesses_pkey":         "id",
	"customers_pkey":          "id",
	"packages_pkey":           "id",
}

// PostgreSQL-backed implementation of ports.Store. Package paths live in a
// JSONB column so appends stay single-row updates.
type PostgresStore struct{ DB *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Close(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *PostgresStore) check() error {
	if s.DB == nil {
		return errors.New("postgres store: DB is nil")
	}
	return nil
}

// pgConflict converts a unique violation into a *ports.ConflictError.
func pgConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &ports.ConflictError{Field: pgConstraintFields[pgErr.ConstraintName]}
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
