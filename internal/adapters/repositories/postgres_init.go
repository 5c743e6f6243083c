package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostgreSQL schema. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBusinessesQuery := `
	CREATE TABLE IF NOT EXISTS businesses (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		site_url TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT businesses_name_key UNIQUE (name),
		CONSTRAINT businesses_site_url_key UNIQUE (site_url)
	);
	`

	createCustomersQuery := `
	CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		street TEXT NOT NULL,
		number INTEGER NOT NULL CHECK (number BETWEEN 1 AND 99999),
		city TEXT NOT NULL,
		lat DOUBLE PRECISION CHECK (lat BETWEEN -90 AND 90),
		lon DOUBLE PRECISION CHECK (lon BETWEEN -180 AND 180),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT customers_email_key UNIQUE (email)
	);
	`

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		id UUID PRIMARY KEY,
		prod_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date BIGINT NOT NULL,
		eta BIGINT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('packed', 'shipped', 'intransit', 'delivered')),
		business_id UUID NOT NULL REFERENCES businesses (id),
		customer_id UUID NOT NULL REFERENCES customers (id),
		path JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT packages_eta_after_start CHECK (eta > start_date)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		results JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	statements := []string{
		createBusinessesQuery,
		createCustomersQuery,
		createPackagesQuery,
		createGeocodeCacheQuery,
		`CREATE INDEX IF NOT EXISTS idx_packages_business_id ON packages (business_id);`,
		`CREATE INDEX IF NOT EXISTS idx_packages_customer_id ON packages (customer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_packages_status ON packages (status);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
