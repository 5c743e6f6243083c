package repositories

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"
)

func (s *PostgresStore) CreateBusiness(ctx context.Context, b *domain.Business) (err error) {
	defer obs.Time(ctx, "postgres.CreateBusiness")(&err)

	if err := s.check(); err != nil {
		return err
	}

	query := `
	INSERT INTO businesses (id, name, site_url, created_at)
	VALUES ($1, $2, $3, $4);
	`
	if _, err := s.DB.ExecContext(ctx, query, b.ID, b.Name, b.SiteURL, b.CreatedAt); err != nil {
		return fmt.Errorf("create business: %w", pgConflict(err))
	}

	return nil
}

func (s *PostgresStore) GetBusiness(ctx context.Context, id string) (_ *domain.Business, err error) {
	defer obs.Time(ctx, "postgres.GetBusiness")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `
	SELECT id::text, name, site_url, created_at
	FROM businesses
	WHERE id = $1;
	`
	b, err := scanBusiness(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	return b, nil
}

// Return all businesses stored in the database.
func (s *PostgresStore) ListBusinesses(ctx context.Context) (_ []*domain.Business, err error) {
	defer obs.Time(ctx, "postgres.ListBusinesses")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `
	SELECT id::text, name, site_url, created_at
	FROM businesses
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list businesses: query businesses table: %w", err)
	}
	defer rows.Close()

	businesses := make([]*domain.Business, 0, 16)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("list businesses: scan row: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list businesses: row iteration: %w", err)
	}

	return businesses, nil
}

func scanBusiness(row scanner) (*domain.Business, error) {
	var b domain.Business
	if err := row.Scan(&b.ID, &b.Name, &b.SiteURL, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
