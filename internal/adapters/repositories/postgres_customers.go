package repositories

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

const customerColumns = `id::text, name, email, street, number, city, lat, lon, created_at`

func (s *PostgresStore) CreateCustomer(ctx context.Context, c *domain.Customer) (err error) {
	defer obs.Time(ctx, "postgres.CreateCustomer")(&err)

	if err := s.check(); err != nil {
		return err
	}

	query := `
	INSERT INTO customers (id, name, email, street, number, city, lat, lon, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = s.DB.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Address.Street,
		c.Address.Number,
		c.Address.City,
		nullFloat(c.Address.Lat),
		nullFloat(c.Address.Lon),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create customer: %w", pgConflict(err))
	}

	return nil
}

func (s *PostgresStore) GetCustomer(ctx context.Context, id string) (_ *domain.Customer, err error) {
	defer obs.Time(ctx, "postgres.GetCustomer")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1;`
	c, err := scanCustomer(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return c, nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) (_ []*domain.Customer, err error) {
	defer obs.Time(ctx, "postgres.ListCustomers")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers: query customers table: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0, 64)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("list customers: scan row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: row iteration: %w", err)
	}

	return customers, nil
}

// Fetch customers for many ids in one query.
func (s *PostgresStore) GetCustomers(ctx context.Context, ids []string) (_ map[string]*domain.Customer, err error) {
	defer obs.Time(ctx, "postgres.GetCustomers")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	if len(uniq) == 0 {
		return map[string]*domain.Customer{}, nil
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ANY($1::text[]::uuid[]);`
	rows, err := s.DB.QueryContext(ctx, query, uniq)
	if err != nil {
		return nil, fmt.Errorf("get customers: query customers table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Customer, len(uniq))
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("get customers: scan row: %w", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get customers: row iteration: %w", err)
	}

	return out, nil
}

func scanCustomer(row scanner) (*domain.Customer, error) {
	var c domain.Customer
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Address.Street,
		&c.Address.Number,
		&c.Address.City,
		&lat,
		&lon,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		c.Address.SetCoordinates(domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64})
	}

	return &c, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
