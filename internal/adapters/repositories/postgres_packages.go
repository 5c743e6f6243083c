package repositories

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
)

const packageColumns = `id::text, prod_id, name, start_date, eta, status,
	business_id::text, customer_id::text, path, created_at, updated_at`

// pathPoint is the JSONB element stored in packages.path.
type pathPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (s *PostgresStore) CreatePackage(ctx context.Context, p *domain.Package) (err error) {
	defer obs.Time(ctx, "postgres.CreatePackage")(&err)

	if err := s.check(); err != nil {
		return err
	}

	path, err := encodePath(p.Path)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}

	query := `
	INSERT INTO packages (
		id, prod_id, name, start_date, eta, status,
		business_id, customer_id, path, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11);
	`
	_, err = s.DB.ExecContext(ctx, query,
		p.ID,
		p.ProdID,
		p.Name,
		p.StartDate,
		p.ETA,
		string(p.Status),
		p.BusinessID,
		p.CustomerID,
		path,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create package: %w", pgConflict(err))
	}

	return nil
}

func (s *PostgresStore) GetPackage(ctx context.Context, id string) (_ *domain.Package, err error) {
	defer obs.Time(ctx, "postgres.GetPackage")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1;`
	p, err := scanPackage(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}

	return p, nil
}

func (s *PostgresStore) ListPackagesByBusiness(ctx context.Context, businessID string) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "postgres.ListPackagesByBusiness")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `SELECT ` + packageColumns + ` FROM packages WHERE business_id = $1 ORDER BY created_at, id;`
	rows, err := s.DB.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, 64)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}

// AppendPathPoint pushes point onto the JSONB path in a single UPDATE whose
// predicate rejects near duplicates. Concurrent writers to the same row are
// serialized by the row lock and the predicate is re-evaluated against the
// latest path, so no append is lost.
func (s *PostgresStore) AppendPathPoint(
	ctx context.Context,
	id string,
	point domain.Coordinates,
	tol float64,
) (_ int, err error) {
	defer obs.Time(ctx, "postgres.AppendPathPoint")(&err)

	if err := s.check(); err != nil {
		return 0, err
	}

	query := `
	UPDATE packages
	SET path = path || jsonb_build_array(jsonb_build_object('lat', $2::float8, 'lon', $3::float8)),
		updated_at = now()
	WHERE id = $1
		AND NOT EXISTS (
			SELECT 1
			FROM jsonb_array_elements(path) AS p
			WHERE abs((p->>'lat')::float8 - $2::float8) < $4::float8
				AND abs((p->>'lon')::float8 - $3::float8) < $4::float8
		)
	RETURNING jsonb_array_length(path);
	`

	var n int
	err = s.DB.QueryRowContext(ctx, query, id, point.Lat, point.Lon, tol).Scan(&n)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("append path point: %w", err)
	}

	// Nothing updated: either the package is missing or the point is a duplicate.
	var exists bool
	err = s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM packages WHERE id = $1);`, id).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("append path point: check package: %w", err)
	}
	if !exists {
		return 0, ports.ErrNotFound
	}

	return 0, domain.ErrDuplicatePoint
}

func scanPackage(row scanner) (*domain.Package, error) {
	var p domain.Package
	var status string
	var rawPath []byte

	err := row.Scan(
		&p.ID,
		&p.ProdID,
		&p.Name,
		&p.StartDate,
		&p.ETA,
		&status,
		&p.BusinessID,
		&p.CustomerID,
		&rawPath,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.Status(status)
	if p.Path, err = decodePath(rawPath); err != nil {
		return nil, err
	}

	return &p, nil
}

func encodePath(path domain.Path) (string, error) {
	points := make([]pathPoint, 0, len(path))
	for _, c := range path {
		points = append(points, pathPoint{Lat: c.Lat, Lon: c.Lon})
	}

	b, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}
	return string(b), nil
}

func decodePath(raw []byte) (domain.Path, error) {
	path := domain.Path{}
	if len(raw) == 0 {
		return path, nil
	}

	var points []pathPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}

	for _, pt := range points {
		path = append(path, domain.Coordinates{Lat: pt.Lat, Lon: pt.Lon})
	}
	return path, nil
}
