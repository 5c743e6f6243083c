package cache

import (
	"context"
	"database/sql"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLGeocodeCache is a SQL-backed cache mapping normalized addresses to
// geocode results. Entries older than TTL are treated as misses.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl}
}

// Fetch cached results for the given addresses. Missing or expired addresses
// are absent from the map.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string][]ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	trimmed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		trimmed = append(trimmed, strings.TrimSpace(a))
	}
	uniq := uniqueKeys(trimmed)
	if len(uniq) == 0 {
		return map[string][]ports.GeocodeResult{}, nil
	}

	q := `
	SELECT address, results
	FROM geocode_cache
	WHERE address = ANY($1::text[])
		AND ($2::float8 <= 0 OR fetched_at > now() - make_interval(secs => $2::float8));
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq, s.TTL.Seconds())
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]ports.GeocodeResult, len(uniq))
	for rows.Next() {
		var addr string
		var raw []byte
		if err := rows.Scan(&addr, &raw); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}

		results, err := decodeResults(raw)
		if err != nil {
			return nil, fmt.Errorf("get geocode cache address=%q: %w", addr, err)
		}
		out[addr] = results
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store address -> results mappings, refreshing fetched_at on existing rows.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string][]ports.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (address, results, fetched_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (address) DO UPDATE
	SET results = EXCLUDED.results,
		fetched_at = EXCLUDED.fetched_at;
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for addr, r := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		raw, err := encodeResults(r)
		if err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}

		if _, err := stmt.ExecContext(ctx, addr, string(raw)); err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
