package cache

import (
	"context"
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/platform/db"
	"delivery-tracking-service/internal/ports"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLGeocodeCache(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, repositories.InitSchema(ctx, conn))
	_, err = conn.ExecContext(ctx, `TRUNCATE geocode_cache;`)
	require.NoError(t, err)

	c := NewSQLGeocodeCache(conn, time.Hour)

	require.NoError(t, c.PutMany(ctx, map[string][]ports.GeocodeResult{
		"jaffa road 97, jerusalem": {{Lat: 31.78, Lon: 35.21, DisplayName: "Jaffa Road"}},
	}))
	// Upsert replaces the stored results.
	require.NoError(t, c.PutMany(ctx, map[string][]ports.GeocodeResult{
		"jaffa road 97, jerusalem": {{Lat: 31.7857, Lon: 35.2137, DisplayName: "Jaffa Road 97"}},
	}))

	got, err := c.GetMany(ctx, []string{"jaffa road 97, jerusalem", "unknown"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jaffa Road 97", got["jaffa road 97, jerusalem"][0].DisplayName)

	_, err = conn.ExecContext(ctx, `UPDATE geocode_cache SET fetched_at = now() - interval '2 hours';`)
	require.NoError(t, err)

	got, err = c.GetMany(ctx, []string{"jaffa road 97, jerusalem"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	c := NewSQLGeocodeCache(nil, time.Hour)

	_, err := c.GetMany(context.Background(), []string{"x"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(context.Background(), map[string][]ports.GeocodeResult{"x": nil}))
}
