package repositories

import (
	"context"
	"delivery-tracking-service/internal/platform/db"
	"delivery-tracking-service/internal/ports"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Runs against a disposable database named by TEST_DATABASE_URL; every table
// is truncated before each case.
func TestPostgresStoreContract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn))
	// Schema creation must be repeatable.
	require.NoError(t, InitSchema(ctx, conn))

	runStoreContract(t, func(t *testing.T) ports.Store {
		_, err := conn.ExecContext(ctx, `TRUNCATE packages, customers, businesses, geocode_cache;`)
		require.NoError(t, err)
		return NewPostgresStore(conn)
	})
}
