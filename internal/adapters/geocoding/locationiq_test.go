package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *LocationIQGeocoder {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewLocationIQGeocoder("test-key", srv.URL)
	require.NoError(t, err)
	g.backoff = time.Millisecond
	return g
}

func TestLocationIQGeocode(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "12 Herzl, Tel Aviv", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat": "32.0622", "lon": "34.7748", "display_name": "Herzl 12, Tel Aviv"},
			{"lat": "31.2518", "lon": "34.7913", "display_name": "Herzl 12, Beersheba"}
		]`))
	})

	got, err := g.Geocode(context.Background(), "  12 Herzl,   Tel Aviv ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 32.0622, got[0].Lat, 1e-9)
	assert.InDelta(t, 34.7748, got[0].Lon, 1e-9)
	assert.Equal(t, "Herzl 12, Tel Aviv", got[0].DisplayName)
}

func TestLocationIQNotFoundIsEmpty(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Unable to geocode"}`, http.StatusNotFound)
	})

	got, err := g.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocationIQRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[{"lat": "32.79", "lon": "34.98", "display_name": "Haifa"}]`))
	})

	got, err := g.Geocode(context.Background(), "Haifa")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLocationIQGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	_, err := g.Geocode(context.Background(), "Haifa")
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())
}

func TestLocationIQDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := g.Geocode(context.Background(), "Haifa")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLocationIQRejectsBadCoordinates(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat": "north", "lon": "34.98"}]`))
	})

	_, err := g.Geocode(context.Background(), "Haifa")
	assert.Error(t, err)
}

func TestNewLocationIQGeocoderRequiresKey(t *testing.T) {
	_, err := NewLocationIQGeocoder("", "")
	assert.Error(t, err)

	g, err := NewLocationIQGeocoder("k", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocationIQBaseURL, g.baseURL)
}
