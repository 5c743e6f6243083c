package services

import (
	"context"
	"delivery-tracking-service/internal/adapters/geocoding"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationSearch(t *testing.T) {
	geo := geocoding.NewMockGeocoder(map[string][]ports.GeocodeResult{
		"Azrieli": {
			{Lat: 32.0745, Lon: 34.7925, DisplayName: "Azrieli Center, Tel Aviv"},
			{Lat: 48.85, Lon: 2.35, DisplayName: "Azrieli, Paris"},
			{Lat: 200, Lon: 2.35, DisplayName: "broken"},
		},
	})
	svc := NewLocationService(geo, domain.DefaultServiceArea)

	got, err := svc.Search(context.Background(), "  Azrieli ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].WithinBounds)
	assert.Equal(t, "Azrieli Center, Tel Aviv", got[0].DisplayName)
	assert.False(t, got[1].WithinBounds)
}

func TestLocationSearchEmptyQuery(t *testing.T) {
	svc := NewLocationService(geocoding.NewMockGeocoder(nil), domain.DefaultServiceArea)

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLocationSearchBestEffort(t *testing.T) {
	geo := geocoding.NewMockGeocoder(nil)
	geo.Err = errors.New("upstream down")

	for _, g := range []ports.Geocoder{geo, nil} {
		svc := NewLocationService(g, domain.DefaultServiceArea)
		got, err := svc.Search(context.Background(), "Haifa")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}
