package ports

import "context"

// A single candidate location for a free-text address.
type GeocodeResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Contract for resolving addresses to coordinates. An address with no match
// yields an empty slice and no error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]GeocodeResult, error)
}

// Persistent cache of geocoding results keyed by normalized address.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string][]GeocodeResult, error)
	PutMany(ctx context.Context, results map[string][]GeocodeResult) error
}
