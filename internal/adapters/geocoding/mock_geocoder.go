package geocoding

import (
	"context"
	"delivery-tracking-service/internal/ports"
	"sync"
)

// MockGeocoder answers from a fixed table keyed by normalized address and
// counts calls. Unknown addresses yield no results. Err, when set, is
// returned for every call.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string][]ports.GeocodeResult
	calls int
	Err   error
}

func NewMockGeocoder(results map[string][]ports.GeocodeResult) *MockGeocoder {
	m := make(map[string][]ports.GeocodeResult, len(results))
	for addr, r := range results {
		m[cacheKey(addr)] = r
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) ([]ports.GeocodeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.Err != nil {
		return nil, g.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := g.m[cacheKey(address)]
	out := make([]ports.GeocodeResult, len(r))
	copy(out, r)
	return out, nil
}

func (g *MockGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
