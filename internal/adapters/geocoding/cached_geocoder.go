package geocoding

import (
	"context"
	"delivery-tracking-service/internal/ports"
	"log"
	"strings"
)

// CachedGeocoder answers from a persistent cache before calling the wrapped
// geocoder. Cache failures are logged and fall through to the geocoder.
// Empty results are not cached so a later lookup can still succeed.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) ([]ports.GeocodeResult, error) {
	key := cacheKey(address)

	cached, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		log.Printf("geocode cache get failed key=%q: %v", key, err)
	} else if r, ok := cached[key]; ok {
		return r, nil
	}

	results, err := c.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}

	if err := c.cache.PutMany(ctx, map[string][]ports.GeocodeResult{key: results}); err != nil {
		log.Printf("geocode cache put failed key=%q: %v", key, err)
	}

	return results, nil
}

// normalize collapses whitespace so equivalent queries hit the same entry.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cacheKey(s string) string {
	return strings.ToLower(normalize(s))
}
