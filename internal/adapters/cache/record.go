package cache

import (
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"fmt"
)

// Stored form of a geocode result list, shared by the SQL and Redis caches.
type geocodeRecord struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

func encodeResults(results []ports.GeocodeResult) ([]byte, error) {
	recs := make([]geocodeRecord, 0, len(results))
	for _, r := range results {
		recs = append(recs, geocodeRecord{Lat: r.Lat, Lon: r.Lon, DisplayName: r.DisplayName})
	}

	b, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode geocode results: %w", err)
	}
	return b, nil
}

func decodeResults(raw []byte) ([]ports.GeocodeResult, error) {
	var recs []geocodeRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode geocode results: %w", err)
	}

	out := make([]ports.GeocodeResult, 0, len(recs))
	for _, r := range recs {
		out = append(out, ports.GeocodeResult{Lat: r.Lat, Lon: r.Lon, DisplayName: r.DisplayName})
	}
	return out, nil
}

// uniqueKeys trims addresses and drops blanks and repeats, keeping order.
func uniqueKeys(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		uniq = append(uniq, a)
	}
	return uniq
}
