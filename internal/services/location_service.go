package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"log"
	"strings"
)

// A geocoded search hit, flagged by whether it can be recorded as a path point.
type LocationCandidate struct {
	Lat          float64
	Lon          float64
	DisplayName  string
	WithinBounds bool
}

// LocationService resolves free-text place searches for picking waypoints.
type LocationService struct {
	geocoder ports.Geocoder
	area     domain.Bounds
}

func NewLocationService(geocoder ports.Geocoder, area domain.Bounds) *LocationService {
	return &LocationService{geocoder: geocoder, area: area}
}

// Search is best effort: geocoder failures are logged and produce no candidates.
func (s *LocationService) Search(ctx context.Context, query string) ([]LocationCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "q", Message: "q is required"}
	}

	out := []LocationCandidate{}
	if s.geocoder == nil {
		return out, nil
	}

	results, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		log.Printf("location search failed: q=%q err=%v", query, err)
		return out, nil
	}

	for _, r := range results {
		c := domain.Coordinates{Lat: r.Lat, Lon: r.Lon}
		if !c.Valid() {
			continue
		}
		out = append(out, LocationCandidate{
			Lat:          r.Lat,
			Lon:          r.Lon,
			DisplayName:  r.DisplayName,
			WithinBounds: s.area.Contains(c),
		})
	}

	return out, nil
}
