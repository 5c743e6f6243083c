package dto

import "delivery-tracking-service/internal/services"

type LocationCandidate struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	DisplayName  string  `json:"display_name"`
	WithinBounds bool    `json:"within_bounds"`
}

func NewLocationCandidates(items []services.LocationCandidate) []LocationCandidate {
	out := make([]LocationCandidate, 0, len(items))
	for _, c := range items {
		out = append(out, LocationCandidate{
			Lat:          c.Lat,
			Lon:          c.Lon,
			DisplayName:  c.DisplayName,
			WithinBounds: c.WithinBounds,
		})
	}
	return out
}
