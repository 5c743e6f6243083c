package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Two points closer than this in both latitude and longitude are the same place (~11m).
const DuplicateTolerance = 0.0001

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for GeoJSON-style consumers.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Report whether the point lies within the absolute WGS84 range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return WorldBounds.Contains(c)
}

// Near reports whether both axes differ by strictly less than tol.
func (c Coordinates) Near(other Coordinates, tol float64) bool {
	return math.Abs(c.Lat-other.Lat) < tol && math.Abs(c.Lon-other.Lon) < tol
}

// Bounds is an inclusive latitude/longitude box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

var (
	WorldBounds = Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}

	// Service area enforced on path points unless GEOFENCE overrides it.
	DefaultServiceArea = Bounds{MinLat: 29, MaxLat: 35, MinLon: 34, MaxLon: 36}
)

func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

func (b Bounds) String() string {
	return fmt.Sprintf("lat=[%g,%g] lon=[%g,%g]", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
}

// ParseBounds reads "minLat,maxLat,minLon,maxLon". The keyword "world" selects WorldBounds.
func ParseBounds(s string) (Bounds, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "world") {
		return WorldBounds, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("parse bounds %q: want minLat,maxLat,minLon,maxLon", s)
	}

	vals := make([]float64, 0, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("parse bounds %q: value #%d: %w", s, i+1, err)
		}
		vals = append(vals, v)
	}

	b := Bounds{MinLat: vals[0], MaxLat: vals[1], MinLon: vals[2], MaxLon: vals[3]}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return Bounds{}, fmt.Errorf("parse bounds %q: min exceeds max", s)
	}
	if !WorldBounds.Contains(Coordinates{Lat: b.MinLat, Lon: b.MinLon}) ||
		!WorldBounds.Contains(Coordinates{Lat: b.MaxLat, Lon: b.MaxLon}) {
		return Bounds{}, fmt.Errorf("parse bounds %q: outside valid coordinate range", s)
	}

	return b, nil
}

// ValidateCoordinate checks that both values are present and within the absolute range.
func ValidateCoordinate(lat, lon *float64) (Coordinates, error) {
	if lat == nil || lon == nil {
		return Coordinates{}, &CoordinateError{Message: "Latitude and longitude are required"}
	}

	c := Coordinates{Lat: *lat, Lon: *lon}
	if !c.Valid() {
		return Coordinates{}, &CoordinateError{Message: "Invalid latitude or longitude values"}
	}

	return c, nil
}
