package domain

import (
	"fmt"
	"time"
)

// Delivery recipient.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Address   Address
	CreatedAt time.Time
}

// Postal address with optional coordinates resolved by geocoding at creation.
// Missing coordinates are a valid, permanent state.
type Address struct {
	Street string
	Number int
	City   string
	Lat    *float64
	Lon    *float64
}

// Return the single-line form used for geocoding lookups.
func (a Address) Line() string {
	return fmt.Sprintf("%d %s, %s", a.Number, a.Street, a.City)
}

func (a Address) Coordinates() (Coordinates, bool) {
	if a.Lat == nil || a.Lon == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *a.Lat, Lon: *a.Lon}, true
}

func (a *Address) SetCoordinates(c Coordinates) {
	lat, lon := c.Lat, c.Lon
	a.Lat = &lat
	a.Lon = &lon
}
