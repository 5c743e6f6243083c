package domain

import "time"

// A company shipping products through the system. Businesses own packages
// and are never modified after creation.
type Business struct {
	ID        string
	Name      string
	SiteURL   string
	CreatedAt time.Time
}
