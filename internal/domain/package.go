package domain

import "time"

// Lifecycle status of a package. Any value may be set at creation; there is
// no transition ordering.
type Status string

const (
	StatusPacked    Status = "packed"
	StatusShipped   Status = "shipped"
	StatusInTransit Status = "intransit"
	StatusDelivered Status = "delivered"
)

var Statuses = []Status{StatusPacked, StatusShipped, StatusInTransit, StatusDelivered}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Represents a single shipment from a business to a customer.
// Only Path changes after creation, and only by appending.
type Package struct {
	ID         string
	ProdID     string
	Name       string
	StartDate  int64
	ETA        int64
	Status     Status
	BusinessID string
	CustomerID string
	Path       Path
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PackageView is a package with its business and customer resolved.
type PackageView struct {
	Package  Package
	Business Business
	Customer Customer
}
