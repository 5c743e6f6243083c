package ports

import (
	"context"
	"time"
)

// Lifecycle event types.
const (
	EventBusinessCreated      = "business.created"
	EventCustomerCreated      = "customer.created"
	EventPackageCreated       = "package.created"
	EventPackageLocationAdded = "package.location_added"
)

// Event describes a committed change to an entity. Key is the entity id.
type Event struct {
	Type       string
	Key        string
	Payload    any
	OccurredAt time.Time
}

// Contract for announcing committed changes to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}
