package services

import (
	"context"
	"delivery-tracking-service/internal/ports"
	"log"
	"time"
)

// emit publishes a lifecycle event. Publication failures never fail the
// request; they are logged.
func emit(ctx context.Context, pub ports.EventPublisher, eventType, key string, payload any, now time.Time) {
	if pub == nil {
		return
	}

	ev := ports.Event{Type: eventType, Key: key, Payload: payload, OccurredAt: now}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Printf("publish event failed: type=%s key=%s err=%v", eventType, key, err)
	}
}

type businessCreatedEvent struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
	SiteURL    string `json:"site_url"`
}

type customerCreatedEvent struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Geocoded   bool   `json:"geocoded"`
}

type packageCreatedEvent struct {
	PackageID  string `json:"package_id"`
	BusinessID string `json:"business_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	ETA        int64  `json:"eta"`
}

type locationAddedEvent struct {
	PackageID  string  `json:"package_id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	PathLength int     `json:"path_length"`
}
