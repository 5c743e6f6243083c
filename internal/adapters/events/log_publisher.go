package events

import (
	"context"
	"delivery-tracking-service/internal/ports"
	"log"
)

// LogPublisher writes events to the process log. Used when no broker is
// configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, ev ports.Event) error {
	log.Printf("event=%s key=%s payload=%+v", ev.Type, ev.Key, ev.Payload)
	return nil
}

func (LogPublisher) Close() error { return nil }
