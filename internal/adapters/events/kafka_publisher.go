package events

import (
	"context"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes lifecycle events to a single Kafka topic. Messages
// are keyed by entity id so events for one entity stay on one partition.
type KafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	})
}

func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

type envelope struct {
	Event      string    `json:"event"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev ports.Event) (err error) {
	defer obs.Time(ctx, "kafka.Publish")(&err)

	value, err := json.Marshal(envelope{Event: ev.Type, Payload: ev.Payload, OccurredAt: ev.OccurredAt.UTC()})
	if err != nil {
		return fmt.Errorf("publish %s: marshal: %w", ev.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(ev.Type)},
		},
	}
	if id := obs.RequestID(ctx); id != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "request_id", Value: []byte(id)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s key=%s: %w", ev.Type, ev.Key, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
