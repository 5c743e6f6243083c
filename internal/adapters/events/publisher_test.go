package events

import (
	"context"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records messages written.
type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
	late   int
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		f.late++
	}
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWriter) messages() []kafka.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kafka.Message(nil), f.msgs...)
}

func TestKafkaPublisherPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw)

	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	ctx := obs.WithRequestID(context.Background(), "req-1")
	err := p.Publish(ctx, ports.Event{
		Type:       ports.EventPackageLocationAdded,
		Key:        "pkg-1",
		Payload:    map[string]any{"lat": 32.1, "lon": 34.8},
		OccurredAt: at,
	})
	require.NoError(t, err)

	msgs := fw.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "pkg-1", string(msgs[0].Key))

	var body struct {
		Event      string             `json:"event"`
		Payload    map[string]float64 `json:"payload"`
		OccurredAt time.Time          `json:"occurred_at"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].Value, &body))
	assert.Equal(t, ports.EventPackageLocationAdded, body.Event)
	assert.Equal(t, 32.1, body.Payload["lat"])
	assert.True(t, at.Equal(body.OccurredAt))

	headers := map[string]string{}
	for _, h := range msgs[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, ports.EventPackageLocationAdded, headers["event"])
	assert.Equal(t, "req-1", headers["request_id"])
}

func TestKafkaPublisherWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisherWithWriter(fw)

	err := p.Publish(context.Background(), ports.Event{Type: ports.EventBusinessCreated, Key: "b1"})
	assert.ErrorIs(t, err, fw.err)
}

func TestAsyncPublisherDeliversBeforeClose(t *testing.T) {
	fw := &fakeWriter{}
	p := NewAsyncPublisher(NewKafkaPublisherWithWriter(fw), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Publish(ctx, ports.Event{Type: ports.EventCustomerCreated, Key: "c"}))
	}
	// Request contexts end before publication completes.
	cancel()

	require.NoError(t, p.Close())
	assert.Len(t, fw.messages(), 5)
	assert.True(t, fw.closed)
}

func TestAsyncPublisherSwallowsErrors(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewAsyncPublisher(NewKafkaPublisherWithWriter(fw), time.Second)

	assert.NoError(t, p.Publish(context.Background(), ports.Event{Type: ports.EventPackageCreated, Key: "p"}))
	assert.NoError(t, p.Close())
}

func TestAsyncPublisherDropsAfterClose(t *testing.T) {
	fw := &fakeWriter{}
	p := NewAsyncPublisher(NewKafkaPublisherWithWriter(fw), time.Second)

	require.NoError(t, p.Publish(context.Background(), ports.Event{Type: ports.EventBusinessCreated, Key: "b1"}))
	require.NoError(t, p.Close())

	assert.NoError(t, p.Publish(context.Background(), ports.Event{Type: ports.EventBusinessCreated, Key: "b2"}))
	assert.NoError(t, p.Close())
	assert.Len(t, fw.messages(), 1)
}

func TestAsyncPublisherPublishRacingClose(t *testing.T) {
	fw := &fakeWriter{}
	p := NewAsyncPublisher(NewKafkaPublisherWithWriter(fw), time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(context.Background(), ports.Event{Type: ports.EventPackageLocationAdded, Key: "p"})
		}()
	}
	require.NoError(t, p.Close())
	wg.Wait()

	fw.mu.Lock()
	defer fw.mu.Unlock()
	assert.True(t, fw.closed)
	assert.Zero(t, fw.late)
}

func TestLogPublisher(t *testing.T) {
	var p ports.EventPublisher = LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ports.Event{Type: ports.EventBusinessCreated, Key: "b"}))
	assert.NoError(t, p.Close())
}
