package events

import (
	"context"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"log"
	"sync"
	"time"
)

// AsyncPublisher hands each event to a goroutine so request handling never
// waits on the broker. Each publish gets its own timeout, detached from the
// request context. Close waits for in-flight publishes; events arriving after
// Close are dropped.
type AsyncPublisher struct {
	next    ports.EventPublisher
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncPublisher(next ports.EventPublisher, timeout time.Duration) *AsyncPublisher {
	return &AsyncPublisher{next: next, timeout: timeout}
}

func (p *AsyncPublisher) Publish(ctx context.Context, ev ports.Event) error {
	reqID := obs.RequestID(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		log.Printf("async publish dropped after close: type=%s key=%s", ev.Type, ev.Key)
		return nil
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(obs.WithRequestID(context.Background(), reqID), p.timeout)
		defer cancel()

		if err := p.next.Publish(ctx, ev); err != nil {
			log.Printf("async publish failed: type=%s key=%s err=%v", ev.Type, ev.Key, err)
		}
	}()

	return nil
}

func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return p.next.Close()
}
