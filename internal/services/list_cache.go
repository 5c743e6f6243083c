package services

import (
	"context"
	"sync"
	"time"
)

// ListCache is a read-through cache for a whole collection listing.
// Mutations that change the listing call Invalidate. A zero ttl keeps entries
// until invalidated.
type ListCache[T any] struct {
	mu       sync.Mutex
	items    []T
	valid    bool
	gen      uint64
	loadedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewListCache[T any](ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached listing, calling load on a miss. A load that races
// with Invalidate is returned to its caller but not cached.
func (c *ListCache[T]) Get(ctx context.Context, load func(ctx context.Context) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	if c.valid && (c.ttl == 0 || c.now().Sub(c.loadedAt) < c.ttl) {
		items := c.items
		c.mu.Unlock()
		return items, nil
	}
	gen := c.gen
	c.mu.Unlock()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if gen == c.gen {
		c.items = items
		c.valid = true
		c.loadedAt = c.now()
	}
	c.mu.Unlock()

	return items, nil
}

func (c *ListCache[T]) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.valid = false
	c.gen++
	c.mu.Unlock()
}
