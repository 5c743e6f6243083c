package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"sync"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var errStoreDown = errors.New("store down")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) CreateBusiness(context.Context, *domain.Business) error { return errStoreDown }
func (failingStore) GetBusiness(context.Context, string) (*domain.Business, error) {
	return nil, errStoreDown
}
func (failingStore) ListBusinesses(context.Context) ([]*domain.Business, error) {
	return nil, errStoreDown
}
func (failingStore) CreateCustomer(context.Context, *domain.Customer) error { return errStoreDown }
func (failingStore) GetCustomer(context.Context, string) (*domain.Customer, error) {
	return nil, errStoreDown
}
func (failingStore) ListCustomers(context.Context) ([]*domain.Customer, error) {
	return nil, errStoreDown
}
func (failingStore) GetCustomers(context.Context, []string) (map[string]*domain.Customer, error) {
	return nil, errStoreDown
}
func (failingStore) CreatePackage(context.Context, *domain.Package) error { return errStoreDown }
func (failingStore) GetPackage(context.Context, string) (*domain.Package, error) {
	return nil, errStoreDown
}
func (failingStore) ListPackagesByBusiness(context.Context, string) ([]*domain.Package, error) {
	return nil, errStoreDown
}
func (failingStore) AppendPathPoint(context.Context, string, domain.Coordinates, float64) (int, error) {
	return 0, errStoreDown
}
func (failingStore) Close(context.Context) error { return nil }

// countingBusinesses counts ListBusinesses calls on the wrapped repository.
type countingBusinesses struct {
	ports.BusinessRepository
	mu    sync.Mutex
	lists int
}

func (c *countingBusinesses) ListBusinesses(ctx context.Context) ([]*domain.Business, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.BusinessRepository.ListBusinesses(ctx)
}

func (c *countingBusinesses) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}
