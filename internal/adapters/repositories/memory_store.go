package repositories

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps every collection in process memory. Uniqueness and the
// conditional path append are enforced under a single lock. Values are copied
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	businesses map[string]domain.Business
	customers  map[string]domain.Customer
	packages   map[string]domain.Package
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		businesses: make(map[string]domain.Business),
		customers:  make(map[string]domain.Customer),
		packages:   make(map[string]domain.Package),
		now:        time.Now,
	}
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) CreateBusiness(ctx context.Context, b *domain.Business) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.businesses {
		if existing.Name == b.Name {
			return &ports.ConflictError{Field: "name"}
		}
		if existing.SiteURL == b.SiteURL {
			return &ports.ConflictError{Field: "site_url"}
		}
	}
	if _, ok := s.businesses[b.ID]; ok {
		return &ports.ConflictError{Field: "id"}
	}

	s.businesses[b.ID] = *b
	return nil
}

func (s *MemoryStore) GetBusiness(ctx context.Context, id string) (*domain.Business, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.businesses[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) ListBusinesses(ctx context.Context) ([]*domain.Business, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Business, 0, len(s.businesses))
	for _, b := range s.businesses {
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return &ports.ConflictError{Field: "email"}
		}
	}
	if _, ok := s.customers[c.ID]; ok {
		return &ports.ConflictError{Field: "id"}
	}

	s.customers[c.ID] = copyCustomer(*c)
	return nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	c = copyCustomer(c)
	return &c, nil
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		c := copyCustomer(c)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetCustomers(ctx context.Context, ids []string) (map[string]*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*domain.Customer, len(ids))
	for _, id := range ids {
		c, ok := s.customers[id]
		if !ok {
			continue
		}
		c = copyCustomer(c)
		out[id] = &c
	}
	return out, nil
}

func (s *MemoryStore) CreatePackage(ctx context.Context, p *domain.Package) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[p.ID]; ok {
		return &ports.ConflictError{Field: "id"}
	}

	stored := *p
	stored.Path = p.Path.Clone()
	s.packages[p.ID] = stored
	return nil
}

func (s *MemoryStore) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.packages[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	p.Path = p.Path.Clone()
	return &p, nil
}

func (s *MemoryStore) ListPackagesByBusiness(ctx context.Context, businessID string) ([]*domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Package, 0)
	for _, p := range s.packages {
		if p.BusinessID != businessID {
			continue
		}
		p.Path = p.Path.Clone()
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) AppendPathPoint(ctx context.Context, id string, point domain.Coordinates, tol float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.packages[id]
	if !ok {
		return 0, ports.ErrNotFound
	}
	if p.Path.HasNear(point, tol) {
		return 0, domain.ErrDuplicatePoint
	}

	p.Path = append(p.Path.Clone(), point)
	p.UpdatedAt = s.now().UTC()
	s.packages[id] = p

	return len(p.Path), nil
}

func copyCustomer(c domain.Customer) domain.Customer {
	if c.Address.Lat != nil {
		lat := *c.Address.Lat
		c.Address.Lat = &lat
	}
	if c.Address.Lon != nil {
		lon := *c.Address.Lon
		c.Address.Lon = &lon
	}
	return c
}
