package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"errors"
)

var (
	// Returned by repositories when no document matches the id.
	ErrNotFound = errors.New("store: not found")
	// Returned by repositories when a unique field is already taken.
	ErrConflict = errors.New("store: conflict")
)

// ConflictError names the unique field that rejected a write.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "store: duplicate key"
	}
	return "store: duplicate " + e.Field
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Store bundles the three collections behind one backend.
type Store interface {
	BusinessRepository
	CustomerRepository
	PackageRepository
	Close(ctx context.Context) error
}

// Port: Business collection. Name and site URL are unique.
type BusinessRepository interface {
	CreateBusiness(ctx context.Context, b *domain.Business) error
	GetBusiness(ctx context.Context, id string) (*domain.Business, error)
	ListBusinesses(ctx context.Context) ([]*domain.Business, error)
}

// Port: Customer collection. Email is unique.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	// Fetch several customers at once; missing ids are absent from the result.
	GetCustomers(ctx context.Context, ids []string) (map[string]*domain.Customer, error)
}
