package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

// Port: Package collection.
type PackageRepository interface {
	CreatePackage(ctx context.Context, p *domain.Package) error
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	ListPackagesByBusiness(ctx context.Context, businessID string) ([]*domain.Package, error)

	// Append point to the package path unless a recorded point is within tol of
	// it on both axes. Check and append are one atomic operation. Returns the new
	// path length, ErrNotFound, or domain.ErrDuplicatePoint.
	AppendPathPoint(ctx context.Context, id string, point domain.Coordinates, tol float64) (int, error)
}
