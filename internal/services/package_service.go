package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/validation"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// How far in the past a package start date may lie.
const maxStartDatePastDays = 1

// CreatePackageInput carries timestamps as raw text so that numeric strings
// and JSON numbers are accepted alike.
type CreatePackageInput struct {
	ProdID     string `json:"prod_id" validate:"required,min=3,max=50"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	StartDate  string `json:"start_date"`
	ETA        string `json:"eta"`
	Status     string `json:"status" validate:"required,oneof=packed shipped intransit delivered"`
	BusinessID string `json:"business_id" validate:"required"`
	CustomerID string `json:"customer_id" validate:"required"`
}

func (CreatePackageInput) ValidationMessages() map[string]string {
	return map[string]string{
		"prod_id.min":  "Product ID must be at least 3 characters",
		"prod_id.max":  "Product ID cannot exceed 50 characters",
		"name.min":     "Product name must be at least 2 characters",
		"name.max":     "Product name cannot exceed 100 characters",
		"status.oneof": "Status must be one of: packed, shipped, intransit, delivered",
	}
}

// PackageService owns package creation and the path append rule.
type PackageService struct {
	packages   ports.PackageRepository
	businesses ports.BusinessRepository
	customers  ports.CustomerRepository
	events     ports.EventPublisher
	area       domain.Bounds

	Now func() time.Time
}

// NewPackageService builds the service. Path points outside area are rejected.
func NewPackageService(
	packages ports.PackageRepository,
	businesses ports.BusinessRepository,
	customers ports.CustomerRepository,
	events ports.EventPublisher,
	area domain.Bounds,
) *PackageService {
	return &PackageService{
		packages:   packages,
		businesses: businesses,
		customers:  customers,
		events:     events,
		area:       area,
		Now:        time.Now,
	}
}

// CreatePackage validates the input, checks that the referenced business and
// customer exist, and stores the package with an empty path. The error names
// the first violated constraint.
func (s *PackageService) CreatePackage(ctx context.Context, in CreatePackageInput) (string, error) {
	in.ProdID = strings.TrimSpace(in.ProdID)
	in.Name = strings.TrimSpace(in.Name)
	in.Status = strings.TrimSpace(in.Status)
	in.BusinessID = strings.TrimSpace(in.BusinessID)
	in.CustomerID = strings.TrimSpace(in.CustomerID)

	if err := validation.Struct(in); err != nil {
		return "", err
	}

	now := s.Now()

	start, err := domain.ValidateEpochTimestamp(in.StartDate, "Start date", false, maxStartDatePastDays, now)
	if err != nil {
		return "", err
	}
	eta, err := domain.ValidateEpochTimestamp(in.ETA, "ETA", true, maxStartDatePastDays, now)
	if err != nil {
		return "", err
	}
	if eta <= start {
		return "", &domain.ValidationError{Field: "eta", Message: "ETA must be after start date"}
	}

	if err := s.requireBusiness(ctx, in.BusinessID); err != nil {
		return "", err
	}
	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return "", err
	}

	p := &domain.Package{
		ID:         uuid.NewString(),
		ProdID:     in.ProdID,
		Name:       in.Name,
		StartDate:  start,
		ETA:        eta,
		Status:     domain.Status(in.Status),
		BusinessID: in.BusinessID,
		CustomerID: in.CustomerID,
		Path:       domain.Path{},
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}

	if err := s.packages.CreatePackage(ctx, p); err != nil {
		return "", fmt.Errorf("create package: %w", err)
	}

	emit(ctx, s.events, ports.EventPackageCreated, p.ID, packageCreatedEvent{
		PackageID:  p.ID,
		BusinessID: p.BusinessID,
		CustomerID: p.CustomerID,
		Status:     string(p.Status),
		ETA:        p.ETA,
	}, p.CreatedAt)

	return p.ID, nil
}

func (s *PackageService) requireBusiness(ctx context.Context, id string) error {
	missing := &domain.ValidationError{
		Field:   "business_id",
		Message: "Business with the specified ID does not exist",
	}
	if !validID(id) {
		return missing
	}

	_, err := s.businesses.GetBusiness(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return missing
	}
	if err != nil {
		return fmt.Errorf("create package: check business: %w", err)
	}
	return nil
}

func (s *PackageService) requireCustomer(ctx context.Context, id string) error {
	missing := &domain.ValidationError{
		Field:   "customer_id",
		Message: "Customer with the specified ID does not exist",
	}
	if !validID(id) {
		return missing
	}

	_, err := s.customers.GetCustomer(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return missing
	}
	if err != nil {
		return fmt.Errorf("create package: check customer: %w", err)
	}
	return nil
}

// AppendLocation records a new waypoint at the end of the package path and
// returns the new path length.
//
// Failures, in the order they are checked:
//   - domain.ErrInvalidCoordinate: lat/lon missing, out of range, or outside the service area
//   - domain.ErrNotFound: no package with that id
//   - domain.ErrDuplicatePoint: a recorded point lies within domain.DuplicateTolerance
//
// The duplicate check and the append run as one store operation, so concurrent
// appends to the same package are neither lost nor double-counted.
func (s *PackageService) AppendLocation(ctx context.Context, packageID string, lat, lon *float64) (int, error) {
	point, err := domain.ValidateCoordinate(lat, lon)
	if err != nil {
		return 0, err
	}
	if !s.area.Contains(point) {
		return 0, &domain.CoordinateError{
			Message: fmt.Sprintf("Location is outside the service area (%s)", s.area),
		}
	}

	if !validID(packageID) {
		return 0, &domain.NotFoundError{Entity: "Package", ID: packageID}
	}

	n, err := s.packages.AppendPathPoint(ctx, packageID, point, domain.DuplicateTolerance)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return 0, &domain.NotFoundError{Entity: "Package", ID: packageID}
	case errors.Is(err, domain.ErrDuplicatePoint):
		return 0, domain.ErrDuplicatePoint
	case err != nil:
		return 0, fmt.Errorf("append location: %w", err)
	}

	emit(ctx, s.events, ports.EventPackageLocationAdded, packageID, locationAddedEvent{
		PackageID:  packageID,
		Lat:        point.Lat,
		Lon:        point.Lon,
		PathLength: n,
	}, s.Now().UTC())

	return n, nil
}

// GetPackage returns one package with its business and customer resolved.
func (s *PackageService) GetPackage(ctx context.Context, id string) (domain.PackageView, error) {
	if !validID(id) {
		return domain.PackageView{}, &domain.NotFoundError{Entity: "Package", ID: id}
	}

	p, err := s.packages.GetPackage(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.PackageView{}, &domain.NotFoundError{Entity: "Package", ID: id}
	}
	if err != nil {
		return domain.PackageView{}, fmt.Errorf("get package: %w", err)
	}

	views, err := s.resolve(ctx, []*domain.Package{p})
	if err != nil {
		return domain.PackageView{}, fmt.Errorf("get package: %w", err)
	}

	return views[0], nil
}

// ListPackagesForBusiness returns every package of the business, denormalized.
// Order is unspecified; an existing business with no packages yields an empty slice.
func (s *PackageService) ListPackagesForBusiness(ctx context.Context, businessID string) ([]domain.PackageView, error) {
	if !validID(businessID) {
		return nil, &domain.NotFoundError{Entity: "Business", ID: businessID}
	}

	if _, err := s.businesses.GetBusiness(ctx, businessID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "Business", ID: businessID}
		}
		return nil, fmt.Errorf("list packages: get business: %w", err)
	}

	pkgs, err := s.packages.ListPackagesByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	views, err := s.resolve(ctx, pkgs)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	return views, nil
}

// resolve attaches business and customer documents to each package.
func (s *PackageService) resolve(ctx context.Context, pkgs []*domain.Package) ([]domain.PackageView, error) {
	views := make([]domain.PackageView, 0, len(pkgs))
	if len(pkgs) == 0 {
		return views, nil
	}

	businesses := make(map[string]*domain.Business)
	customerIDs := make([]string, 0, len(pkgs))
	seen := make(map[string]struct{}, len(pkgs))

	for _, p := range pkgs {
		if _, ok := businesses[p.BusinessID]; !ok {
			b, err := s.businesses.GetBusiness(ctx, p.BusinessID)
			if err != nil && !errors.Is(err, ports.ErrNotFound) {
				return nil, fmt.Errorf("resolve business %s: %w", p.BusinessID, err)
			}
			businesses[p.BusinessID] = b
		}

		if _, ok := seen[p.CustomerID]; ok {
			continue
		}
		seen[p.CustomerID] = struct{}{}
		customerIDs = append(customerIDs, p.CustomerID)
	}

	customers, err := s.customers.GetCustomers(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve customers: %w", err)
	}

	for _, p := range pkgs {
		v := domain.PackageView{
			Package:  *p,
			Business: domain.Business{ID: p.BusinessID},
			Customer: domain.Customer{ID: p.CustomerID},
		}
		if b := businesses[p.BusinessID]; b != nil {
			v.Business = *b
		}
		if c := customers[p.CustomerID]; c != nil {
			v.Customer = *c
		}
		views = append(views, v)
	}

	return views, nil
}
