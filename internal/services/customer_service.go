package services

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/validation"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AddressInput struct {
	Street string `json:"street" validate:"required,min=2,max=100"`
	Number int    `json:"number" validate:"required,min=1,max=99999"`
	City   string `json:"city" validate:"required,min=2,max=50,personname"`
}

type CreateCustomerInput struct {
	Name    string       `json:"name" validate:"required,min=2,max=50,personname"`
	Email   string       `json:"email" validate:"required,mailaddr"`
	Address AddressInput `json:"address"`
}

func (CreateCustomerInput) ValidationMessages() map[string]string {
	return map[string]string{
		"name.min":                "Name must be at least 2 characters long",
		"name.max":                "Name cannot exceed 50 characters",
		"name.personname":         "Name can only contain letters, spaces, hyphens, and apostrophes",
		"address.street.min":      "Street name must be at least 2 characters",
		"address.street.max":      "Street name cannot exceed 100 characters",
		"address.number.min":      "Street number must be positive",
		"address.number.max":      "Street number seems too large",
		"address.city.min":        "City name must be at least 2 characters",
		"address.city.max":        "City name cannot exceed 50 characters",
		"address.city.personname": "City name contains invalid characters",
	}
}

// CustomerService creates customers, geocoding their address on the way in.
type CustomerService struct {
	repo     ports.CustomerRepository
	geocoder ports.Geocoder
	events   ports.EventPublisher
	cache    *ListCache[*domain.Customer]

	GeocodeTimeout time.Duration
	Now            func() time.Time
}

// NewCustomerService builds the service. geocoder may be nil, in which case
// customers are stored without coordinates.
func NewCustomerService(
	repo ports.CustomerRepository,
	geocoder ports.Geocoder,
	events ports.EventPublisher,
	cacheTTL time.Duration,
) *CustomerService {
	return &CustomerService{
		repo:           repo,
		geocoder:       geocoder,
		events:         events,
		cache:          NewListCache[*domain.Customer](cacheTTL),
		GeocodeTimeout: 5 * time.Second,
		Now:            time.Now,
	}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address.Street = strings.TrimSpace(in.Address.Street)
	in.Address.City = strings.TrimSpace(in.Address.City)

	if err := validation.Struct(in); err != nil {
		return "", err
	}

	c := &domain.Customer{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Email: in.Email,
		Address: domain.Address{
			Street: in.Address.Street,
			Number: in.Address.Number,
			City:   in.Address.City,
		},
		CreatedAt: s.Now().UTC(),
	}

	if coords, ok := s.locate(ctx, c.Address); ok {
		c.Address.SetCoordinates(coords)
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return "", conflictError(err)
		}
		return "", fmt.Errorf("create customer: %w", err)
	}
	s.cache.Invalidate()

	_, geocoded := c.Address.Coordinates()
	emit(ctx, s.events, ports.EventCustomerCreated, c.ID, customerCreatedEvent{
		CustomerID: c.ID,
		Email:      c.Email,
		Geocoded:   geocoded,
	}, c.CreatedAt)

	return c.ID, nil
}

// locate is a best-effort lookup: any failure leaves the address without coordinates.
func (s *CustomerService) locate(ctx context.Context, addr domain.Address) (domain.Coordinates, bool) {
	if s.geocoder == nil {
		return domain.Coordinates{}, false
	}

	if s.GeocodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.GeocodeTimeout)
		defer cancel()
	}

	results, err := s.geocoder.Geocode(ctx, addr.Line())
	if err != nil {
		log.Printf("geocode customer address failed: address=%q err=%v", addr.Line(), err)
		return domain.Coordinates{}, false
	}
	if len(results) == 0 {
		log.Printf("geocode customer address: no results address=%q", addr.Line())
		return domain.Coordinates{}, false
	}

	first := domain.Coordinates{Lat: results[0].Lat, Lon: results[0].Lon}
	if !first.Valid() {
		return domain.Coordinates{}, false
	}

	return first, true
}

// ListCustomers returns every customer, or an empty list when the store fails.
func (s *CustomerService) ListCustomers(ctx context.Context) []*domain.Customer {
	items, err := s.cache.Get(ctx, s.repo.ListCustomers)
	if err != nil {
		log.Printf("list customers failed: %v", err)
		return []*domain.Customer{}
	}
	return items
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	if !validID(id) {
		return nil, &domain.NotFoundError{Entity: "Customer", ID: id}
	}

	c, err := s.repo.GetCustomer(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &domain.NotFoundError{Entity: "Customer", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return c, nil
}
