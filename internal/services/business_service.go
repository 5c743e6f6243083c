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

type CreateBusinessInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100,bizname"`
	SiteURL string `json:"site_url" validate:"required,max=200,httpurl"`
}

func (CreateBusinessInput) ValidationMessages() map[string]string {
	return map[string]string{
		"name.min":         "Business name must be at least 2 characters long",
		"name.max":         "Business name cannot exceed 100 characters",
		"name.bizname":     "Business name contains invalid characters",
		"site_url.max":     "URL cannot exceed 200 characters",
		"site_url.httpurl": "URL must start with http:// or https://",
	}
}

// BusinessService creates and lists businesses.
type BusinessService struct {
	repo   ports.BusinessRepository
	events ports.EventPublisher
	cache  *ListCache[*domain.Business]
	Now    func() time.Time
}

func NewBusinessService(repo ports.BusinessRepository, events ports.EventPublisher, cacheTTL time.Duration) *BusinessService {
	return &BusinessService{
		repo:   repo,
		events: events,
		cache:  NewListCache[*domain.Business](cacheTTL),
		Now:    time.Now,
	}
}

func (s *BusinessService) CreateBusiness(ctx context.Context, in CreateBusinessInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SiteURL = strings.TrimSpace(in.SiteURL)

	if err := validation.Struct(in); err != nil {
		return "", err
	}

	b := &domain.Business{
		ID:        uuid.NewString(),
		Name:      in.Name,
		SiteURL:   in.SiteURL,
		CreatedAt: s.Now().UTC(),
	}

	if err := s.repo.CreateBusiness(ctx, b); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return "", conflictError(err)
		}
		return "", fmt.Errorf("create business: %w", err)
	}
	s.cache.Invalidate()

	emit(ctx, s.events, ports.EventBusinessCreated, b.ID, businessCreatedEvent{
		BusinessID: b.ID,
		Name:       b.Name,
		SiteURL:    b.SiteURL,
	}, b.CreatedAt)

	return b.ID, nil
}

// ListBusinesses returns every business. Store failures are logged and yield
// an empty list so read paths never fail.
func (s *BusinessService) ListBusinesses(ctx context.Context) []*domain.Business {
	items, err := s.cache.Get(ctx, s.repo.ListBusinesses)
	if err != nil {
		log.Printf("list businesses failed: %v", err)
		return []*domain.Business{}
	}
	return items
}

func (s *BusinessService) GetBusiness(ctx context.Context, id string) (*domain.Business, error) {
	if !validID(id) {
		return nil, &domain.NotFoundError{Entity: "Business", ID: id}
	}

	b, err := s.repo.GetBusiness(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &domain.NotFoundError{Entity: "Business", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	return b, nil
}
