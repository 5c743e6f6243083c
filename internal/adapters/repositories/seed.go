package repositories

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/validation"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Seed records carry the same rules as the create endpoints.
type seedBusiness struct {
	Name    string `json:"name" validate:"required,min=2,max=100,bizname"`
	SiteURL string `json:"site_url" validate:"required,max=200,httpurl"`
}

type seedAddress struct {
	Street string   `json:"street" validate:"required,min=2,max=100"`
	Number int      `json:"number" validate:"required,min=1,max=99999"`
	City   string   `json:"city" validate:"required,min=2,max=50,personname"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
}

type seedCustomer struct {
	Name    string      `json:"name" validate:"required,min=2,max=50,personname"`
	Email   string      `json:"email" validate:"required,mailaddr"`
	Address seedAddress `json:"address"`
}

type seedFile struct {
	Businesses []seedBusiness `json:"businesses"`
	Customers  []seedCustomer `json:"customers"`
}

// SeedResult counts rows written and rows skipped because they already exist.
type SeedResult struct {
	Businesses int
	Customers  int
	Skipped    int
}

// SeedFromJSON loads businesses and customers from a JSON file into store.
// Records that collide with existing ones are skipped, so seeding twice is a no-op.
func SeedFromJSON(ctx context.Context, store ports.Store, path string) (SeedResult, error) {
	var res SeedResult

	raw, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("seed: read %s: %w", path, err)
	}

	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return res, fmt.Errorf("seed: decode %s: %w", path, err)
	}

	for i := range data.Businesses {
		b := &data.Businesses[i]
		b.Name = strings.TrimSpace(b.Name)
		b.SiteURL = strings.TrimSpace(b.SiteURL)
		if err := validation.Struct(b); err != nil {
			return res, fmt.Errorf("seed: business at index %d: %w", i+1, err)
		}
	}
	for i := range data.Customers {
		c := &data.Customers[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
		c.Address.Street = strings.TrimSpace(c.Address.Street)
		c.Address.City = strings.TrimSpace(c.Address.City)
		if err := validation.Struct(c); err != nil {
			return res, fmt.Errorf("seed: customer at index %d: %w", i+1, err)
		}
		if c.Address.Lat != nil || c.Address.Lon != nil {
			if _, err := domain.ValidateCoordinate(c.Address.Lat, c.Address.Lon); err != nil {
				return res, fmt.Errorf("seed: customer at index %d: %w", i+1, err)
			}
		}
	}

	now := time.Now().UTC()

	for _, b := range data.Businesses {
		err := store.CreateBusiness(ctx, &domain.Business{
			ID:        uuid.NewString(),
			Name:      b.Name,
			SiteURL:   b.SiteURL,
			CreatedAt: now,
		})
		switch {
		case errors.Is(err, ports.ErrConflict):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed: business %q: %w", b.Name, err)
		default:
			res.Businesses++
		}
	}

	for _, c := range data.Customers {
		err := store.CreateCustomer(ctx, &domain.Customer{
			ID:    uuid.NewString(),
			Name:  c.Name,
			Email: c.Email,
			Address: domain.Address{
				Street: c.Address.Street,
				Number: c.Address.Number,
				City:   c.Address.City,
				Lat:    c.Address.Lat,
				Lon:    c.Address.Lon,
			},
			CreatedAt: now,
		})
		switch {
		case errors.Is(err, ports.ErrConflict):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed: customer %q: %w", c.Email, err)
		default:
			res.Customers++
		}
	}

	log.Printf("seed: businesses=%d customers=%d skipped=%d", res.Businesses, res.Customers, res.Skipped)
	return res, nil
}
