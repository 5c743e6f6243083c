package dto

import (
	"delivery-tracking-service/internal/domain"
	"time"
)

type AddressRequest struct {
	Street string `json:"street"`
	Number int    `json:"number"`
	City   string `json:"city"`
}

type CreateCustomerRequest struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address AddressRequest `json:"address"`
}

// Lat and Lon are omitted when the address could not be geocoded.
type AddressResponse struct {
	Street string   `json:"street"`
	Number int      `json:"number"`
	City   string   `json:"city"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

type CustomerResponse struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Address   AddressResponse `json:"address"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

func NewCustomerResponse(c domain.Customer) CustomerResponse {
	res := CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Address: AddressResponse{
			Street: c.Address.Street,
			Number: c.Address.Number,
			City:   c.Address.City,
			Lat:    c.Address.Lat,
			Lon:    c.Address.Lon,
		},
	}
	if !c.CreatedAt.IsZero() {
		t := c.CreatedAt
		res.CreatedAt = &t
	}
	return res
}

func NewCustomerList(items []*domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCustomerResponse(*c))
	}
	return out
}
