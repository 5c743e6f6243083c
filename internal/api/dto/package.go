package dto

import (
	"bytes"
	"delivery-tracking-service/internal/domain"
	"encoding/json"
	"time"
)

// Timestamp accepts an epoch value sent either as a JSON number or as a
// numeric string, keeping the raw text for validation downstream.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	}
	*t = Timestamp(b)
	return nil
}

type CreatePackageRequest struct {
	ProdID     string    `json:"prod_id"`
	Name       string    `json:"name"`
	StartDate  Timestamp `json:"start_date"`
	ETA        Timestamp `json:"eta"`
	Status     string    `json:"status"`
	BusinessID string    `json:"business_id"`
	CustomerID string    `json:"customer_id"`
}

// A missing lat or lon decodes to nil; zero is a real coordinate.
type AppendLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type AppendLocationResponse struct {
	PathLength int `json:"path_length"`
}

type PathPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PackageResponse embeds the referenced business and customer under their
// id fields.
type PackageResponse struct {
	ID         string           `json:"_id"`
	ProdID     string           `json:"prod_id"`
	Name       string           `json:"name"`
	StartDate  int64            `json:"start_date"`
	ETA        int64            `json:"eta"`
	Status     string           `json:"status"`
	BusinessID BusinessResponse `json:"business_id"`
	CustomerID CustomerResponse `json:"customer_id"`
	Path       []PathPoint      `json:"path"`
	CreatedAt  *time.Time       `json:"created_at,omitempty"`
	UpdatedAt  *time.Time       `json:"updated_at,omitempty"`
}

func NewPackageResponse(v domain.PackageView) PackageResponse {
	p := v.Package

	path := make([]PathPoint, 0, len(p.Path))
	for _, c := range p.Path {
		path = append(path, PathPoint{Lat: c.Lat, Lon: c.Lon})
	}

	res := PackageResponse{
		ID:         p.ID,
		ProdID:     p.ProdID,
		Name:       p.Name,
		StartDate:  p.StartDate,
		ETA:        p.ETA,
		Status:     string(p.Status),
		BusinessID: NewBusinessResponse(v.Business),
		CustomerID: NewCustomerResponse(v.Customer),
		Path:       path,
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		res.CreatedAt = &t
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		res.UpdatedAt = &t
	}
	return res
}

func NewPackageList(views []domain.PackageView) []PackageResponse {
	out := make([]PackageResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewPackageResponse(v))
	}
	return out
}
