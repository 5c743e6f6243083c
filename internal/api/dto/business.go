package dto

import (
	"delivery-tracking-service/internal/domain"
	"time"
)

type CreateBusinessRequest struct {
	Name    string `json:"name"`
	SiteURL string `json:"site_url"`
}

type BusinessResponse struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	SiteURL   string     `json:"site_url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func NewBusinessResponse(b domain.Business) BusinessResponse {
	res := BusinessResponse{ID: b.ID, Name: b.Name, SiteURL: b.SiteURL}
	if !b.CreatedAt.IsZero() {
		t := b.CreatedAt
		res.CreatedAt = &t
	}
	return res
}

func NewBusinessList(items []*domain.Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(items))
	for _, b := range items {
		out = append(out, NewBusinessResponse(*b))
	}
	return out
}
