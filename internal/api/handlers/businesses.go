package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/services"
	"net/http"
)

type BusinessHandler struct {
	Service *services.BusinessService
	Failures
}

func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBusinessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.Service.CreateBusiness(r.Context(), services.CreateBusinessInput{
		Name:    req.Name,
		SiteURL: req.SiteURL,
	})
	if err != nil {
		h.write(w, r, err, "Failed to create business")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.OK(id, "Business created successfully"))
}

// List responds with a bare array, not the envelope.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Service.ListBusinesses(r.Context())
	writeJSON(w, r, http.StatusOK, dto.NewBusinessList(items))
}

func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.GetBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		h.write(w, r, err, "Failed to retrieve business")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.NewBusinessResponse(*b), "Business retrieved successfully"))
}
