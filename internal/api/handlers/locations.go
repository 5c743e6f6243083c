package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/services"
	"net/http"
)

// LocationHandler lets clients search for a place before recording it on a
// package path.
type LocationHandler struct {
	Service *services.LocationService
	Failures
}

func (h *LocationHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.write(w, r, err, "Failed to search locations")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.NewLocationCandidates(items), "Locations retrieved successfully"))
}
