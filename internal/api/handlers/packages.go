package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/services"
	"net/http"
)

// PackageHandler exposes package creation, tracking and per-business listing.
type PackageHandler struct {
	Service *services.PackageService
	Failures
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePackageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.Service.CreatePackage(r.Context(), services.CreatePackageInput{
		ProdID:     req.ProdID,
		Name:       req.Name,
		StartDate:  string(req.StartDate),
		ETA:        string(req.ETA),
		Status:     req.Status,
		BusinessID: req.BusinessID,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		h.write(w, r, err, "Failed to create package")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.OK(id, "Package created successfully"))
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.GetPackage(r.Context(), r.PathValue("id"))
	if err != nil {
		h.write(w, r, err, "Failed to retrieve package")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.NewPackageResponse(v), "Package retrieved successfully"))
}

func (h *PackageHandler) AppendLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.AppendLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.Service.AppendLocation(r.Context(), r.PathValue("id"), req.Lat, req.Lon)
	if err != nil {
		h.write(w, r, err, "Failed to add location to package")
		return
	}

	res := dto.AppendLocationResponse{PathLength: n}
	writeJSON(w, r, http.StatusOK, dto.OK(res, "Location added to package path successfully"))
}

func (h *PackageHandler) ListForBusiness(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.ListPackagesForBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		h.write(w, r, err, "Failed to retrieve packages")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.NewPackageList(views), "Packages retrieved successfully"))
}
