package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/services"
	"net/http"
)

type CustomerHandler struct {
	Service *services.CustomerService
	Failures
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.Service.CreateCustomer(r.Context(), services.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Address: services.AddressInput{
			Street: req.Address.Street,
			Number: req.Address.Number,
			City:   req.Address.City,
		},
	})
	if err != nil {
		h.write(w, r, err, "Failed to create customer")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.OK(id, "Customer created successfully"))
}

// List responds with a bare array, not the envelope.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Service.ListCustomers(r.Context())
	writeJSON(w, r, http.StatusOK, dto.NewCustomerList(items))
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.write(w, r, err, "Failed to retrieve customer")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.NewCustomerResponse(*c), "Customer retrieved successfully"))
}
