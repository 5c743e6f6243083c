package api

import (
	"delivery-tracking-service/internal/api/handlers"
	"delivery-tracking-service/internal/services"
	"net/http"
)

// Services groups what the HTTP layer needs.
type Services struct {
	Businesses *services.BusinessService
	Customers  *services.CustomerService
	Packages   *services.PackageService
	Locations  *services.LocationService
}

// Options tunes response behavior.
type Options struct {
	// Map missing entities to 404 and internal failures to 500 instead of 400.
	StrictStatus bool
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc Services, opts Options) http.Handler {
	mux := http.NewServeMux()

	failures := handlers.Failures{Strict: opts.StrictStatus}

	businesses := &handlers.BusinessHandler{Service: svc.Businesses, Failures: failures}
	customers := &handlers.CustomerHandler{Service: svc.Customers, Failures: failures}
	packages := &handlers.PackageHandler{Service: svc.Packages, Failures: failures}
	locations := &handlers.LocationHandler{Service: svc.Locations, Failures: failures}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /business", businesses.Create)
	mux.HandleFunc("GET /business", businesses.List)
	mux.HandleFunc("GET /business/{id}", businesses.Get)
	mux.HandleFunc("GET /business/{id}/packages", packages.ListForBusiness)

	mux.HandleFunc("POST /customers", customers.Create)
	mux.HandleFunc("GET /customers", customers.List)
	mux.HandleFunc("GET /customers/{id}", customers.Get)

	mux.HandleFunc("POST /packages", packages.Create)
	mux.HandleFunc("GET /packages/{id}", packages.Get)
	mux.HandleFunc("PUT /packages/{id}/path", packages.AppendLocation)

	mux.HandleFunc("GET /locations/search", locations.Search)

	mux.HandleFunc("/", handlers.NotFound)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(mux)))
}
