package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

// Maximum accepted request body size.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.Fail(msg))
}

// decodeJSON reads exactly one JSON object from the body into v. Unknown
// fields are ignored so older clients keep working.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// Failures maps service errors onto the response envelope. Every failure is a
// 400 unless Strict is set, in which case missing entities are 404 and
// unexpected errors are 500.
type Failures struct {
	Strict bool
}

// write responds to a failed service call. fallback replaces the message of
// errors outside the domain taxonomy, whose detail is only logged.
func (f Failures) write(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := http.StatusBadRequest
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrDuplicatePoint):
		msg = "Location already exists in package path"
	case errors.Is(err, domain.ErrNotFound):
		if f.Strict {
			status = http.StatusNotFound
		}
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidCoordinate):
	default:
		log.Printf("req_id=%s request failed: method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
		msg = fallback
		if f.Strict {
			status = http.StatusInternalServerError
		}
	}

	writeError(w, r, status, msg)
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "Route not found")
}
