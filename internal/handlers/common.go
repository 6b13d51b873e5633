package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sagar-1103/blush-build/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a workflow error onto its HTTP status. Anything
// outside the taxonomy is a 500 with a generic body; the caller logs the
// cause.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrAuthentication):
		respondError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrAuthorization):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrConflict):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrUpstream):
		respondError(w, "Image upload failed. Please try again.", http.StatusBadGateway)
	default:
		respondError(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
	}
}
