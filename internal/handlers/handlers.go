package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"itinerary-router/internal/database"
	"itinerary-router/internal/geocode"
	"itinerary-router/internal/reorder"
	"itinerary-router/internal/route"
	"itinerary-router/internal/waypoints"
)

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB        database.DataStore
	Reorder   *reorder.Coordinator
	Waypoints *waypoints.Resolver
	Routes    *route.ControllerStore
	Geocoder  geocode.Geocoder
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// renderError maps domain errors onto HTTP responses. Provider failures
// never reach here; the route controller converts them to fallbacks.
func (h *Handler) renderError(w http.ResponseWriter, err error) {
	var persistErr *reorder.ErrPersistFailed

	switch {
	case errors.Is(err, database.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, database.ErrValidation):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &persistErr):
		h.writeError(w, http.StatusBadGateway, "PERSIST_FAILED", persistErr.Error())
	default:
		log.Printf("[ERROR] Internal error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.")
	}
}

// HandleHealthCheck handles GET /api/v1/health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
