package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"itinerary-router/internal/models"
)

type locationRequest struct {
	Name     string              `json:"name"`
	Address  string              `json:"address"`
	Coords   *models.Coordinates `json:"coords,omitempty"`
	Category string              `json:"category,omitempty"`
}

// HandleListLocations handles GET /api/v1/locations
func (h *Handler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.DB.Locations().List(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	h.writeJSON(w, http.StatusOK, locations)
}

// HandleCreateLocation handles POST /api/v1/locations.
// When coordinates are omitted the address is geocoded.
func (h *Handler) HandleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}

	loc := &models.Location{
		Name:     req.Name,
		Address:  req.Address,
		Coords:   req.Coords,
		Category: req.Category,
	}

	if loc.Coords == nil && loc.Address != "" && h.Geocoder != nil {
		result, err := h.Geocoder.Geocode(r.Context(), loc.Address)
		if err != nil {
			log.Printf("[HTTP] Location created without coordinates, geocoding failed: address=%s err=%v", loc.Address, err)
		} else {
			loc.Coords = &result.Coords
		}
	}

	created, err := h.DB.Locations().Create(r.Context(), loc)
	if err != nil {
		h.renderError(w, err)
		return
	}

	log.Printf("[HTTP] POST /api/v1/locations: id=%s name=%s", created.ID, created.Name)
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleGetLocation handles GET /api/v1/locations/{id}
func (h *Handler) HandleGetLocation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/locations/")

	loc, err := h.DB.Locations().GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loc)
}

// HandleUpdateLocation handles PUT /api/v1/locations/{id}
func (h *Handler) HandleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/locations/")

	loc, err := h.DB.Locations().GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if req.Name != "" {
		loc.Name = req.Name
	}
	if req.Address != "" {
		loc.Address = req.Address
	}
	if req.Coords != nil {
		loc.Coords = req.Coords
	}
	if req.Category != "" {
		loc.Category = req.Category
	}

	updated, err := h.DB.Locations().Update(r.Context(), loc)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteLocation handles DELETE /api/v1/locations/{id}
func (h *Handler) HandleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/locations/")

	if err := h.DB.Locations().Delete(r.Context(), id); err != nil {
		h.renderError(w, err)
		return
	}

	log.Printf("[HTTP] DELETE /api/v1/locations/%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddressSearch handles GET /api/v1/address-search
func (h *Handler) HandleAddressSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < 4 {
		h.writeJSON(w, http.StatusOK, []geocodeSearchResult{})
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 20 {
			limit = n
		}
	}

	if h.Geocoder == nil {
		h.writeJSON(w, http.StatusOK, []geocodeSearchResult{})
		return
	}

	results, err := h.Geocoder.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("[ERROR] Address search failed: query=%s err=%v", query, err)
		h.writeJSON(w, http.StatusOK, []geocodeSearchResult{})
		return
	}

	out := make([]geocodeSearchResult, 0, len(results))
	for _, res := range results {
		out = append(out, geocodeSearchResult{
			DisplayName: res.DisplayName,
			Coords:      res.Coords,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

type geocodeSearchResult struct {
	DisplayName string             `json:"display_name"`
	Coords      models.Coordinates `json:"coords"`
}
