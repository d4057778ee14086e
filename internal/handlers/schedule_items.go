package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"itinerary-router/internal/models"
)

// PlanDayFromPath parses "/api/v1/plans/{plan}/days/{day}/..." and returns
// the plan id, day and trailing segment
func PlanDayFromPath(path string) (planID, day, rest string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/api/v1/plans/")
	if trimmed == path {
		return "", "", "", false
	}

	parts := strings.SplitN(trimmed, "/", 4)
	if len(parts) < 3 || parts[1] != "days" || parts[0] == "" || parts[2] == "" {
		return "", "", "", false
	}

	if len(parts) == 4 {
		rest = parts[3]
	}
	return parts[0], parts[2], rest, true
}

type scheduleItemRequest struct {
	Title        *string             `json:"title,omitempty"`
	StartTime    *string             `json:"start_time,omitempty"`
	EndTime      *string             `json:"end_time,omitempty"`
	LocationID   *string             `json:"location_id,omitempty"`
	CustomCoords *models.Coordinates `json:"custom_coords,omitempty"`
	FlexibleTime *bool               `json:"flexible_time,omitempty"`
	UpdatedBy    string              `json:"updated_by,omitempty"`
	CreatedBy    string              `json:"created_by,omitempty"`
}

// HandleListDayItems handles GET /api/v1/plans/{plan}/days/{day}/items.
// Items come back in effective order: the optimistic order when a reorder
// is in flight, the confirmed order otherwise.
func (h *Handler) HandleListDayItems(w http.ResponseWriter, r *http.Request, planID, day string) {
	items, err := h.Reorder.EffectiveItems(r.Context(), planID, day)
	if err != nil {
		h.renderError(w, err)
		return
	}
	if items == nil {
		items = []models.ScheduleItem{}
	}
	h.writeJSON(w, http.StatusOK, items)
}

// HandleCreateDayItem handles POST /api/v1/plans/{plan}/days/{day}/items
func (h *Handler) HandleCreateDayItem(w http.ResponseWriter, r *http.Request, planID, day string) {
	var req scheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	item := &models.ScheduleItem{
		PlanID:    planID,
		Day:       day,
		CreatedBy: req.CreatedBy,
		UpdatedBy: req.CreatedBy,
	}
	applyItemRequest(item, &req)

	created, err := h.DB.ScheduleItems().Create(r.Context(), item)
	if err != nil {
		h.renderError(w, err)
		return
	}

	log.Printf("[HTTP] POST items: plan=%s day=%s id=%s order=%d", planID, day, created.ID, created.Order)
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleGetItem handles GET /api/v1/items/{id}
func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request, id string) {
	item, err := h.DB.ScheduleItems().GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// HandlePatchItem handles PATCH /api/v1/items/{id}.
// The order field is owned by the reorder endpoints and cannot be patched.
func (h *Handler) HandlePatchItem(w http.ResponseWriter, r *http.Request, id string) {
	item, err := h.DB.ScheduleItems().GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}

	var req scheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	applyItemRequest(item, &req)
	if req.UpdatedBy != "" {
		item.UpdatedBy = req.UpdatedBy
	}

	updated, err := h.DB.ScheduleItems().Update(r.Context(), item)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteItem handles DELETE /api/v1/items/{id}.
// The item's comments are deleted with it.
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.DB.ScheduleItems().Delete(r.Context(), id); err != nil {
		h.renderError(w, err)
		return
	}

	log.Printf("[HTTP] DELETE /api/v1/items/%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleListItemComments handles GET /api/v1/items/{id}/comments
func (h *Handler) HandleListItemComments(w http.ResponseWriter, r *http.Request, itemID string) {
	comments, err := h.DB.Comments().ListByItem(r.Context(), itemID)
	if err != nil {
		h.renderError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	h.writeJSON(w, http.StatusOK, comments)
}

// HandleCreateItemComment handles POST /api/v1/items/{id}/comments
func (h *Handler) HandleCreateItemComment(w http.ResponseWriter, r *http.Request, itemID string) {
	// The item must exist; a comment on a deleted item is a 404
	if _, err := h.DB.ScheduleItems().GetByID(r.Context(), itemID); err != nil {
		h.renderError(w, err)
		return
	}

	var req struct {
		Author string `json:"author"`
		Body   string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.Body == "" {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "body is required")
		return
	}

	comment, err := h.DB.Comments().Create(r.Context(), &models.Comment{
		ItemID: itemID,
		Author: req.Author,
		Body:   req.Body,
	})
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, comment)
}

func applyItemRequest(item *models.ScheduleItem, req *scheduleItemRequest) {
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.StartTime != nil {
		item.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		item.EndTime = *req.EndTime
	}
	if req.LocationID != nil {
		item.LocationID = *req.LocationID
	}
	if req.CustomCoords != nil {
		item.CustomCoords = req.CustomCoords
	}
	if req.FlexibleTime != nil {
		item.FlexibleTime = *req.FlexibleTime
	}
}
