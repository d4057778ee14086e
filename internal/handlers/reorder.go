package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// HandleReorder handles POST /api/v1/plans/{plan}/days/{day}/reorder.
// The optimistic order is visible through the items/order endpoints as
// soon as this call starts persisting; on failure the previous order is
// restored and the failure surfaced.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request, planID, day string) {
	var req struct {
		DraggedID string `json:"dragged_id"`
		TargetID  string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.DraggedID == "" || req.TargetID == "" {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "dragged_id and target_id are required")
		return
	}

	log.Printf("[HTTP] POST reorder: plan=%s day=%s dragged=%s target=%s", planID, day, req.DraggedID, req.TargetID)

	if err := h.Reorder.Reorder(r.Context(), planID, day, req.DraggedID, req.TargetID); err != nil {
		h.renderError(w, err)
		return
	}

	h.refreshDayRoute(r, planID, day)
	h.writeOrderStatus(w, r, planID, day)
}

// HandleResetOrder handles POST /api/v1/plans/{plan}/days/{day}/reorder/reset
func (h *Handler) HandleResetOrder(w http.ResponseWriter, r *http.Request, planID, day string) {
	log.Printf("[HTTP] POST reorder/reset: plan=%s day=%s", planID, day)

	if err := h.Reorder.ResetToTimeOrder(r.Context(), planID, day); err != nil {
		h.renderError(w, err)
		return
	}

	h.refreshDayRoute(r, planID, day)
	h.writeOrderStatus(w, r, planID, day)
}

// HandleGetOrder handles GET /api/v1/plans/{plan}/days/{day}/order
func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request, planID, day string) {
	h.writeOrderStatus(w, r, planID, day)
}

func (h *Handler) writeOrderStatus(w http.ResponseWriter, r *http.Request, planID, day string) {
	order, err := h.Reorder.EffectiveOrder(r.Context(), planID, day)
	if err != nil {
		h.renderError(w, err)
		return
	}

	manual, err := h.Reorder.HasManualOrder(r.Context(), planID, day)
	if err != nil {
		h.renderError(w, err)
		return
	}

	if order == nil {
		order = []string{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"plan_id":          planID,
		"day":              day,
		"ordered_item_ids": order,
		"has_manual_order": manual,
	})
}

// refreshDayRoute feeds the day's new waypoint list into its route
// controller so the route is resolving (debounced) while the client is
// still processing the reorder response.
func (h *Handler) refreshDayRoute(r *http.Request, planID, day string) {
	items, err := h.Reorder.EffectiveItems(r.Context(), planID, day)
	if err != nil {
		log.Printf("[ERROR] Failed to refresh route after reorder: plan=%s day=%s err=%v", planID, day, err)
		return
	}

	wps, err := h.Waypoints.Resolve(r.Context(), items)
	if err != nil {
		log.Printf("[ERROR] Failed to resolve waypoints after reorder: plan=%s day=%s err=%v", planID, day, err)
		return
	}

	h.Routes.ForDay(planID, day).SetWaypoints(wps)
}
