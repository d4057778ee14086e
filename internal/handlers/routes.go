package handlers

import (
	"net/http"
)

type dayRouteResponse struct {
	PlanID    string      `json:"plan_id"`
	Day       string      `json:"day"`
	Waypoints int         `json:"waypoints"`
	State     string      `json:"state"`
	Route     interface{} `json:"route"`
}

// HandleGetDayRoute handles GET /api/v1/plans/{plan}/days/{day}/route.
// Resolves the day's waypoints from the effective order and returns the
// controller's committed result; the synchronous path bypasses the
// debounce timer.
func (h *Handler) HandleGetDayRoute(w http.ResponseWriter, r *http.Request, planID, day string) {
	items, err := h.Reorder.EffectiveItems(r.Context(), planID, day)
	if err != nil {
		h.renderError(w, err)
		return
	}

	wps, err := h.Waypoints.Resolve(r.Context(), items)
	if err != nil {
		h.renderError(w, err)
		return
	}

	ctrl := h.Routes.ForDay(planID, day)
	result := ctrl.ResolveNow(r.Context(), wps)
	_, state := ctrl.Current()

	h.writeJSON(w, http.StatusOK, dayRouteResponse{
		PlanID:    planID,
		Day:       day,
		Waypoints: len(wps),
		State:     string(state),
		Route:     result,
	})
}
