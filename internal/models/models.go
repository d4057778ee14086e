package models

import (
	"fmt"
	"math"
	"time"
)

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RoundCoordinate rounds a coordinate to 4 decimal places (~11m precision),
// the precision used for route signatures and cache keys
func RoundCoordinate(coord float64) float64 {
	return math.Round(coord*10000) / 10000
}

// Location is a named place a schedule item can reference.
// Coords is nil when the place has not been geocoded yet.
type Location struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Coords    *Coordinates `json:"coords,omitempty"`
	Category  string       `json:"category,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ScheduleItem is a single stop on a plan's day itinerary.
// Order is dense 0..N-1 within (PlanID, Day); CustomCoords, when set,
// overrides the referenced location's coordinates for routing.
type ScheduleItem struct {
	ID           string       `json:"id"`
	PlanID       string       `json:"plan_id"`
	Day          string       `json:"day"` // YYYY-MM-DD
	Order        int          `json:"order"`
	Title        string       `json:"title"`
	StartTime    string       `json:"start_time"` // HH:MM
	EndTime      string       `json:"end_time"`   // HH:MM
	LocationID   string       `json:"location_id,omitempty"`
	CustomCoords *Coordinates `json:"custom_coords,omitempty"`
	FlexibleTime bool         `json:"flexible_time"`
	CreatedBy    string       `json:"created_by,omitempty"`
	UpdatedBy    string       `json:"updated_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Comment is a remark attached to a schedule item. Comments are deleted
// together with their item.
type Comment struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// RouteResult is a resolved travel route between the waypoints of a day.
// DistanceKm and DurationMin are nil for fallback (straight-line) results.
type RouteResult struct {
	Path        []Coordinates `json:"path"`
	DistanceKm  *float64      `json:"distance_km,omitempty"`
	DurationMin *float64      `json:"duration_min,omitempty"`
	IsFallback  bool          `json:"is_fallback"`
}

// ReorderRequest is the ordered-id list sent to persistence for a day.
// The server sets order = array index.
type ReorderRequest struct {
	PlanID         string   `json:"plan_id"`
	Day            string   `json:"day"`
	OrderedItemIDs []string `json:"ordered_item_ids"`
}

// DayKey returns the map key used for per-day state ("plan|day")
func DayKey(planID, day string) string {
	return fmt.Sprintf("%s|%s", planID, day)
}
