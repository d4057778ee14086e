package waypoints

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/samber/lo"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

// Resolver derives the ordered waypoint list of a day from its schedule
// items and the location records they reference.
type Resolver struct {
	locations database.LocationRepository
}

func NewResolver(locations database.LocationRepository) *Resolver {
	return &Resolver{locations: locations}
}

// Resolve returns the coordinates of the given items in itinerary order.
// Items without a resolvable coordinate are skipped; the relative order of
// the remaining waypoints is preserved. An item-level custom coordinate
// wins over the referenced location's coordinate.
func (r *Resolver) Resolve(ctx context.Context, items []models.ScheduleItem) ([]models.Coordinates, error) {
	if len(items) == 0 {
		return []models.Coordinates{}, nil
	}

	sorted := make([]models.ScheduleItem, len(items))
	copy(sorted, items)

	// Order values are unique per day by invariant; equal orders should not
	// occur but fall back to start time so the output stays deterministic.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	locationIDs := lo.Uniq(lo.FilterMap(sorted, func(item models.ScheduleItem, _ int) (string, bool) {
		return item.LocationID, item.LocationID != "" && item.CustomCoords == nil
	}))

	locations, err := r.locations.GetByIDs(ctx, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve locations: %w", err)
	}

	waypoints := make([]models.Coordinates, 0, len(sorted))
	for _, item := range sorted {
		coords := resolveCoords(item, locations)
		if coords == nil {
			log.Printf("[WAYPOINTS] Skipping item without coordinates: item=%s location=%s", item.ID, item.LocationID)
			continue
		}
		waypoints = append(waypoints, *coords)
	}

	return waypoints, nil
}

func resolveCoords(item models.ScheduleItem, locations map[string]*models.Location) *models.Coordinates {
	if item.CustomCoords != nil {
		return item.CustomCoords
	}
	if item.LocationID == "" {
		return nil
	}
	loc, ok := locations[item.LocationID]
	if !ok || loc.Coords == nil {
		return nil
	}
	return loc.Coords
}
