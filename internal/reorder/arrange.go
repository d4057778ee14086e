package reorder

import (
	"sort"

	"github.com/samber/lo"

	"itinerary-router/internal/models"
)

// MoveID removes draggedID from orderedIDs and reinserts it at targetID's
// position (array-move semantics). Returns false without modifying anything
// when the move is a no-op: draggedID equals targetID, or either id is not
// present.
func MoveID(orderedIDs []string, draggedID, targetID string) ([]string, bool) {
	if draggedID == targetID {
		return nil, false
	}

	from := lo.IndexOf(orderedIDs, draggedID)
	to := lo.IndexOf(orderedIDs, targetID)
	if from < 0 || to < 0 {
		return nil, false
	}

	next := make([]string, 0, len(orderedIDs))
	next = append(next, orderedIDs[:from]...)
	next = append(next, orderedIDs[from+1:]...)

	result := make([]string, 0, len(orderedIDs))
	result = append(result, next[:to]...)
	result = append(result, draggedID)
	result = append(result, next[to:]...)
	return result, true
}

// TimeSortedIDs returns the item ids sorted by start time ascending, ties
// broken by previous order ascending. Items without a start time sort last.
func TimeSortedIDs(items []models.ScheduleItem) []string {
	sorted := make([]models.ScheduleItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.StartTime == "") != (b.StartTime == "") {
			return a.StartTime != ""
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Order < b.Order
	})

	return lo.Map(sorted, func(item models.ScheduleItem, _ int) string { return item.ID })
}

// orderedIDs returns item ids sorted by their persisted order field
func orderedIDs(items []models.ScheduleItem) []string {
	sorted := make([]models.ScheduleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return lo.Map(sorted, func(item models.ScheduleItem, _ int) string { return item.ID })
}
