package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-router/internal/models"
)

func TestMoveIDForward(t *testing.T) {
	next, ok := MoveID([]string{"x", "y", "z"}, "x", "z")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "z", "x"}, next)
}

func TestMoveIDBackward(t *testing.T) {
	next, ok := MoveID([]string{"x", "y", "z"}, "z", "x")
	require.True(t, ok)
	assert.Equal(t, []string{"z", "x", "y"}, next)
}

func TestMoveIDAdjacent(t *testing.T) {
	next, ok := MoveID([]string{"a", "b", "c", "d"}, "b", "c")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c", "b", "d"}, next)
}

func TestMoveIDNoOpSameID(t *testing.T) {
	_, ok := MoveID([]string{"x", "y", "z"}, "y", "y")
	assert.False(t, ok)
}

func TestMoveIDNoOpUnknownIDs(t *testing.T) {
	_, ok := MoveID([]string{"x", "y", "z"}, "missing", "z")
	assert.False(t, ok)

	_, ok = MoveID([]string{"x", "y", "z"}, "x", "missing")
	assert.False(t, ok)
}

func TestMoveIDDoesNotMutateInput(t *testing.T) {
	in := []string{"x", "y", "z"}
	_, ok := MoveID(in, "x", "z")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, in)
}

func TestMoveIDPreservesIDSet(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	next, ok := MoveID(in, "d", "a")
	require.True(t, ok)
	assert.ElementsMatch(t, in, next)
	assert.Len(t, next, len(in))
}

func TestTimeSortedIDs(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "z", Order: 0, StartTime: "14:00"},
		{ID: "x", Order: 1, StartTime: "09:00"},
		{ID: "y", Order: 2, StartTime: "11:30"},
	}

	assert.Equal(t, []string{"x", "y", "z"}, TimeSortedIDs(items))
}

func TestTimeSortedIDsMovesEarlyItemFirst(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "x", Order: 0, StartTime: "09:00"},
		{ID: "y", Order: 1, StartTime: "10:00"},
		{ID: "z", Order: 2, StartTime: "08:00"},
	}

	assert.Equal(t, []string{"z", "x", "y"}, TimeSortedIDs(items))
}

func TestTimeSortedIDsTiesByPreviousOrder(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "b", Order: 2, StartTime: "10:00"},
		{ID: "a", Order: 1, StartTime: "10:00"},
		{ID: "c", Order: 0, StartTime: "12:00"},
	}

	assert.Equal(t, []string{"a", "b", "c"}, TimeSortedIDs(items))
}

func TestTimeSortedIDsEmptyStartTimeLast(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "untimed", Order: 0, StartTime: ""},
		{ID: "late", Order: 1, StartTime: "18:00"},
		{ID: "early", Order: 2, StartTime: "08:00"},
	}

	assert.Equal(t, []string{"early", "late", "untimed"}, TimeSortedIDs(items))
}

func TestTimeSortedIDsIdempotent(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "b", Order: 0, StartTime: "10:00"},
		{ID: "a", Order: 1, StartTime: "10:00"},
		{ID: "c", Order: 2, StartTime: "09:00"},
	}

	first := TimeSortedIDs(items)

	// Apply the first result as the new order and sort again
	resorted := make([]models.ScheduleItem, len(items))
	for i, id := range first {
		for _, item := range items {
			if item.ID == id {
				item.Order = i
				resorted[i] = item
			}
		}
	}

	assert.Equal(t, first, TimeSortedIDs(resorted))
}
