package waypoints

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

// mockLocationRepo serves locations from a map; only GetByIDs is exercised
type mockLocationRepo struct {
	locations map[string]*models.Location
	requested []string
}

func (m *mockLocationRepo) List(ctx context.Context) ([]models.Location, error) { return nil, nil }

func (m *mockLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	if loc, ok := m.locations[id]; ok {
		return loc, nil
	}
	return nil, database.ErrNotFound
}

func (m *mockLocationRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Location, error) {
	m.requested = ids
	out := make(map[string]*models.Location)
	for _, id := range ids {
		if loc, ok := m.locations[id]; ok {
			out[id] = loc
		}
	}
	return out, nil
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *models.Location) (*models.Location, error) {
	return loc, nil
}

func (m *mockLocationRepo) Update(ctx context.Context, loc *models.Location) (*models.Location, error) {
	return loc, nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, id string) error { return nil }

func coords(lat, lng float64) *models.Coordinates {
	return &models.Coordinates{Lat: lat, Lng: lng}
}

func TestResolveOrdersByItemOrder(t *testing.T) {
	repo := &mockLocationRepo{locations: map[string]*models.Location{
		"museum": {ID: "museum", Coords: coords(1, 1)},
		"park":   {ID: "park", Coords: coords(2, 2)},
		"cafe":   {ID: "cafe", Coords: coords(3, 3)},
	}}
	r := NewResolver(repo)

	items := []models.ScheduleItem{
		{ID: "c", Order: 2, LocationID: "cafe"},
		{ID: "a", Order: 0, LocationID: "museum"},
		{ID: "b", Order: 1, LocationID: "park"},
	}

	wps, err := r.Resolve(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, []models.Coordinates{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}, wps)
}

func TestResolveSkipsUnresolvableItems(t *testing.T) {
	repo := &mockLocationRepo{locations: map[string]*models.Location{
		"known":     {ID: "known", Coords: coords(1, 1)},
		"ungeocoded": {ID: "ungeocoded", Coords: nil},
	}}
	r := NewResolver(repo)

	items := []models.ScheduleItem{
		{ID: "a", Order: 0, LocationID: "known"},
		{ID: "b", Order: 1, LocationID: ""},           // no location at all
		{ID: "c", Order: 2, LocationID: "ungeocoded"}, // location without coords
		{ID: "d", Order: 3, LocationID: "deleted"},    // dangling reference
		{ID: "e", Order: 4, LocationID: "known"},
	}

	wps, err := r.Resolve(context.Background(), items)
	require.NoError(t, err)

	// No placeholders: skipped items leave no gap
	assert.Equal(t, []models.Coordinates{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}}, wps)
}

func TestResolveCustomCoordsOverrideLocation(t *testing.T) {
	repo := &mockLocationRepo{locations: map[string]*models.Location{
		"hotel": {ID: "hotel", Coords: coords(10, 10)},
	}}
	r := NewResolver(repo)

	items := []models.ScheduleItem{
		{ID: "a", Order: 0, LocationID: "hotel", CustomCoords: coords(99, 99)},
	}

	wps, err := r.Resolve(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, wps, 1)
	assert.Equal(t, models.Coordinates{Lat: 99, Lng: 99}, wps[0])

	// The overridden location is not even looked up
	assert.Empty(t, repo.requested)
}

func TestResolveCustomCoordsWithoutLocation(t *testing.T) {
	r := NewResolver(&mockLocationRepo{locations: map[string]*models.Location{}})

	items := []models.ScheduleItem{
		{ID: "a", Order: 0, CustomCoords: coords(5, 6)},
	}

	wps, err := r.Resolve(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, []models.Coordinates{{Lat: 5, Lng: 6}}, wps)
}

func TestResolveEmptyItems(t *testing.T) {
	r := NewResolver(&mockLocationRepo{})

	wps, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, wps)
}
