package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-router/internal/models"
)

func TestSignatureRoundsToFourDecimals(t *testing.T) {
	a := Signature([]models.Coordinates{{Lat: 40.71284, Lng: -74.00601}})
	b := Signature([]models.Coordinates{{Lat: 40.712840001, Lng: -74.006009}})

	assert.Equal(t, a, b)
	assert.Equal(t, "40.7128,-74.0060", a)
}

func TestSignatureOrderSensitive(t *testing.T) {
	p1 := models.Coordinates{Lat: 1, Lng: 2}
	p2 := models.Coordinates{Lat: 3, Lng: 4}

	assert.NotEqual(t,
		Signature([]models.Coordinates{p1, p2}),
		Signature([]models.Coordinates{p2, p1}))
}

func TestSignatureEmpty(t *testing.T) {
	assert.Equal(t, "", Signature(nil))
}

func TestMemoryCacheWriteOnce(t *testing.T) {
	cache := NewMemoryCache()
	km := 12.5

	cache.Set("k", models.RouteResult{DistanceKm: &km})

	// A second write for the same key is dropped
	other := 99.0
	cache.Set("k", models.RouteResult{DistanceKm: &other})

	got, ok := cache.Get("k")
	require.True(t, ok)
	require.NotNil(t, got.DistanceKm)
	assert.Equal(t, 12.5, *got.DistanceKm)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCacheMiss(t *testing.T) {
	cache := NewMemoryCache()
	_, ok := cache.Get("missing")
	assert.False(t, ok)
}
