package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *nominatimClient {
	return &nominatimClient{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(1 * time.Millisecond), // Fast rate limit for testing
	}
}

func TestNominatimGeocodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/search")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))

		response := []nominatimResult{
			{
				Lat:         "40.7128",
				Lon:         "-74.0060",
				DisplayName: "New York, NY, USA",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := testClient(server.URL)

	result, err := geocoder.Geocode(context.Background(), "New York")
	require.NoError(t, err)
	assert.Equal(t, 40.7128, result.Coords.Lat)
	assert.Equal(t, -74.0060, result.Coords.Lng)
	assert.Equal(t, "New York, NY, USA", result.DisplayName)
}

func TestNominatimGeocodeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	geocoder := testClient(server.URL)

	_, err := geocoder.Geocode(context.Background(), "nowhere at all")
	require.Error(t, err)

	var geoErr *ErrGeocodeFailed
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, "nowhere at all", geoErr.Address)
}

func TestNominatimSearchLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		response := []nominatimResult{
			{Lat: "51.5074", Lon: "-0.1278", DisplayName: "London, UK"},
			{Lat: "42.9834", Lon: "-81.2330", DisplayName: "London, Ontario, Canada"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := testClient(server.URL)

	results, err := geocoder.Search(context.Background(), "London", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "London, UK", results[0].DisplayName)
}

func TestNominatimSearchSkipsMalformedCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := []nominatimResult{
			{Lat: "not-a-number", Lon: "-0.1278", DisplayName: "Broken"},
			{Lat: "51.5074", Lon: "-0.1278", DisplayName: "London, UK"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	geocoder := testClient(server.URL)

	results, err := geocoder.Search(context.Background(), "London", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "London, UK", results[0].DisplayName)
}

func TestNominatimServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	geocoder := testClient(server.URL)

	_, err := geocoder.Search(context.Background(), "London", 5)
	assert.Error(t, err)
}
