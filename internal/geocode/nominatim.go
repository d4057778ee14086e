package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"itinerary-router/internal/models"
)

// Result contains one geocoding match
type Result struct {
	Coords      models.Coordinates `json:"coords"`
	DisplayName string             `json:"display_name"`
}

// Geocoder provides address-to-coordinates conversion
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// ErrGeocodeFailed is returned when an address cannot be geocoded
type ErrGeocodeFailed struct {
	Address string
	Reason  string
}

func (e *ErrGeocodeFailed) Error() string {
	return fmt.Sprintf("geocoding failed for %q: %s", e.Address, e.Reason)
}

type nominatimClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *time.Ticker
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimClient creates a Nominatim geocoder. Requests are rate
// limited to one per second per the usage policy.
func NewNominatimClient(baseURL string) Geocoder {
	return &nominatimClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: time.NewTicker(1 * time.Second),
	}
}

func (g *nominatimClient) Geocode(ctx context.Context, address string) (*Result, error) {
	results, err := g.Search(ctx, address, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		log.Printf("[ERROR] No geocoding results: address=%s", address)
		return nil, &ErrGeocodeFailed{Address: address, Reason: "no results found"}
	}
	return &results[0], nil
}

func (g *nominatimClient) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	select {
	case <-g.rateLimiter.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	queryURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=%d", g.baseURL, url.QueryEscape(query), limit)
	log.Printf("[GEOCODE] Search request: query=%s limit=%d", query, limit)

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return nil, &ErrGeocodeFailed{Address: query, Reason: err.Error()}
	}

	req.Header.Set("User-Agent", "ItineraryRouter/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Geocoding request failed: query=%s err=%v", query, err)
		return nil, &ErrGeocodeFailed{Address: query, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Geocoding API error: query=%s status=%d body=%s", query, resp.StatusCode, string(body))
		return nil, &ErrGeocodeFailed{
			Address: query,
			Reason:  fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var raw []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		log.Printf("[ERROR] Failed to decode geocoding response: query=%s err=%v", query, err)
		return nil, &ErrGeocodeFailed{Address: query, Reason: err.Error()}
	}

	log.Printf("[GEOCODE] Search response: query=%s results=%d", query, len(raw))

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			log.Printf("[ERROR] Invalid coordinates in geocoding response: query=%s lat=%s lon=%s", query, r.Lat, r.Lon)
			continue
		}
		results = append(results, Result{
			Coords:      models.Coordinates{Lat: lat, Lng: lng},
			DisplayName: r.DisplayName,
		})
	}

	return results, nil
}
