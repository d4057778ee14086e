package route

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"itinerary-router/internal/models"
)

// Provider resolves an ordered waypoint list into a travel route
type Provider interface {
	FetchRoute(ctx context.Context, waypoints []models.Coordinates) (*models.RouteResult, error)
}

// ErrRouteFetchFailed is returned when the routing provider fails.
// The controller converts it into a fallback result; it is never a
// user-facing error.
type ErrRouteFetchFailed struct {
	Waypoints int
	Reason    string
}

func (e *ErrRouteFetchFailed) Error() string {
	return fmt.Sprintf("route fetch failed for %d waypoints: %s", e.Waypoints, e.Reason)
}

type osrmProvider struct {
	baseURL    string
	httpClient *http.Client
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// NewOSRMProvider creates a routing provider backed by the OSRM route API
func NewOSRMProvider(baseURL string, timeout time.Duration) Provider {
	return &osrmProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *osrmProvider) FetchRoute(ctx context.Context, waypoints []models.Coordinates) (*models.RouteResult, error) {
	if len(waypoints) < 2 {
		return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: "need at least two waypoints"}
	}

	coords := make([]string, len(waypoints))
	for i, wp := range waypoints {
		// OSRM expects lng,lat
		coords[i] = fmt.Sprintf("%.6f,%.6f", wp.Lng, wp.Lat)
	}

	queryURL := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson",
		p.baseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to create route request: waypoints=%d err=%v", len(waypoints), err)
		return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: err.Error()}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Route API request failed: waypoints=%d err=%v", len(waypoints), err)
		return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Route API error: waypoints=%d status=%d body=%s", len(waypoints), resp.StatusCode, string(body))
		return nil, &ErrRouteFetchFailed{
			Waypoints: len(waypoints),
			Reason:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var osrmResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		log.Printf("[ERROR] Failed to decode route response: waypoints=%d err=%v", len(waypoints), err)
		return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: err.Error()}
	}

	if osrmResp.Code != "Ok" {
		log.Printf("[ERROR] Route API returned error code: waypoints=%d code=%s", len(waypoints), osrmResp.Code)
		return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: fmt.Sprintf("OSRM error: %s", osrmResp.Code)}
	}

	if len(osrmResp.Routes) == 0 || len(osrmResp.Routes[0].Geometry.Coordinates) == 0 {
		log.Printf("[ERROR] Route API returned empty route: waypoints=%d", len(waypoints))
		return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: "empty route payload"}
	}

	best := osrmResp.Routes[0]
	path := make([]models.Coordinates, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, &ErrRouteFetchFailed{Waypoints: len(waypoints), Reason: "malformed geometry"}
		}
		path = append(path, models.Coordinates{Lat: pair[1], Lng: pair[0]})
	}

	// Normalize provider-native meters/seconds to km/minutes
	distanceKm := best.Distance / 1000.0
	durationMin := best.Duration / 60.0

	log.Printf("[ROUTE] Route fetched: waypoints=%d points=%d distance_km=%.2f duration_min=%.1f",
		len(waypoints), len(path), distanceKm, durationMin)

	return &models.RouteResult{
		Path:        path,
		DistanceKm:  &distanceKm,
		DurationMin: &durationMin,
		IsFallback:  false,
	}, nil
}
