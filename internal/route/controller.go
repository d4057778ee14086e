package route

import (
	"context"
	"log"
	"sync"

	"itinerary-router/internal/models"
)

// State is the controller's resolution state for its current target
type State string

const (
	StateIdle       State = "IDLE"
	StateDebouncing State = "DEBOUNCING"
	StateFetching   State = "FETCHING"
	StateResolved   State = "RESOLVED"
	StateFallback   State = "FALLBACK"
)

// Controller orchestrates debounce, cache lookup, provider fetch, fallback
// and staleness guarding for one day's route. Any new waypoint input makes
// the previous in-flight work stale: a completing fetch is committed only
// while its originating signature still matches the controller's target.
type Controller struct {
	provider  Provider // nil means no provider configured: always fallback
	cache     KV
	debouncer Debouncer

	mu        sync.Mutex
	targetSig string
	state     State
	current   models.RouteResult
}

func NewController(provider Provider, cache KV, debouncer Debouncer) *Controller {
	return &Controller{
		provider:  provider,
		cache:     cache,
		debouncer: debouncer,
		state:     StateIdle,
	}
}

// SetWaypoints feeds a new waypoint list into the controller. Fewer than
// two waypoints commit an empty result immediately; otherwise resolution
// is debounced so bursts of edits collapse into one fetch for the final
// state.
func (c *Controller) SetWaypoints(waypoints []models.Coordinates) {
	sig := Signature(waypoints)

	c.mu.Lock()
	if len(waypoints) < 2 {
		c.targetSig = sig
		c.current = models.RouteResult{}
		c.state = StateIdle
		c.mu.Unlock()
		return
	}

	c.targetSig = sig
	c.state = StateDebouncing
	c.mu.Unlock()

	wps := make([]models.Coordinates, len(waypoints))
	copy(wps, waypoints)

	c.debouncer.Trigger(func() {
		c.resolve(context.Background(), sig, wps)
	})
}

// ResolveNow resolves the given waypoints synchronously, bypassing the
// debounce timer, and returns the committed result. Used by request-driven
// consumers that need an answer in hand.
func (c *Controller) ResolveNow(ctx context.Context, waypoints []models.Coordinates) models.RouteResult {
	sig := Signature(waypoints)

	c.mu.Lock()
	if len(waypoints) < 2 {
		c.targetSig = sig
		c.current = models.RouteResult{}
		c.state = StateIdle
		result := c.current
		c.mu.Unlock()
		return result
	}
	c.targetSig = sig
	c.state = StateDebouncing
	c.mu.Unlock()

	c.resolve(ctx, sig, waypoints)

	result, _ := c.Current()
	return result
}

// Current returns the last committed result and the controller state
func (c *Controller) Current() (models.RouteResult, State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.state
}

// resolve runs cache lookup, provider fetch and fallback for one
// signature. Results belonging to a superseded signature are discarded.
func (c *Controller) resolve(ctx context.Context, sig string, waypoints []models.Coordinates) {
	c.mu.Lock()
	if sig != c.targetSig {
		c.mu.Unlock()
		log.Printf("[ROUTE] Skipping stale resolution: sig=%s", sig)
		return
	}

	if cached, ok := c.cache.Get(sig); ok {
		c.commitLocked(cached)
		c.mu.Unlock()
		return
	}

	c.state = StateFetching
	c.mu.Unlock()

	result := c.fetch(ctx, waypoints)

	c.mu.Lock()
	defer c.mu.Unlock()

	if sig != c.targetSig {
		log.Printf("[ROUTE] Discarding superseded result: sig=%s", sig)
		return
	}

	// Fallback results are not cached so a later edit can retry the provider
	if !result.IsFallback {
		c.cache.Set(sig, result)
	}
	c.commitLocked(result)
}

// fetch asks the provider for a route, degrading to a straight-line
// fallback on any failure. Fallback is a policy outcome, not an error.
func (c *Controller) fetch(ctx context.Context, waypoints []models.Coordinates) models.RouteResult {
	if c.provider == nil {
		return fallbackRoute(waypoints)
	}

	result, err := c.provider.FetchRoute(ctx, waypoints)
	if err != nil {
		log.Printf("[ROUTE] Provider failed, using straight-line fallback: waypoints=%d err=%v", len(waypoints), err)
		return fallbackRoute(waypoints)
	}

	return *result
}

func (c *Controller) commitLocked(result models.RouteResult) {
	c.current = result
	if result.IsFallback {
		c.state = StateFallback
	} else {
		c.state = StateResolved
	}
}

// fallbackRoute treats the waypoint list itself as a straight-line path.
// Distance and duration are left unset.
func fallbackRoute(waypoints []models.Coordinates) models.RouteResult {
	path := make([]models.Coordinates, len(waypoints))
	copy(path, waypoints)
	return models.RouteResult{
		Path:       path,
		IsFallback: true,
	}
}
