package route

import (
	"log"
	"sync"

	"itinerary-router/internal/models"
)

// ControllerStore manages one Controller per (plan, day) in memory.
// Controllers share the route cache but each keeps its own debounce timer
// and target signature.
type ControllerStore struct {
	factory     func() *Controller
	mu          sync.RWMutex
	controllers map[string]*Controller
}

// NewControllerStore creates a store producing controllers via factory
func NewControllerStore(factory func() *Controller) *ControllerStore {
	return &ControllerStore{
		factory:     factory,
		controllers: make(map[string]*Controller),
	}
}

// ForDay returns the controller for (planID, day), creating it on first use
func (s *ControllerStore) ForDay(planID, day string) *Controller {
	key := models.DayKey(planID, day)

	s.mu.RLock()
	ctrl, ok := s.controllers[key]
	s.mu.RUnlock()
	if ok {
		return ctrl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.controllers[key]; ok {
		return ctrl
	}

	ctrl = s.factory()
	s.controllers[key] = ctrl
	log.Printf("[ROUTE] Created route controller: plan=%s day=%s", planID, day)
	return ctrl
}

// Delete drops the controller for (planID, day); pending work for it
// becomes stale and is discarded on arrival
func (s *ControllerStore) Delete(planID, day string) {
	key := models.DayKey(planID, day)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.controllers, key)
}
