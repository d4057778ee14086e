package reorder

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/samber/lo"

	"itinerary-router/internal/database"
	"itinerary-router/internal/models"
)

// OrderPersister writes a full ordered id list for a day. The server side
// sets order = array index, so re-sending the same list is idempotent.
type OrderPersister interface {
	PersistOrder(ctx context.Context, planID, day string, orderedIDs []string) error
}

// ErrPersistFailed is returned when an order write fails. The optimistic
// state has already been reverted when the caller sees this.
type ErrPersistFailed struct {
	PlanID string
	Day    string
	Err    error
}

func (e *ErrPersistFailed) Error() string {
	return fmt.Sprintf("order persist failed for plan %s day %s: %v", e.PlanID, e.Day, e.Err)
}

func (e *ErrPersistFailed) Unwrap() error { return e.Err }

// dayState is the per-(plan, day) three-slot state: the last known-good
// confirmed order, an optimistic overlay shown while a persist is in
// flight, and a monotonically increasing request id used to decide whether
// a completing persist is still the latest.
type dayState struct {
	confirmed  []string
	optimistic []string
	reqID      uint64
}

// effective returns the order consumers should see right now, validated
// against the current item set so stale overlays from CRUD edits
// elsewhere never leak through.
func (st *dayState) effective(items []models.ScheduleItem) []string {
	repo := orderedIDs(items)
	if st.optimistic != nil && sameIDSet(st.optimistic, repo) {
		return st.optimistic
	}
	if st.confirmed != nil && sameIDSet(st.confirmed, repo) {
		return st.confirmed
	}
	return repo
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return len(lo.Without(a, b...)) == 0
}

// Coordinator manages optimistic reordering of schedule items and
// reconciles with persisted state. Last write wins across overlapping
// requests for the same day.
type Coordinator struct {
	items     database.ScheduleItemRepository
	persister OrderPersister

	mu   sync.Mutex
	days map[string]*dayState
}

func NewCoordinator(items database.ScheduleItemRepository, persister OrderPersister) *Coordinator {
	return &Coordinator{
		items:     items,
		persister: persister,
		days:      make(map[string]*dayState),
	}
}

func (c *Coordinator) day(planID, day string) *dayState {
	key := models.DayKey(planID, day)
	st, ok := c.days[key]
	if !ok {
		st = &dayState{}
		c.days[key] = st
	}
	return st
}

// Reorder moves draggedID to targetID's position, publishes the result as
// the optimistic order and persists the full ordered id list. No-op moves
// (dragged == target, unknown ids) abort without touching state.
func (c *Coordinator) Reorder(ctx context.Context, planID, day, draggedID, targetID string) error {
	items, err := c.loadDay(ctx, planID, day)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: no schedule items for plan %s day %s", database.ErrValidation, planID, day)
	}

	c.mu.Lock()
	st := c.day(planID, day)
	current := st.effective(items)

	next, ok := MoveID(current, draggedID, targetID)
	if !ok {
		c.mu.Unlock()
		log.Printf("[REORDER] Ignoring no-op move: plan=%s day=%s dragged=%s target=%s", planID, day, draggedID, targetID)
		return nil
	}

	if st.confirmed == nil {
		st.confirmed = orderedIDs(items)
	}
	st.optimistic = next
	st.reqID++
	req := st.reqID
	c.mu.Unlock()

	log.Printf("[REORDER] Optimistic order published: plan=%s day=%s items=%d req=%d", planID, day, len(next), req)
	return c.persist(ctx, planID, day, st, next, req)
}

// ResetToTimeOrder recomputes the order by start time ascending, ties
// broken by previous order ascending, then persists like Reorder.
// Calling it twice in a row yields the same final order both times.
func (c *Coordinator) ResetToTimeOrder(ctx context.Context, planID, day string) error {
	items, err := c.loadDay(ctx, planID, day)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: no schedule items for plan %s day %s", database.ErrValidation, planID, day)
	}

	c.mu.Lock()
	st := c.day(planID, day)
	next := TimeSortedIDs(items)
	if st.confirmed == nil {
		st.confirmed = orderedIDs(items)
	}
	st.optimistic = next
	st.reqID++
	req := st.reqID
	c.mu.Unlock()

	log.Printf("[REORDER] Reset to time order: plan=%s day=%s items=%d req=%d", planID, day, len(next), req)
	return c.persist(ctx, planID, day, st, next, req)
}

// HasManualOrder reports whether the current order sequence differs from
// the one ResetToTimeOrder would produce.
func (c *Coordinator) HasManualOrder(ctx context.Context, planID, day string) (bool, error) {
	items, err := c.loadDay(ctx, planID, day)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	st := c.day(planID, day)
	effective := st.effective(items)
	c.mu.Unlock()

	timeSorted := TimeSortedIDs(items)
	for i := range effective {
		if effective[i] != timeSorted[i] {
			return true, nil
		}
	}
	return false, nil
}

// EffectiveOrder returns the ordered item ids consumers should see right
// now: the optimistic overlay when a persist is in flight, the confirmed
// order otherwise.
func (c *Coordinator) EffectiveOrder(ctx context.Context, planID, day string) ([]string, error) {
	items, err := c.loadDay(ctx, planID, day)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day(planID, day).effective(items), nil
}

// EffectiveItems returns the day's items arranged in effective order, with
// the order field renumbered to match, for downstream waypoint resolution.
func (c *Coordinator) EffectiveItems(ctx context.Context, planID, day string) ([]models.ScheduleItem, error) {
	items, err := c.loadDay(ctx, planID, day)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	order := c.day(planID, day).effective(items)
	c.mu.Unlock()

	byID := lo.SliceToMap(items, func(item models.ScheduleItem) (string, models.ScheduleItem) {
		return item.ID, item
	})

	arranged := make([]models.ScheduleItem, 0, len(order))
	for i, id := range order {
		item := byID[id]
		item.Order = i
		arranged = append(arranged, item)
	}
	return arranged, nil
}

func (c *Coordinator) loadDay(ctx context.Context, planID, day string) ([]models.ScheduleItem, error) {
	if planID == "" || day == "" {
		return nil, fmt.Errorf("%w: plan and day are required", database.ErrValidation)
	}

	items, err := c.items.ListByDay(ctx, planID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule items: %w", err)
	}
	return items, nil
}

// persist writes the ordered list and reconciles the three-slot state.
// A completion is applied only when its request id is still the latest;
// superseded completions leave the state to the newer request.
func (c *Coordinator) persist(ctx context.Context, planID, day string, st *dayState, order []string, req uint64) error {
	err := c.persister.PersistOrder(ctx, planID, day, order)

	c.mu.Lock()
	defer c.mu.Unlock()

	if st.reqID != req {
		log.Printf("[REORDER] Persist superseded: plan=%s day=%s req=%d latest=%d", planID, day, req, st.reqID)
		return nil
	}

	if err != nil {
		st.optimistic = nil
		log.Printf("[ERROR] Order persist failed, optimistic state reverted: plan=%s day=%s err=%v", planID, day, err)
		return &ErrPersistFailed{PlanID: planID, Day: day, Err: err}
	}

	st.confirmed = order
	st.optimistic = nil
	return nil
}
