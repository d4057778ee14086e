package route

import (
	"time"

	"github.com/bep/debounce"
)

// Debouncer delays a unit of work until a burst of triggers has settled.
// Triggering again before the interval elapses replaces the pending work,
// so rapid successive edits collapse into one resolution.
type Debouncer interface {
	Trigger(fn func())
}

type timerDebouncer struct {
	debounced func(func())
}

// NewDebouncer returns a Debouncer firing after the given quiet interval
func NewDebouncer(interval time.Duration) Debouncer {
	return &timerDebouncer{debounced: debounce.New(interval)}
}

func (d *timerDebouncer) Trigger(fn func()) {
	d.debounced(fn)
}

// immediateDebouncer runs work synchronously; used for the synchronous
// resolve path and in tests
type immediateDebouncer struct{}

// NewImmediateDebouncer returns a Debouncer without any delay
func NewImmediateDebouncer() Debouncer {
	return immediateDebouncer{}
}

func (immediateDebouncer) Trigger(fn func()) {
	fn()
}
