package frost

import "sync"

// Display holds the UIState currently shown. It is the only shared state
// between controllers.
type Display struct {
	mu         sync.RWMutex
	state      UIState
	dispatched uint64
	pending    int
	guard      bool
}

// NewDisplay creates a Display showing initial. With guard set, a result
// is dropped when a newer request was dispatched after it.
func NewDisplay(initial UIState, guard bool) *Display {
	return &Display{state: initial, guard: guard}
}

// Begin registers a new request, shows its loading state and returns the
// request's sequence number.
func (d *Display) Begin(loading UIState) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dispatched++
	d.pending++
	d.state = loading
	return d.dispatched
}

// Commit publishes the result of request seq. It reports false when the
// result was stale and discarded. Every Begin must be matched by one Commit.
func (d *Display) Commit(seq uint64, st UIState) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending > 0 {
		d.pending--
	}
	if d.guard && seq != d.dispatched {
		return false
	}
	d.state = st
	return true
}

// Mark returns the sequence number of the latest dispatched request.
func (d *Display) Mark() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dispatched
}

// Offer publishes a background result that nobody asked for. It is applied
// only when no request was dispatched since mark, none is outstanding, and
// the display shows the idle placeholder or a stored prediction.
func (d *Display) Offer(mark uint64, st UIState) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dispatched != mark || d.pending > 0 {
		return false
	}
	switch {
	case d.state.Phase == PhaseIdle:
	case d.state.Phase == PhasePopulated && d.state.Flow == FlowCurrent:
	default:
		return false
	}
	d.state = st
	return true
}

// State returns the state currently shown.
func (d *Display) State() UIState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}
