package views

import (
	"sync"

	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// ErrActionInFlight rejects a second mutation of an item whose first one
// has not finished
var ErrActionInFlight = &apperrors.FieldError{Field: "id", Reason: "An action for this item is already in progress"}

// ActionTracker holds per-item in-flight flags so one item's pending
// mutation does not disable its siblings
type ActionTracker struct {
	mu       sync.Mutex
	inFlight map[int64]bool
}

// Begin sets the flag for id. It returns false when already set.
func (t *ActionTracker) Begin(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight == nil {
		t.inFlight = make(map[int64]bool)
	}
	if t.inFlight[id] {
		return false
	}
	t.inFlight[id] = true
	return true
}

// End clears the flag for id
func (t *ActionTracker) End(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, id)
}

func (t *ActionTracker) InFlight(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[id]
}

// Snapshot returns the ids with an action in flight
func (t *ActionTracker) Snapshot() map[int64]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int64]bool, len(t.inFlight))
	for id := range t.inFlight {
		out[id] = true
	}
	return out
}

func (t *ActionTracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = nil
}
