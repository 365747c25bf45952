package transmute

import (
	"sync"

	"github.com/physim/physim/internal/entity"
)

// IDAssign assigns a stable, monotonically increasing, non-zero ID to
// every entity whose ID is still 0. It has no equivalent in the original
// implementation: there, entities carried identity implicitly via vector
// position and renderers consumed snapshots by index. A Go pipeline with
// a persistent message bus and sinks that track individual bodies across
// steps needs a real identity, so this element supplies one.
type IDAssign struct {
	mu   sync.Mutex
	next uint64
}

// NewIDAssign constructs an IDAssign transmuter; the first assigned ID is 1.
func NewIDAssign() *IDAssign {
	return &IDAssign{next: 1}
}

func (a *IDAssign) Apply(state []entity.Entity) []entity.Entity {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range state {
		if state[i].ID == 0 {
			state[i].ID = a.next
			a.next++
		}
	}
	return state
}
