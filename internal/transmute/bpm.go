package transmute

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// BpmMode selects how Bpm decides whether to inject a new entity on a
// triggering frame.
type BpmMode int

const (
	// BpmAlways injects on every triggering frame regardless of layout.
	BpmAlways BpmMode = iota
	// BpmExclude skips injection when an existing entity already sits
	// near the centre of mass.
	BpmExclude
)

const bpmCloseR = 0.5

// Bpm is the "bpm" element: every N frames it drops a new entity at the
// state's current centre of mass. Exclude mode skips the injection when
// something is already sitting there.
type Bpm struct {
	mu sync.Mutex

	n       uint64
	mass    float64
	radius  *float64
	mode    BpmMode
	current uint64
}

// NewBpm constructs a Bpm transmuter. radius of nil defers to the first
// entity's radius (or 0.1 if the state is empty) at injection time.
func NewBpm(n uint64, mass float64, radius *float64, mode BpmMode) *Bpm {
	if n == 0 {
		n = 1
	}
	return &Bpm{n: n, mass: mass, radius: radius, mode: mode}
}

func (b *Bpm) Apply(state []entity.Entity) []entity.Entity {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	if b.current%b.n != 0 {
		return state
	}
	if len(state) == 0 {
		return state
	}

	centre := centreOfMass(state)

	if b.mode == BpmExclude {
		for _, e := range state {
			if absf(e.Pos.X()-centre.X()) < bpmCloseR &&
				absf(e.Pos.Y()-centre.Y()) < bpmCloseR &&
				absf(e.Pos.Z()-centre.Z()) < bpmCloseR {
				return state
			}
		}
	}

	radius := 0.1
	if b.radius != nil {
		radius = *b.radius
	} else if len(state) > 0 {
		radius = state[0].Radius
	}

	return append(state, entity.NewWithRadius(centre, b.mass, radius))
}

func centreOfMass(state []entity.Entity) r3.Vec {
	var numerator r3.Vec
	var denominator float64
	for _, e := range state {
		numerator = entity.Add(numerator, entity.Scale(e.Pos, e.Mass))
		denominator += e.Mass
	}
	if denominator == 0 {
		return r3.Vec{}
	}
	return entity.Scale(numerator, 1/denominator)
}
