package force

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// Impulse is the "impulse" element: applies a fixed force vector to
// every entity exactly once, on the first step it runs in.
type Impulse struct {
	force       r3.Vec
	shouldPulse atomic.Bool
}

// NewImpulse constructs an Impulse stage armed to fire on its first Apply.
func NewImpulse(fx, fy, fz float64) *Impulse {
	imp := &Impulse{force: r3.Vec{fx, fy, fz}}
	imp.shouldPulse.Store(true)
	return imp
}

func (imp *Impulse) Apply(state []entity.Entity, forces []r3.Vec) {
	if imp.shouldPulse.Swap(false) {
		for i := range forces {
			forces[i] = entity.Add(forces[i], imp.force)
		}
	}
}
