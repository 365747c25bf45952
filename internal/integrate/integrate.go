// Package integrate advances simulation state over one time step given
// accumulated force, with Euler, Verlet, and classical RK4 variants.
package integrate

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// ForceFunc evaluates total per-entity force (not acceleration) for a
// candidate state. It must be pure with respect to state: calling it
// twice with equal states returns equal results, with no hidden
// per-call mutation. RK4 relies on this to probe intermediate states.
type ForceFunc func(state []entity.Entity) []r3.Vec

// Integrator advances state by dt given a way to (re-)evaluate force.
type Integrator interface {
	Integrate(state []entity.Entity, dt float64, forceFn ForceFunc) []entity.Entity

	// Steps reports how many times one Integrate call invokes forceFn.
	Steps() int
}

func acceleration(e entity.Entity, f r3.Vec) r3.Vec {
	if e.Mass == 0 {
		return r3.Vec{}
	}
	return entity.Scale(f, 1/e.Mass)
}
