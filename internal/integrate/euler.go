package integrate

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// Euler is the "euler" integrator: a = F/m, x' = x + v*dt + 0.5*a*dt^2,
// v' = v + a*dt. Stateless, a single force evaluation per step.
type Euler struct{}

func (Euler) Steps() int { return 1 }

func (Euler) Integrate(state []entity.Entity, dt float64, forceFn ForceFunc) []entity.Entity {
	forces := forceFn(state)
	return eulerStep(state, forces, dt)
}

func eulerStep(state []entity.Entity, forces []r3.Vec, dt float64) []entity.Entity {
	out := make([]entity.Entity, len(state))
	for i, e := range state {
		a := acceleration(e, forces[i])
		pos := entity.Add(e.Pos, entity.Add(entity.Scale(e.Vel, dt), entity.Scale(a, 0.5*dt*dt)))
		vel := entity.Add(e.Vel, entity.Scale(a, dt))
		out[i] = e
		out[i].Pos = pos
		out[i].Vel = vel
	}
	return out
}
