package integrate

import (
	"sync"

	"github.com/physim/physim/internal/entity"
)

// Verlet is the "verlet" integrator. The first call on a given state
// size behaves exactly like Euler and records a snapshot; subsequent
// calls use the stored previous position: x' = 2x - x_prev + a*dt^2,
// v' = (x' - x)/dt. State is guarded by a mutex since element instances
// may be touched from more than one goroutine (property reads from an
// admin endpoint, say) while the simulation worker is mid-step.
type Verlet struct {
	mu       sync.Mutex
	previous []entity.Entity
}

func (*Verlet) Steps() int { return 1 }

func (v *Verlet) Integrate(state []entity.Entity, dt float64, forceFn ForceFunc) []entity.Entity {
	v.mu.Lock()
	defer v.mu.Unlock()

	forces := forceFn(state)

	if len(v.previous) != len(state) {
		out := eulerStep(state, forces, dt)
		v.previous = append([]entity.Entity(nil), state...)
		return out
	}

	out := make([]entity.Entity, len(state))
	for i, e := range state {
		prev := v.previous[i]
		a := acceleration(e, forces[i])
		pos := entity.Add(
			entity.Sub(entity.Scale(e.Pos, 2), prev.Pos),
			entity.Scale(a, dt*dt),
		)
		vel := entity.Scale(entity.Sub(pos, e.Pos), 1/dt)
		out[i] = e
		out[i].Pos = pos
		out[i].Vel = vel
	}
	v.previous = append([]entity.Entity(nil), state...)
	return out
}
