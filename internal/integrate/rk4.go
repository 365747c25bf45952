package integrate

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// RK4 is the "rk4" integrator: classical fourth-order Runge-Kutta over
// the first-order system (dPos/dt, dVel/dt) = (v, F(state)/m), evaluating
// forceFn four times per step at the k1/k2/k3/k4 stage states. The
// original plugin shipped this stage unimplemented; this fills it in
// following the same k1..k4 weighted-sum shape as a classical RK4
// stepper, generalized from scalar state to a per-entity position and
// velocity pair.
type RK4 struct{}

func (RK4) Steps() int { return 4 }

type rk4Derivative struct {
	dPos r3.Vec
	dVel r3.Vec
}

func rk4Eval(state []entity.Entity, forceFn ForceFunc) []rk4Derivative {
	forces := forceFn(state)
	out := make([]rk4Derivative, len(state))
	for i, e := range state {
		out[i] = rk4Derivative{dPos: e.Vel, dVel: acceleration(e, forces[i])}
	}
	return out
}

func rk4Advance(state []entity.Entity, d []rk4Derivative, h float64) []entity.Entity {
	out := make([]entity.Entity, len(state))
	for i, e := range state {
		out[i] = e
		out[i].Pos = entity.Add(e.Pos, entity.Scale(d[i].dPos, h))
		out[i].Vel = entity.Add(e.Vel, entity.Scale(d[i].dVel, h))
	}
	return out
}

func (RK4) Integrate(state []entity.Entity, dt float64, forceFn ForceFunc) []entity.Entity {
	k1 := rk4Eval(state, forceFn)
	k2 := rk4Eval(rk4Advance(state, k1, dt/2), forceFn)
	k3 := rk4Eval(rk4Advance(state, k2, dt/2), forceFn)
	k4 := rk4Eval(rk4Advance(state, k3, dt), forceFn)

	out := make([]entity.Entity, len(state))
	for i, e := range state {
		dPos := weightedSum(k1[i].dPos, k2[i].dPos, k3[i].dPos, k4[i].dPos, dt/6)
		dVel := weightedSum(k1[i].dVel, k2[i].dVel, k3[i].dVel, k4[i].dVel, dt/6)
		out[i] = e
		out[i].Pos = entity.Add(e.Pos, dPos)
		out[i].Vel = entity.Add(e.Vel, dVel)
	}
	return out
}

// weightedSum returns factor * (a + 2b + 2c + d), the classical RK4
// combination of the four stage derivatives (factor is h/6).
func weightedSum(a, b, c, d r3.Vec, factor float64) r3.Vec {
	sum := entity.Add(entity.Add(a, entity.Scale(b, 2)), entity.Add(entity.Scale(c, 2), d))
	return entity.Scale(sum, factor)
}
