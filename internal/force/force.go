// Package force computes gravitational force contributions for a
// pipeline step: a brute-force evaluator and tree-accelerated
// (quadtree/octree) Barnes-Hut variants, all sharing Newton's law with a
// softening term.
package force

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// G is the gravitational constant, fixed at 1 for the whole simulation.
const G = 1.0

// Stage computes this stage's force contribution for every entity in
// state and adds it into forces in place. forces is aligned with state
// by index and is zeroed by the caller before the first stage of a step
// runs; multiple stages accumulate additively.
type Stage interface {
	Apply(state []entity.Entity, forces []r3.Vec)
}

// pairForce returns the force exerted on a by b: G*ma*mb*delta/(|delta|*(|delta|^2+epsilon)).
// Callers must skip coincident positions themselves (delta's norm of zero
// signals "self or a synthetic located exactly at a" per the spec's
// force evaluator contract).
func pairForce(a, b entity.Entity, epsilon float64) r3.Vec {
	delta := entity.Sub(b.Pos, a.Pos)
	rNorm := entity.Norm(delta)
	if rNorm == 0 {
		return r3.Vec{}
	}
	rSoft := rNorm*rNorm + epsilon
	scale := G * a.Mass * b.Mass / (rNorm * rSoft)
	return entity.Scale(delta, scale)
}
