package force

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// SimpleGravity is the "simple_astro" element: brute-force O(N^2)
// pairwise Newtonian gravity, no tree.
type SimpleGravity struct {
	// Epsilon is the softening factor easing the 1/r^2 singularity as
	// two bodies approach. Defaults to 1.0 per spec.
	Epsilon float64
}

// NewSimpleGravity constructs a SimpleGravity stage. A negative epsilon
// is taken as its absolute value, matching the original element's
// `.abs()` on the "e" property.
func NewSimpleGravity(epsilon float64) *SimpleGravity {
	return &SimpleGravity{Epsilon: absf(epsilon)}
}

func (s *SimpleGravity) Apply(state []entity.Entity, forces []r3.Vec) {
	for i := range state {
		a := state[i]
		var total r3.Vec
		for j := range state {
			if i == j {
				continue
			}
			total = entity.Add(total, pairForce(a, state[j], s.Epsilon))
		}
		forces[i] = entity.Add(forces[i], total)
	}
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
