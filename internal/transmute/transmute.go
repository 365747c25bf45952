// Package transmute implements the pipeline's post-integration mutators:
// reflecting walls, elastic collisions, stable id assignment, and
// periodic mass injection.
package transmute

import "github.com/physim/physim/internal/entity"

// Transmuter mutates (and, for bpm, may grow) the post-integration
// state. Transmuters run in registration order and observe each other's
// mutations within a step.
type Transmuter interface {
	Apply(state []entity.Entity) []entity.Entity
}
