package spatial

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/arena"
)

// NewOctree creates an empty octree covering a cube centred at centre
// with half-width extent.
func NewOctree(a *arena.Arena, centre r3.Vec, extent float64) *Tree {
	return newTree(a, centre, extent, 3)
}
