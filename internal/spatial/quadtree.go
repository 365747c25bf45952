package spatial

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/arena"
)

// NewQuadtree creates an empty quadtree covering a square centred at
// centre with half-width extent. The z coordinate of centre is carried
// through unchanged and never split.
func NewQuadtree(a *arena.Arena, centre r3.Vec, extent float64) *Tree {
	return newTree(a, centre, extent, 2)
}
