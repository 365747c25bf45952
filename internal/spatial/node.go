package spatial

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/arena"
)

// maxLevels bounds recursion depth during insertion. A real tree never
// gets close to this; it only triggers when many non-coincident entities
// are pushed so close together that the coincident-merge tolerance never
// catches them, which signals a degenerate or adversarial input rather
// than a large simulation.
const maxLevels = 64

// coincidentTolerance is the distance below which two positions are
// treated as the same point and merged instead of split further. The
// octree in the original implementation used 1e-3; this tree picks the
// tighter quadtree tolerance (1e-9) for both variants.
const coincidentTolerance = 1e-9

// DegenerateTreeError is panicked by Push when insertion recurses past
// maxLevels. Callers at a step/element boundary recover it and convert
// it to apierr.DegenerateTree; package spatial does not depend on apierr
// so it stays usable from contexts (tests, tools) that never touch the
// error/response layer.
type DegenerateTreeError struct {
	Levels int
}

func (e *DegenerateTreeError) Error() string {
	return fmt.Sprintf("spatial: insertion recursed past %d levels", e.Levels)
}

func isLeaf(n *arena.Node) bool {
	for _, c := range n.Children {
		if !arena.NoChild(c) {
			return false
		}
	}
	return true
}

// near reports whether a and b coincide within coincidentTolerance on
// every axis the tree splits; a quadtree (dims 2) ignores z.
func near(a, b r3.Vec, dims int) bool {
	return absf(a.X()-b.X()) < coincidentTolerance &&
		absf(a.Y()-b.Y()) < coincidentTolerance &&
		(dims == 2 || absf(a.Z()-b.Z()) < coincidentTolerance)
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
