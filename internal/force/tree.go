package force

import (
	"context"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/arena"
	"github.com/physim/physim/internal/entity"
	"github.com/physim/physim/internal/metrics"
	"github.com/physim/physim/internal/spatial"
	"github.com/physim/physim/internal/tracing"
)

// TreeGravity is the tree-accelerated Barnes-Hut gravity stage, backing
// both "astro" (quadtree, dims=2) and "astro2" (octree, dims=3).
type TreeGravity struct {
	// Theta is the Barnes-Hut opening angle; smaller is more accurate
	// and slower. Defaults to 1.0 per spec. Negative forces full descent,
	// equivalent to SimpleGravity to within rounding.
	Theta float64
	// Epsilon is the softening factor, as in SimpleGravity.
	Epsilon float64

	dims int
}

// NewQuadtreeGravity constructs the "astro" element: 2D Barnes-Hut.
func NewQuadtreeGravity(theta, epsilon float64) *TreeGravity {
	return &TreeGravity{Theta: theta, Epsilon: absf(epsilon), dims: 2}
}

// NewOctreeGravity constructs the "astro2" element: 3D Barnes-Hut.
func NewOctreeGravity(theta, epsilon float64) *TreeGravity {
	return &TreeGravity{Theta: theta, Epsilon: absf(epsilon), dims: 3}
}

func (s *TreeGravity) Apply(state []entity.Entity, forces []r3.Vec) {
	if len(state) == 0 {
		return
	}

	// Stage.Apply has no context parameter (unchanged from spec.md §4.2), so
	// the tree-build span is a detached root rather than a child of the
	// enclosing step span.
	_, span := tracing.StartTreeBuildSpan(context.Background(), len(state), s.Theta)
	start := time.Now()

	ar := arena.New(len(state))
	extent := maxAbsCoord(state)
	var tree *spatial.Tree
	if s.dims == 3 {
		tree = spatial.NewOctree(ar, r3.Vec{}, extent)
	} else {
		tree = spatial.NewQuadtree(ar, r3.Vec{}, extent)
	}
	for _, e := range state {
		tree.Push(e)
	}

	metrics.TreeBuildDuration.Observe(time.Since(start).Seconds())
	metrics.TreeNodeCount.Set(float64(tree.NodeCount()))
	metrics.TreeMaxDepth.Set(float64(tree.Depth()))
	span.End()

	for i := range state {
		a := state[i]
		var total r3.Vec
		for _, b := range tree.LeavesFor(a.Pos, s.Theta) {
			if b.Pos == a.Pos {
				continue
			}
			total = entity.Add(total, pairForce(a, b, s.Epsilon))
		}
		forces[i] = entity.Add(forces[i], total)
	}
}

// maxAbsCoord returns the largest absolute coordinate across state, or
// 1.0 for an empty or all-origin state — the root cell must enclose
// every entity, and a zero extent would collapse it to a point.
func maxAbsCoord(state []entity.Entity) float64 {
	max := 0.0
	for _, e := range state {
		for _, c := range []float64{e.Pos.X(), e.Pos.Y(), e.Pos.Z()} {
			if v := absf(c); v > max {
				max = v
			}
		}
	}
	if max == 0 {
		return 1.0
	}
	return max
}
