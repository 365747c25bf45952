// Package spatial implements a generalized Barnes-Hut quad/oct tree: a
// bump-allocated cell hierarchy that inserts entities one at a time and
// answers "which bodies/aggregates should I use to approximate the force
// at point p" queries under a theta opening-angle threshold.
//
// A quadtree is simply an octree with the z axis never split; both share
// the same node layout and traversal code, selected by Tree.dims.
package spatial

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/arena"
	"github.com/physim/physim/internal/entity"
)

// Tree is a quad/oct tree built inside a caller-supplied arena. dims is 2
// for a quadtree (x/y only) or 3 for an octree (x/y/z).
type Tree struct {
	arena *arena.Arena
	root  int32
	dims  int
}

func newTree(a *arena.Arena, centre r3.Vec, extent float64, dims int) *Tree {
	root := a.Alloc(centre, extent)
	return &Tree{arena: a, root: root, dims: dims}
}

// octantOf returns the child slot index (0..childCount-1) that pos falls
// into relative to centre, using <= on the low side of every active
// axis — a point exactly on a splitting plane goes to the low child.
func (t *Tree) octantOf(centre, pos r3.Vec) int {
	idx := 0
	if pos.X() > centre.X() {
		idx |= 1
	}
	if pos.Y() > centre.Y() {
		idx |= 2
	}
	if t.dims == 3 && pos.Z() > centre.Z() {
		idx |= 4
	}
	return idx
}

// childCentre returns the centre of child slot idx given the parent's
// centre and extent.
func (t *Tree) childCentre(centre r3.Vec, extent float64, idx int) r3.Vec {
	half := extent / 2
	dx, dy, dz := -half, -half, 0.0
	if idx&1 != 0 {
		dx = half
	}
	if idx&2 != 0 {
		dy = half
	}
	if t.dims == 3 {
		dz = -half
		if idx&4 != 0 {
			dz = half
		}
	}
	return r3.Vec{centre.X() + dx, centre.Y() + dy, centre.Z() + dz}
}

// Push inserts e into the tree. Panics with *DegenerateTreeError if
// insertion recurses past maxLevels.
func (t *Tree) Push(e entity.Entity) {
	t.push(t.root, e, 0)
}

func (t *Tree) push(idx int32, item entity.Entity, depth int) {
	if depth > maxLevels {
		panic(&DegenerateTreeError{Levels: maxLevels})
	}

	node := t.arena.Node(idx)
	if !node.Has {
		node.Entity = item
		node.Has = true
		return
	}

	if isLeaf(node) {
		existing := node.Entity
		if near(existing.Pos, item.Pos, t.dims) {
			node.Entity = entity.Fake(existing.Pos, existing.Mass+item.Mass)
			return
		}

		centre, extent := node.Centre, node.Extent
		com := entity.CentreOfMass(existing, item)
		combinedMass := existing.Mass + item.Mass

		existingOctant := t.octantOf(centre, existing.Pos)
		existingChildCentre := t.childCentre(centre, extent, existingOctant)
		existingChild := t.arena.Alloc(existingChildCentre, extent/2)

		// node may be stale after Alloc; re-fetch before mutating it.
		node = t.arena.Node(idx)
		node.Children[existingOctant] = existingChild
		node.Entity = entity.Fake(com, combinedMass)
		t.push(existingChild, existing, depth+1)

		newOctant := t.octantOf(centre, item.Pos)
		node = t.arena.Node(idx)
		if arena.NoChild(node.Children[newOctant]) {
			newChildCentre := t.childCentre(centre, extent, newOctant)
			newChild := t.arena.Alloc(newChildCentre, extent/2)
			node = t.arena.Node(idx)
			node.Children[newOctant] = newChild
		}
		t.push(node.Children[newOctant], item, depth+1)
		return
	}

	// Internal node: fold item's mass into the running centre of mass,
	// then descend into the matching child, allocating it if absent.
	centre, extent := node.Centre, node.Extent
	com := entity.CentreOfMass(node.Entity, item)
	combinedMass := node.Entity.Mass + item.Mass
	octant := t.octantOf(centre, item.Pos)
	childIdx := node.Children[octant]
	if arena.NoChild(childIdx) {
		childCentre := t.childCentre(centre, extent, octant)
		childIdx = t.arena.Alloc(childCentre, extent/2)
		node = t.arena.Node(idx)
		node.Children[octant] = childIdx
	}
	node = t.arena.Node(idx)
	node.Entity = entity.Fake(com, combinedMass)
	t.push(childIdx, item, depth+1)
}

// LeavesFor returns the set of real/synthetic entities that should be
// used to approximate the force or field at location, given an opening
// angle theta: an internal node is accepted as a single aggregate
// whenever extent/distance < theta, otherwise traversal descends into
// its children. theta < 0 forces full descent to every real leaf
// (equivalent to brute-force N-body).
//
// Traversal uses an explicit stack rather than recursion: a large
// simulation's tree depth can exceed what's comfortable on the Go
// goroutine stack when this is called from deep inside a pipeline step.
func (t *Tree) LeavesFor(location r3.Vec, theta float64) []entity.Entity {
	var out []entity.Entity
	stack := []int32{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.arena.Node(idx)
		if !node.Has {
			continue
		}

		if isLeaf(node) {
			out = append(out, node.Entity)
			continue
		}

		r := entity.Norm(entity.Sub(location, node.Centre))
		if r > 0 && node.Extent/r < theta {
			out = append(out, node.Entity)
			continue
		}

		for _, c := range node.Children {
			if !arena.NoChild(c) {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// NodeCount returns the number of cells allocated in the tree's arena.
func (t *Tree) NodeCount() int {
	return t.arena.Len()
}

// Depth returns the maximum depth of the tree, with the root at depth 0.
func (t *Tree) Depth() int {
	return t.depth(t.root)
}

func (t *Tree) depth(idx int32) int {
	node := t.arena.Node(idx)
	if isLeaf(node) {
		return 0
	}
	max := 0
	for _, c := range node.Children {
		if !arena.NoChild(c) {
			if d := t.depth(c) + 1; d > max {
				max = d
			}
		}
	}
	return max
}
