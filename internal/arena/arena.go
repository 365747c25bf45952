// Package arena implements a bump allocator for spatial tree nodes.
//
// One arena backs exactly one tree build: the step constructs the arena,
// builds the tree inside it, runs every query against it, then drops both
// together. Nodes are never freed individually; the whole arena is
// discarded at once when the step ends, which is what lets the tree own
// no per-node cleanup logic.
package arena

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// Node is a tree node: a cell (centre, extent) that holds at most one
// entity directly and up to 8 child cells (4 for a quadtree, which only
// ever populates the first 4 slots).
type Node struct {
	Centre r3.Vec
	Extent float64

	Has    bool
	Entity entity.Entity

	Children [8]int32
}

// noChild marks an empty child slot.
const noChild int32 = -1

// Arena is a growable, index-addressed pool of Nodes. Indices remain
// valid across growth; pointers obtained from Node do not, so callers
// must re-fetch a *Node after any call that might allocate (Alloc).
type Arena struct {
	nodes []Node
}

// New creates an arena pre-sized for roughly the given number of entities.
// Barnes-Hut trees over non-degenerate input allocate close to one node
// per entity plus internal splits; sizing to 2n avoids most reallocation
// without wasting much when n is large.
func New(entityCountHint int) *Arena {
	capHint := entityCountHint*2 + 1
	if capHint < 1 {
		capHint = 1
	}
	return &Arena{nodes: make([]Node, 0, capHint)}
}

// Alloc appends a fresh empty node for the given cell and returns its
// index.
func (a *Arena) Alloc(centre r3.Vec, extent float64) int32 {
	a.nodes = append(a.nodes, Node{
		Centre:   centre,
		Extent:   extent,
		Children: [8]int32{noChild, noChild, noChild, noChild, noChild, noChild, noChild, noChild},
	})
	return int32(len(a.nodes) - 1)
}

// Node returns a pointer to the node at idx. The pointer is invalidated
// by the next call to Alloc if that call triggers a slice reallocation.
func (a *Arena) Node(idx int32) *Node {
	return &a.nodes[idx]
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// NoChild reports whether a child slot is empty.
func NoChild(idx int32) bool {
	return idx == noChild
}
