package spatial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/arena"
	"github.com/physim/physim/internal/entity"
)

// S1 Empty tree: build with extent=1.0, no inserts, query with θ=0.5 → 0 leaves.
func TestEmptyTreeYieldsNoLeaves(t *testing.T) {
	a := arena.New(0)
	tr := NewOctree(a, r3.Vec{}, 1.0)
	leaves := tr.LeavesFor(r3.Vec{}, 0.5)
	if len(leaves) != 0 {
		t.Fatalf("expected 0 leaves from an empty tree, got %d", len(leaves))
	}
}

// S2 Single body: insert (0,0,0,m=1), query θ=0.5 → 1 leaf.
func TestSingleBodyYieldsOneLeaf(t *testing.T) {
	a := arena.New(1)
	tr := NewOctree(a, r3.Vec{}, 1.0)
	tr.Push(entity.New(r3.Vec{0, 0, 0}, 1))
	leaves := tr.LeavesFor(r3.Vec{5, 5, 5}, 0.5)
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(leaves))
	}
}

// S3 Ten coincident bodies: insert (0,0,0,m=1) ten times, query θ<0 → 1 leaf with mass 10.
func TestCoincidentBodiesMergeIntoOneLeaf(t *testing.T) {
	a := arena.New(10)
	tr := NewOctree(a, r3.Vec{}, 1.0)
	for i := 0; i < 10; i++ {
		tr.Push(entity.New(r3.Vec{0, 0, 0}, 1))
	}
	leaves := tr.LeavesFor(r3.Vec{5, 5, 5}, -1)
	if len(leaves) != 1 {
		t.Fatalf("expected 1 merged leaf, got %d", len(leaves))
	}
	if math.Abs(leaves[0].Mass-10) > 1e-9 {
		t.Fatalf("expected merged mass 10, got %v", leaves[0].Mass)
	}
	if tr.Depth() > 1 {
		t.Fatalf("expected O(1) depth for coincident merge, got %d", tr.Depth())
	}
}

// S4 Four quadrant bodies: insert at (±0.5, ±0.5, 0.5) each m=1 into root
// (0,0,0) extent 2 → query θ<0 yields exactly 4 leaves.
func TestFourQuadrantBodiesYieldFourLeaves(t *testing.T) {
	a := arena.New(4)
	tr := NewOctree(a, r3.Vec{}, 2.0)
	positions := []r3.Vec{
		{0.5, 0.5, 0.5},
		{0.5, -0.5, 0.5},
		{-0.5, 0.5, 0.5},
		{-0.5, -0.5, 0.5},
	}
	for _, p := range positions {
		tr.Push(entity.New(p, 1))
	}
	leaves := tr.LeavesFor(r3.Vec{10, 10, 10}, -1)
	if len(leaves) != 4 {
		t.Fatalf("expected 4 leaves, got %d", len(leaves))
	}
}

// Property 1: mass conservation.
func TestMassConservation(t *testing.T) {
	a := arena.New(50)
	tr := NewOctree(a, r3.Vec{}, 100.0)
	want := 0.0
	for i := 0; i < 50; i++ {
		mass := float64(i + 1)
		tr.Push(entity.New(r3.Vec{float64(i), float64(-i), float64(i % 7)}, mass))
		want += mass
	}
	leaves := tr.LeavesFor(r3.Vec{1000, 1000, 1000}, -1)
	got := TotalMass(leaves)
	if math.Abs(got-want)/want > 1e-5 {
		t.Fatalf("expected total mass %v, got %v", want, got)
	}
}

// Property 3: full descent recovers full state.
func TestFullDescentRecoversAllEntities(t *testing.T) {
	a := arena.New(30)
	tr := NewOctree(a, r3.Vec{}, 50.0)
	n := 30
	for i := 0; i < n; i++ {
		tr.Push(entity.New(r3.Vec{float64(i) * 0.7, float64(i) * -1.3, float64(i) * 0.2}, 1))
	}
	leaves := tr.LeavesFor(r3.Vec{1000, 1000, 1000}, -1)
	if len(leaves) != n {
		t.Fatalf("expected %d leaves under full descent, got %d", n, len(leaves))
	}
}

// Property 4: deterministic build.
func TestDeterministicBuild(t *testing.T) {
	build := func() []entity.Entity {
		a := arena.New(20)
		tr := NewOctree(a, r3.Vec{}, 50.0)
		for i := 0; i < 20; i++ {
			tr.Push(entity.New(r3.Vec{float64(i) * 1.1, float64(i) * 0.3, float64(i) * -0.5}, float64(i+1)))
		}
		return tr.LeavesFor(r3.Vec{100, 100, 100}, -1)
	}
	a, b := build(), build()
	if len(a) != len(b) {
		t.Fatalf("expected identical leaf counts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Pos != b[i].Pos || a[i].Mass != b[i].Mass {
			t.Fatalf("leaf %d differs between builds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// Property 6: Barnes-Hut monotonicity.
func TestBarnesHutMonotonicity(t *testing.T) {
	a := arena.New(100)
	tr := NewOctree(a, r3.Vec{}, 200.0)
	for i := 0; i < 100; i++ {
		tr.Push(entity.New(r3.Vec{float64(i) * 1.7, float64(i) * -0.9, float64(i) * 0.4}, 1))
	}
	observer := r3.Vec{1000, 1000, 1000}
	coarse := tr.LeavesFor(observer, 1.0)
	fine := tr.LeavesFor(observer, 0.1)
	if len(fine) < len(coarse) {
		t.Fatalf("expected finer theta to yield at least as many leaves: coarse=%d fine=%d", len(coarse), len(fine))
	}
}

func TestQuadtreeIgnoresZSplitting(t *testing.T) {
	a := arena.New(4)
	tr := NewQuadtree(a, r3.Vec{0, 0, 7}, 2.0)
	tr.Push(entity.New(r3.Vec{0.5, 0.5, 3}, 1))
	tr.Push(entity.New(r3.Vec{0.5, 0.5, -3}, 1))
	leaves := tr.LeavesFor(r3.Vec{10, 10, 10}, -1)
	if len(leaves) != 1 {
		t.Fatalf("expected quadtree to merge same x/y regardless of z, got %d leaves", len(leaves))
	}
	if math.Abs(leaves[0].Mass-2) > 1e-9 {
		t.Fatalf("expected merged mass 2, got %v", leaves[0].Mass)
	}
}

// The merge tolerance bounds real recursion depth to roughly
// log2(extent/tolerance), so no legitimate, non-coincident float64 input
// can reach maxLevels; push's own depth parameter is exercised directly
// to verify the guard fires regardless.
func TestDegenerateTreePanicsPastMaxLevels(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic past maxLevels")
		}
		if _, ok := r.(*DegenerateTreeError); !ok {
			t.Fatalf("expected *DegenerateTreeError, got %T", r)
		}
	}()
	a := arena.New(1)
	tr := NewOctree(a, r3.Vec{}, 1.0)
	tr.push(tr.root, entity.New(r3.Vec{0.1, 0.1, 0.1}, 1), maxLevels+1)
}
