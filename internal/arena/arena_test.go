package arena

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

func TestAllocAssignsSequentialIndices(t *testing.T) {
	a := New(4)
	i0 := a.Alloc(r3.Vec{}, 10)
	i1 := a.Alloc(r3.Vec{1, 0, 0}, 5)
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential indices 0,1, got %v,%v", i0, i1)
	}
	if a.Len() != 2 {
		t.Fatalf("expected len 2, got %v", a.Len())
	}
}

func TestAllocInitializesEmptyChildren(t *testing.T) {
	a := New(1)
	idx := a.Alloc(r3.Vec{}, 1)
	node := a.Node(idx)
	for i, c := range node.Children {
		if !NoChild(c) {
			t.Fatalf("expected child slot %d empty, got %v", i, c)
		}
	}
	if node.Has {
		t.Fatal("expected fresh node to have no entity")
	}
}

func TestNodeMutationPersistsByIndex(t *testing.T) {
	a := New(1)
	idx := a.Alloc(r3.Vec{}, 1)
	a.Node(idx).Entity = entity.New(r3.Vec{1, 2, 3}, 9)
	a.Node(idx).Has = true
	if !a.Node(idx).Has {
		t.Fatal("expected Has to persist across Node() calls")
	}
	if a.Node(idx).Entity.Mass != 9 {
		t.Fatalf("expected mass 9, got %v", a.Node(idx).Entity.Mass)
	}
}

func TestGrowthBeyondHintPreservesEarlierIndices(t *testing.T) {
	a := New(0)
	indices := make([]int32, 0, 50)
	for i := 0; i < 50; i++ {
		idx := a.Alloc(r3.Vec{float64(i), 0, 0}, 1)
		a.Node(idx).Entity = entity.New(r3.Vec{float64(i), 0, 0}, float64(i+1))
		a.Node(idx).Has = true
		indices = append(indices, idx)
	}
	for i, idx := range indices {
		if a.Node(idx).Entity.Mass != float64(i+1) {
			t.Fatalf("index %d: expected mass %v, got %v", idx, i+1, a.Node(idx).Entity.Mass)
		}
	}
}
