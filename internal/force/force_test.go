package force

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

func zeros(n int) []r3.Vec {
	return make([]r3.Vec, n)
}

func TestSimpleGravityAttractsTwoBodies(t *testing.T) {
	state := []entity.Entity{
		entity.New(r3.Vec{-0.5, 0, 0}, 1),
		entity.New(r3.Vec{0.5, 0, 0}, 1),
	}
	forces := zeros(2)
	NewSimpleGravity(1e-3).Apply(state, forces)

	if forces[0].X() <= 0 {
		t.Fatalf("expected body 0 pulled toward +x, got fx=%v", forces[0].X())
	}
	if forces[1].X() >= 0 {
		t.Fatalf("expected body 1 pulled toward -x, got fx=%v", forces[1].X())
	}
	if math.Abs(forces[0].X()+forces[1].X()) > 1e-12 {
		t.Fatalf("expected equal and opposite forces, got %v and %v", forces[0].X(), forces[1].X())
	}
}

func TestSimpleGravitySkipsCoincidentPairs(t *testing.T) {
	state := []entity.Entity{
		entity.New(r3.Vec{1, 1, 1}, 5),
		entity.New(r3.Vec{1, 1, 1}, 5),
	}
	forces := zeros(2)
	NewSimpleGravity(1).Apply(state, forces)
	if forces[0] != (r3.Vec{}) || forces[1] != (r3.Vec{}) {
		t.Fatalf("expected zero force between coincident bodies, got %v and %v", forces[0], forces[1])
	}
}

func TestSimpleGravityNegativeEpsilonIsAbsolute(t *testing.T) {
	state := []entity.Entity{
		entity.New(r3.Vec{-1, 0, 0}, 1),
		entity.New(r3.Vec{1, 0, 0}, 1),
	}
	a := zeros(2)
	b := zeros(2)
	NewSimpleGravity(0.5).Apply(state, a)
	NewSimpleGravity(-0.5).Apply(state, b)
	if a[0] != b[0] {
		t.Fatalf("expected negative epsilon to behave like its absolute value: %v vs %v", a[0], b[0])
	}
}

func randomCloud(n int, seed uint64) []entity.Entity {
	state := make([]entity.Entity, n)
	x := seed
	next := func() float64 {
		x = x*6364136223846793005 + 1442695040888963407
		return (float64(x>>11) / float64(1<<53))*20 - 10
	}
	for i := 0; i < n; i++ {
		state[i] = entity.New(r3.Vec{next(), next(), next()}, 1+next())
	}
	return state
}

// Property 7: simple<->tree agreement. For theta sufficiently small (or
// negative), tree-based force on every entity agrees with the direct
// O(N^2) evaluator to within 1e-3 relative.
func TestTreeAgreesWithSimpleAtFullDescent(t *testing.T) {
	state := randomCloud(40, 42)

	simple := zeros(len(state))
	NewSimpleGravity(1).Apply(state, simple)

	octree := zeros(len(state))
	NewOctreeGravity(-1, 1).Apply(state, octree)

	for i := range state {
		diff := entity.Norm(entity.Sub(simple[i], octree[i]))
		scale := entity.Norm(simple[i])
		if scale == 0 {
			if diff > 1e-9 {
				t.Fatalf("entity %d: expected near-zero force agreement, got diff=%v", i, diff)
			}
			continue
		}
		if diff/scale > 1e-3 {
			t.Fatalf("entity %d: simple=%v tree=%v relative diff=%v", i, simple[i], octree[i], diff/scale)
		}
	}
}

func TestQuadtreeGravityAgreesWithSimpleAtFullDescent(t *testing.T) {
	state := randomCloud(40, 7)
	for i := range state {
		state[i].Pos = r3.Vec{state[i].Pos.X(), state[i].Pos.Y(), 0}
	}

	simple := zeros(len(state))
	NewSimpleGravity(1).Apply(state, simple)

	quad := zeros(len(state))
	NewQuadtreeGravity(-1, 1).Apply(state, quad)

	for i := range state {
		diff := entity.Norm(entity.Sub(simple[i], quad[i]))
		scale := entity.Norm(simple[i])
		if scale == 0 {
			continue
		}
		if diff/scale > 1e-3 {
			t.Fatalf("entity %d: simple=%v quad=%v relative diff=%v", i, simple[i], quad[i], diff/scale)
		}
	}
}
