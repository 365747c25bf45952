package transmute

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

func TestBBoxReflectsAtEachAxis(t *testing.T) {
	b := NewBBox(1, 1, 1)
	state := []entity.Entity{
		entity.NewWithRadius(r3.Vec{1.5, 0, 0}, 1, 0.1),
	}
	state[0].Vel = r3.Vec{1, 2, 3}

	out := b.Apply(state)

	if out[0].Vel.X() != -1 {
		t.Fatalf("expected x velocity reflected, got %v", out[0].Vel.X())
	}
	if out[0].Vel.Y() != 2 || out[0].Vel.Z() != 3 {
		t.Fatalf("expected y/z velocity untouched, got %v", out[0].Vel)
	}
}

func TestBBoxLeavesInBoundsEntityAlone(t *testing.T) {
	b := NewBBox(1, 1, 1)
	state := []entity.Entity{entity.NewWithRadius(r3.Vec{0.5, 0.5, 0.5}, 1, 0.1)}
	state[0].Vel = r3.Vec{1, 1, 1}

	out := b.Apply(state)
	if out[0].Vel != (r3.Vec{1, 1, 1}) {
		t.Fatalf("expected velocity unchanged, got %v", out[0].Vel)
	}
}

func TestCollisionsConservesMomentum(t *testing.T) {
	c := Collisions{}
	state := []entity.Entity{
		entity.NewWithRadius(r3.Vec{0, 0, 0}, 1, 0.6),
		entity.NewWithRadius(r3.Vec{1, 0, 0}, 1, 0.6),
	}
	state[0].Vel = r3.Vec{1, 0, 0}
	state[1].Vel = r3.Vec{-1, 0, 0}

	before := momentum(state)
	out := c.Apply(state)
	after := momentum(out)

	if !near3(before, after, 1e-9) {
		t.Fatalf("momentum not conserved: before=%v after=%v", before, after)
	}
}

func TestCollisionsSkipsSeparatingPairs(t *testing.T) {
	c := Collisions{}
	state := []entity.Entity{
		entity.NewWithRadius(r3.Vec{0, 0, 0}, 1, 0.6),
		entity.NewWithRadius(r3.Vec{1, 0, 0}, 1, 0.6),
	}
	state[0].Vel = r3.Vec{-1, 0, 0}
	state[1].Vel = r3.Vec{1, 0, 0}

	out := c.Apply(state)
	if out[0].Vel != (r3.Vec{-1, 0, 0}) || out[1].Vel != (r3.Vec{1, 0, 0}) {
		t.Fatalf("expected separating pair untouched, got %v %v", out[0].Vel, out[1].Vel)
	}
}

func TestCollisionsIgnoresDistantPairs(t *testing.T) {
	c := Collisions{}
	state := []entity.Entity{
		entity.NewWithRadius(r3.Vec{0, 0, 0}, 1, 0.1),
		entity.NewWithRadius(r3.Vec{10, 10, 10}, 1, 0.1),
	}
	state[0].Vel = r3.Vec{1, 0, 0}
	state[1].Vel = r3.Vec{-1, 0, 0}

	out := c.Apply(state)
	if out[0].Vel != (r3.Vec{1, 0, 0}) || out[1].Vel != (r3.Vec{-1, 0, 0}) {
		t.Fatalf("expected distant pair untouched, got %v %v", out[0].Vel, out[1].Vel)
	}
}

func TestBpmAlwaysInjectsOnNthFrame(t *testing.T) {
	b := NewBpm(2, 5.0, nil, BpmAlways)
	state := []entity.Entity{entity.New(r3.Vec{0, 0, 0}, 1)}

	state = b.Apply(state)
	if len(state) != 1 {
		t.Fatalf("expected no injection on frame 1, got %d entities", len(state))
	}

	state = b.Apply(state)
	if len(state) != 2 {
		t.Fatalf("expected injection on frame 2, got %d entities", len(state))
	}
	if state[1].Mass != 5.0 {
		t.Fatalf("expected injected mass 5.0, got %v", state[1].Mass)
	}
}

func TestBpmExcludeSkipsWhenCrowded(t *testing.T) {
	b := NewBpm(1, 5.0, nil, BpmExclude)
	state := []entity.Entity{entity.New(r3.Vec{0, 0, 0}, 1)}

	out := b.Apply(state)
	if len(out) != 1 {
		t.Fatalf("expected injection skipped near centre of mass, got %d entities", len(out))
	}
}

func TestBpmExcludeInjectsWhenSpreadOut(t *testing.T) {
	b := NewBpm(1, 5.0, nil, BpmExclude)
	state := []entity.Entity{
		entity.New(r3.Vec{-5, 0, 0}, 1),
		entity.New(r3.Vec{5, 0, 0}, 1),
	}

	out := b.Apply(state)
	if len(out) != 3 {
		t.Fatalf("expected injection at centre of mass, got %d entities", len(out))
	}
	if !near(out[2].Pos.X(), 0, 1e-9) {
		t.Fatalf("expected injected entity at x=0, got %v", out[2].Pos.X())
	}
}

func TestIDAssignGivesEveryEntityAUniqueNonZeroID(t *testing.T) {
	a := NewIDAssign()
	state := []entity.Entity{
		entity.New(r3.Vec{0, 0, 0}, 1),
		entity.New(r3.Vec{1, 0, 0}, 1),
	}

	out := a.Apply(state)
	if out[0].ID == 0 || out[1].ID == 0 || out[0].ID == out[1].ID {
		t.Fatalf("expected distinct nonzero ids, got %v %v", out[0].ID, out[1].ID)
	}
}

func TestIDAssignLeavesExistingIDsAlone(t *testing.T) {
	a := NewIDAssign()
	state := []entity.Entity{entity.New(r3.Vec{0, 0, 0}, 1)}
	state[0].ID = 42

	out := a.Apply(state)
	if out[0].ID != 42 {
		t.Fatalf("expected existing id preserved, got %v", out[0].ID)
	}
}

func TestIDAssignIsStableAcrossCalls(t *testing.T) {
	a := NewIDAssign()
	state := []entity.Entity{entity.New(r3.Vec{0, 0, 0}, 1)}

	out := a.Apply(state)
	first := out[0].ID

	out = a.Apply(out)
	if out[0].ID != first {
		t.Fatalf("expected id stable across calls, got %v then %v", first, out[0].ID)
	}
}

func momentum(state []entity.Entity) r3.Vec {
	var total r3.Vec
	for _, e := range state {
		total = entity.Add(total, entity.Scale(e.Vel, e.Mass))
	}
	return total
}

func near3(a, b r3.Vec, tol float64) bool {
	return near(a.X(), b.X(), tol) && near(a.Y(), b.Y(), tol) && near(a.Z(), b.Z(), tol)
}

func near(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < tol
}
