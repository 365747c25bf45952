package entity

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDot(t *testing.T) {
	a := r3.Vec{1, 2, 3}
	b := r3.Vec{4, 5, 6}
	if got := Dot(a, b); got != 32 {
		t.Fatalf("expected dot 32, got %v", got)
	}
}

func TestNorm(t *testing.T) {
	if got := Norm(r3.Vec{3, 4, 0}); math.Abs(got-5) > 1e-12 {
		t.Fatalf("expected norm 5, got %v", got)
	}
}

func TestUnitOfZeroVector(t *testing.T) {
	if got := Unit(r3.Vec{}); got != (r3.Vec{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}
}

func TestUnitNormalizes(t *testing.T) {
	u := Unit(r3.Vec{3, 4, 0})
	if math.Abs(Norm(u)-1) > 1e-12 {
		t.Fatalf("expected unit length 1, got %v", Norm(u))
	}
}
