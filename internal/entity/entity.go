// Package entity defines the plain-data record shared by every stage of a
// pipeline step and the vector arithmetic built around it.
package entity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Entity is a real or synthetic body: position, velocity, mass, radius, and
// a stable id. Entities are value-typed and copied freely between stages.
type Entity struct {
	Pos r3.Vec
	Vel r3.Vec

	Mass   float64
	Radius float64

	// ID is unique within a run once assigned by the idassign transmuter.
	// 0 means unassigned.
	ID uint64

	// Synthetic marks an aggregated tree-node body (centre of mass of a
	// subtree) rather than a real simulated entity. Synthetic entities
	// never carry an ID and are never written back into the pipeline
	// state; they exist only for the duration of a force query.
	Synthetic bool
}

// New constructs a real entity with radius derived from mass, matching the
// original simulator's mass^(1/3) convention for a unit-density sphere.
func New(pos r3.Vec, mass float64) Entity {
	return Entity{Pos: pos, Mass: mass, Radius: cubeRoot(mass)}
}

// NewWithRadius constructs a real entity with an explicit radius.
func NewWithRadius(pos r3.Vec, mass, radius float64) Entity {
	return Entity{Pos: pos, Mass: mass, Radius: radius}
}

// Fake constructs a synthetic aggregate entity carrying a subtree's total
// mass and centre of mass. It panics on a non-finite centre since a NaN
// centre of mass signals a degenerate aggregation upstream.
func Fake(centre r3.Vec, mass float64) Entity {
	if isNaN(centre.X()) || isNaN(centre.Y()) || isNaN(centre.Z()) {
		panic("entity: fake centre of mass is NaN")
	}
	return Entity{Pos: centre, Mass: mass, Synthetic: true}
}

func isNaN(f float64) bool { return math.IsNaN(f) }

func cubeRoot(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Cbrt(x)
}

// CentreOfMass returns the mass-weighted midpoint of a and b.
func CentreOfMass(a, b Entity) r3.Vec {
	total := a.Mass + b.Mass
	if total == 0 {
		return r3.Vec{}
	}
	inv := 1.0 / total
	return r3.Vec{
		a.Pos.X()*a.Mass*inv + b.Pos.X()*b.Mass*inv,
		a.Pos.Y()*a.Mass*inv + b.Pos.Y()*b.Mass*inv,
		a.Pos.Z()*a.Mass*inv + b.Pos.Z()*b.Mass*inv,
	}
}
