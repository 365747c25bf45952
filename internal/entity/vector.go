package entity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dot returns the dot product of a and b. The pack's gonum release ships
// r3.Vec with only Add/Sub/Scale; the force and transmute stages need
// dot products and norms, so this fills the gap the way a caller of that
// API would.
func Dot(a, b r3.Vec) float64 {
	return a.X()*b.X() + a.Y()*b.Y() + a.Z()*b.Z()
}

// Norm returns the Euclidean length of v.
func Norm(v r3.Vec) float64 {
	return math.Sqrt(Dot(v, v))
}

// Sub returns a - b. Equivalent to a.Sub(b); kept as a free function so
// force/transmute code reads as vector algebra rather than method chains
// on a value receiver.
func Sub(a, b r3.Vec) r3.Vec {
	return a.Sub(b)
}

// Scale returns v scaled by f.
func Scale(v r3.Vec, f float64) r3.Vec {
	return v.Scale(f)
}

// Add returns a + b.
func Add(a, b r3.Vec) r3.Vec {
	return a.Add(b)
}

// Unit returns v normalized to unit length, or the zero vector if v is
// the zero vector.
func Unit(v r3.Vec) r3.Vec {
	n := Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return Scale(v, 1/n)
}
