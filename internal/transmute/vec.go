package transmute

import "gonum.org/v1/gonum/spatial/r3"

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func negateX(v r3.Vec) r3.Vec { return r3.Vec{-v.X(), v.Y(), v.Z()} }
func negateY(v r3.Vec) r3.Vec { return r3.Vec{v.X(), -v.Y(), v.Z()} }
func negateZ(v r3.Vec) r3.Vec { return r3.Vec{v.X(), v.Y(), -v.Z()} }
