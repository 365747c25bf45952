package generate

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// Cube is the "cube" element: n bodies scattered uniformly through
// x,y in [-1,1) and z in [0,1), each given a tangential velocity that
// puts the cloud into a slow rotation, scaled by the spin factor.
//
// No library in the pack ships a seeded deterministic RNG (the original
// used rand_chacha's ChaCha8); math/rand seeded with rand.NewSource(seed)
// is used instead since reproducibility only requires a deterministic
// PRNG, not a cryptographic one, and no pack library offers a seeded
// generator at all.
type Cube struct {
	N    uint64
	Seed uint64
	// Spin scales the generated tangential velocity; 1.0 reproduces the
	// original fixed-magnitude rotation, 0 would generate a velocity-free
	// cloud.
	Spin float64
}

// NewCube constructs a Cube generator with the element defaults: n
// 100000, seed 0, spin 1.0.
func NewCube(n, seed uint64, spin float64) Cube {
	return Cube{N: n, Seed: seed, Spin: spin}
}

func (c Cube) CreateEntities() []entity.Entity {
	rng := rand.New(rand.NewSource(int64(c.Seed)))
	out := make([]entity.Entity, c.N)
	for i := range out {
		x := rng.Float64()*2 - 1
		y := rng.Float64()*2 - 1
		z := rng.Float64()

		e := entity.NewWithRadius(r3.Vec{x, y, z}, 0.005, 0.02)
		e.Vel = r3.Vec{-y * 300 * c.Spin, x * 300 * c.Spin, 0}
		out[i] = e
	}
	return out
}
