package force

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// ShmMode selects what a Shm stage measures displacement from.
type ShmMode int

const (
	// ShmGlobalCentre measures displacement from the world origin.
	ShmGlobalCentre ShmMode = iota
	// ShmParticleCentre measures displacement from each entity's own
	// position on the first call, captured lazily.
	ShmParticleCentre
)

// Shm is the "shm" element: turns every entity into a damped simple
// harmonic oscillator, F = -k*delta - c*v.
type Shm struct {
	K, C float64
	Mode ShmMode

	mu      sync.Mutex
	origins []r3.Vec
}

// NewShm constructs an Shm stage.
func NewShm(k, c float64, mode ShmMode) *Shm {
	return &Shm{K: k, C: c, Mode: mode}
}

func (s *Shm) Apply(state []entity.Entity, forces []r3.Vec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Mode == ShmParticleCentre && len(s.origins) != len(state) {
		s.origins = make([]r3.Vec, len(state))
		for i, e := range state {
			s.origins[i] = e.Pos
		}
	}

	for i, e := range state {
		origin := r3.Vec{}
		if s.Mode == ShmParticleCentre {
			origin = s.origins[i]
		}
		delta := entity.Sub(e.Pos, origin)
		spring := entity.Scale(delta, -s.K)
		damping := entity.Scale(e.Vel, -s.C)
		forces[i] = entity.Add(forces[i], entity.Add(spring, damping))
	}
}
