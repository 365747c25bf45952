package transmute

import "github.com/physim/physim/internal/entity"

// Collisions is the "collisions" element: buckets entities into a
// uniform grid sized to the largest radius present, then resolves
// elastic impulses between any pair in the same or adjacent cell whose
// separation is within their combined radius and that are approaching.
// Pairs involving a synthetic (aggregate) body are skipped.
type Collisions struct{}

func (Collisions) Apply(state []entity.Entity) []entity.Entity {
	if len(state) < 2 {
		return state
	}

	cellSize := 0.0
	for _, e := range state {
		if e.Radius > cellSize {
			cellSize = e.Radius
		}
	}
	if cellSize == 0 {
		cellSize = 0.1
	}

	g := newGrid(state, cellSize)
	for _, nh := range g.neighbourhoods() {
		for i := 0; i < len(nh); i++ {
			for j := i + 1; j < len(nh); j++ {
				resolvePair(state, nh[i], nh[j])
			}
		}
	}
	return state
}

func resolvePair(state []entity.Entity, ai, bi int) {
	a, b := &state[ai], &state[bi]
	if a.Synthetic || b.Synthetic {
		return
	}
	delta := entity.Sub(a.Pos, b.Pos)
	dist2 := entity.Dot(delta, delta)
	minDist := a.Radius + b.Radius
	if dist2 > minDist*minDist {
		return
	}

	dv := entity.Sub(a.Vel, b.Vel)
	dot := entity.Dot(dv, delta)
	if dot > 0 {
		return // already separating
	}

	totalMass := a.Mass + b.Mass
	if totalMass == 0 || dist2 == 0 {
		return
	}

	scale := 2 * dot / (totalMass * dist2)
	impulseA := scale * b.Mass
	impulseB := scale * a.Mass

	a.Vel = entity.Sub(a.Vel, entity.Scale(delta, impulseA))
	b.Vel = entity.Add(b.Vel, entity.Scale(delta, impulseB))
}
