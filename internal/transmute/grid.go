package transmute

import "github.com/physim/physim/internal/entity"

type cellKey struct{ x, y, z int32 }

// grid buckets entity indices by integer cell coordinate, floor(pos/size).
type grid struct {
	size  float64
	cells map[cellKey][]int
}

func newGrid(state []entity.Entity, size float64) *grid {
	g := &grid{size: size, cells: make(map[cellKey][]int, len(state))}
	for i, e := range state {
		k := g.keyOf(e.Pos.X(), e.Pos.Y(), e.Pos.Z())
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *grid) keyOf(x, y, z float64) cellKey {
	return cellKey{floorDiv(x, g.size), floorDiv(y, g.size), floorDiv(z, g.size)}
}

func floorDiv(v, size float64) int32 {
	q := v / size
	f := int32(q)
	if q < 0 && float64(f) != q {
		f--
	}
	return f
}

// neighbourhoods yields, once per populated cell, the indices of every
// entity in that cell and its 26 neighbours (27 cells total, including
// the cell itself).
func (g *grid) neighbourhoods() [][]int {
	out := make([][]int, 0, len(g.cells))
	for k := range g.cells {
		var nh []int
		for dx := int32(-1); dx <= 1; dx++ {
			for dy := int32(-1); dy <= 1; dy++ {
				for dz := int32(-1); dz <= 1; dz++ {
					neighbour := cellKey{k.x + dx, k.y + dy, k.z + dz}
					nh = append(nh, g.cells[neighbour]...)
				}
			}
		}
		out = append(out, nh)
	}
	return out
}
