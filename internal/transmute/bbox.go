package transmute

import "github.com/physim/physim/internal/entity"

// BBox is the "bbox" element: flips velocity sign on any axis where the
// entity has moved past the configured half-extent, turning the box
// into a reflecting wall.
type BBox struct {
	XLim, YLim, ZLim float64
}

// NewBBox constructs a BBox transmuter; each limit defaults to 1.0.
func NewBBox(xlim, ylim, zlim float64) BBox {
	return BBox{XLim: xlim, YLim: ylim, ZLim: zlim}
}

func (b BBox) Apply(state []entity.Entity) []entity.Entity {
	for i := range state {
		e := &state[i]
		if absf(e.Pos.X()) > b.XLim {
			e.Vel = negateX(e.Vel)
		}
		if absf(e.Pos.Y()) > b.YLim {
			e.Vel = negateY(e.Vel)
		}
		if absf(e.Pos.Z()) > b.ZLim {
			e.Vel = negateZ(e.Vel)
		}
	}
	return state
}
