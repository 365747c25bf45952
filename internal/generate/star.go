package generate

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/entity"
)

// Star is the "star" element: a single body placed at explicit scalars.
type Star struct {
	Entity entity.Entity
}

// NewStar constructs a Star generator. Radius defaults to 0.1 if zero,
// matching the original element's default.
func NewStar(pos, vel r3.Vec, mass, radius float64) Star {
	if radius == 0 {
		radius = 0.1
	}
	return Star{Entity: entity.Entity{Pos: pos, Vel: vel, Mass: mass, Radius: radius}}
}

func (s Star) CreateEntities() []entity.Entity {
	return []entity.Entity{s.Entity}
}
