// Package generate builds the initial state for a pipeline run: the
// "cube" element (a random cloud in a unit cube) and the "star" element
// (a single explicitly-placed body).
package generate

import "github.com/physim/physim/internal/entity"

// Generator creates the entities a pipeline starts with. A pipeline may
// combine more than one generator; their outputs are concatenated.
type Generator interface {
	CreateEntities() []entity.Entity
}
