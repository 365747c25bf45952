package spatial

import (
	"gonum.org/v1/gonum/floats"

	"github.com/physim/physim/internal/entity"
)

// TotalMass sums the mass of a leaf set returned by LeavesFor (or any
// entity slice) via gonum's floats.Sum, a plain sequential accumulation
// (no Kahan/compensated correction) — sufficient for the mass-conservation
// property check (§8) at the entity counts this package is exercised with.
func TotalMass(entities []entity.Entity) float64 {
	masses := make([]float64, len(entities))
	for i, e := range entities {
		masses[i] = e.Mass
	}
	return floats.Sum(masses)
}
