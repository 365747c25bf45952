// Package main is a standalone Go-plugin-buildable module demonstrating
// the dynamic-loading contract end to end: build with
// `go build -buildmode=plugin -o ex_drag.so ./plugins/exampleplugin` and
// drop the resulting .so into PHYSIM_PLUGIN_DIR. Grounded on
// `original_source/example_plugin/src/lib.rs`'s "ex_drag" element
// (`register_plugin!`, `#[transform_element]`, `TransformElement::transform`).
package main

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/element"
	"github.com/physim/physim/internal/entity"
	"github.com/physim/physim/internal/registry"
)

// PhysimABI, Register, and Create are the three symbols
// internal/registry.Loader requires every plugin to export.
var PhysimABI = registry.ExpectedABITag()

func Register() []element.Meta {
	return []element.Meta{
		{
			Kind:  element.KindForce,
			Name:  "ex_drag",
			Blurb: "Applies a drag proportional to the square of velocity",
		},
	}
}

func Create(name string, props element.Properties) (interface{}, error) {
	switch name {
	case "ex_drag":
		return newDrag(props), nil
	default:
		return nil, fmt.Errorf("exampleplugin: unknown element %q", name)
	}
}

// Drag is the "ex_drag" force stage: a quadratic drag opposing each
// velocity component independently, F = -alpha*v*|v|. The original
// divided by mass directly into its acceleration accumulator; here the
// Stage contract writes into the shared force accumulator instead, so
// the mass division is deferred to the integrator's acceleration step.
type Drag struct {
	bus.NoopClient

	Alpha float64
}

func newDrag(props element.Properties) *Drag {
	alpha := 0.0
	if v, ok := props["alpha"]; ok {
		if f, ok := v.(float64); ok {
			alpha = f
		}
	}
	return &Drag{Alpha: alpha}
}

func (d *Drag) Apply(state []entity.Entity, forces []r3.Vec) {
	for i, e := range state {
		forces[i] = entity.Add(forces[i], r3.Vec{
			-d.Alpha * e.Vel.X() * absf(e.Vel.X()),
			-d.Alpha * e.Vel.Y() * absf(e.Vel.Y()),
			-d.Alpha * e.Vel.Z() * absf(e.Vel.Z()),
		})
	}
}

func (d *Drag) SetProperties(props element.Properties) error {
	if v, ok := props["alpha"]; ok {
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("exampleplugin: alpha must be numeric")
		}
		d.Alpha = f
	}
	return nil
}

func (d *Drag) GetProperty(key string) (interface{}, bool) {
	if key == "alpha" {
		return d.Alpha, true
	}
	return nil, false
}

func (d *Drag) GetPropertyDescriptions() map[string]string {
	return map[string]string{"alpha": "Coefficient of drag"}
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func main() {}
