package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/config"
	"github.com/physim/physim/internal/element"
	"github.com/physim/physim/internal/force"
	"github.com/physim/physim/internal/generate"
	"github.com/physim/physim/internal/integrate"
	"github.com/physim/physim/internal/registry"
	"github.com/physim/physim/internal/sink"
	"github.com/physim/physim/internal/transmute"
)

// RegisterBuiltins populates r with every element built into the binary,
// mirroring `original_source/physim-core`'s own built-in plugin table
// (`element/cube.rs`, `astro.rs`, `simple_astro.rs`, `shm.rs`,
// `impulse.rs`, `bbox.rs`, `bpm.rs`, `euler.rs`, `verlet.rs`, `rk4.rs`,
// `csvsink.rs`) plus this rework's wssink and idassign additions. Every
// creator receives the pipeline's bus; csvsink and wssink hold onto it to
// post pipeline/finished when their render loop ends, the rest ignore it.
func RegisterBuiltins(r *registry.Registry) {
	r.RegisterBuiltin(
		element.Meta{Kind: element.KindGenerator, Name: "cube", Plugin: "builtin", Version: "1.0", Blurb: "uniform cube cloud of n bodies"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return generate.NewCube(propUint(p, "n", 100000), propUint(p, "seed", 0), propFloat(p, "s", 1.0)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindGenerator, Name: "star", Plugin: "builtin", Version: "1.0", Blurb: "single explicitly-placed body"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			pos := r3.Vec{propFloat(p, "x", 0), propFloat(p, "y", 0), propFloat(p, "z", 0)}
			vel := r3.Vec{propFloat(p, "vx", 0), propFloat(p, "vy", 0), propFloat(p, "vz", 0)}
			return generate.NewStar(pos, vel, propFloat(p, "mass", 1.0), propFloat(p, "radius", 0)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindForce, Name: "simple_astro", Plugin: "builtin", Version: "1.0", Blurb: "brute-force O(N^2) gravity"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return force.NewSimpleGravity(propFloat(p, "e", config.Load().DefaultSoftening)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindForce, Name: "astro", Plugin: "builtin", Version: "1.0", Blurb: "Barnes-Hut gravity, quadtree"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return force.NewQuadtreeGravity(propFloat(p, "theta", config.Load().DefaultTheta), propFloat(p, "e", config.Load().DefaultSoftening)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindForce, Name: "astro2", Plugin: "builtin", Version: "1.0", Blurb: "Barnes-Hut gravity, octree"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return force.NewOctreeGravity(propFloat(p, "theta", config.Load().DefaultTheta), propFloat(p, "e", config.Load().DefaultSoftening)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindForce, Name: "shm", Plugin: "builtin", Version: "1.0", Blurb: "damped simple harmonic oscillator"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			mode := force.ShmGlobalCentre
			if propString(p, "mode", "centre") == "particle" {
				mode = force.ShmParticleCentre
			}
			return force.NewShm(propFloat(p, "k", 1.0), propFloat(p, "c", 0), mode), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindForce, Name: "impulse", Plugin: "builtin", Version: "1.0", Blurb: "one-shot force vector on step 1"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return force.NewImpulse(propFloat(p, "fx", 0), propFloat(p, "fy", 0), propFloat(p, "fz", 0)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindIntegrate, Name: "euler", Plugin: "builtin", Version: "1.0", Blurb: "explicit Euler with a constant-acceleration position update"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return integrate.Euler{}, nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindIntegrate, Name: "verlet", Plugin: "builtin", Version: "1.0", Blurb: "position (Störmer) Verlet"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return &integrate.Verlet{}, nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindIntegrate, Name: "rk4", Plugin: "builtin", Version: "1.0", Blurb: "classical fourth-order Runge-Kutta"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return integrate.RK4{}, nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindTransmute, Name: "bbox", Plugin: "builtin", Version: "1.0", Blurb: "reflecting bounding box"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return transmute.NewBBox(propFloat(p, "xlim", 1.0), propFloat(p, "ylim", 1.0), propFloat(p, "zlim", 1.0)), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindTransmute, Name: "bpm", Plugin: "builtin", Version: "1.0", Blurb: "periodic mass injection at the centre of mass"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			mode := transmute.BpmAlways
			if propString(p, "mode", "always") == "exclude" {
				mode = transmute.BpmExclude
			}
			var radius *float64
			if _, ok := p["r"]; ok {
				r := propFloat(p, "r", 0)
				radius = &r
			}
			return transmute.NewBpm(propUint(p, "n", 1), propFloat(p, "m", 1.0), radius, mode), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindTransmute, Name: "idassign", Plugin: "builtin", Version: "1.0", Blurb: "assigns stable non-zero entity ids"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return transmute.NewIDAssign(), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindTransmute, Name: "collisions", Plugin: "builtin", Version: "1.0", Blurb: "elastic collision resolution on a uniform grid"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return transmute.Collisions{}, nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindRender, Name: "csvsink", Plugin: "builtin", Version: "1.0", Blurb: "writes snapshots as CSV lines"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			file := propString(p, "file", "")
			if file == "" {
				return nil, fmt.Errorf("csvsink requires a file property")
			}
			return sink.NewCsvSink(file, int(propUint(p, "print_n", 1)), b), nil
		},
	)

	r.RegisterBuiltin(
		element.Meta{Kind: element.KindRender, Name: "wssink", Plugin: "builtin", Version: "1.0", Blurb: "streams snapshots to websocket clients"},
		func(p element.Properties, b *bus.Bus) (interface{}, error) {
			return sink.NewWsSink(int(propUint(p, "port", 8090)), propFloat(p, "rate", 0), b), nil
		},
	)
}

// propFloat reads a numeric property, defaulting if absent or the wrong
// JSON type (json.Unmarshal into interface{} always yields float64 for
// numbers).
func propFloat(p element.Properties, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func propUint(p element.Properties, key string, def uint64) uint64 {
	if v, ok := p[key]; ok {
		if f, ok := v.(float64); ok && f >= 0 {
			return uint64(f)
		}
	}
	return def
}

func propString(p element.Properties, key, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}
