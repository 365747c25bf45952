package pipeline

import (
	"fmt"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/element"
	"github.com/physim/physim/internal/force"
	"github.com/physim/physim/internal/generate"
	"github.com/physim/physim/internal/integrate"
	"github.com/physim/physim/internal/registry"
	"github.com/physim/physim/internal/sink"
	"github.com/physim/physim/internal/transmute"
)

// Builder resolves a parsed pipeline description against a registry,
// validating per-kind cardinality before producing a runnable Pipeline.
// Grounded on `original_source/physim-core/src/pipeline.rs`'s
// `PipelineBuilder`, generalized from its three kinds (Initialiser,
// Transform, Render) to the full five-kind capability set
// (Generator, ForceStage, Integrator, Transmute, Render).
type Builder struct {
	registry *registry.Registry
	bus      *bus.Bus

	generators     []generate.Generator
	generatorNames []string
	forces         []force.Stage
	forceNames     []string
	integrator     integrate.Integrator
	integratorName string
	transmuters    []transmute.Transmuter
	transmuteNames []string
	renderSink     sink.RenderSink
	renderSinkName string
}

// NewBuilder constructs a Builder backed by r, handing b to every element
// it constructs (spec.md's "owned by the pipeline and handed to elements
// at construction"). b may be nil for tests that never exercise a
// bus-aware element.
func NewBuilder(r *registry.Registry, b *bus.Bus) *Builder {
	return &Builder{registry: r, bus: b}
}

// FromDescription parses and resolves a full pipeline description string.
func (b *Builder) FromDescription(line string) (*Pipeline, error) {
	descs, err := Parse(line)
	if err != nil {
		return nil, err
	}
	for _, d := range descs {
		if err := b.add(d); err != nil {
			return nil, err
		}
	}
	return b.build()
}

func (b *Builder) add(d descriptor) error {
	entry, ok := b.registry.Lookup(d.Name)
	if !ok {
		return apierr.New(apierr.ErrElementNotFound, fmt.Sprintf("no element named %q", d.Name), 404)
	}

	instance, err := entry.Creator(d.Props, b.bus)
	if err != nil {
		return apierr.New(apierr.ErrElementLoadFailed,
			fmt.Sprintf("constructing element %q: %v", d.Name, err), 500)
	}

	switch entry.Meta.Kind {
	case element.KindGenerator:
		g, ok := instance.(generate.Generator)
		if !ok {
			return badKind(d.Name, "Generator")
		}
		b.generators = append(b.generators, g)
		b.generatorNames = append(b.generatorNames, d.Name)

	case element.KindForce:
		s, ok := instance.(force.Stage)
		if !ok {
			return badKind(d.Name, "ForceStage")
		}
		b.forces = append(b.forces, s)
		b.forceNames = append(b.forceNames, d.Name)

	case element.KindIntegrate:
		i, ok := instance.(integrate.Integrator)
		if !ok {
			return badKind(d.Name, "Integrator")
		}
		if b.integrator != nil {
			return apierr.New(apierr.ErrConfigParse, "pipeline may only have one integrator", 400)
		}
		b.integrator = i
		b.integratorName = d.Name

	case element.KindTransmute:
		t, ok := instance.(transmute.Transmuter)
		if !ok {
			return badKind(d.Name, "Transmute")
		}
		b.transmuters = append(b.transmuters, t)
		b.transmuteNames = append(b.transmuteNames, d.Name)

	case element.KindRender:
		rs, ok := instance.(sink.RenderSink)
		if !ok {
			return badKind(d.Name, "Render")
		}
		if b.renderSink != nil {
			return apierr.New(apierr.ErrConfigParse, "pipeline may only have one render sink", 400)
		}
		b.renderSink = rs
		b.renderSinkName = d.Name

	default:
		return apierr.New(apierr.ErrConfigParse, fmt.Sprintf("element %q has unknown kind %q", d.Name, entry.Meta.Kind), 400)
	}
	return nil
}

func badKind(name, wantKind string) error {
	return apierr.New(apierr.ErrElementLoadFailed,
		fmt.Sprintf("element %q registered as %s but instance does not satisfy that interface", name, wantKind), 500)
}

func (b *Builder) build() (*Pipeline, error) {
	if len(b.generators) == 0 {
		return nil, apierr.New(apierr.ErrConfigParse, "pipeline needs at least one generator", 400)
	}
	if b.integrator == nil {
		return nil, apierr.New(apierr.ErrConfigParse, "pipeline needs exactly one integrator", 400)
	}
	if b.renderSink == nil {
		return nil, apierr.New(apierr.ErrConfigParse, "pipeline needs exactly one render sink", 400)
	}

	return &Pipeline{
		generators:     b.generators,
		generatorNames: b.generatorNames,
		forces:         b.forces,
		forceNames:     b.forceNames,
		integrator:     b.integrator,
		integratorName: b.integratorName,
		transmuters:    b.transmuters,
		transmuteNames: b.transmuteNames,
		sink:           b.renderSink,
		sinkName:       b.renderSinkName,
		bus:            b.bus,
	}, nil
}
