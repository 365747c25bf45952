package pipeline

import (
	"context"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/entity"
	"github.com/physim/physim/internal/errorreport"
	"github.com/physim/physim/internal/force"
	"github.com/physim/physim/internal/generate"
	"github.com/physim/physim/internal/integrate"
	"github.com/physim/physim/internal/logger"
	"github.com/physim/physim/internal/metrics"
	"github.com/physim/physim/internal/sink"
	"github.com/physim/physim/internal/spatial"
	"github.com/physim/physim/internal/tracing"
	"github.com/physim/physim/internal/transmute"
)

// Pipeline drives the per-step simulation loop: generate the initial
// state once, then repeatedly accumulate force, integrate, and
// transmute, handing each resulting snapshot to the render sink over a
// bounded channel. Grounded on
// `original_source/physim-core/src/pipeline.rs`'s `Pipeline::run`
// (mpsc::sync_channel(10), a dedicated simulation goroutine feeding the
// render sink) and the teacher's panic-isolation pattern for the worker
// boundary.
type Pipeline struct {
	generators     []generate.Generator
	generatorNames []string
	forces         []force.Stage
	forceNames     []string
	integrator     integrate.Integrator
	integratorName string
	transmuters    []transmute.Transmuter
	transmuteNames []string
	sink           sink.RenderSink
	sinkName       string
	bus            *bus.Bus

	// current names the generator, force stage, integrator or transmuter
	// executing right now, so a recovered panic can be attributed to the
	// element that actually caused it rather than reported as "unknown".
	// Written by generateInitialState before the simulation worker
	// goroutine starts, and afterwards only from that goroutine.
	current elementRef
}

// elementRef identifies the element whose method is currently running.
type elementRef struct {
	kind string
	name string
}

// quitListener cancels the pipeline's run context on a Critical
// pipeline/quit message or a pipeline/finished signal from the render
// sink (spec.md §5 "Cancellation"). Run subscribes one to the bus per
// call; it is never unsubscribed, so it stays on the bus after Run returns.
type quitListener struct {
	cancel context.CancelFunc
}

func (q *quitListener) ID() string { return "pipeline" }

func (q *quitListener) Receive(msg bus.Message) {
	if msg.Topic == "pipeline/quit" || msg.Topic == "pipeline/finished" {
		q.cancel()
	}
}

// Run builds the initial state and drives the step loop until ctx is
// cancelled, sinkCapacity bounds the snapshot channel between the
// simulation worker and the render sink (spec.md §4.4's "~10
// snapshots"). An ElementInternal panic from any stage is recovered,
// logged, and reported, and terminates the pipeline cleanly.
func (p *Pipeline) Run(ctx context.Context, sinkCapacity int, dt float64) {
	defer p.recoverStep()
	state := p.generateInitialState()
	metrics.EntityCount.Set(float64(len(state)))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if p.bus != nil {
		p.bus.Subscribe(&quitListener{cancel: cancel})
	}

	snapshots := make(chan []entity.Entity, sinkCapacity)

	go func() {
		defer close(snapshots)
		defer p.recoverStep()
		p.stepLoop(runCtx, state, dt, snapshots)
	}()

	func() {
		defer func() {
			if r := recover(); r != nil {
				apiErr := apierr.ElementInternal(p.sinkName, r)
				logger.Error("pipeline: element panicked, aborting step",
					"element_kind", "Render", "element", p.sinkName, "code", apiErr.Code, "panic", r)
				metrics.StepErrors.WithLabelValues("Render", p.sinkName).Inc()
				errorreport.CapturePanic(r, "Render", p.sinkName, "")
			}
		}()
		p.sink.Render(snapshots)
	}()
	cancel()
}

func (p *Pipeline) generateInitialState() []entity.Entity {
	var state []entity.Entity
	for i, g := range p.generators {
		p.current = elementRef{kind: "Generator", name: p.generatorNames[i]}
		state = append(state, g.CreateEntities()...)
	}
	return state
}

func (p *Pipeline) stepLoop(ctx context.Context, state []entity.Entity, dt float64, snapshots chan<- []entity.Entity) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, span := tracing.StartStepSpan(ctx, len(state))
		start := time.Now()
		state = p.step(state, dt)
		metrics.StepDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
		metrics.StepsTotal.Inc()
		metrics.EntityCount.Set(float64(len(state)))
		span.End()

		metrics.SinkQueueDepth.Set(float64(len(snapshots)))
		select {
		case snapshots <- state:
			metrics.SinkQueueDepth.Set(float64(len(snapshots)))
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) step(state []entity.Entity, dt float64) []entity.Entity {
	next := p.integrator.Integrate(state, dt, p.evaluateForces)

	for i, t := range p.transmuters {
		p.current = elementRef{kind: "Transmute", name: p.transmuteNames[i]}
		next = t.Apply(next)
	}
	return next
}

func (p *Pipeline) evaluateForces(state []entity.Entity) []r3.Vec {
	forces := make([]r3.Vec, len(state))
	for i, stage := range p.forces {
		p.current = elementRef{kind: "ForceStage", name: p.forceNames[i]}
		stage.Apply(state, forces)
	}
	p.current = elementRef{kind: "Integrator", name: p.integratorName}
	metrics.ForceEvaluationsTotal.Inc()
	return forces
}

func (p *Pipeline) recoverStep() {
	r := recover()
	if r == nil {
		return
	}

	kind, name := p.current.kind, p.current.name
	if kind == "" {
		kind, name = "unknown", "unknown"
	}

	if dte, ok := r.(*spatial.DegenerateTreeError); ok {
		metrics.TreeDegenerateAborts.Inc()
		apiErr := apierr.DegenerateTree(dte.Levels)
		logger.Error("pipeline: tree insertion exceeded recursion guard",
			"element_kind", kind, "element", name, "code", apiErr.Code, "levels", dte.Levels)
		metrics.StepErrors.WithLabelValues(kind, name).Inc()
		errorreport.CapturePanic(r, kind, name, "")
		return
	}

	apiErr := apierr.ElementInternal(name, r)
	logger.Error("pipeline: element panicked, aborting step",
		"element_kind", kind, "element", name, "code", apiErr.Code, "panic", r)
	metrics.StepErrors.WithLabelValues(kind, name).Inc()
	errorreport.CapturePanic(r, kind, name, "")
}
