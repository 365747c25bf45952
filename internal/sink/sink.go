// Package sink implements render sinks: the pipeline's final stage,
// consuming a channel of state snapshots and doing something external
// with them (write a file, stream to a browser).
package sink

import "github.com/physim/physim/internal/entity"

// RenderSink consumes snapshots from the simulation worker until the
// channel closes or the sink itself decides to stop (apierr.SinkClosed).
// A sink holding a bus reference posts pipeline/finished when its Render
// loop ends, so the simulation worker can stop rather than block trying
// to send into a channel nobody drains. Render runs on its own goroutine
// (spec.md §5's "render worker").
type RenderSink interface {
	Render(snapshots <-chan []entity.Entity)
}
