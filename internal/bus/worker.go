package bus

import (
	"context"
	"time"
)

// DrainWorker periodically pops and fans out pending messages. Grounded
// on the teacher's internal/scheduler.Service.Start ticker loop, adapted
// from a once-a-minute cron sweep to the bus's ~8ms drain period
// (spec.md §5).
type DrainWorker struct {
	bus    *Bus
	period time.Duration
	stop   chan struct{}
}

// NewDrainWorker constructs a worker that drains b every period.
func NewDrainWorker(b *Bus, period time.Duration) *DrainWorker {
	return &DrainWorker{bus: b, period: period, stop: make(chan struct{})}
}

// Run blocks, draining the bus on each tick until ctx is cancelled or
// Stop is called.
func (w *DrainWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.bus.Drain()
		}
	}
}

// Stop signals Run to return.
func (w *DrainWorker) Stop() {
	close(w.stop)
}
