package sink

import (
	"bufio"
	"fmt"
	"os"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/entity"
	"github.com/physim/physim/internal/logger"
)

// CsvSink is the "csvsink" element: writes one line per snapshot,
// `x1,y1,z1,x2,y2,z2,...\n`, subsampled by PrintN. Grounded on
// `original_source/utilities/src/csvsink.rs`: the first snapshot is
// always written, thereafter one snapshot is written every PrintN'th
// iteration (by the pre-increment counter value, matching the original's
// `fetch_add` returning the old count).
type CsvSink struct {
	File   string
	PrintN int

	bus *bus.Bus
}

// NewCsvSink constructs a CsvSink. PrintN defaults to 1 (every frame). b
// is posted a pipeline/finished message once the render loop ends, so the
// simulation worker can stop rather than block on a channel nobody drains.
func NewCsvSink(file string, printN int, b *bus.Bus) CsvSink {
	if printN <= 0 {
		printN = 1
	}
	return CsvSink{File: file, PrintN: printN, bus: b}
}

func (c CsvSink) Render(snapshots <-chan []entity.Entity) {
	f, err := os.Create(c.File)
	if err != nil {
		logger.Error("csvsink: cannot open output file", "file", c.File, "error", err)
		return
	}
	defer f.Close()
	defer c.notifyFinished()

	w := bufio.NewWriter(f)
	defer w.Flush()

	iteration := 0
	first := true
	for state := range snapshots {
		if first {
			writeLine(w, state)
			first = false
			iteration++
			continue
		}
		if iteration%c.PrintN == 0 {
			writeLine(w, state)
		}
		iteration++
	}
}

func (c CsvSink) notifyFinished() {
	logger.Info("csvsink: render loop ended", "reason", apierr.SinkClosed("csvsink").Error())
	if c.bus == nil {
		return
	}
	c.bus.Post(bus.Message{SenderID: "csvsink", Priority: bus.PriorityCritical, Topic: "pipeline/finished"})
}

func writeLine(w *bufio.Writer, state []entity.Entity) {
	for _, e := range state {
		fmt.Fprintf(w, "%g,%g,%g,", e.Pos.X(), e.Pos.Y(), e.Pos.Z())
	}
	w.WriteByte('\n')
}
