// Package acquisition reads lines from the device, turns them into samples
// and feeds the series store.
package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/manuel-koch/go-serial-hud/internal/device"
	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/logsink"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// LineReader yields one raw line per call. device.ErrReadTimeout means
// nothing arrived this cycle, io.EOF means the source is exhausted.
type LineReader interface {
	ReadLine() ([]byte, error)
}

// Parser extracts a sample value from a raw line
type Parser interface {
	Parse(line []byte) (float64, bool)
}

// Appender stores accepted values
type Appender interface {
	Append(value float64) series.Point
}

// Stats counts what the task has seen so far
type Stats struct {
	Lines    uint64
	Accepted uint64
	Dropped  uint64
	Timeouts uint64
}

// Task is the acquisition loop
type Task struct {
	source LineReader
	parser Parser
	store  Appender
	sink   logsink.Recorder
	logger *logging.Logger
	now    func() time.Time

	lines    atomic.Uint64
	accepted atomic.Uint64
	dropped  atomic.Uint64
	timeouts atomic.Uint64
}

// New creates a task. sink may be nil when the sample log is disabled.
func New(source LineReader, parser Parser, store Appender, sink logsink.Recorder, logger *logging.Logger) *Task {
	if sink == nil {
		sink = logsink.Nop{}
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Task{
		source: source,
		parser: parser,
		store:  store,
		sink:   sink,
		logger: logger.With("component", "acquisition"),
		now:    time.Now,
	}
}

// Run reads until ctx is cancelled or the source is exhausted. Timeouts and
// unparsable lines are skipped; any other read error stops the task.
func (t *Task) Run(ctx context.Context) error {
	t.logger.Info("acquisition started")
	defer t.logger.Info("acquisition stopped", "accepted", t.accepted.Load(), "dropped", t.dropped.Load())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := t.source.ReadLine()
		if err != nil {
			switch {
			case errors.Is(err, device.ErrReadTimeout):
				t.timeouts.Add(1)
				continue
			case errors.Is(err, io.EOF):
				return nil
			default:
				return fmt.Errorf("read failed: %w", err)
			}
		}

		t.handle(line)
	}
}

func (t *Task) handle(line []byte) {
	t.lines.Add(1)

	value, ok := t.parser.Parse(line)
	if !ok {
		t.dropped.Add(1)
		t.logger.Debug("dropped line", "line", string(line))
		return
	}

	p := t.store.Append(value)
	t.accepted.Add(1)
	t.sink.Record(p.Sample(), t.now())
}

// Stats returns the current counters
func (t *Task) Stats() Stats {
	return Stats{
		Lines:    t.lines.Load(),
		Accepted: t.accepted.Load(),
		Dropped:  t.dropped.Load(),
		Timeouts: t.timeouts.Load(),
	}
}
