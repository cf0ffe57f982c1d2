// Package render periodically hands snapshots of the series store to a
// consumer that draws them.
package render

import (
	"context"
	"time"

	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// Snapshotter provides consistent copies of the series
type Snapshotter interface {
	Snapshot() series.Snapshot
}

// Consumer draws a snapshot. It must not keep references into it beyond
// the next call if it mutates the slices.
type Consumer interface {
	Show(snapshot series.Snapshot)
}

// ConsumerFunc adapts a function to Consumer
type ConsumerFunc func(snapshot series.Snapshot)

// Show implements Consumer
func (f ConsumerFunc) Show(snapshot series.Snapshot) {
	f(snapshot)
}

// Task pulls a snapshot every interval, independent of sample arrival
type Task struct {
	source   Snapshotter
	consumer Consumer
	interval time.Duration
	logger   *logging.Logger
}

// New creates a render task
func New(source Snapshotter, consumer Consumer, interval time.Duration, logger *logging.Logger) *Task {
	if logger == nil {
		logger = logging.Global()
	}
	return &Task{
		source:   source,
		consumer: consumer,
		interval: interval,
		logger:   logger.With("component", "render"),
	}
}

// Run ticks until ctx is cancelled
func (t *Task) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Debug("render loop started", "interval", t.interval.String())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.consumer.Show(t.source.Snapshot())
		}
	}
}
