package render

import (
	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// LogConsumer writes a one line summary of the newest point, used when no
// display is available. Unchanged snapshots are not repeated.
type LogConsumer struct {
	logger    *logging.Logger
	lastTotal uint64
	shown     bool
}

// NewLogConsumer creates a LogConsumer
func NewLogConsumer(logger *logging.Logger) *LogConsumer {
	if logger == nil {
		logger = logging.Global()
	}
	return &LogConsumer{logger: logger.With("component", "headless")}
}

// Show implements Consumer
func (c *LogConsumer) Show(snapshot series.Snapshot) {
	latest, ok := snapshot.Latest()
	if !ok {
		return
	}
	if c.shown && snapshot.Total == c.lastTotal {
		return
	}
	c.shown = true
	c.lastTotal = snapshot.Total

	c.logger.Info("sample",
		"index", latest.Index,
		"value", latest.Raw,
		"average", latest.Average,
		"rolling", latest.Rolling,
		"max", latest.Max,
		"retained", snapshot.Len(),
	)
}
