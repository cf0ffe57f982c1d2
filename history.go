package main

import (
	"fmt"

	"github.com/AllenDang/giu"

	"github.com/manuel-koch/go-serial-hud/internal/chart"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// History is the plotted view of the most recent snapshot
type History struct {
	Snapshot series.Snapshot
	Frame    chart.Frame
	YTicks   []giu.PlotTicker
	YMin     float64
	YMax     float64

	// ValueFormat prints values with the precision of the y axis ticks
	ValueFormat string
}

// NewHistory prepares a snapshot for plotting, including y axis ticks
func NewHistory(snap series.Snapshot) History {
	h := History{Snapshot: snap, Frame: chart.NewFrame(snap), ValueFormat: "%0.2f"}
	if h.Frame.Empty() {
		return h
	}

	interval := chart.Interval(h.Frame.YMin, h.Frame.YMax, chart.ValueIntervals)
	h.ValueFormat = valueFormat(interval)
	ticks := chart.Ticks(h.Frame.YMin, h.Frame.YMax, interval, func(value float64) string {
		return fmt.Sprintf(h.ValueFormat, value)
	})
	h.YTicks = make([]giu.PlotTicker, len(ticks))
	for i, t := range ticks {
		h.YTicks[i] = giu.PlotTicker{Position: t.Position, Label: t.Label}
	}
	h.YMin = ticks[0].Position
	h.YMax = ticks[len(ticks)-1].Position
	if h.YMax == h.YMin {
		h.YMax += interval
	}
	return h
}

// Latest returns the newest point
func (h *History) Latest() (series.Point, bool) {
	return h.Snapshot.Latest()
}

// valueFormat returns a format with as many decimals as the tick interval needs
func valueFormat(interval float64) string {
	switch {
	case interval < 0.1:
		return "%0.2f"
	case interval < 1:
		return "%0.1f"
	default:
		return "%0.0f"
	}
}
