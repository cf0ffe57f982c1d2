// Package chart prepares series snapshots for plotting.
package chart

import (
	"math"

	"github.com/manuel-koch/go-serial-hud/internal/series"
)

// Curve names, also used as legend labels
const (
	CurveActual  = "Actual"
	CurveAverage = "Average"
	CurveRolling = "Rolling Average"
	CurveMax     = "Max"
)

// ValueIntervals are the candidate y tick spacings
var ValueIntervals = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

// Curve is one named line of the chart
type Curve struct {
	Name string
	Y    []float64
}

// Tick is a labelled position on an axis
type Tick struct {
	Position float64
	Label    string
}

// Frame is a snapshot converted to plot coordinates
type Frame struct {
	X      []float64
	Curves []Curve
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
}

// Empty reports whether the frame has nothing to plot
func (f Frame) Empty() bool {
	return len(f.X) == 0
}

// NewFrame converts a snapshot. The snapshot slices are shared, not copied.
func NewFrame(snap series.Snapshot) Frame {
	f := Frame{
		X: make([]float64, snap.Len()),
		Curves: []Curve{
			{Name: CurveActual, Y: snap.Raw},
			{Name: CurveAverage, Y: snap.Average},
			{Name: CurveRolling, Y: snap.Rolling},
			{Name: CurveMax, Y: snap.Max},
		},
	}
	for i, idx := range snap.Index {
		f.X[i] = float64(idx)
	}
	if f.Empty() {
		return f
	}

	f.XMin = f.X[0]
	f.XMax = f.X[len(f.X)-1]
	if f.XMax == f.XMin {
		f.XMax = f.XMin + 1
	}
	f.YMin, f.YMax = YMinMax(f.Curves...)
	return f
}

// YMinMax returns the minimum and maximum value over all curves
func YMinMax(curves ...Curve) (float64, float64) {
	min := math.MaxFloat64
	max := -math.MaxFloat64
	for _, c := range curves {
		for _, y := range c.Y {
			max = math.Max(max, y)
			min = math.Min(min, y)
		}
	}
	if min > max {
		return 0, 0
	}
	return min, max
}

// Interval derives a tick interval for the range min to max from the
// available intervals
func Interval(min, max float64, intervals []float64) float64 {
	diff := max - min
	interval := intervals[0]
	for _, i := range intervals[1:] {
		if diff > 5*interval {
			interval = i
		}
	}
	return interval
}

// Ticks returns ticks covering min to max on multiples of interval
func Ticks(min, max, interval float64, label func(float64) string) []Tick {
	minAxis := math.Floor(min/interval) * interval
	maxAxis := math.Ceil(max/interval) * interval
	var ticks []Tick
	if minAxis == maxAxis {
		ticks = make([]Tick, 1)
	} else {
		ticks = make([]Tick, int(math.Round((maxAxis-minAxis)/interval))+1)
	}
	for i := range ticks {
		ticks[i].Position = minAxis + interval*float64(i)
		ticks[i].Label = label(ticks[i].Position)
	}
	return ticks
}
