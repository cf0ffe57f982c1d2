package main

import (
	"image"
	"image/color"
	"math"

	"github.com/AllenDang/giu"
)

var _ giu.Widget = &BarWidget{}

// BarWidget renders a fill level, e.g. how much of the retention window is used
type BarWidget struct {
	foreground color.RGBA
	background color.RGBA
	width      float32
	height     float32
	min        float64
	value      float64
	max        float64
	label      string
}

// Bar creates a horizontal BarWidget
func Bar() *BarWidget {
	return &BarWidget{
		foreground: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		background: color.RGBA{R: 70, G: 70, B: 70, A: 255},
		width:      -1,
		height:     -1,
		min:        0,
		max:        1,
	}
}

// Range sets the values mapped to an empty and a full bar
func (w *BarWidget) Range(min, max float64) *BarWidget {
	w.min = min
	w.max = max
	return w
}

// Value sets the current value
func (w *BarWidget) Value(value float64) *BarWidget {
	w.value = value
	return w
}

// Size forces the size of the bar, values <= 0 use the available region
func (w *BarWidget) Size(width, height float32) *BarWidget {
	w.width = width
	w.height = height
	return w
}

// Foreground sets the fill color
func (w *BarWidget) Foreground(color color.RGBA) *BarWidget {
	w.foreground = color
	return w
}

// Label sets the text drawn on top of the bar
func (w *BarWidget) Label(label string) *BarWidget {
	w.label = label
	return w
}

// ratio returns the fill level clamped to 0..1
func (w *BarWidget) ratio() float64 {
	if w.max <= w.min {
		return 0
	}
	return math.Max(0, math.Min(1, (w.value-w.min)/(w.max-w.min)))
}

// Build implements Widget interface.
func (w *BarWidget) Build() {
	availWidth, availHeight := giu.GetAvailableRegion()
	width := w.width
	if width <= 0 {
		width = availWidth
	}
	height := w.height
	if height <= 0 {
		height = availHeight
	}

	canvas := giu.GetCanvas()
	topLeft := giu.GetCursorScreenPos()
	bottomRight := topLeft.Add(image.Pt(int(width), int(height)))

	canvas.AddRectFilled(topLeft, bottomRight, w.background, 0, 0)
	ratio := w.ratio()
	fillRight := topLeft.Add(image.Pt(int(float64(width)*ratio), int(height)))
	canvas.AddRectFilled(topLeft, fillRight, w.foreground, 0, 0)

	if w.label != "" {
		_, labelHeight := giu.CalcTextSize(w.label)
		giu.PushClipRect(topLeft, bottomRight, false)
		canvas.AddText(topLeft.Add(image.Pt(4, int((height-labelHeight)/2))), color.White, w.label)
		giu.PopClipRect()
	}

	giu.Dummy(width, height).Build()
}
