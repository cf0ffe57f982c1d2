package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/AllenDang/giu"
	"github.com/AllenDang/imgui-go"
)

const (
	DegToRad = 0.017453292519943295769236907684886127134428718885417 // N[Pi/180, 50]
)

var _ giu.Widget = &LabeledGaugeWidget{}

// LabeledGaugeWidget renders the name of a statistic above a gauge showing
// its latest value relative to a range
type LabeledGaugeWidget struct {
	label  string
	min    float64
	value  float64
	max    float64
	format string
	accent color.RGBA
	valid  bool
}

// LabeledGauge creates LabeledGaugeWidget
func LabeledGauge(label string) *LabeledGaugeWidget {
	return &LabeledGaugeWidget{
		label:  label,
		min:    0,
		max:    1,
		format: "%0.2f",
		accent: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Range sets the values at the start and the end of the arc
func (w *LabeledGaugeWidget) Range(min, max float64) *LabeledGaugeWidget {
	w.min = min
	w.max = max
	return w
}

// Value sets the value, a gauge without value shows "-"
func (w *LabeledGaugeWidget) Value(value float64) *LabeledGaugeWidget {
	w.value = value
	w.valid = true
	return w
}

// Format sets the format of the value text, e.g. "%0.2f V"
func (w *LabeledGaugeWidget) Format(format string) *LabeledGaugeWidget {
	w.format = format
	return w
}

// Accent sets the needle color, matching the color of the plotted curve
func (w *LabeledGaugeWidget) Accent(accent color.RGBA) *LabeledGaugeWidget {
	w.accent = accent
	return w
}

func shortenText(width float32, text string) string {
	cut := 2
	newText := text
	for {
		w, _ := giu.CalcTextSize(newText)
		if w < width {
			return newText
		}
		if len(newText) <= cut {
			return newText
		}
		s := len(text)/2 - cut/2
		newText = text[:s] + "…" + text[s+cut:]
		cut++
	}
}

func (w *LabeledGaugeWidget) ratio() float64 {
	if !w.valid || w.max <= w.min {
		return 0
	}
	return math.Min(1, math.Max(0, (w.value-w.min)/(w.max-w.min)))
}

// Build implements Widget interface.
func (w *LabeledGaugeWidget) Build() {
	width, height := giu.GetAvailableRegion()

	defaultFonts := giu.GetDefaultFonts()
	font := defaultFonts[0].SetSize(12)
	if giu.PushFont(font) {
		defer giu.PopFont()
	}

	label := shortenText(width, w.label)
	labelWidth, labelHeight := giu.CalcTextSize(label)

	textFg := giu.Vec4ToRGBA(imgui.CurrentStyle().GetColor(imgui.StyleColorText))
	gaugeBg := color.RGBA{70, 70, 70, 255}

	canvas := giu.GetCanvas()
	topLeftPos := giu.GetCursorScreenPos()

	gaugeHeight := height - 2*labelHeight
	gaugeCenterPos := topLeftPos.Add(image.Pt(int(width/2), int(labelHeight+gaugeHeight*0.6)))
	radius := float32(math.Min(float64(width)/2, float64(gaugeHeight)/1.6)) * 0.8
	startAngle := 315 * DegToRad
	endAngle := 45 * DegToRad
	valueAngle := startAngle - w.ratio()*(startAngle-endAngle)

	canvas.PathClear()
	canvas.PathArcTo(gaugeCenterPos, radius, float32(startAngle+90*DegToRad), float32(endAngle+90*DegToRad), 64)
	canvas.PathFillConvex(gaugeBg)
	canvas.PathStroke(textFg, true, 2)

	if w.valid {
		needleEnd := image.Pt(
			int(float64(radius)*math.Sin(valueAngle)+float64(gaugeCenterPos.X)),
			int(float64(radius)*math.Cos(valueAngle)+float64(gaugeCenterPos.Y)),
		)
		canvas.AddLine(gaugeCenterPos, needleEnd, w.accent, 2)
	}
	canvas.AddCircleFilled(gaugeCenterPos, 4, w.accent)

	labelPos := image.Pt(gaugeCenterPos.X-int(labelWidth/2), topLeftPos.Y)
	canvas.AddText(labelPos, textFg, label)

	valueText := "-"
	if w.valid {
		valueText = fmt.Sprintf(w.format, w.value)
	}
	valueWidth, valueHeight := giu.CalcTextSize(valueText)
	valuePos := image.Pt(gaugeCenterPos.X-int(valueWidth/2), topLeftPos.Y+int(height-valueHeight*1.1))
	canvas.AddText(valuePos, textFg, valueText)
}
