package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"sync"

	"github.com/AllenDang/giu"
	"github.com/inhies/go-bytesize"
	"golang.design/x/clipboard"

	"github.com/manuel-koch/go-serial-hud/internal/acquisition"
	"github.com/manuel-koch/go-serial-hud/internal/chart"
	"github.com/manuel-koch/go-serial-hud/internal/logsink"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

const (
	GaugeHeight = 150
	BarHeight   = 18
)

// ErrNoDisplay is returned when the chart window cannot be opened
var ErrNoDisplay = errors.New("no display available")

var (
	LabelColor     = color.RGBA{170, 170, 255, 255}
	ErrorColor     = color.RGBA{255, 90, 90, 255}
	RetentionColor = color.RGBA{R: 60, G: 90, B: 200, A: 255}
	HighlightColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// CurveColors match the first entries of the default implot colormap so
	// gauges and plotted lines share colors
	CurveColors = []color.RGBA{
		{R: 76, G: 114, B: 176, A: 255},
		{R: 221, G: 132, B: 82, A: 255},
		{R: 85, G: 168, B: 104, A: 255},
		{R: 196, G: 78, B: 82, A: 255},
	}
)

// Status is what the window shows about acquisition and the sample log
type Status struct {
	Device      string
	Acquisition acquisition.Stats
	Log         *logsink.Stats
	Err         error
}

type App struct {
	mutex   sync.Mutex
	history History
	status  Status
	focused int // curve shown alone, -1 shows all curves

	wnd *giu.MasterWindow

	buildInfo        string
	clipboardEnabled bool
	onClearHistory   func()
}

// NewApp opens the chart window. It fails early instead of aborting inside
// the GUI toolkit when no display is reachable.
func NewApp(title string) (*App, error) {
	if err := checkDisplay(); err != nil {
		return nil, err
	}
	app := &App{focused: -1, history: NewHistory(series.Snapshot{})}
	app.wnd = giu.NewMasterWindow(title, 900, 640, 0)
	return app, nil
}

func checkDisplay() error {
	switch runtime.GOOS {
	case "darwin", "windows":
		return nil
	}
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("%w: neither DISPLAY nor WAYLAND_DISPLAY is set, run with --headless", ErrNoDisplay)
	}
	return nil
}

func (a *App) BuildInfo(info string) *App {
	a.buildInfo = info
	return a
}

func (a *App) EnableClipboard() *App {
	a.clipboardEnabled = true
	return a
}

func (a *App) OnClearHistory(clearHistory func()) *App {
	a.onClearHistory = clearHistory
	return a
}

// Show implements render.Consumer
func (a *App) Show(snap series.Snapshot) {
	history := NewHistory(snap)

	a.mutex.Lock()
	a.history = history
	a.mutex.Unlock()

	giu.Update()
}

// SetStatus replaces the status line content
func (a *App) SetStatus(status Status) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.status = status
}

// Run the main loop, will return when application got closed
func (a *App) Run() {
	a.wnd.Run(a.Render)
}

// Render builds the UI
func (a *App) Render() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	latest, hasLatest := a.history.Latest()

	giu.SingleWindowWithMenuBar().Layout(
		giu.PrepareMsgbox(),
		giu.MenuBar().Layout(
			giu.Menu("View").Layout(
				giu.MenuItem("Show all curves").Selected(a.focused < 0).OnClick(func() {
					a.focused = -1
				}),
				giu.MenuItem("Clear history").OnClick(func() {
					if a.onClearHistory != nil {
						a.onClearHistory()
					}
				}),
			),
			giu.Menu("Help").Layout(
				giu.MenuItem("About").OnClick(func() {
					giu.Msgbox("About", a.buildInfo)
				}),
			),
		),
		giu.Style().SetColor(giu.StyleColorText, LabelColor).To(
			ShortLabel(a.statusText()),
		),
		giu.ContextMenu().Layout(
			giu.Selectable("Copy statistics to clipboard").OnClick(func() {
				a.copyStatistics(latest, hasLatest)
			}),
		),
		giu.Condition(
			a.status.Err != nil,
			giu.Layout{
				giu.Style().SetColor(giu.StyleColorText, ErrorColor).To(
					giu.Label(fmt.Sprintf("Acquisition stopped: %v", a.status.Err)),
				),
			},
			nil,
		),
		Bar().Label(
			fmt.Sprintf("History %d / %d samples, rolling window %d", a.history.Snapshot.Len(), a.history.Snapshot.Capacity, a.history.Snapshot.Window),
		).Range(0, float64(a.history.Snapshot.Capacity)).Value(float64(a.history.Snapshot.Len())).Size(-1, BarHeight).Foreground(RetentionColor),
		giu.Child().Size(-1, GaugeHeight).Flags(giu.WindowFlagsNoScrollbar).Layout(
			GridBuilder("gauges", len(a.history.Frame.Curves), 1, a.history.Frame.Curves, a.focused, HighlightColor,
				func(i int) {
					if a.focused == i {
						a.focused = -1
					} else {
						a.focused = i
					}
				},
				func(i int, curve chart.Curve) giu.Widget {
					gauge := LabeledGauge(curve.Name).Accent(CurveColors[i%len(CurveColors)]).Format(a.history.ValueFormat)
					if hasLatest {
						gauge.Range(0, latest.Max).Value(curve.Y[len(curve.Y)-1])
					}
					return gauge
				},
			)...,
		),
		giu.Condition(
			a.history.Frame.Empty(),
			giu.Layout{
				giu.Label("Waiting for samples..."),
			},
			giu.Layout{
				giu.Custom(a.buildPlot),
			},
		),
	)
}

func (a *App) buildPlot() {
	frame := a.history.Frame
	plots := make([]giu.PlotWidget, 0, len(frame.Curves))
	for i, c := range frame.Curves {
		if a.focused >= 0 && a.focused != i {
			continue
		}
		plots = append(plots, giu.PlotLineXY(c.Name, frame.X, c.Y))
	}

	giu.Plot(
		"Value by counter",
	).Size(
		-1, -1,
	).AxisLimits(
		frame.XMin,
		frame.XMax,
		a.history.YMin,
		a.history.YMax,
		giu.ConditionAlways,
	).Plots(
		plots...,
	).YTicks(
		a.history.YTicks, false, 0,
	).Build()
}

func (a *App) statusText() string {
	s := a.status
	text := fmt.Sprintf("%s: %d samples, %d dropped lines, %d timeouts",
		s.Device, s.Acquisition.Accepted, s.Acquisition.Dropped, s.Acquisition.Timeouts)
	if s.Log != nil {
		text += fmt.Sprintf(", log %s", bytesize.New(float64(s.Log.Bytes)))
		if lost := s.Log.Dropped + s.Log.Failed; lost > 0 {
			text += fmt.Sprintf(" (%d records lost)", lost)
		}
	}
	return text
}

func (a *App) copyStatistics(latest series.Point, ok bool) {
	if !a.clipboardEnabled {
		giu.Msgbox("Clipboard", "Clipboard is not available")
		return
	}
	if !ok {
		giu.Msgbox("Clipboard", "No samples yet")
		return
	}
	summary := fmt.Sprintf("index=%d value=%s average=%s rolling=%s max=%s",
		latest.Index,
		logsink.FormatValue(latest.Raw),
		logsink.FormatValue(latest.Average),
		logsink.FormatValue(latest.Rolling),
		logsink.FormatValue(latest.Max),
	)
	clipboard.Write(clipboard.FmtText, []byte(summary))
	giu.Msgbox("Copied to Clipboard", summary)
}
