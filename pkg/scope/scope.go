// Package scope provides a Fyne widget plotting basket and group temperatures
// over the elapsed time of a shot.
package scope

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/chewxy/math32"
)

// Point is one trace sample.
type Point struct {
	Elapsed float32 // s
	Basket  float32 // °C
	Group   float32 // °C
}

const (
	defaultWindow    = 30 // s
	maxDisplayPoints = 1000
)

// ScopeWidget is a custom Fyne widget that displays temperature traces.
type ScopeWidget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu            sync.RWMutex
	displayPoints []Point
	target        float32

	// Auto-scaling
	yMin, yMax float32
	xMax       float32

	window float32
}

// New creates a new ScopeWidget showing at least window seconds.
func New(window float32) *ScopeWidget {
	if window <= 0 {
		window = defaultWindow
	}
	s := &ScopeWidget{
		displayPoints: make([]Point, 0, maxDisplayPoints),
		target:        math32.NaN(),
		window:        window,
	}
	s.yMin, s.yMax, s.xMax = Bounds(nil, s.target, window)
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the traces. target is drawn as a horizontal line
// unless it is NaN. Must be called on the Fyne thread.
func (s *ScopeWidget) UpdateData(points []Point, target float32) {
	s.mu.Lock()
	s.displayPoints = Downsample(s.displayPoints, points, maxDisplayPoints)
	s.target = target
	s.yMin, s.yMax, s.xMax = Bounds(s.displayPoints, target, s.window)
	s.mu.Unlock()

	s.Refresh()
}

// Bounds computes the plot range: temperatures (and the target) with a 10%
// margin, and at least window seconds of elapsed time. Disconnected
// (non-finite) readings are ignored.
func Bounds(points []Point, target, window float32) (yMin, yMax, xMax float32) {
	yMin, yMax = math32.Inf(1), math32.Inf(-1)
	include := func(v float32) {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return
		}
		yMin = math32.Min(yMin, v)
		yMax = math32.Max(yMax, v)
	}

	xMax = window
	for _, p := range points {
		include(p.Basket)
		include(p.Group)
		if p.Elapsed > xMax {
			xMax = p.Elapsed
		}
	}
	include(target)

	if yMin > yMax {
		return 0, 100, xMax
	}

	span := yMax - yMin
	if span < 1 {
		span = 1
	}
	margin := span * 0.1
	return yMin - margin, yMax + margin, xMax
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
