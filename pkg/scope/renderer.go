package scope

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"
)

var (
	gridColor   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	basketColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	groupColor  = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	targetColor = color.RGBA{R: 80, G: 200, B: 120, A: 255}  // Green
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// plotArea maps trace values to widget coordinates.
type plotArea struct {
	x, y, width, height float32
	yMin, yMax, xMax    float32
}

func (p plotArea) pos(elapsed, celsius float32) fyne.Position {
	x := p.x + elapsed/p.xMax*p.width
	y := p.y + p.height - (celsius-p.yMin)/(p.yMax-p.yMin)*p.height
	return fyne.NewPos(x, y)
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 240)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	points := r.scope.displayPoints
	target := r.scope.target
	area := plotArea{yMin: r.scope.yMin, yMax: r.scope.yMax, xMax: r.scope.xMax}
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	const (
		marginLeft   = 60
		marginRight  = 20
		marginTop    = 20
		marginBottom = 40
	)
	area.x = marginLeft
	area.y = marginTop
	area.width = size.Width - marginLeft - marginRight
	area.height = size.Height - marginTop - marginBottom

	r.drawGrid(area)
	if !math32.IsNaN(target) {
		r.drawTarget(area, target)
	}
	r.drawTrace(area, points, basketColor, func(p Point) float32 { return p.Basket })
	r.drawTrace(area, points, groupColor, func(p Point) float32 { return p.Group })
	r.drawLegend(area)
}

// drawGrid draws the oscilloscope-style grid.
func (r *scopeRenderer) drawGrid(a plotArea) {
	// Horizontal grid lines (temperature)
	numHLines := 8
	for i := range numHLines + 1 {
		y := a.y + float32(i)*a.height/float32(numHLines)
		r.addLine(fyne.NewPos(a.x, y), fyne.NewPos(a.x+a.width, y), gridColor, 1)

		value := a.yMax - float32(i)*(a.yMax-a.yMin)/float32(numHLines)
		r.addText(fmt.Sprintf("%.1f°C", value), fyne.NewPos(a.x-5, y-6), fyne.TextAlignTrailing, labelColor)
	}

	// Vertical grid lines (elapsed time)
	numVLines := 10
	for i := range numVLines + 1 {
		x := a.x + float32(i)*a.width/float32(numVLines)
		r.addLine(fyne.NewPos(x, a.y), fyne.NewPos(x, a.y+a.height), gridColor, 1)

		value := float32(i) * a.xMax / float32(numVLines)
		r.addText(fmt.Sprintf("%.0fs", value), fyne.NewPos(x-20, a.y+a.height+5), fyne.TextAlignCenter, labelColor)
	}
}

func (r *scopeRenderer) drawTarget(a plotArea, target float32) {
	from := a.pos(0, target)
	to := a.pos(a.xMax, target)
	r.addLine(from, to, targetColor, 1)
}

// drawTrace draws one temperature curve. Disconnected readings break the line.
func (r *scopeRenderer) drawTrace(a plotArea, points []Point, c color.Color, value func(Point) float32) {
	for i := 1; i < len(points); i++ {
		v0, v1 := value(points[i-1]), value(points[i])
		if !finite(v0) || !finite(v1) {
			continue
		}
		r.addLine(a.pos(points[i-1].Elapsed, v0), a.pos(points[i].Elapsed, v1), c, 1.5)
	}
}

func (r *scopeRenderer) drawLegend(a plotArea) {
	r.addText("basket", fyne.NewPos(a.x+10, a.y+5), fyne.TextAlignLeading, basketColor)
	r.addText("group", fyne.NewPos(a.x+10, a.y+20), fyne.TextAlignLeading, groupColor)
}

func (r *scopeRenderer) addLine(from, to fyne.Position, c color.Color, width float32) {
	line := canvas.NewLine(c)
	line.Position1 = from
	line.Position2 = to
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

func (r *scopeRenderer) addText(s string, pos fyne.Position, align fyne.TextAlign, c color.Color) {
	text := canvas.NewText(s, c)
	text.TextSize = 10
	text.Alignment = align
	text.Move(pos)
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
