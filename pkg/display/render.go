// Package display formats the instrument readings and composes the
// 128x64 monochrome screen.
package display

import (
	"time"

	"github.com/itohio/espresso-shot/pkg/device"
)

// Screen layout, in pixels.
const (
	headerBaseline = 11
	ruleY          = 13
	valueBaseline  = 30
	timerY         = 40
	timerHeight    = Height - timerY
	timerBaseline  = 61
)

// Renderer composes the screen from the device state.
type Renderer struct {
	displayTime time.Duration
}

// NewRenderer creates a renderer that shows the target for displayTime after each change.
func NewRenderer(displayTime time.Duration) *Renderer {
	return &Renderer{displayTime: displayTime}
}

// ShowTarget reports whether the target replaces the live group reading.
func (r *Renderer) ShowTarget(st *device.State, now time.Duration) bool {
	return now-st.LastTargetChange <= r.displayTime
}

// Render draws the group (or target) and basket temperatures with the shot
// timer inverted in a band along the bottom.
func (r *Renderer) Render(c Canvas, st *device.State, now time.Duration) {
	c.Clear()

	label, group := "Group", st.GroupTemperature
	if r.ShowTarget(st, now) {
		label, group = "Target", st.TargetTemperature
	}

	c.DrawText(0, headerBaseline, label, Small, Set)
	drawRight(c, headerBaseline, "Basket", Small)
	c.DrawLine(0, ruleY, Width-1, ruleY)

	c.DrawText(0, valueBaseline, FormatTemperature(group), Small, Set)
	drawRight(c, valueBaseline, FormatTemperature(st.BasketTemperature), Small)

	c.DrawBox(0, timerY, Width, timerHeight)
	elapsed := FormatElapsedTime(st.Elapsed)
	x := (Width - c.TextWidth(elapsed, Large)) / 2
	c.DrawText(x, timerBaseline, elapsed, Large, XOR)
}

func drawRight(c Canvas, baseline int, s string, f Font) {
	c.DrawText(Width-c.TextWidth(s, f)-1, baseline, s, f, Set)
}
