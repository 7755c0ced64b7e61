package main

import (
	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/scope"
)

// shotTrace accumulates the temperatures of the current shot from display
// refreshes. The previous shot stays visible until the next one starts.
type shotTrace struct {
	points []scope.Point
	active bool
}

// add records st and reports whether the trace changed.
func (t *shotTrace) add(st device.State) bool {
	switch st.Machine {
	case device.Start, device.Running:
		if !t.active {
			t.active = true
			t.points = t.points[:0]
		}
		t.points = append(t.points, scope.Point{
			Elapsed: st.Elapsed,
			Basket:  st.BasketTemperature,
			Group:   st.GroupTemperature,
		})
		return true
	default:
		t.active = false
		return false
	}
}

// snapshot returns a copy safe to hand to the UI thread.
func (t *shotTrace) snapshot() []scope.Point {
	out := make([]scope.Point, len(t.points))
	copy(out, t.points)
	return out
}
