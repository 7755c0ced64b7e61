// Package session implements the brew-session lifecycle and target adjustment.
package session

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/device"
)

// Directive is a side effect requested by a transition.
type Directive uint8

const (
	// None requests nothing.
	None Directive = iota
	// ResetTimer restarts the shot timer; issued exactly when entering START.
	ResetTimer
)

// Transition returns the next lifecycle state for the lever position.
//
//	STOPPED --up--> START --up--> RUNNING --down--> STOP --down--> STOPPED
//
// START also falls to STOP when the lever drops, and STOP re-enters START
// when it rises again.
func Transition(s device.MachineState, leverUp bool) (device.MachineState, Directive) {
	switch s {
	case device.Start, device.Running:
		if leverUp {
			return device.Running, None
		}
		return device.Stop, None
	case device.Stop, device.Stopped:
		if leverUp {
			return device.Start, ResetTimer
		}
		return device.Stopped, None
	default:
		// Unknown states settle as if idle.
		return device.Stopped, None
	}
}

// Inputs are the debounced operator inputs of one tick.
type Inputs struct {
	LeverUp  bool
	Increase bool // press edge
	Decrease bool // press edge
}

// Session owns the shot timer and the target group temperature.
type Session struct {
	target config.TargetConfig
}

// New creates a session bounded by the target configuration.
func New(target config.TargetConfig) *Session {
	return &Session{target: target}
}

// Update applies one tick of operator input to the state.
func (s *Session) Update(st *device.State, in Inputs, now time.Duration) {
	next, d := Transition(st.Machine, in.LeverUp)
	st.Machine = next
	if d == ResetTimer {
		st.StartTime = now
		st.Elapsed = 0
	}
	if st.Machine != device.Stopped {
		st.Elapsed = float32((now - st.StartTime).Seconds())
	}

	// One adjustment per tick; increase wins.
	if in.Increase {
		s.Increase(st, now)
	} else if in.Decrease {
		s.Decrease(st, now)
	}
}

// Increase raises the target by one step, saturating at the maximum.
func (s *Session) Increase(st *device.State, now time.Duration) {
	st.TargetTemperature = s.Clamp(st.TargetTemperature + s.target.Step)
	st.LastTargetChange = now
}

// Decrease lowers the target by one step, saturating at the minimum.
func (s *Session) Decrease(st *device.State, now time.Duration) {
	st.TargetTemperature = s.Clamp(st.TargetTemperature - s.target.Step)
	st.LastTargetChange = now
}

// SetTarget sets an absolute target. The change is only stamped when the
// clamped value differs, so a steady potentiometer does not hold the target
// on screen.
func (s *Session) SetTarget(st *device.State, t float32, now time.Duration) {
	t = s.Clamp(t)
	if t == st.TargetTemperature {
		return
	}
	st.TargetTemperature = t
	st.LastTargetChange = now
}

// Clamp snaps t to the step grid and bounds it to [Min, Max].
func (s *Session) Clamp(t float32) float32 {
	if math32.IsNaN(t) {
		return s.target.Default
	}
	steps := math32.Round((t - s.target.Min) / s.target.Step)
	t = s.target.Min + steps*s.target.Step
	if t < s.target.Min {
		return s.target.Min
	}
	if t > s.target.Max {
		return s.target.Max
	}
	return t
}

// TargetFromRaw maps a potentiometer code linearly onto [Min, Max].
func (s *Session) TargetFromRaw(raw int16) float32 {
	if s.target.RawMax <= 0 {
		return s.target.Min
	}
	frac := float32(raw) / float32(s.target.RawMax)
	return s.Clamp(s.target.Min + frac*(s.target.Max-s.target.Min))
}
