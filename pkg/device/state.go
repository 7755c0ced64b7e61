// Package device holds the shared aggregate every stage of a control tick reads and mutates.
package device

import (
	"fmt"
	"time"
)

// BufferSize is the number of samples averaged per thermistor (one second at 100 Hz).
const BufferSize = 100

// MachineState is the brew-session lifecycle state.
type MachineState uint8

const (
	Start MachineState = iota
	Running
	Stop
	Stopped
)

// String returns the upper-case state name.
func (s MachineState) String() string {
	switch s {
	case Start:
		return "START"
	case Running:
		return "RUNNING"
	case Stop:
		return "STOP"
	case Stopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("MachineState(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the four lifecycle states.
func (s MachineState) Valid() bool {
	return s <= Stopped
}

// Buffer is a preallocated, always-full window of resistance samples.
// Writes go through the State's rotating cursor; the array is never reallocated.
type Buffer [BufferSize]float32

// Fill sets every slot to v.
func (b *Buffer) Fill(v float32) {
	for i := range b {
		b[i] = v
	}
}

// Mean re-sums the whole window. A non-finite sample poisons the mean only
// while it remains inside the window.
func (b *Buffer) Mean() float32 {
	var sum float64
	for _, v := range b {
		sum += float64(v)
	}
	return float32(sum / BufferSize)
}

// State is the single mutable aggregate of the instrument. Times are
// monotonic durations since boot.
type State struct {
	Machine MachineState

	Basket      Buffer
	Group       Buffer
	LatestIndex int

	BasketTemperature float32
	GroupTemperature  float32
	TargetTemperature float32

	// Cooling is the last decision of the fan controller.
	Cooling bool

	StartTime time.Duration
	Elapsed   float32 // seconds

	LastTargetChange   time.Duration
	LastDisplayRefresh time.Duration
	LastSample         time.Duration
}

// New creates the device state with both buffers seeded from a first live
// reading. The cursor points at the last slot so the next sample lands on 0.
func New(basket, group, target float32, now time.Duration) *State {
	s := &State{
		Machine:            Stopped,
		LatestIndex:        BufferSize - 1,
		TargetTemperature:  target,
		StartTime:          now,
		LastTargetChange:   now,
		LastDisplayRefresh: now,
		LastSample:         now,
	}
	s.Basket.Fill(basket)
	s.Group.Fill(group)
	return s
}

// LatestBasket returns the most recently written basket resistance.
func (s *State) LatestBasket() float32 {
	return s.Basket[s.LatestIndex]
}

// LatestGroup returns the most recently written group resistance.
func (s *State) LatestGroup() float32 {
	return s.Group[s.LatestIndex]
}
