// Package clock provides the monotonic time source that gates periodic work.
package clock

import (
	"sync"
	"time"
)

// Clock reports monotonic time as the duration since the clock was started.
type Clock interface {
	Now() time.Duration
}

// System is a Clock backed by the runtime's monotonic clock.
type System struct {
	start time.Time
}

// NewSystem creates a clock whose zero is the moment of the call.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (s *System) Now() time.Duration {
	return time.Since(s.start)
}

// Fake is a manually advanced Clock for tests and simulations.
type Fake struct {
	mu  sync.Mutex
	now time.Duration
}

// NewFake creates a fake clock reading start.
func NewFake(start time.Duration) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake time forward by d and returns the new time.
func (f *Fake) Advance(d time.Duration) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += d
	return f.now
}

// Set jumps the fake time to t.
func (f *Fake) Set(t time.Duration) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
