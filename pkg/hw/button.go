package hw

import (
	"time"

	"github.com/itohio/espresso-shot/pkg/clock"
)

// Button debounces a LevelReader and reports press edges.
// A raw level must hold for the debounce duration before it becomes stable.
type Button struct {
	in       LevelReader
	clock    clock.Clock
	debounce time.Duration

	stable       Level
	pending      Level
	pendingSince time.Duration
	hasPending   bool
	pressedEdge  bool
	lastErr      error
}

// NewButton creates a debounced button whose stable level starts at the
// current input level, so a switch held at boot does not report a press.
func NewButton(in LevelReader, c clock.Clock, debounce time.Duration) *Button {
	b := &Button{
		in:       in,
		clock:    c,
		debounce: debounce,
	}
	b.stable, b.lastErr = in.Level()
	if b.lastErr != nil {
		b.stable = Released
	}
	return b
}

// Pressed reports whether the button became pressed since the previous call.
func (b *Button) Pressed() bool {
	b.poll()
	edge := b.pressedEdge
	b.pressedEdge = false
	return edge
}

// Read returns the debounced level.
func (b *Button) Read() Level {
	b.poll()
	return b.stable
}

// Err returns the last read error, if any. A failed read keeps the previous level.
func (b *Button) Err() error {
	return b.lastErr
}

func (b *Button) poll() {
	raw, err := b.in.Level()
	b.lastErr = err
	if err != nil {
		return
	}
	now := b.clock.Now()

	if raw == b.stable {
		b.hasPending = false
		return
	}

	if !b.hasPending || raw != b.pending {
		b.pending = raw
		b.pendingSince = now
		b.hasPending = true
	}

	if now-b.pendingSince >= b.debounce {
		b.stable = raw
		b.hasPending = false
		if raw == Pressed {
			b.pressedEdge = true
		}
	}
}
