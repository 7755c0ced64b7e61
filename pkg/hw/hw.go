// Package hw adapts the instrument's hardware collaborators: the ADC, the
// lever and target switches, the fan line and the OLED panel.
//
// Linux builds talk to real hardware through i2c-dev and the GPIO character
// device. Sim and the fakes provide the same interfaces without hardware.
package hw

import "errors"

// ErrUnsupported is returned by hardware constructors on platforms without i2c-dev or GPIO cdev.
var ErrUnsupported = errors.New("hw: not supported on this platform (requires Linux)")

// ADC performs synchronous single-ended conversions.
type ADC interface {
	// ReadRaw returns the signed conversion code of the given input channel.
	ReadRaw(channel int) (int16, error)
}

// Level is the debounced or raw state of a switch.
type Level uint8

const (
	Released Level = iota
	Pressed
)

// String returns the level name.
func (l Level) String() string {
	if l == Pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// LevelReader samples the raw level of a switch input.
type LevelReader interface {
	Level() (Level, error)
}

// LevelFunc adapts a function to LevelReader.
type LevelFunc func() (Level, error)

// Level calls f.
func (f LevelFunc) Level() (Level, error) {
	return f()
}

// Output drives a digital output line by its logical state.
type Output interface {
	Set(on bool) error
}

// OutputFunc adapts a function to Output.
type OutputFunc func(on bool) error

// Set calls f.
func (f OutputFunc) Set(on bool) error {
	return f(on)
}

// Panel flushes a page-ordered 1bpp frame to a display.
type Panel interface {
	Flush(pages []byte) error
	Close() error
}
