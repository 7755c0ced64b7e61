//go:build !linux

package hw

import "github.com/itohio/espresso-shot/pkg/config"

// ADS1115 is not available on non-Linux platforms.
type ADS1115 struct{}

// NewADS1115 returns ErrUnsupported on non-Linux platforms.
func NewADS1115(bus string, addr uint16) (*ADS1115, error) {
	return nil, ErrUnsupported
}

// ReadRaw is not implemented on non-Linux platforms.
func (a *ADS1115) ReadRaw(channel int) (int16, error) { return 0, ErrUnsupported }

// Close is a no-op on non-Linux platforms.
func (a *ADS1115) Close() error { return nil }

// SSD1306 is not available on non-Linux platforms.
type SSD1306 struct{}

// NewSSD1306 returns ErrUnsupported on non-Linux platforms.
func NewSSD1306(bus string, addr uint16) (*SSD1306, error) {
	return nil, ErrUnsupported
}

// Flush is not implemented on non-Linux platforms.
func (p *SSD1306) Flush(pages []byte) error { return ErrUnsupported }

// Close is a no-op on non-Linux platforms.
func (p *SSD1306) Close() error { return nil }

// GPIO is not available on non-Linux platforms.
type GPIO struct{}

// NewGPIO returns ErrUnsupported on non-Linux platforms.
func NewGPIO(cfg config.GPIOConfig) (*GPIO, error) {
	return nil, ErrUnsupported
}

// Tilt is not implemented on non-Linux platforms.
func (g *GPIO) Tilt() LevelReader { return unsupportedLevel }

// Increase is not implemented on non-Linux platforms.
func (g *GPIO) Increase() LevelReader { return unsupportedLevel }

// Decrease is not implemented on non-Linux platforms.
func (g *GPIO) Decrease() LevelReader { return unsupportedLevel }

// Fan is not implemented on non-Linux platforms.
func (g *GPIO) Fan() Output {
	return OutputFunc(func(bool) error { return ErrUnsupported })
}

// Close is a no-op on non-Linux platforms.
func (g *GPIO) Close() error { return nil }

var unsupportedLevel = LevelFunc(func() (Level, error) { return Released, ErrUnsupported })
