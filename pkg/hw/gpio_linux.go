//go:build linux

package hw

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/itohio/espresso-shot/pkg/config"
)

// GPIO holds the switch inputs and the fan output on a Linux GPIO chip.
// Switches are wired to ground with pull-ups, so they are requested active-low.
type GPIO struct {
	chip     *gpiocdev.Chip
	tilt     *gpiocdev.Line
	increase *gpiocdev.Line
	decrease *gpiocdev.Line
	fan      *gpiocdev.Line
}

// NewGPIO requests the configured lines.
func NewGPIO(cfg config.GPIOConfig) (*GPIO, error) {
	chip, err := gpiocdev.NewChip(cfg.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	g := &GPIO{chip: chip}

	input := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow}
	if g.tilt, err = chip.RequestLine(cfg.TiltLine, input...); err != nil {
		g.Close()
		return nil, fmt.Errorf("request tilt line %d: %w", cfg.TiltLine, err)
	}
	if g.increase, err = chip.RequestLine(cfg.IncreaseLine, input...); err != nil {
		g.Close()
		return nil, fmt.Errorf("request increase line %d: %w", cfg.IncreaseLine, err)
	}
	if g.decrease, err = chip.RequestLine(cfg.DecreaseLine, input...); err != nil {
		g.Close()
		return nil, fmt.Errorf("request decrease line %d: %w", cfg.DecreaseLine, err)
	}

	// Start with the fan off.
	output := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if !cfg.FanActiveHigh {
		output = append(output, gpiocdev.AsActiveLow)
	}
	if g.fan, err = chip.RequestLine(cfg.FanLine, output...); err != nil {
		g.Close()
		return nil, fmt.Errorf("request fan line %d: %w", cfg.FanLine, err)
	}

	return g, nil
}

// Tilt returns the lever tilt switch.
func (g *GPIO) Tilt() LevelReader { return lineLevel(g.tilt) }

// Increase returns the target increase button.
func (g *GPIO) Increase() LevelReader { return lineLevel(g.increase) }

// Decrease returns the target decrease button.
func (g *GPIO) Decrease() LevelReader { return lineLevel(g.decrease) }

// Fan returns the fan output.
func (g *GPIO) Fan() Output {
	return OutputFunc(func(on bool) error {
		v := 0
		if on {
			v = 1
		}
		if err := g.fan.SetValue(v); err != nil {
			return fmt.Errorf("set fan line: %w", err)
		}
		return nil
	})
}

func lineLevel(l *gpiocdev.Line) LevelReader {
	return LevelFunc(func() (Level, error) {
		v, err := l.Value()
		if err != nil {
			return Released, fmt.Errorf("read line: %w", err)
		}
		if v == 1 {
			return Pressed, nil
		}
		return Released, nil
	})
}

// Close turns the fan off and releases all lines.
func (g *GPIO) Close() error {
	var errs []error

	if g.fan != nil {
		if err := g.fan.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("fan off: %w", err))
		}
	}
	for _, l := range []*gpiocdev.Line{g.tilt, g.increase, g.decrease, g.fan} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
