package hw

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/itohio/espresso-shot/pkg/clock"
	"github.com/itohio/espresso-shot/pkg/config"
)

// buttonHold is how long a simulated button press stays down.
const buttonHold = 100 * time.Millisecond

// Sim simulates an espresso machine fitted with the instrument: two
// thermistor dividers on the ADC, the lever tilt switch, the target buttons,
// the target potentiometer and the group cooling fan.
type Sim struct {
	cfg    config.SimConfig
	adc    config.ADCConfig
	basket config.ThermistorConfig
	group  config.ThermistorConfig
	clock  clock.Clock

	mu sync.Mutex

	// Simulation state
	lastUpdate  time.Duration
	basketTemp  float64 // °C
	groupTemp   float64 // °C
	leverUp     bool
	fanOn       bool
	targetRaw   int16
	increaseTil time.Duration
	decreaseTil time.Duration

	basketOpen bool
	groupOpen  bool
}

// NewSim creates a simulated machine at thermal equilibrium with the fan off and the lever down.
func NewSim(cfg *config.Config, c clock.Clock) *Sim {
	return &Sim{
		cfg:        cfg.Sim,
		adc:        cfg.ADC,
		basket:     cfg.Basket,
		group:      cfg.Group,
		clock:      c,
		lastUpdate: c.Now(),
		basketTemp: float64(cfg.Sim.Ambient),
		groupTemp:  float64(cfg.Sim.Boiler),
	}
}

// ReadRaw implements ADC.
func (s *Sim) ReadRaw(channel int) (int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.update()

	supply := float64(s.cfg.SupplyVoltage)
	var volts float64
	switch channel {
	case s.adc.ReferenceChannel:
		volts = supply
	case s.adc.BasketChannel:
		volts = s.dividerVoltage(s.basketTemp, s.basket, s.basketOpen)
	case s.adc.GroupChannel:
		volts = s.dividerVoltage(s.groupTemp, s.group, s.groupOpen)
	case s.adc.TargetChannel:
		return s.targetRaw, nil
	default:
		return 0, fmt.Errorf("sim: no input on channel %d", channel)
	}

	code := volts / float64(s.adc.LSB)
	if code > math.MaxInt16 {
		code = math.MaxInt16
	} else if code < 0 {
		code = 0
	}
	return int16(code), nil
}

// dividerVoltage returns the voltage across a thermistor at the given
// temperature, with the known resistor pulling up to the supply.
func (s *Sim) dividerVoltage(celsius float64, th config.ThermistorConfig, open bool) float64 {
	supply := float64(s.cfg.SupplyVoltage)
	if open {
		return supply
	}
	r := th.Coefficients.ResistanceAt(celsius)
	v := supply * r / (r + float64(s.cfg.KnownResistance))

	// Add deterministic noise
	t := float64(s.lastUpdate.Nanoseconds())
	noise := (math.Sin(t*0.001) + math.Cos(t*0.0013)) * float64(s.cfg.NoiseLevel) * 0.5
	return v + noise
}

// update advances the thermal model to the current clock time.
func (s *Sim) update() {
	now := s.clock.Now()
	dt := now - s.lastUpdate
	if dt <= 0 {
		return
	}
	s.lastUpdate = now

	groupEq := float64(s.cfg.Boiler)
	if s.fanOn {
		groupEq -= float64(s.cfg.FanCooling)
	}
	basketEq := float64(s.cfg.Ambient)
	if s.leverUp {
		basketEq = float64(s.cfg.Brew)
	}

	s.groupTemp = approach(s.groupTemp, groupEq, dt, s.cfg.GroupTau)
	s.basketTemp = approach(s.basketTemp, basketEq, dt, s.cfg.BasketTau)
}

// approach moves value toward target as a first-order lag with time constant tau.
func approach(value, target float64, dt, tau time.Duration) float64 {
	if tau <= 0 {
		return target
	}
	alpha := 1 - math.Exp(-dt.Seconds()/tau.Seconds())
	return value + alpha*(target-value)
}

// Tilt returns the lever tilt switch. The switch opens (Released) when the lever is up.
func (s *Sim) Tilt() LevelReader {
	return LevelFunc(func() (Level, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.leverUp {
			return Released, nil
		}
		return Pressed, nil
	})
}

// Increase returns the target increase button.
func (s *Sim) Increase() LevelReader {
	return LevelFunc(func() (Level, error) {
		return s.momentary(&s.increaseTil), nil
	})
}

// Decrease returns the target decrease button.
func (s *Sim) Decrease() LevelReader {
	return LevelFunc(func() (Level, error) {
		return s.momentary(&s.decreaseTil), nil
	})
}

func (s *Sim) momentary(until *time.Duration) Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock.Now() < *until {
		return Pressed
	}
	return Released
}

// Fan returns the fan output line.
func (s *Sim) Fan() Output {
	return OutputFunc(func(on bool) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.update()
		s.fanOn = on
		return nil
	})
}

// SetLever raises or lowers the brew lever.
func (s *Sim) SetLever(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update()
	s.leverUp = up
}

// LeverUp reports the lever position.
func (s *Sim) LeverUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leverUp
}

// PressIncrease holds the increase button down briefly.
func (s *Sim) PressIncrease() {
	s.mu.Lock()
	s.increaseTil = s.clock.Now() + buttonHold
	s.mu.Unlock()
}

// PressDecrease holds the decrease button down briefly.
func (s *Sim) PressDecrease() {
	s.mu.Lock()
	s.decreaseTil = s.clock.Now() + buttonHold
	s.mu.Unlock()
}

// SetTargetRaw sets the potentiometer wiper code.
func (s *Sim) SetTargetRaw(raw int16) {
	s.mu.Lock()
	s.targetRaw = raw
	s.mu.Unlock()
}

// Disconnect opens (true) or reconnects (false) a thermistor.
func (s *Sim) Disconnect(basket, group bool) {
	s.mu.Lock()
	s.basketOpen = basket
	s.groupOpen = group
	s.mu.Unlock()
}

// Temperatures returns the true simulated basket and group temperatures.
func (s *Sim) Temperatures() (basket, group float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update()
	return s.basketTemp, s.groupTemp
}

// FanOn reports the last fan command.
func (s *Sim) FanOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fanOn
}
