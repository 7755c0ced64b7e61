// Package sampler takes one resistance reading per thermistor per tick into
// the device buffers and re-derives the averaged temperatures.
package sampler

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/hw"
	"github.com/itohio/espresso-shot/pkg/thermistor"
)

// Sampler reads both thermistor dividers through the ADC.
type Sampler struct {
	adc    hw.ADC
	ch     config.ADCConfig
	basket config.ThermistorConfig
	group  config.ThermistorConfig
}

// New creates a sampler for the configured channels and thermistors.
func New(adc hw.ADC, cfg *config.Config) *Sampler {
	return &Sampler{
		adc:    adc,
		ch:     cfg.ADC,
		basket: cfg.Basket,
		group:  cfg.Group,
	}
}

// Read takes one best-effort resistance reading of each thermistor.
// A failed conversion reads as an open sensor (+Inf).
func (s *Sampler) Read() (basket, group float32) {
	ref, err := s.volts(s.ch.ReferenceChannel)
	if err != nil {
		return math32.Inf(1), math32.Inf(1)
	}
	basket = s.resistance(ref, s.ch.BasketChannel, s.basket.KnownResistance)
	group = s.resistance(ref, s.ch.GroupChannel, s.group.KnownResistance)
	return basket, group
}

func (s *Sampler) resistance(ref float32, channel int, known float32) float32 {
	v, err := s.volts(channel)
	if err != nil {
		return math32.Inf(1)
	}
	return thermistor.Resistance(ref, v, known)
}

func (s *Sampler) volts(channel int) (float32, error) {
	raw, err := s.adc.ReadRaw(channel)
	if err != nil {
		return 0, err
	}
	return thermistor.Voltage(raw, s.ch.LSB), nil
}

// Seed creates the device state with both buffers filled from one live reading.
func (s *Sampler) Seed(target float32, now time.Duration) *device.State {
	basket, group := s.Read()
	st := device.New(basket, group, target, now)
	s.update(st)
	return st
}

// Tick advances the cursor, stores a fresh reading of each thermistor and
// recomputes both temperatures from the full buffer averages.
func (s *Sampler) Tick(st *device.State, now time.Duration) {
	st.LatestIndex = (st.LatestIndex + 1) % device.BufferSize
	st.Basket[st.LatestIndex], st.Group[st.LatestIndex] = s.Read()
	st.LastSample = now
	s.update(st)
}

func (s *Sampler) update(st *device.State) {
	st.BasketTemperature = s.basket.Coefficients.Temperature(st.Basket.Mean())
	st.GroupTemperature = s.group.Coefficients.Temperature(st.Group.Mean())
}
