package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/espresso-shot/pkg/clock"
	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/thermistor"
)

func newQuietSim(t *testing.T) (*Sim, *clock.Fake, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Sim.NoiseLevel = 0
	clk := clock.NewFake(0)
	return NewSim(cfg, clk), clk, cfg
}

// measure converts the simulated ADC codes back into a temperature the way the sampler does.
func measure(t *testing.T, s *Sim, cfg *config.Config, channel int, th config.ThermistorConfig) float32 {
	t.Helper()
	ref, err := s.ReadRaw(cfg.ADC.ReferenceChannel)
	require.NoError(t, err)
	ch, err := s.ReadRaw(channel)
	require.NoError(t, err)

	r := thermistor.Resistance(
		thermistor.Voltage(ref, cfg.ADC.LSB),
		thermistor.Voltage(ch, cfg.ADC.LSB),
		th.KnownResistance,
	)
	return th.Coefficients.Temperature(r)
}

func TestSimEquilibrium(t *testing.T) {
	s, _, cfg := newQuietSim(t)

	basket := measure(t, s, cfg, cfg.ADC.BasketChannel, cfg.Basket)
	group := measure(t, s, cfg, cfg.ADC.GroupChannel, cfg.Group)

	assert.InDelta(t, cfg.Sim.Ambient, basket, 0.5)
	assert.InDelta(t, cfg.Sim.Boiler, group, 0.5)
}

func TestSimLeverHeatsBasket(t *testing.T) {
	s, clk, cfg := newQuietSim(t)

	s.SetLever(true)
	clk.Advance(10 * cfg.Sim.BasketTau)

	basket, _ := s.Temperatures()
	assert.InDelta(t, float64(cfg.Sim.Brew), basket, 0.1)
	assert.InDelta(t, cfg.Sim.Brew, measure(t, s, cfg, cfg.ADC.BasketChannel, cfg.Basket), 0.5)

	s.SetLever(false)
	clk.Advance(10 * cfg.Sim.BasketTau)
	basket, _ = s.Temperatures()
	assert.InDelta(t, float64(cfg.Sim.Ambient), basket, 0.1)
}

func TestSimFanCoolsGroup(t *testing.T) {
	s, clk, cfg := newQuietSim(t)

	require.NoError(t, s.Fan().Set(true))
	assert.True(t, s.FanOn())

	clk.Advance(cfg.Sim.GroupTau)
	_, group := s.Temperatures()
	assert.Less(t, group, float64(cfg.Sim.Boiler))
	assert.Greater(t, group, float64(cfg.Sim.Boiler-cfg.Sim.FanCooling))

	clk.Advance(10 * cfg.Sim.GroupTau)
	_, group = s.Temperatures()
	assert.InDelta(t, float64(cfg.Sim.Boiler-cfg.Sim.FanCooling), group, 0.1)
}

func TestSimTilt(t *testing.T) {
	s, _, _ := newQuietSim(t)
	tilt := s.Tilt()

	l, err := tilt.Level()
	require.NoError(t, err)
	assert.Equal(t, Pressed, l, "switch closed with the lever down")

	s.SetLever(true)
	assert.True(t, s.LeverUp())
	l, err = tilt.Level()
	require.NoError(t, err)
	assert.Equal(t, Released, l)
}

func TestSimMomentaryButtons(t *testing.T) {
	s, clk, _ := newQuietSim(t)
	inc, dec := s.Increase(), s.Decrease()

	s.PressIncrease()
	l, _ := inc.Level()
	assert.Equal(t, Pressed, l)
	l, _ = dec.Level()
	assert.Equal(t, Released, l)

	clk.Advance(buttonHold)
	l, _ = inc.Level()
	assert.Equal(t, Released, l)

	s.PressDecrease()
	l, _ = dec.Level()
	assert.Equal(t, Pressed, l)
}

func TestSimDisconnect(t *testing.T) {
	s, _, cfg := newQuietSim(t)
	s.Disconnect(true, false)

	ref, err := s.ReadRaw(cfg.ADC.ReferenceChannel)
	require.NoError(t, err)
	basket, err := s.ReadRaw(cfg.ADC.BasketChannel)
	require.NoError(t, err)
	assert.Equal(t, ref, basket)

	assert.LessOrEqual(t, measure(t, s, cfg, cfg.ADC.BasketChannel, cfg.Basket), float32(-273))
	assert.InDelta(t, cfg.Sim.Boiler, measure(t, s, cfg, cfg.ADC.GroupChannel, cfg.Group), 0.5)
}

func TestSimTargetChannel(t *testing.T) {
	s, _, cfg := newQuietSim(t)
	s.SetTargetRaw(13200)

	raw, err := s.ReadRaw(cfg.ADC.TargetChannel)
	require.NoError(t, err)
	assert.Equal(t, int16(13200), raw)

	_, err = s.ReadRaw(7)
	assert.Error(t, err)
}

func TestSimIdleWithoutTime(t *testing.T) {
	s, _, cfg := newQuietSim(t)
	s.SetLever(true)

	basket, _ := s.Temperatures()
	assert.Equal(t, float64(cfg.Sim.Ambient), basket, "no time has passed")
}
