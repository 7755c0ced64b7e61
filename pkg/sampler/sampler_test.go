package sampler

import (
	"errors"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/espresso-shot/pkg/config"
	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/hw"
)

// Codes for a 5V reference and a thermistor equal to the known resistor (half supply).
const (
	refCode  int16 = 26667
	halfCode int16 = 13333
)

func newSampler(t *testing.T) (*Sampler, *hw.FakeADC, *config.Config) {
	t.Helper()
	cfg := config.Default()
	adc := hw.NewFakeADC(map[int]int16{
		cfg.ADC.ReferenceChannel: refCode,
		cfg.ADC.BasketChannel:    halfCode,
		cfg.ADC.GroupChannel:     halfCode,
	})
	return New(adc, cfg), adc, cfg
}

func TestRead(t *testing.T) {
	s, _, cfg := newSampler(t)

	basket, group := s.Read()
	assert.InDelta(t, cfg.Basket.KnownResistance, basket, 2)
	assert.InDelta(t, cfg.Group.KnownResistance, group, 2)
}

func TestReadErrors(t *testing.T) {
	t.Run("reference", func(t *testing.T) {
		s, adc, cfg := newSampler(t)
		adc.Errors[cfg.ADC.ReferenceChannel] = errors.New("nack")

		basket, group := s.Read()
		assert.True(t, math32.IsInf(basket, 1))
		assert.True(t, math32.IsInf(group, 1))
	})

	t.Run("one channel", func(t *testing.T) {
		s, adc, cfg := newSampler(t)
		adc.Errors[cfg.ADC.GroupChannel] = errors.New("nack")

		basket, group := s.Read()
		assert.False(t, math32.IsInf(basket, 0))
		assert.True(t, math32.IsInf(group, 1))
	})
}

func TestSeed(t *testing.T) {
	s, _, _ := newSampler(t)

	st := s.Seed(93, 5*time.Second)
	assert.Equal(t, device.Stopped, st.Machine)
	assert.Equal(t, device.BufferSize-1, st.LatestIndex)
	assert.Equal(t, float32(93), st.TargetTemperature)
	for i := range st.Basket {
		require.Equal(t, st.Basket[0], st.Basket[i])
		require.Equal(t, st.Group[0], st.Group[i])
	}
	assert.Equal(t, s.basket.Coefficients.Temperature(st.Basket[0]), st.BasketTemperature)
	assert.Equal(t, s.group.Coefficients.Temperature(st.Group[0]), st.GroupTemperature)
}

func TestTickAdvancesCursor(t *testing.T) {
	s, _, _ := newSampler(t)
	st := s.Seed(93, 0)

	s.Tick(st, 10*time.Millisecond)
	assert.Equal(t, 0, st.LatestIndex, "cursor wraps to the first slot")
	assert.Equal(t, 10*time.Millisecond, st.LastSample)

	for i := 0; i < 3*device.BufferSize; i++ {
		s.Tick(st, 0)
		require.GreaterOrEqual(t, st.LatestIndex, 0)
		require.Less(t, st.LatestIndex, device.BufferSize)
	}
}

func TestConstantResistanceConverges(t *testing.T) {
	s, adc, cfg := newSampler(t)
	st := s.Seed(93, 0)

	// Thermistor at one third of the known resistor.
	adc.Set(cfg.ADC.BasketChannel, refCode/4)
	for i := 0; i < device.BufferSize; i++ {
		s.Tick(st, 0)
	}

	r := st.LatestBasket()
	for i := range st.Basket {
		require.Equal(t, r, st.Basket[i])
	}
	assert.InDelta(t, r, st.Basket.Mean(), 1e-3)
	assert.InDelta(t, cfg.Basket.KnownResistance/3, r, 2)
	assert.InDelta(t, cfg.Basket.Coefficients.Temperature(r), st.BasketTemperature, 1e-4)
}

func TestTransientOpenSensorAgesOut(t *testing.T) {
	s, adc, cfg := newSampler(t)
	st := s.Seed(93, 0)
	good := st.GroupTemperature

	// One open reading: channel equals the reference.
	adc.Set(cfg.ADC.GroupChannel, refCode)
	s.Tick(st, 0)
	require.True(t, math32.IsInf(st.LatestGroup(), 1))
	assert.LessOrEqual(t, st.GroupTemperature, float32(-273), "an open sample poisons the average")

	adc.Set(cfg.ADC.GroupChannel, halfCode)
	for i := 1; i < device.BufferSize; i++ {
		s.Tick(st, 0)
		require.LessOrEqual(t, st.GroupTemperature, float32(-273), "tick %d: still inside the window", i)
	}

	s.Tick(st, 0)
	assert.InDelta(t, good, st.GroupTemperature, 1e-3, "gone after a full rotation")
	assert.InDelta(t, good, st.BasketTemperature, 1e-3)
}
