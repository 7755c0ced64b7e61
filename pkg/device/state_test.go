package device

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New(10000, 12000, 92, time.Second)

	assert.Equal(t, Stopped, s.Machine)
	assert.Equal(t, BufferSize-1, s.LatestIndex)
	assert.Equal(t, float32(92), s.TargetTemperature)
	assert.Equal(t, time.Second, s.StartTime)
	assert.Equal(t, time.Second, s.LastTargetChange)
	assert.Equal(t, float32(0), s.Elapsed)
	for i := 0; i < BufferSize; i++ {
		assert.Equal(t, float32(10000), s.Basket[i])
		assert.Equal(t, float32(12000), s.Group[i])
	}
	assert.Equal(t, float32(10000), s.LatestBasket())
	assert.Equal(t, float32(12000), s.LatestGroup())
}

func TestBuffer_Mean(t *testing.T) {
	var b Buffer
	b.Fill(500)
	assert.InDelta(t, 500, b.Mean(), 1e-3)

	for i := range b {
		b[i] = float32(i)
	}
	assert.InDelta(t, 49.5, b.Mean(), 1e-3)

	b[3] = float32(math.Inf(1))
	assert.True(t, math.IsInf(float64(b.Mean()), 1))
}

func TestMachineState_String(t *testing.T) {
	assert.Equal(t, "START", Start.String())
	assert.Equal(t, "RUNNING", Running.String())
	assert.Equal(t, "STOP", Stop.String())
	assert.Equal(t, "STOPPED", Stopped.String())
	assert.Equal(t, "MachineState(9)", MachineState(9).String())
	assert.True(t, Stopped.Valid())
	assert.False(t, MachineState(4).Valid())
}
