package fan

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/hw"
)

func TestShouldCool(t *testing.T) {
	tests := []struct {
		name    string
		current float32
		target  float32
		want    bool
	}{
		{"above", 80.1, 80.0, true},
		{"below", 79.9, 80.0, false},
		{"equal", 80.0, 80.0, false},
		{"no sensor", -273.15, 80.0, false},
		{"nan", math32.NaN(), 80.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldCool(tt.current, tt.target))
		})
	}
}

func TestApply(t *testing.T) {
	out := &hw.FakeOutput{}
	c := New(out)
	st := device.New(10000, 10000, 93, 0)

	st.GroupTemperature = 95
	require.NoError(t, c.Apply(st))
	assert.True(t, st.Cooling)

	st.GroupTemperature = 93
	require.NoError(t, c.Apply(st))
	assert.False(t, st.Cooling)

	assert.Equal(t, []bool{true, false}, out.Values)
}

func TestApplyOutputError(t *testing.T) {
	out := &hw.FakeOutput{Err: errors.New("line busy")}
	c := New(out)
	st := device.New(10000, 10000, 93, 0)
	st.GroupTemperature = 95

	err := c.Apply(st)
	assert.Error(t, err)
	assert.True(t, st.Cooling, "the decision is kept even when the line write fails")
}
