package hw

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/espresso-shot/pkg/clock"
)

func TestButtonDebounce(t *testing.T) {
	clk := clock.NewFake(0)
	in := &FakeLevel{}
	b := NewButton(in, clk, 20*time.Millisecond)

	assert.False(t, b.Pressed())
	assert.Equal(t, Released, b.Read())

	in.Set(Pressed)
	assert.False(t, b.Pressed(), "a fresh level is not stable yet")

	clk.Advance(10 * time.Millisecond)
	assert.False(t, b.Pressed())

	clk.Advance(10 * time.Millisecond)
	assert.True(t, b.Pressed(), "level held for the debounce time")
	assert.False(t, b.Pressed(), "the edge is consumed")
	assert.Equal(t, Pressed, b.Read())
}

func TestButtonBounceRestartsTimer(t *testing.T) {
	clk := clock.NewFake(0)
	in := &FakeLevel{}
	b := NewButton(in, clk, 20*time.Millisecond)

	in.Set(Pressed)
	b.Read()
	clk.Advance(15 * time.Millisecond)
	in.Set(Released)
	b.Read()
	clk.Advance(5 * time.Millisecond)
	in.Set(Pressed)
	assert.False(t, b.Pressed())

	clk.Advance(15 * time.Millisecond)
	assert.False(t, b.Pressed(), "bounce restarted the debounce window")

	clk.Advance(5 * time.Millisecond)
	assert.True(t, b.Pressed())
}

func TestButtonReleaseHasNoEdge(t *testing.T) {
	clk := clock.NewFake(0)
	in := &FakeLevel{}
	b := NewButton(in, clk, 0)

	in.Set(Pressed)
	assert.True(t, b.Pressed())

	in.Set(Released)
	assert.False(t, b.Pressed())
	assert.Equal(t, Released, b.Read())
}

func TestButtonReadError(t *testing.T) {
	clk := clock.NewFake(0)
	in := &FakeLevel{}
	b := NewButton(in, clk, 0)

	in.Set(Pressed)
	require.Equal(t, Pressed, b.Read())

	boom := errors.New("line gone")
	in.SetError(boom)
	in.Set(Released)
	assert.Equal(t, Pressed, b.Read(), "a failed read keeps the previous level")
	assert.ErrorIs(t, b.Err(), boom)

	in.SetError(nil)
	assert.Equal(t, Released, b.Read())
	assert.NoError(t, b.Err())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "PRESSED", Pressed.String())
	assert.Equal(t, "RELEASED", Released.String())
}

func TestButtonHeldAtStart(t *testing.T) {
	clk := clock.NewFake(0)
	in := &FakeLevel{}
	in.Set(Pressed)
	b := NewButton(in, clk, 20*time.Millisecond)

	assert.Equal(t, Pressed, b.Read())
	assert.False(t, b.Pressed(), "no edge for a switch already closed at boot")
}
