package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_Advance(t *testing.T) {
	c := NewFake(time.Second)
	assert.Equal(t, time.Second, c.Now())

	assert.Equal(t, 1010*time.Millisecond, c.Advance(10*time.Millisecond))
	assert.Equal(t, 1010*time.Millisecond, c.Now())

	c.Set(5 * time.Second)
	assert.Equal(t, 5*time.Second, c.Now())
}

func TestSystem_Monotonic(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
	assert.GreaterOrEqual(t, a, time.Duration(0))
}
