package scope

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsample_NoDownsampling(t *testing.T) {
	points := []Point{
		{Elapsed: 0, Basket: 90, Group: 93},
		{Elapsed: 0.1, Basket: 90.5, Group: 93},
		{Elapsed: 0.2, Basket: 91, Group: 93.1},
	}

	result := Downsample(nil, points, 10)
	require.Equal(t, points, result)

	dst := make([]Point, 0, 10)
	result = Downsample(dst, points, 10)
	require.Equal(t, points, result)
	// Should reuse dst
	assert.Equal(t, cap(dst), cap(result))
}

func TestDownsample_WithDownsampling(t *testing.T) {
	points := make([]Point, 100)
	for i := range points {
		points[i] = Point{Elapsed: float32(i) * 0.1, Basket: float32(i)}
	}

	dst := make([]Point, 0, 20)
	result := Downsample(dst, points, 10)
	require.Len(t, result, 10)
	assert.Equal(t, points[0], result[0])
	assert.Equal(t, points[90], result[9])
	assert.Equal(t, cap(dst), cap(result))

	// Too small dst allocates
	result = Downsample(make([]Point, 0, 2), points, 10)
	require.Len(t, result, 10)
}

func TestBounds(t *testing.T) {
	points := []Point{
		{Elapsed: 0, Basket: 80, Group: 92},
		{Elapsed: 45, Basket: 90, Group: math32.Inf(1)},
		{Elapsed: 46, Basket: math32.NaN(), Group: 94},
	}

	yMin, yMax, xMax := Bounds(points, math32.NaN(), 30)
	assert.InDelta(t, 80-1.4, yMin, 1e-4)
	assert.InDelta(t, 94+1.4, yMax, 1e-4)
	assert.Equal(t, float32(46), xMax)

	// The target widens the range
	yMin, yMax, _ = Bounds(points, 98, 30)
	assert.InDelta(t, 80-1.8, yMin, 1e-4)
	assert.InDelta(t, 98+1.8, yMax, 1e-4)
}

func TestBounds_Empty(t *testing.T) {
	yMin, yMax, xMax := Bounds(nil, math32.NaN(), 30)
	assert.Equal(t, float32(0), yMin)
	assert.Equal(t, float32(100), yMax)
	assert.Equal(t, float32(30), xMax)
}

func TestBounds_FlatTrace(t *testing.T) {
	points := []Point{{Elapsed: 1, Basket: 93, Group: 93}}
	yMin, yMax, _ := Bounds(points, math32.NaN(), 30)
	assert.InDelta(t, 92.9, yMin, 1e-4)
	assert.InDelta(t, 93.1, yMax, 1e-4)
}
