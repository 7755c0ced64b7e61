package display

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func litPixels(f *Frame, x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if f.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestFramePageLayout(t *testing.T) {
	f := NewFrame()
	f.Set(3, 10, color.White)

	assert.True(t, f.Pixel(3, 10))
	pages := f.Pages()
	require.Len(t, pages, Width*Pages)
	assert.Equal(t, byte(1<<2), pages[1*Width+3])

	f.Set(3, 10, color.Black)
	assert.False(t, f.Pixel(3, 10))
	assert.Equal(t, 0, litPixels(f, 0, 0, Width, Height))
}

func TestFrameOutOfBounds(t *testing.T) {
	f := NewFrame()
	f.Set(-1, 0, color.White)
	f.Set(Width, 0, color.White)
	f.Set(0, Height, color.White)

	assert.False(t, f.Pixel(-1, 0))
	assert.Equal(t, 0, litPixels(f, 0, 0, Width, Height))
}

func TestFramePagesIsCopy(t *testing.T) {
	f := NewFrame()
	pages := f.Pages()
	pages[0] = 0xff
	assert.False(t, f.Pixel(0, 0))
}

func TestFrameBoxAndClear(t *testing.T) {
	f := NewFrame()
	f.DrawBox(10, 20, 5, 4)

	assert.Equal(t, 20, litPixels(f, 0, 0, Width, Height))
	assert.True(t, f.Pixel(10, 20))
	assert.True(t, f.Pixel(14, 23))
	assert.False(t, f.Pixel(15, 23))

	f.Clear()
	assert.Equal(t, 0, litPixels(f, 0, 0, Width, Height))
}

func TestFrameLines(t *testing.T) {
	f := NewFrame()
	f.DrawLine(0, 13, Width-1, 13)
	assert.Equal(t, Width, litPixels(f, 0, 0, Width, Height))

	f.Clear()
	f.DrawLine(5, 0, 5, 9)
	assert.Equal(t, 10, litPixels(f, 0, 0, Width, Height))

	f.Clear()
	f.DrawLine(7, 7, 0, 0)
	assert.Equal(t, 8, litPixels(f, 0, 0, Width, Height))
	for i := 0; i < 8; i++ {
		assert.True(t, f.Pixel(i, i))
	}
}

func TestFrameText(t *testing.T) {
	f := NewFrame()
	assert.Equal(t, 42, f.TextWidth("Basket", Small))
	assert.Equal(t, 98, f.TextWidth("00:00.0", Large))

	f.DrawText(0, 11, "8", Small, Set)
	small := litPixels(f, 0, 0, Width, Height)
	assert.Greater(t, small, 0)
	assert.Equal(t, 0, litPixels(f, 7, 0, Width, Height), "glyph stays inside its cell")

	f.Clear()
	f.DrawText(0, 30, "8", Large, Set)
	assert.Equal(t, 4*small, litPixels(f, 0, 0, Width, Height))
}

func TestFrameXORText(t *testing.T) {
	f := NewFrame()
	f.DrawBox(0, 40, Width, 24)
	full := litPixels(f, 0, 40, Width, Height)

	f.DrawText(10, 61, "0", Large, XOR)
	assert.Less(t, litPixels(f, 0, 40, Width, Height), full, "text punches through the band")

	f.DrawText(10, 61, "0", Large, XOR)
	assert.Equal(t, full, litPixels(f, 0, 40, Width, Height), "drawing twice restores the band")
}

func TestFrameImage(t *testing.T) {
	f := NewFrame()
	f.DrawBox(0, 0, 2, 2)

	img := f.Image()
	assert.Equal(t, f.Bounds(), img.Bounds())
	assert.Equal(t, color.Gray{Y: 0xff}, img.GrayAt(1, 1))
	assert.Equal(t, color.Gray{Y: 0}, img.GrayAt(2, 2))
}
