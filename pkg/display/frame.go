package display

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Panel geometry.
const (
	Width  = 128
	Height = 64
	Pages  = Height / 8
)

// Font selects a text size.
type Font int

const (
	Small Font = iota // 7x13 cell
	Large             // 7x13 doubled
)

func (f Font) scale() int {
	if f == Large {
		return 2
	}
	return 1
}

// Mode is how drawn pixels combine with the frame.
type Mode int

const (
	Set Mode = iota
	XOR
)

// Canvas is what Render draws on.
type Canvas interface {
	Clear()
	DrawText(x, baseline int, s string, f Font, m Mode)
	TextWidth(s string, f Font) int
	DrawLine(x0, y0, x1, y1 int)
	DrawBox(x, y, w, h int)
}

var (
	off = color.Gray{Y: 0}
	on  = color.Gray{Y: 0xff}
)

// Frame is a 128x64 monochrome buffer stored in SSD1306 page order: byte
// page*Width+x holds rows page*8 to page*8+7 of column x, LSB on top.
type Frame struct {
	pix  [Width * Pages]byte
	face font.Face
}

var (
	_ Canvas     = (*Frame)(nil)
	_ draw.Image = (*Frame)(nil)
)

// NewFrame creates a blank frame.
func NewFrame() *Frame {
	return &Frame{face: basicfont.Face7x13}
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, Width, Height) }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if f.Pixel(x, y) {
		return on
	}
	return off
}

// Set implements draw.Image. Any non-black color lights the pixel.
func (f *Frame) Set(x, y int, c color.Color) {
	g := color.GrayModel.Convert(c).(color.Gray)
	f.plot(x, y, g.Y >= 0x80, Set)
}

// Pixel reports whether the pixel at (x, y) is lit. Out of bounds is dark.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f.pix[(y/8)*Width+x]&(1<<(y%8)) != 0
}

func (f *Frame) plot(x, y int, lit bool, m Mode) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i, bit := (y/8)*Width+x, byte(1)<<(y%8)
	switch {
	case m == XOR:
		if lit {
			f.pix[i] ^= bit
		}
	case lit:
		f.pix[i] |= bit
	default:
		f.pix[i] &^= bit
	}
}

// Clear darkens every pixel.
func (f *Frame) Clear() {
	f.pix = [Width * Pages]byte{}
}

// DrawText draws s with its left edge at x and its baseline at y.
func (f *Frame) DrawText(x, baseline int, s string, ft Font, m Mode) {
	scale := ft.scale()
	var dot fixed.Int26_6
	for _, r := range s {
		dr, mask, mp, advance, ok := f.face.Glyph(fixed.Point26_6{X: dot}, r)
		if !ok {
			dr, mask, mp, advance, _ = f.face.Glyph(fixed.Point26_6{X: dot}, '?')
		}
		for gy := dr.Min.Y; gy < dr.Max.Y; gy++ {
			for gx := dr.Min.X; gx < dr.Max.X; gx++ {
				_, _, _, a := mask.At(mp.X+gx-dr.Min.X, mp.Y+gy-dr.Min.Y).RGBA()
				if a == 0 {
					continue
				}
				for sy := 0; sy < scale; sy++ {
					for sx := 0; sx < scale; sx++ {
						f.plot(x+gx*scale+sx, baseline+gy*scale+sy, true, m)
					}
				}
			}
		}
		dot += advance
	}
}

// TextWidth returns the advance of s in pixels.
func (f *Frame) TextWidth(s string, ft Font) int {
	return font.MeasureString(f.face, s).Round() * ft.scale()
}

// DrawLine draws a horizontal, vertical or diagonal line (Bresenham).
func (f *Frame) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := abs(x1-x0), 1
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		f.plot(x0, y0, true, Set)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawBox fills a w x h rectangle at (x, y).
func (f *Frame) DrawBox(x, y, w, h int) {
	draw.Draw(f, image.Rect(x, y, x+w, y+h), image.NewUniform(on), image.Point{}, draw.Src)
}

// Pages returns a copy of the frame in SSD1306 page order.
func (f *Frame) Pages() []byte {
	out := make([]byte, len(f.pix))
	copy(out, f.pix[:])
	return out
}

// Image returns a grayscale copy of the frame.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(f.Bounds())
	draw.Draw(img, img.Bounds(), f, image.Point{}, draw.Src)
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
