package pixel

import (
	"image/color"
	"math"
)

// BGRModel is the color model of the 24-bit BGR color type.
var BGRModel color.Model = color.ModelFunc(bgrModel)

// BGR represents a 24-bit truecolor, stored blue first as in bitmap pixel data.
type BGR struct {
	B, G, R uint8
}

// RGB returns the BGR color with the given red, green and blue components.
func RGB(r, g, b uint8) BGR {
	return BGR{B: b, G: g, R: r}
}

func (c BGR) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Jitter adds v to every channel, saturating at 0xff.
func (c BGR) Jitter(v uint8) BGR {
	return BGR{
		B: Add(c.B, v),
		G: Add(c.G, v),
		R: Add(c.R, v),
	}
}

func bgrModel(c color.Color) color.Color {
	if _, ok := c.(BGR); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return BGR{}
	}
	if a != 0xffff {
		// Un-premultiply; there is no alpha channel to keep it in.
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}
	return BGR{B: uint8(b >> 8), G: uint8(g >> 8), R: uint8(r >> 8)}
}

// Add returns a+b, saturating at 0xff instead of wrapping around.
func Add(a, b uint8) uint8 {
	sum := a + b
	if sum < a || sum < b {
		return math.MaxUint8
	}
	return sum
}
