package pixel

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/BeatGlow/avatar/internal/report"
)

// Fixed layout of a 24-bit bitmap.
const (
	BytesPerPixel = 3

	// Sentinel is the value every byte of a new image is initialized to.
	Sentinel = 0xff

	// MaxPixSize is the largest pixel buffer that still fits the 32-bit
	// file size field of a bitmap, next to the 54 header bytes.
	MaxPixSize = math.MaxUint32 - 54
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// Release drops the pixel memory. A released buffer is empty; every checked
// write to it fails.
func (p *Buffer) Release() {
	p.Pix = nil
	p.Rect = image.Rectangle{}
	p.Stride = 0
}

// Released reports whether Release was called (or the buffer was never allocated).
func (p *Buffer) Released() bool {
	return p.Pix == nil
}

// Stride returns the row size in bytes of a 24-bit image that is w pixels
// wide, padded to a multiple of 4 bytes.
func Stride(w int) int {
	return (w*BytesPerPixel + 3) &^ 3
}

// BGRImage is a 24-bits per pixel truecolor image with 4-byte aligned rows,
// laid out exactly like bitmap pixel data.
type BGRImage struct {
	Buffer
}

// NewBGRImage allocates a w×h image with every byte, row padding included,
// set to Sentinel.
func NewBGRImage(w, h int) (*BGRImage, error) {
	if w <= 0 || h <= 0 || w > math.MaxInt32 || h > math.MaxInt32 {
		return nil, report.InvalidArgument
	}

	stride := (uint64(w)*BytesPerPixel + 3) &^ 3
	size := stride * uint64(h)
	if size > MaxPixSize || size > math.MaxInt {
		return nil, report.AllocationFailure
	}

	pix := make([]byte, int(size))
	for i := range pix {
		pix[i] = Sentinel
	}
	return &BGRImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    pix,
			Stride: int(stride),
		},
	}, nil
}

func (p *BGRImage) ColorModel() color.Model {
	return BGRModel
}

func (p *BGRImage) PixOffset(x, y int) int {
	return x*BytesPerPixel + y*p.Stride
}

func (p *BGRImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.BGRAt(x, y)
}

// BGRAt returns the pixel at (x, y); it panics when out of bounds.
func (p *BGRImage) BGRAt(x, y int) BGR {
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return BGR{B: s[0], G: s[1], R: s[2]}
}

// Set the pixel color at (x, y). Out of bounds writes are ignored, see SetBGR
// for the checked variant.
func (p *BGRImage) Set(x, y int, c color.Color) {
	_ = p.SetBGR(x, y, bgrModel(c).(BGR))
}

// SetBGR writes the pixel at (x, y). It fails with report.InvalidArgument
// when (x, y) lies outside the image; nothing is clamped.
func (p *BGRImage) SetBGR(x, y int, c BGR) error {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return report.InvalidArgument
	}

	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0] = c.B
	s[1] = c.G
	s[2] = c.R
	return nil
}

// SetRGB is SetBGR with the components in red, green, blue argument order.
func (p *BGRImage) SetRGB(x, y int, r, g, b uint8) error {
	return p.SetBGR(x, y, RGB(r, g, b))
}

// Fill sets every pixel to c. Row padding is left untouched.
func (p *BGRImage) Fill(c color.Color) {
	v := bgrModel(c).(BGR)
	bytes := []byte{v.B, v.G, v.R}
	w := p.Rect.Dx() * BytesPerPixel
	for y := 0; y < p.Rect.Dy(); y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for i := 0; i < w; i += BytesPerPixel {
			copy(row[i:], bytes)
		}
	}
}

// Interface checks.
var (
	_ Image = (*BGRImage)(nil)
)
