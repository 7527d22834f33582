package draw

import (
	"image"

	"github.com/m-mizutani/goerr/v2"

	"github.com/BeatGlow/avatar/internal/report"
	"github.com/BeatGlow/avatar/pixel"
)

// Canvas is an image with bounds checked pixel writes, such as [pixel.BGRImage].
type Canvas interface {
	Bounds() image.Rectangle
	SetBGR(x, y int, c pixel.BGR) error
}

// Tile fills the size×size square with its top left corner at (x, y).
//
// A tile overlapping the canvas edge still paints its visible part. The
// returned error is the result of the last cell, (x+size-1, y+size-1), so
// the tile only succeeds when that corner lies on the canvas.
func Tile(dst Canvas, x, y, size int, c pixel.BGR) error {
	if size <= 0 {
		return nil
	}

	r := image.Rect(x, y, x+size, y+size).Intersect(dst.Bounds())
	for i := r.Min.X; i < r.Max.X; i++ {
		for j := r.Min.Y; j < r.Max.Y; j++ {
			_ = dst.SetBGR(i, j, c)
		}
	}
	return dst.SetBGR(x+size-1, y+size-1, c)
}

// ColorFunc picks the color of the tile at (x, y).
type ColorFunc func(x, y int) (pixel.BGR, error)

// Grid covers dst with size×size tiles, column by column, asking f for the
// color of each tile. It stops at the first tile that fails.
func Grid(dst Canvas, size int, f ColorFunc) error {
	if size <= 0 {
		return goerr.Wrap(report.InvalidArgument, "tile size must be positive", goerr.V("size", size))
	}

	r := dst.Bounds()
	for x := r.Min.X; x < r.Max.X; x += size {
		for y := r.Min.Y; y < r.Max.Y; y += size {
			c, err := f(x, y)
			if err != nil {
				return err
			}
			if err = Tile(dst, x, y, size, c); err != nil {
				return goerr.Wrap(err, "tile does not fit the canvas",
					goerr.V("x", x), goerr.V("y", y), goerr.V("size", size), goerr.V("bounds", r))
			}
		}
	}
	return nil
}
