package draw

import (
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Text draws s centered on dst in color c, using the Go Regular font.
//
// The font size starts at half the image height and shrinks until the text
// spans at most 90% of the image width.
func Text(dst Image, s string, c color.Color) error {
	r := dst.Bounds()
	if s == "" || r.Empty() {
		return nil
	}

	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return goerr.Wrap(err, "failed to parse font")
	}

	var (
		size  = float64(r.Dy()) / 2
		face  = truetype.NewFace(f, &truetype.Options{Size: size})
		width = font.MeasureString(face, s)
		limit = fixed.I(r.Dx() * 9 / 10)
	)
	if width > limit && width > 0 {
		size *= float64(limit) / float64(width)
		face = truetype.NewFace(f, &truetype.Options{Size: size})
		width = font.MeasureString(face, s)
	}

	var (
		m  = face.Metrics()
		pt = fixed.Point26_6{
			X: fixed.I(r.Min.X) + (fixed.I(r.Dx())-width)/2,
			Y: fixed.I(r.Min.Y) + (fixed.I(r.Dy())+m.Ascent-m.Descent)/2,
		}
		mask = image.NewAlpha(r)
		ctx  = freetype.NewContext()
	)
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingNone)
	ctx.SetClip(r)
	ctx.SetDst(mask)
	ctx.SetSrc(image.Opaque)
	if _, err = ctx.DrawString(s, pt); err != nil {
		return goerr.Wrap(err, "failed to draw text", goerr.V("text", s), goerr.V("size", size))
	}

	DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, Over)
	return nil
}
