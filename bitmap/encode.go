// Package bitmap encodes pixel buffers as uncompressed 24-bit bitmap files.
package bitmap

import (
	"errors"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"github.com/BeatGlow/avatar/internal/report"
	"github.com/BeatGlow/avatar/pixel"
)

// Option adjusts the encoder.
type Option func(*encoder)

// WithBottomUp writes the pixel rows last to first, so viewers show row 0 at
// the top. By default rows are written in buffer order, as a single block.
func WithBottomUp() Option {
	return func(e *encoder) {
		e.bottomUp = true
	}
}

type encoder struct {
	fieldWriter
	bottomUp bool
}

// Encode writes img to w as a bitmap file and returns the number of bytes
// written.
//
// Encode consumes img: its pixel memory is released whether or not encoding
// succeeds, and the image must not be used afterwards. Any failed or short
// write aborts with report.WriteFailure; the partial output is left as is.
func Encode(w io.Writer, img *pixel.BGRImage, options ...Option) (int64, error) {
	if w == nil || img == nil {
		return 0, goerr.Wrap(report.InvalidArgument, "nothing to encode")
	}
	if img.Released() {
		return 0, goerr.Wrap(report.InvalidArgument, "image was already released")
	}
	defer img.Release()

	h, err := NewHeader(img.Rect.Dx(), img.Rect.Dy())
	if err != nil {
		return 0, err
	}

	e := &encoder{fieldWriter: fieldWriter{w: w}}
	for _, option := range options {
		option(e)
	}

	h.write(&e.fieldWriter)
	if e.bottomUp {
		for y := img.Rect.Dy() - 1; y >= 0; y-- {
			e.bytes("pixel data", img.Pix[y*img.Stride:(y+1)*img.Stride])
		}
	} else {
		e.bytes("pixel data", img.Pix[:h.ImageSize])
	}

	if e.err != nil {
		return e.n, goerr.Wrap(errors.Join(report.WriteFailure, e.err), "failed to write bitmap",
			goerr.V("field", e.field), goerr.V("written", e.n))
	}
	return e.n, nil
}
