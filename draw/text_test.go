package draw

import (
	"image/color"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/BeatGlow/avatar/pixel"
)

func TestText(t *testing.T) {
	black := pixel.BGR{}

	for _, text := range []string{"A", "JD", "a very long label that must shrink"} {
		t.Run(text, func(t *testing.T) {
			i := newTestImage(t, 100, 100)
			i.Fill(black)
			gt.NoError(t, Text(i, text, color.White))

			var lit int
			for y := 0; y < 100; y++ {
				for x := 0; x < 100; x++ {
					if i.BGRAt(x, y) != black {
						lit++
					}
				}
			}
			gt.True(t, lit > 0)
			gt.True(t, lit < 100*100/2)

			// Corners stay clear of centered text.
			gt.Equal(t, i.BGRAt(0, 0), black)
			gt.Equal(t, i.BGRAt(99, 99), black)
		})
	}
}

func TestTextEmpty(t *testing.T) {
	i := newTestImage(t, 10, 10)
	gt.NoError(t, Text(i, "", color.White))
	for _, v := range i.Pix {
		gt.Equal(t, v, byte(pixel.Sentinel))
	}
}
