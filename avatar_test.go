package avatar_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"golang.org/x/image/bmp"

	"github.com/BeatGlow/avatar"
	"github.com/BeatGlow/avatar/internal/report"
	"github.com/BeatGlow/avatar/pixel"
)

func newGenerator(t *testing.T, config avatar.Config, options ...avatar.Option) *avatar.Generator {
	t.Helper()
	g, err := avatar.New(config, options...)
	gt.NoError(t, err)
	return g
}

func TestWriteToDefault(t *testing.T) {
	g := newGenerator(t, avatar.DefaultConfig(), avatar.WithRand(rand.New(rand.NewSource(42))))

	var buf bytes.Buffer
	n, err := g.WriteTo(&buf)
	gt.NoError(t, err)

	b := buf.Bytes()
	gt.Equal(t, n, int64(54+100*pixel.Stride(100)))
	gt.Equal(t, len(b), 54+100*pixel.Stride(100))
	gt.Equal(t, string(b[:2]), "BM")
	gt.Equal(t, binary.LittleEndian.Uint32(b[0x02:]), uint32(len(b)))
	gt.Equal(t, int32(binary.LittleEndian.Uint32(b[0x12:])), int32(100))
	gt.Equal(t, int32(binary.LittleEndian.Uint32(b[0x16:])), int32(100))
	gt.Equal(t, binary.LittleEndian.Uint32(b[0x22:]), uint32(100*300))
}

func TestGenerateDeterministic(t *testing.T) {
	render := func(seed int64) []byte {
		g := newGenerator(t, avatar.DefaultConfig(), avatar.WithRand(rand.New(rand.NewSource(seed))))
		var buf bytes.Buffer
		_, err := g.WriteTo(&buf)
		gt.NoError(t, err)
		return buf.Bytes()
	}
	gt.Equal(t, render(7), render(7))
	gt.NotEqual(t, render(7), render(8))

	config := avatar.DefaultConfig()
	config.Seed = 7
	g := newGenerator(t, config)
	gt.Equal(t, g.Config(), config)
	var buf bytes.Buffer
	_, err := g.WriteTo(&buf)
	gt.NoError(t, err)
	gt.Equal(t, buf.Bytes(), render(7))
}

func TestGenerateTiles(t *testing.T) {
	config := avatar.DefaultConfig()
	config.Width = 20
	config.Height = 20

	// Base color red, green, blue, then one byte per tile, column by column.
	src := bytes.NewReader([]byte{10, 20, 250, 0, 5, 29, 61})
	img, err := newGenerator(t, config, avatar.WithRand(src)).Generate()
	gt.NoError(t, err)

	tests := []struct {
		origin image.Point
		want   pixel.BGR
	}{
		{image.Pt(0, 0), pixel.RGB(10, 20, 250)},
		{image.Pt(0, 10), pixel.RGB(15, 25, 255)},
		{image.Pt(10, 0), pixel.RGB(39, 49, 255)},
		{image.Pt(10, 10), pixel.RGB(11, 21, 251)}, // 61 % 30
	}
	for _, test := range tests {
		for y := test.origin.Y; y < test.origin.Y+10; y++ {
			for x := test.origin.X; x < test.origin.X+10; x++ {
				if v := img.BGRAt(x, y); v != test.want {
					t.Fatalf("pixel (%d,%d) is %+v, expected %+v", x, y, v, test.want)
				}
			}
		}
	}
}

func TestGenerateJitterRange(t *testing.T) {
	config := avatar.DefaultConfig()
	config.Base = "#102030"
	config.Variation = 30
	img, err := newGenerator(t, config, avatar.WithRand(rand.New(rand.NewSource(1)))).Generate()
	gt.NoError(t, err)

	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			c := img.BGRAt(x, y)
			d := c.R - 0x10
			gt.True(t, d < 30)
			gt.Equal(t, c, pixel.RGB(0x10+d, 0x20+d, 0x30+d))
			gt.Equal(t, c, img.BGRAt(x/10*10, y/10*10))
		}
	}
}

func TestGenerateNoVariation(t *testing.T) {
	config := avatar.DefaultConfig()
	config.Base = "#abcdef"
	config.Variation = 0
	img, err := newGenerator(t, config).Generate()
	gt.NoError(t, err)
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			gt.Equal(t, img.BGRAt(x, y), pixel.RGB(0xab, 0xcd, 0xef))
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Run("tile overruns the canvas", func(t *testing.T) {
		config := avatar.DefaultConfig()
		config.Width = 105
		_, err := newGenerator(t, config).Generate()
		gt.True(t, errors.Is(err, report.InvalidArgument))
	})

	t.Run("tile larger than the canvas", func(t *testing.T) {
		config := avatar.DefaultConfig()
		config.Tile = "1000000"
		_, err := newGenerator(t, config).Generate()
		gt.True(t, errors.Is(err, report.InvalidArgument))
	})

	t.Run("random source exhausted", func(t *testing.T) {
		_, err := newGenerator(t, avatar.DefaultConfig(), avatar.WithRand(bytes.NewReader([]byte{1, 2, 3, 4}))).Generate()
		gt.True(t, errors.Is(err, report.ReadFailure))
	})

	t.Run("no base color", func(t *testing.T) {
		_, err := newGenerator(t, avatar.DefaultConfig(), avatar.WithRand(bytes.NewReader(nil))).Generate()
		gt.True(t, errors.Is(err, report.ReadFailure))
	})
}

func TestGenerateLabel(t *testing.T) {
	config := avatar.DefaultConfig()
	config.Base = "#000000"
	config.Variation = 0
	plain, err := newGenerator(t, config).Generate()
	gt.NoError(t, err)

	config.Label = "BG"
	config.LabelColor = "#ff0000"
	labeled, err := newGenerator(t, config).Generate()
	gt.NoError(t, err)

	gt.NotEqual(t, plain.Pix, labeled.Pix)
	gt.Equal(t, labeled.BGRAt(0, 0), pixel.BGR{})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("ok", func(t *testing.T) {
		config := avatar.DefaultConfig()
		config.Width, config.Height, config.Tile = 64, 32, "width / 8"
		config.BottomUp = true
		config.Path = filepath.Join(dir, "avatar.bmp")

		g := newGenerator(t, config, avatar.WithRand(rand.New(rand.NewSource(3))))
		gt.NoError(t, g.WriteFile(config.Path))

		data, err := os.ReadFile(config.Path)
		gt.NoError(t, err)
		gt.Equal(t, len(data), 54+32*pixel.Stride(64))

		m, err := bmp.Decode(bytes.NewReader(data))
		gt.NoError(t, err)
		gt.Equal(t, m.Bounds(), image.Rect(0, 0, 64, 32))
	})

	t.Run("open failure", func(t *testing.T) {
		g := newGenerator(t, avatar.DefaultConfig())
		err := g.WriteFile(filepath.Join(dir, "missing", "avatar.bmp"))
		gt.True(t, errors.Is(err, report.OpenFailure))
	})

	t.Run("generation failure leaves the file", func(t *testing.T) {
		path := filepath.Join(dir, "partial.bmp")
		g := newGenerator(t, avatar.DefaultConfig(), avatar.WithRand(bytes.NewReader(nil)))
		err := g.WriteFile(path)
		gt.True(t, errors.Is(err, report.ReadFailure))

		_, err = os.Stat(path)
		gt.NoError(t, err)
	})
}
