// Package avatar generates tiled avatar images and saves them as 24-bit bitmaps.
//
// An avatar is a grid of square tiles. Each tile has the same base color,
// brightened by a random amount up to a configured maximum variation.
package avatar

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/BeatGlow/avatar/bitmap"
	"github.com/BeatGlow/avatar/draw"
	"github.com/BeatGlow/avatar/internal/report"
	"github.com/BeatGlow/avatar/pixel"
)

// Generator renders avatars for one Config.
type Generator struct {
	config     Config
	tile       int
	base       *pixel.BGR
	labelColor color.Color
	rand       io.Reader
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the source of random bytes. By default a math/rand source
// seeded with Config.Seed, or the wall clock when Seed is zero, is used.
func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New validates config and returns a Generator for it.
func New(config Config, options ...Option) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		config:     config,
		labelColor: color.White,
		logger:     slog.New(slog.DiscardHandler),
	}
	g.tile, _ = config.TileSize()
	if config.Base != "" {
		c, _ := ParseColor(config.Base)
		g.base = &c
	}
	if config.LabelColor != "" {
		g.labelColor, _ = ParseColor(config.LabelColor)
	}

	for _, option := range options {
		option(g)
	}
	if g.rand == nil {
		seed := config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.logger.Debug("seeding random source", slog.Int64("seed", seed))
		g.rand = rand.New(rand.NewSource(seed))
	}
	return g, nil
}

// Config returns the configuration the generator was created with.
func (g *Generator) Config() Config {
	return g.config
}

// Generate renders a new avatar.
func (g *Generator) Generate() (*pixel.BGRImage, error) {
	img, err := pixel.NewBGRImage(g.config.Width, g.config.Height)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create image",
			goerr.V("width", g.config.Width), goerr.V("height", g.config.Height))
	}

	base, err := g.baseColor()
	if err != nil {
		img.Release()
		return nil, err
	}
	g.logger.Debug("generating avatar",
		slog.Int("width", g.config.Width),
		slog.Int("height", g.config.Height),
		slog.Int("tile", g.tile),
		slog.Int("variation", g.config.Variation),
		slog.Any("base", base),
	)

	var (
		b     [1]byte
		tiles int
	)
	err = draw.Grid(img, g.tile, func(x, y int) (pixel.BGR, error) {
		if err := g.read(b[:]); err != nil {
			return pixel.BGR{}, err
		}
		var v uint8
		if g.config.Variation > 0 {
			v = b[0] % uint8(g.config.Variation)
		}
		tiles++
		return base.Jitter(v), nil
	})
	if err != nil {
		img.Release()
		return nil, err
	}
	g.logger.Debug("drew tiles", slog.Int("count", tiles))

	if g.config.Label != "" {
		if err = draw.Text(img, g.config.Label, g.labelColor); err != nil {
			img.Release()
			return nil, err
		}
	}
	return img, nil
}

// WriteTo renders a new avatar and writes it to w as a bitmap.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	img, err := g.Generate()
	if err != nil {
		return 0, err
	}

	var options []bitmap.Option
	if g.config.BottomUp {
		options = append(options, bitmap.WithBottomUp())
	}
	n, err := bitmap.Encode(w, img, options...)
	if err != nil {
		return n, err
	}
	g.logger.Debug("wrote bitmap", slog.Int64("bytes", n))
	return n, nil
}

// WriteFile renders a new avatar into the bitmap file at path. On failure a
// partially written file is left behind.
func (g *Generator) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(errors.Join(report.OpenFailure, err), "failed to create output", goerr.V("path", path))
	}

	if _, err = g.WriteTo(f); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write output", goerr.V("path", path))
	}

	if err = f.Close(); err != nil {
		return goerr.Wrap(errors.Join(report.CloseFailure, err), "failed to close output", goerr.V("path", path))
	}
	g.logger.Info("saved avatar", slog.String("path", path))
	return nil
}

func (g *Generator) baseColor() (pixel.BGR, error) {
	if g.base != nil {
		return *g.base, nil
	}
	var b [3]byte
	if err := g.read(b[:]); err != nil {
		return pixel.BGR{}, err
	}
	return pixel.RGB(b[0], b[1], b[2]), nil
}

func (g *Generator) read(b []byte) error {
	if _, err := io.ReadFull(g.rand, b); err != nil {
		return goerr.Wrap(errors.Join(report.ReadFailure, err), "failed to read random source")
	}
	return nil
}
