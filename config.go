package avatar

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/knetic/govaluate"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v2"

	"github.com/BeatGlow/avatar/internal/report"
	"github.com/BeatGlow/avatar/pixel"
)

// Defaults, also used by the command line when no arguments are given.
const (
	DefaultPath      = "default.bmp"
	DefaultWidth     = 100
	DefaultHeight    = 100
	DefaultTile      = "10"
	DefaultVariation = 30
)

// Config is the avatar configuration.
type Config struct {
	// Path of the bitmap file to write.
	Path string `yaml:"path"`

	// Width of the image in pixels.
	Width int `yaml:"width"`

	// Height of the image in pixels.
	Height int `yaml:"height"`

	// Tile is the tile size in pixels, either an integer or an expression
	// over width and height, such as "width / 10".
	Tile Expr `yaml:"tile"`

	// Variation is the exclusive upper bound (0-255) of the random amount
	// added to the base color of each tile. Zero disables the jitter.
	Variation int `yaml:"variation"`

	// Seed for the random source, zero seeds from the clock.
	Seed int64 `yaml:"seed"`

	// Base color as "#rrggbb", random when empty.
	Base string `yaml:"base"`

	// Label is optional text drawn on top of the tiles.
	Label string `yaml:"label"`

	// LabelColor as "#rrggbb", white when empty.
	LabelColor string `yaml:"label_color"`

	// BottomUp stores the rows in bitmap order, so viewers show the image
	// upright. Off by default, which writes the buffer rows as they are.
	BottomUp bool `yaml:"bottom_up"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Path:      DefaultPath,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Tile:      DefaultTile,
		Variation: DefaultVariation,
	}
}

// Load reads a YAML configuration file. Keys missing from the file keep
// their DefaultConfig value.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		kind := report.ReadFailure
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			kind = report.OpenFailure
		}
		return config, goerr.Wrap(errors.Join(kind, err), "failed to read configuration", goerr.V("path", path))
	}

	if err = yaml.UnmarshalStrict(data, &config); err != nil {
		return config, goerr.Wrap(errors.Join(report.InvalidArgument, err), "failed to parse configuration", goerr.V("path", path))
	}
	return config, nil
}

// Validate checks every field of the configuration.
func (c Config) Validate() error {
	invalid := func(msg string, key string, value any) error {
		return goerr.Wrap(report.InvalidArgument, msg, goerr.V(key, value))
	}

	if c.Path == "" {
		return invalid("output path is empty", "path", c.Path)
	}
	if c.Width <= 0 || c.Width > math.MaxInt32 {
		return invalid("width must be positive", "width", c.Width)
	}
	if c.Height <= 0 || c.Height > math.MaxInt32 {
		return invalid("height must be positive", "height", c.Height)
	}
	if _, err := c.TileSize(); err != nil {
		return err
	}
	if c.Variation < 0 || c.Variation > math.MaxUint8 {
		return invalid("variation must be between 0 and 255", "variation", c.Variation)
	}
	if c.Base != "" {
		if _, err := ParseColor(c.Base); err != nil {
			return err
		}
	}
	if c.LabelColor != "" {
		if _, err := ParseColor(c.LabelColor); err != nil {
			return err
		}
	}
	return nil
}

// TileSize evaluates Tile for the configured dimensions.
func (c Config) TileSize() (int, error) {
	v, err := c.Tile.Eval(map[string]any{
		"width":  float64(c.Width),
		"height": float64(c.Height),
	})
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, goerr.Wrap(report.InvalidArgument, "tile size must be positive",
			goerr.V("tile", string(c.Tile)), goerr.V("value", v))
	}
	return v, nil
}

// Expr is an integer valued govaluate expression. Plain integers are the
// common case and skip the expression parser.
type Expr string

// UnmarshalYAML accepts both numbers and strings.
func (e *Expr) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*e = ""
	case string:
		*e = Expr(v)
	default:
		*e = Expr(fmt.Sprint(v))
	}
	return nil
}

// Eval evaluates the expression and truncates the result to an integer.
func (e Expr) Eval(parameters map[string]any) (int, error) {
	s := strings.TrimSpace(string(e))
	if s == "" {
		return 0, goerr.Wrap(report.InvalidArgument, "empty expression")
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}

	expr, err := govaluate.NewEvaluableExpression(s)
	if err != nil {
		return 0, goerr.Wrap(errors.Join(report.InvalidArgument, err), "invalid expression", goerr.V("expression", s))
	}
	result, err := expr.Evaluate(parameters)
	if err != nil {
		return 0, goerr.Wrap(errors.Join(report.InvalidArgument, err), "failed to evaluate expression", goerr.V("expression", s))
	}

	f, ok := result.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, goerr.Wrap(report.InvalidArgument, "expression is not a number",
			goerr.V("expression", s), goerr.V("result", result))
	}
	return int(f), nil
}

// ParseColor parses a "#rrggbb" (or "rrggbb") hex color.
func ParseColor(s string) (pixel.BGR, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return pixel.BGR{}, goerr.Wrap(report.InvalidArgument, "color must be #rrggbb", goerr.V("color", s))
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return pixel.BGR{}, goerr.Wrap(errors.Join(report.InvalidArgument, err), "color must be #rrggbb", goerr.V("color", s))
	}
	return pixel.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
