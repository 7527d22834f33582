// Command avatar writes a randomly tiled avatar to a bitmap file.
//
//	avatar [flags] [path width height tileSize maxVariation]
//
// Without all five arguments, default.bmp 100 100 10 30 is used.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/BeatGlow/avatar"
	"github.com/BeatGlow/avatar/internal/report"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "avatar",
		Usage:     "generate a randomly tiled avatar bitmap",
		ArgsUsage: "[path width height tileSize maxVariation]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load settings from a YAML `FILE`; arguments and flags override it",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed (default: current time)",
			},
			&cli.StringFlag{
				Name:  "base",
				Usage: "base tile color as #rrggbb (default: random)",
			},
			&cli.StringFlag{
				Name:  "label",
				Usage: "text drawn on top of the tiles, best combined with --bottom-up",
			},
			&cli.StringFlag{
				Name:  "label-color",
				Usage: "label color as #rrggbb",
			},
			&cli.BoolFlag{
				Name:  "bottom-up",
				Usage: "store rows bottom-up so viewers show the image upright",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug messages",
			},
		},
		Action: run,
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("verbose"))

	config, err := loadConfig(cmd)
	if err != nil {
		logger.Debug("invalid configuration", slog.Any("error", err))
		return err
	}

	g, err := avatar.New(config, avatar.WithLogger(logger))
	if err != nil {
		logger.Debug("invalid configuration", slog.Any("error", err))
		return err
	}
	if err = g.WriteFile(g.Config().Path); err != nil {
		logger.Debug("generation failed", slog.Any("error", err))
		return err
	}
	return nil
}

func loadConfig(cmd *cli.Command) (avatar.Config, error) {
	config := avatar.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if config, err = avatar.Load(path); err != nil {
			return config, err
		}
	}

	// All five positional arguments or none, extra arguments are ignored.
	if args := cmd.Args(); args.Len() >= 5 {
		var err error
		config.Path = args.Get(0)
		if config.Width, err = atoi("width", args.Get(1)); err != nil {
			return config, err
		}
		if config.Height, err = atoi("height", args.Get(2)); err != nil {
			return config, err
		}
		config.Tile = avatar.Expr(args.Get(3))
		if config.Variation, err = atoi("variation", args.Get(4)); err != nil {
			return config, err
		}
	}

	if cmd.IsSet("seed") {
		config.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("base") {
		config.Base = cmd.String("base")
	}
	if cmd.IsSet("label") {
		config.Label = cmd.String("label")
	}
	if cmd.IsSet("label-color") {
		config.LabelColor = cmd.String("label-color")
	}
	if cmd.IsSet("bottom-up") {
		config.BottomUp = cmd.Bool("bottom-up")
	}
	return config, nil
}

func atoi(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(report.InvalidArgument, "argument is not an integer", goerr.V(name, s))
	}
	return v, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose || os.Getenv("AVATAR_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// describe returns the description of the failure kind of err.
func describe(err error) string {
	if r := report.Of(err); r != report.None {
		return r.Error()
	}
	return err.Error()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
	os.Exit(1)
}
