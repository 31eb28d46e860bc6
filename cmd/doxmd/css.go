package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/doxmd/internal/config"
	"github.com/g5becks/doxmd/internal/stylesheet"
)

func newCSSCommand() *cli.Command {
	return &cli.Command{
		Name:  "css",
		Usage: "Write the stylesheet for the wrapper classes the renderer emits",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.StringFlag{Name: "out", Usage: "Stylesheet output path (overrides config)"},
		},
		Action: cssAction,
	}
}

func cssAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	path := cfg.CSSPath()
	if cmd.IsSet("out") {
		path, err = filepath.Abs(cmd.String("out"))
		if err != nil {
			return oops.
				Code("INVALID_ARGS").
				With("path", cmd.String("out")).
				Wrapf(err, "resolving --out path")
		}
	}

	if err := stylesheet.Write(path); err != nil {
		return err
	}

	fmt.Printf("stylesheet written to %s\n", path)
	return nil
}
