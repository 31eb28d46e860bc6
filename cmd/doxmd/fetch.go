package main

import (
	"context"
	"fmt"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/doxmd/internal/config"
	"github.com/g5becks/doxmd/internal/source"
)

func newFetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Download a remote Doxygen XML document into the input directory",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.StringFlag{Name: "filename", Usage: "Destination filename (derived from the URL when omitted)"},
		},
		Action: fetchAction,
	}
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: doxmd fetch <url>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	path, err := source.Fetch(ctx, cmd.Args().First(), cfg.InputDir(), cmd.String("filename"))
	if err != nil {
		return err
	}

	fmt.Printf("downloaded to %s\n", path)
	return nil
}
