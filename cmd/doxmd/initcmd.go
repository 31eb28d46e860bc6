package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/doxmd/internal/config"
)

const starterConfig = `# doxmd configuration
input: ` + config.DefaultInput + `
output: ` + config.DefaultOutput + `
css: ` + config.DefaultCSS + `
project: ` + config.DefaultProject + `
heading_offset: 0
emit_index: true
`

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter doxmd.yaml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing config file"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	const fileName = "doxmd.yaml"

	if !cmd.Bool("force") {
		if _, err := os.Stat(fileName); err == nil {
			return oops.
				Code("CONFIG_EXISTS").
				With("path", fileName).
				Hint("Pass --force to overwrite it").
				Errorf("%s already exists", fileName)
		} else if !errors.Is(err, os.ErrNotExist) {
			return oops.Wrapf(err, "checking for existing config file")
		}
	}

	if err := os.WriteFile(fileName, []byte(starterConfig), 0o644); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", fileName).
			Wrapf(err, "writing starter config")
	}

	fmt.Printf("created %s\n", fileName)
	return nil
}
