package main

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	stdsync "sync"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/doxmd/internal/config"
	"github.com/g5becks/doxmd/internal/convert"
	"github.com/g5becks/doxmd/internal/ui"
)

func newConvertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert every XML document under the input directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Input directory containing Doxygen XML"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory for generated documents"},
			&cli.StringFlag{Name: "project", Usage: "Project name used for the index heading"},
			&cli.IntFlag{Name: "heading-offset", Usage: "Heading level offset, may be negative"},
			&cli.BoolFlag{Name: "no-index", Usage: "Do not generate index.mdx"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Convert documents even when they are up to date"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show planned conversions without writing files"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel conversions", Value: defaultParallel},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Show a progress bar instead of per-document lines"},
			&cli.BoolFlag{Name: "json", Usage: "Emit the conversion report as JSON"},
		},
		Action: convertAction,
	}
}

func convertAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	if err := applyConvertFlags(cmd, cfg); err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	quiet := cmd.Bool("quiet") || cmd.Bool("json")

	printer := ui.NewConvertPrinter(dryRun, quiet)

	var statuses []ui.DocumentStatus
	var statusesMu stdsync.Mutex
	onEvent := func(e convert.Event) {
		printer.HandleEvent(e)
		if e.Kind != convert.EventDocumentDone {
			return
		}

		statusesMu.Lock()
		statuses = append(statuses, ui.StatusFor(e.Document, e.Result, e.Err))
		statusesMu.Unlock()
	}

	opts := convert.Options{
		Force:       cmd.Bool("force"),
		DryRun:      dryRun,
		MaxParallel: cmd.Int("parallel"),
		OnEvent:     onEvent,
	}

	var writer progress.Writer
	if quiet && !cmd.Bool("json") {
		documents, discoverErr := convert.Discover(cfg.InputDir())
		if discoverErr != nil {
			return discoverErr
		}
		writer = ui.NewProgressWriter()
		opts.Tracker = ui.NewConversionTracker(writer, len(documents))
		go writer.Render()
	}

	result, runErr := convert.Run(ctx, cfg, opts)
	if writer != nil {
		writer.Stop()
	}

	slices.SortFunc(statuses, func(a, b ui.DocumentStatus) int {
		return strings.Compare(a.Document, b.Document)
	})

	switch {
	case cmd.Bool("json"):
		if listErr := ui.RenderDocumentList(statuses, ui.ListOptions{JSON: true}); listErr != nil {
			return listErr
		}
	case quiet:
		// The progress bar replaced the per-document lines; report the
		// outcome as a table instead.
		if listErr := ui.RenderDocumentList(statuses, ui.ListOptions{}); listErr != nil {
			return listErr
		}
		printer.PrintSummary(result)
	default:
		printer.PrintSummary(result)
	}

	return runErr
}

// applyConvertFlags layers CLI overrides onto the loaded config. Flag paths
// are anchored at the working directory, not the config file directory, so
// they are made absolute before the override.
func applyConvertFlags(cmd *cli.Command, cfg *config.Config) error {
	if cmd.IsSet("input") {
		path, err := absFlagPath(cmd.String("input"), "input")
		if err != nil {
			return err
		}
		cfg.Input = path
	}

	if cmd.IsSet("output") {
		path, err := absFlagPath(cmd.String("output"), "output")
		if err != nil {
			return err
		}
		cfg.Output = path
	}

	if cmd.IsSet("project") {
		cfg.Project = cmd.String("project")
	}

	if cmd.IsSet("heading-offset") {
		cfg.HeadingOffset = cmd.Int("heading-offset")
	}

	if cmd.Bool("no-index") {
		disabled := false
		cfg.EmitIndex = &disabled
	}

	return cfg.Validate()
}

func absFlagPath(path string, flag string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", oops.
			Code("INVALID_ARGS").
			With("flag", flag).
			With("path", path).
			Wrapf(err, "resolving --%s path", flag)
	}

	return abs, nil
}
