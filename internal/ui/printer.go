package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/g5becks/doxmd/internal/convert"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// ConvertPrinter renders per-document conversion events to stderr with
// colored output.
type ConvertPrinter struct {
	w      io.Writer
	dryRun bool
	quiet  bool
	mu     sync.Mutex
	s      styles
}

// NewConvertPrinter creates a ConvertPrinter that writes to stderr.
func NewConvertPrinter(dryRun bool, quiet bool) *ConvertPrinter {
	return &ConvertPrinter{
		w:      os.Stderr,
		dryRun: dryRun,
		quiet:  quiet,
		s:      newStyles(),
	}
}

// NewConvertPrinterWithWriter creates a ConvertPrinter that writes to the
// given writer.
func NewConvertPrinterWithWriter(w io.Writer, dryRun bool, quiet bool) *ConvertPrinter {
	return &ConvertPrinter{
		w:      w,
		dryRun: dryRun,
		quiet:  quiet,
		s:      newStyles(),
	}
}

// HandleEvent is the callback wired into convert.Options.OnEvent.
func (p *ConvertPrinter) HandleEvent(e convert.Event) {
	if p.quiet {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case convert.EventDocumentStart:
		fmt.Fprintf(p.w, "%s converting %s...\n",
			p.s.dim.Sprint("⟳"),
			p.s.bold.Sprint(e.Document),
		)

	case convert.EventDocumentDone:
		p.handleDone(e)
	}
}

func (p *ConvertPrinter) handleDone(e convert.Event) {
	if e.Err != nil {
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.red.Sprint("✗"),
			p.s.bold.Sprint(e.Document),
			e.Err,
		)
		return
	}

	if e.Result == nil {
		return
	}

	name := p.s.bold.Sprint(e.Document)

	if e.Result.Skipped {
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.dim.Sprint("—"),
			name,
			p.s.dim.Sprint("(up to date)"),
		)
		return
	}

	fmt.Fprintf(p.w, "%s %s %s\n",
		p.s.green.Sprint("✓"),
		name,
		p.s.dim.Sprintf("(%s, %d bytes)", e.Result.Output, e.Result.Bytes),
	)
}

// PrintSummary renders a final summary line after the batch completes.
func (p *ConvertPrinter) PrintSummary(r *convert.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "convert complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	parts := fmt.Sprintf("%s: %d document(s), %d converted, %d up-to-date",
		label,
		r.Documents,
		r.Converted,
		r.Skipped,
	)

	if r.Errors > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.red.Sprintf("%d failed", r.Errors),
		)
	}

	fmt.Fprintln(p.w, parts)

	if r.IndexPath != "" {
		fmt.Fprintln(p.w, p.s.dim.Sprint("index: "+r.IndexPath))
	}

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written"))
	}
}
