// Package convert orchestrates batch conversion: it discovers input
// documents, runs the parser and renderer per document, and persists the
// rendered output plus the optional cross-document index. Documents are
// independent, so conversions run concurrently; one malformed document never
// stops the rest of the batch.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"strings"
	stdsync "sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/g5becks/doxmd/internal/config"
	"github.com/g5becks/doxmd/internal/doxml"
	"github.com/g5becks/doxmd/internal/index"
	"github.com/g5becks/doxmd/internal/lockfile"
	"github.com/g5becks/doxmd/internal/outline"
	"github.com/g5becks/doxmd/internal/render"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxParallel = 3

	inputPattern    = "**/*.xml"
	inputExtension  = ".xml"
	outputExtension = ".mdx"
)

// Options controls one batch run.
type Options struct {
	// Force converts every document even when the lock file says it is
	// up to date.
	Force bool
	// DryRun reports the plan without writing any file.
	DryRun bool
	// MaxParallel bounds concurrent document conversions.
	MaxParallel int
	// OnEvent, when set, receives per-document progress events. It may be
	// called from multiple goroutines.
	OnEvent func(Event)
	// Tracker, when set, is incremented once per processed document.
	Tracker *progress.Tracker
}

type EventKind int

const (
	EventDocumentStart EventKind = iota
	EventDocumentDone
)

// Event is one per-document progress notification.
type Event struct {
	Kind     EventKind
	Document string
	Result   *DocumentResult
	Err      error
}

// DocumentResult describes the outcome of converting a single document.
type DocumentResult struct {
	Document string
	Output   string
	Title    string
	Bytes    int
	Skipped  bool

	lock *lockfile.LockEntry
}

// RunResult aggregates a batch run.
type RunResult struct {
	Documents int
	Converted int
	Skipped   int
	Errors    int
	Failures  map[string]error
	IndexPath string
}

type runState struct {
	result *DocumentResult
	err    error
}

// Run converts every XML document under the configured input directory. Per
// document failures are isolated: they are collected into RunResult.Failures
// and reported once at the end while the remaining documents convert.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	inputDir := cfg.InputDir()
	outputDir := cfg.OutputDir()

	documents, err := Discover(inputDir)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Documents: len(documents),
		Failures:  map[string]error{},
	}
	if len(documents) == 0 {
		return result, nil
	}

	if !opts.DryRun {
		if mkErr := os.MkdirAll(outputDir, 0o750); mkErr != nil {
			return nil, oops.
				Code("WRITE_FAILED").
				With("path", outputDir).
				Wrapf(mkErr, "creating output directory")
		}
	}

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		return nil, err
	}

	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	c := &converter{
		cfg:       cfg,
		opts:      opts,
		inputDir:  inputDir,
		outputDir: outputDir,
		lock:      lock,
	}

	states := make(map[string]runState, len(documents))
	var statesMu stdsync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)

	for _, document := range documents {
		group.Go(func() error {
			emit(opts.OnEvent, Event{Kind: EventDocumentStart, Document: document})

			state := runState{}
			if ctxErr := groupCtx.Err(); ctxErr != nil {
				state.err = ctxErr
			} else {
				state.result, state.err = c.convertOne(document)
			}

			statesMu.Lock()
			states[document] = state
			statesMu.Unlock()

			emit(opts.OnEvent, Event{
				Kind:     EventDocumentDone,
				Document: document,
				Result:   state.result,
				Err:      state.err,
			})
			if opts.Tracker != nil {
				opts.Tracker.Increment(1)
			}
			return nil
		})
	}

	if waitErr := group.Wait(); waitErr != nil {
		return nil, oops.Wrapf(waitErr, "waiting for conversion workers")
	}

	var entries []index.Entry
	for _, document := range documents {
		state := states[document]
		if state.err != nil {
			result.Errors++
			result.Failures[document] = state.err
			continue
		}

		if state.result.Skipped {
			result.Skipped++
		} else {
			result.Converted++
		}

		if !opts.DryRun && state.result.lock != nil {
			lock.SetEntry(document, state.result.lock)
		}

		entries = append(entries, index.Entry{
			File:  state.result.Output,
			Title: state.result.Title,
		})
	}

	if !opts.DryRun {
		if saveErr := lock.Save(outputDir); saveErr != nil {
			return result, saveErr
		}

		if cfg.IndexEnabled() && len(entries) > 0 {
			slices.SortFunc(entries, func(a, b index.Entry) int {
				return strings.Compare(a.File, b.File)
			})

			indexPath, indexErr := index.Write(outputDir, cfg.Project, entries)
			if indexErr != nil {
				return result, indexErr
			}
			result.IndexPath = indexPath
		}
	}

	if result.Errors > 0 {
		return result, oops.
			Code("CONVERT_FAILED").
			With("failed_documents", result.Errors).
			Errorf("%d document(s) failed to convert", result.Errors)
	}

	return result, nil
}

// Discover returns every XML document under inputDir, as sorted paths
// relative to inputDir.
func Discover(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, oops.
			Code("INPUT_NOT_FOUND").
			With("path", inputDir).
			Hint("Point --input at the directory holding the Doxygen XML output").
			Wrapf(err, "reading input directory")
	}
	if !info.IsDir() {
		return nil, oops.
			Code("INPUT_NOT_FOUND").
			With("path", inputDir).
			Errorf("input path %q is not a directory", inputDir)
	}

	matches, err := doublestar.Glob(os.DirFS(inputDir), inputPattern)
	if err != nil {
		return nil, oops.
			Code("INPUT_NOT_FOUND").
			With("path", inputDir).
			Wrapf(err, "globbing for XML documents")
	}

	slices.Sort(matches)
	return matches, nil
}

type converter struct {
	cfg       *config.Config
	opts      Options
	inputDir  string
	outputDir string
	lock      *lockfile.LockFile
}

func (c *converter) convertOne(document string) (*DocumentResult, error) {
	inputPath := filepath.Join(c.inputDir, document)
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, oops.
			Code("READ_FAILED").
			With("path", inputPath).
			Wrapf(err, "reading input document")
	}

	sum := sha256.Sum256(raw)
	inputSHA := hex.EncodeToString(sum[:])
	outputName := OutputName(document)
	outputPath := filepath.Join(c.outputDir, outputName)

	if !c.opts.Force {
		prev := c.lock.GetEntry(document)
		if prev.UpToDate(inputSHA, c.cfg.HeadingOffset) {
			if existing, readErr := os.ReadFile(outputPath); readErr == nil {
				return &DocumentResult{
					Document: document,
					Output:   outputName,
					Title:    outline.FirstHeading(existing),
					Bytes:    len(existing),
					Skipped:  true,
					lock:     prev,
				}, nil
			}
		}
	}

	root, err := doxml.Parse(raw)
	if err != nil {
		return nil, err
	}

	text, err := render.Render(root, render.Options{HeadingOffset: c.cfg.HeadingOffset})
	if err != nil {
		return nil, err
	}

	if !c.opts.DryRun {
		if writeErr := writeFileAtomic(outputPath, []byte(text)); writeErr != nil {
			return nil, writeErr
		}
	}

	return &DocumentResult{
		Document: document,
		Output:   outputName,
		Title:    outline.FirstHeading([]byte(text)),
		Bytes:    len(text),
		lock: &lockfile.LockEntry{
			InputSHA:      inputSHA,
			Output:        outputName,
			HeadingOffset: c.cfg.HeadingOffset,
			ConvertedAt:   time.Now().UTC(),
		},
	}, nil
}

// OutputName maps an input document path to its flat output file name.
func OutputName(document string) string {
	base := filepath.Base(document)
	return strings.TrimSuffix(base, inputExtension) + outputExtension
}

func emit(onEvent func(Event), event Event) {
	if onEvent != nil {
		onEvent(event)
	}
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".doxmd-out-*.tmp")
	if err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "creating temporary file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing temporary file")
	}

	if err := tempFile.Close(); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "closing temporary file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "replacing destination file")
	}

	return nil
}
