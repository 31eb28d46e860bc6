package convert_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/g5becks/doxmd/internal/config"
	"github.com/g5becks/doxmd/internal/convert"
	"github.com/samber/oops"
)

const validDocument = `<?xml version="1.0"?>
<doxygen>
  <compounddef kind="class">
    <compoundname>Widget</compoundname>
    <briefdescription><para>A widget.</para></briefdescription>
  </compounddef>
</doxygen>
`

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Input = filepath.Join(root, "xml")
	cfg.Output = filepath.Join(root, "mdx")
	cfg.Project = "Widgets"

	if err := os.MkdirAll(cfg.Input, 0o755); err != nil {
		t.Fatalf("creating input dir: %v", err)
	}
	return cfg
}

func writeInput(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	path := filepath.Join(cfg.InputDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating input subdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing input %q: %v", name, err)
	}
}

func TestRunConvertsDocuments(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "class_widget.xml", validDocument)

	result, err := convert.Run(context.Background(), cfg, convert.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Documents != 1 || result.Converted != 1 || result.Skipped != 0 || result.Errors != 0 {
		t.Errorf("result = %+v, want one converted document", result)
	}

	output, readErr := os.ReadFile(filepath.Join(cfg.OutputDir(), "class_widget.mdx"))
	if readErr != nil {
		t.Fatalf("reading output: %v", readErr)
	}
	if got := string(output); got == "" || got[0] != '#' {
		t.Errorf("output = %q, want rendered document starting with a heading", got)
	}

	if result.IndexPath == "" {
		t.Fatal("IndexPath is empty, want generated index")
	}
	indexContent, readErr := os.ReadFile(result.IndexPath)
	if readErr != nil {
		t.Fatalf("reading index: %v", readErr)
	}
	wantLine := "- [Widget (class)](./class_widget.mdx)"
	if got := string(indexContent); !strings.Contains(got, wantLine) {
		t.Errorf("index = %q, want line %q", got, wantLine)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "good.xml", validDocument)
	writeInput(t, cfg, "bad.xml", "<a><b></a>")

	result, err := convert.Run(context.Background(), cfg, convert.Options{})
	if err == nil {
		t.Fatal("Run() error = nil, want CONVERT_FAILED")
	}
	o, ok := oops.AsOops(err)
	if !ok || o.Code() != "CONVERT_FAILED" {
		t.Errorf("error = %v, want code CONVERT_FAILED", err)
	}

	if result.Converted != 1 || result.Errors != 1 {
		t.Errorf("result = %+v, want one converted and one failed", result)
	}
	if result.Failures["bad.xml"] == nil {
		t.Errorf("Failures = %v, want entry for bad.xml", result.Failures)
	}

	if _, statErr := os.Stat(filepath.Join(cfg.OutputDir(), "good.mdx")); statErr != nil {
		t.Errorf("good document output missing: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.OutputDir(), "bad.mdx")); statErr == nil {
		t.Error("bad document produced an output file")
	}
}

func TestRunSkipsUnchangedDocuments(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "class_widget.xml", validDocument)

	if _, err := convert.Run(context.Background(), cfg, convert.Options{}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	second, err := convert.Run(context.Background(), cfg, convert.Options{})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Skipped != 1 || second.Converted != 0 {
		t.Errorf("second run = %+v, want the document skipped", second)
	}

	// A changed heading offset invalidates the lock entry.
	cfg.HeadingOffset = 1
	third, err := convert.Run(context.Background(), cfg, convert.Options{})
	if err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if third.Converted != 1 {
		t.Errorf("third run = %+v, want reconversion after offset change", third)
	}
}

func TestRunForceReconverts(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "class_widget.xml", validDocument)

	if _, err := convert.Run(context.Background(), cfg, convert.Options{}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	result, err := convert.Run(context.Background(), cfg, convert.Options{Force: true})
	if err != nil {
		t.Fatalf("forced Run() error = %v", err)
	}
	if result.Converted != 1 || result.Skipped != 0 {
		t.Errorf("forced run = %+v, want reconversion", result)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "class_widget.xml", validDocument)

	result, err := convert.Run(context.Background(), cfg, convert.Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Converted != 1 {
		t.Errorf("result = %+v, want one planned conversion", result)
	}
	if result.IndexPath != "" {
		t.Errorf("IndexPath = %q, want empty on dry run", result.IndexPath)
	}

	if _, statErr := os.Stat(cfg.OutputDir()); !os.IsNotExist(statErr) {
		t.Errorf("output directory exists after dry run: %v", statErr)
	}
}

func TestRunNoIndexWhenDisabled(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	disabled := false
	cfg.EmitIndex = &disabled
	writeInput(t, cfg, "class_widget.xml", validDocument)

	result, err := convert.Run(context.Background(), cfg, convert.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.IndexPath != "" {
		t.Errorf("IndexPath = %q, want empty when index disabled", result.IndexPath)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.OutputDir(), "index.mdx")); statErr == nil {
		t.Error("index.mdx written although disabled")
	}
}

func TestRunEmitsEvents(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "a.xml", validDocument)
	writeInput(t, cfg, "b.xml", validDocument)

	var mu sync.Mutex
	counts := map[convert.EventKind]int{}
	opts := convert.Options{
		MaxParallel: 2,
		OnEvent: func(event convert.Event) {
			mu.Lock()
			counts[event.Kind]++
			mu.Unlock()
		},
	}

	if _, err := convert.Run(context.Background(), cfg, opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if counts[convert.EventDocumentStart] != 2 || counts[convert.EventDocumentDone] != 2 {
		t.Errorf("event counts = %v, want 2 starts and 2 dones", counts)
	}
}

func TestRunEmptyInputDirectory(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)

	result, err := convert.Run(context.Background(), cfg, convert.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Documents != 0 {
		t.Errorf("result = %+v, want no documents", result)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	writeInput(t, cfg, "b.xml", validDocument)
	writeInput(t, cfg, "a.xml", validDocument)
	writeInput(t, cfg, filepath.Join("nested", "c.xml"), validDocument)
	writeInput(t, cfg, "notes.txt", "not xml")

	documents, err := convert.Discover(cfg.InputDir())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"a.xml", "b.xml", "nested/c.xml"}
	if len(documents) != len(want) {
		t.Fatalf("Discover() = %v, want %v", documents, want)
	}
	for i := range want {
		if documents[i] != want[i] {
			t.Errorf("Discover()[%d] = %q, want %q", i, documents[i], want[i])
		}
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := convert.Discover(filepath.Join(t.TempDir(), "missing"))
	o, ok := oops.AsOops(err)
	if !ok || o.Code() != "INPUT_NOT_FOUND" {
		t.Errorf("error = %v, want code INPUT_NOT_FOUND", err)
	}
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		document string
		want     string
	}{
		{document: "class_foo.xml", want: "class_foo.mdx"},
		{document: "nested/dir/index.xml", want: "index.mdx"},
		{document: "plain", want: "plain.mdx"},
	}

	for _, tt := range tests {
		if got := convert.OutputName(tt.document); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.document, got, tt.want)
		}
	}
}
