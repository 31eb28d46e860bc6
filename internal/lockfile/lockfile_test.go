package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/g5becks/doxmd/internal/lockfile"
)

func TestLoadMissingFileReturnsEmptyLock(t *testing.T) {
	t.Parallel()

	lock, err := lockfile.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if lock.Documents == nil || len(lock.Documents) != 0 {
		t.Errorf("Documents = %#v, want empty map", lock.Documents)
	}
	if lock.GetEntry("anything.xml") != nil {
		t.Error("GetEntry() on empty lock returned an entry")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lock := lockfile.New()
	entry := &lockfile.LockEntry{
		InputSHA:      "abc123",
		Output:        "class_foo.mdx",
		HeadingOffset: 2,
		ConvertedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	lock.SetEntry("class_foo.xml", entry)

	if err := lock.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := lockfile.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := reloaded.GetEntry("class_foo.xml")
	if got == nil {
		t.Fatal("GetEntry() = nil after round trip")
	}
	if got.InputSHA != entry.InputSHA || got.Output != entry.Output ||
		got.HeadingOffset != entry.HeadingOffset || !got.ConvertedAt.Equal(entry.ConvertedAt) {
		t.Errorf("entry = %+v, want %+v", got, entry)
	}
}

func TestSaveCreatesOutputDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := lockfile.New().Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".doxmd.lock")); err != nil {
		t.Errorf("lock file missing after Save(): %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".doxmd.lock"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := lockfile.Load(dir); err == nil {
		t.Fatal("Load() error = nil, want parse failure")
	}
}

func TestRemoveEntry(t *testing.T) {
	t.Parallel()

	lock := lockfile.New()
	lock.SetEntry("a.xml", &lockfile.LockEntry{InputSHA: "x"})
	lock.RemoveEntry("a.xml")

	if lock.GetEntry("a.xml") != nil {
		t.Error("GetEntry() returned entry after RemoveEntry()")
	}
	lock.RemoveEntry("never-existed.xml")
}

func TestNilLockFileIsSafe(t *testing.T) {
	t.Parallel()

	var lock *lockfile.LockFile

	if lock.GetEntry("a.xml") != nil {
		t.Error("GetEntry() on nil lock returned an entry")
	}
	lock.SetEntry("a.xml", &lockfile.LockEntry{})
	lock.RemoveEntry("a.xml")

	if err := lock.Save(t.TempDir()); err == nil {
		t.Error("Save() on nil lock = nil error, want failure")
	}
}

func TestEntryUpToDate(t *testing.T) {
	t.Parallel()

	entry := &lockfile.LockEntry{InputSHA: "abc", HeadingOffset: 1}

	tests := []struct {
		name   string
		entry  *lockfile.LockEntry
		sha    string
		offset int
		want   bool
	}{
		{name: "matching", entry: entry, sha: "abc", offset: 1, want: true},
		{name: "different hash", entry: entry, sha: "def", offset: 1, want: false},
		{name: "different offset", entry: entry, sha: "abc", offset: 2, want: false},
		{name: "nil entry", entry: nil, sha: "abc", offset: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.entry.UpToDate(tt.sha, tt.offset); got != tt.want {
				t.Errorf("UpToDate(%q, %d) = %v, want %v", tt.sha, tt.offset, got, tt.want)
			}
		})
	}
}
