// Package lockfile records what each output document was generated from so
// unchanged inputs can be skipped on the next run.
package lockfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

const (
	fileName       = ".doxmd.lock"
	currentVersion = 1
)

type LockFile struct {
	Version   int                   `json:"version"`
	Documents map[string]*LockEntry `json:"documents"`
}

// LockEntry describes one converted document. A document is up to date when
// its input hash and heading offset both match the previous run.
type LockEntry struct {
	InputSHA      string    `json:"input_sha"`
	Output        string    `json:"output"`
	HeadingOffset int       `json:"heading_offset"`
	ConvertedAt   time.Time `json:"converted_at"`
}

func Load(outputDir string) (*LockFile, error) {
	lockPath := filepath.Join(outputDir, fileName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Wrapf(err, "reading lock file")
	}

	lock := &LockFile{}
	if unmarshalErr := json.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Hint("Delete the lock file and run 'doxmd convert' to regenerate it").
			Wrapf(unmarshalErr, "parsing lock file")
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Documents == nil {
		lock.Documents = map[string]*LockEntry{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version:   currentVersion,
		Documents: map[string]*LockEntry{},
	}
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code("LOCK_ERROR").
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Documents == nil {
		l.Documents = map[string]*LockEntry{}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating lock directory")
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return oops.
			Code("LOCK_ERROR").
			Wrapf(err, "encoding lock file")
	}

	data = append(data, '\n')
	lockPath := filepath.Join(outputDir, fileName)

	tempFile, err := os.CreateTemp(outputDir, fileName+".*.tmp")
	if err != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", outputDir).
			Wrapf(err, "creating temporary lock file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("LOCK_ERROR").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary lock file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary lock file")
	}

	if renameErr := os.Rename(tempPath, lockPath); renameErr != nil {
		return oops.
			Code("LOCK_ERROR").
			With("from", tempPath).
			With("to", lockPath).
			Wrapf(renameErr, "replacing lock file")
	}

	return nil
}

func (l *LockFile) GetEntry(document string) *LockEntry {
	if l == nil {
		return nil
	}

	return l.Documents[document]
}

func (l *LockFile) SetEntry(document string, entry *LockEntry) {
	if l == nil {
		return
	}

	if l.Documents == nil {
		l.Documents = map[string]*LockEntry{}
	}

	l.Documents[document] = entry
}

func (l *LockFile) RemoveEntry(document string) {
	if l == nil || l.Documents == nil {
		return
	}

	delete(l.Documents, document)
}

// UpToDate reports whether a previous entry still matches the given input
// hash and heading offset.
func (e *LockEntry) UpToDate(inputSHA string, headingOffset int) bool {
	return e != nil && e.InputSHA == inputSHA && e.HeadingOffset == headingOffset
}
