// Package index writes the cross-document index.mdx linking every generated
// document under the project heading.
package index

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
)

// FileName is the index document written into the output directory.
const FileName = "index.mdx"

// Entry is one generated document. Title is the document's leading heading;
// when empty the file name is used as the link label.
type Entry struct {
	File  string `json:"file"`
	Title string `json:"title,omitempty"`
}

// Render produces the index document text.
func Render(project string, entries []Entry) string {
	var out strings.Builder
	out.WriteString("# " + project + "\n\n")

	for _, entry := range entries {
		label := entry.Title
		if label == "" {
			label = entry.File
		}
		out.WriteString("- [" + label + "](./" + entry.File + ")\n")
	}

	return out.String()
}

// Write renders the index and writes it atomically into outputDir, returning
// the path of the written file.
func Write(outputDir string, project string, entries []Entry) (string, error) {
	indexPath := filepath.Join(outputDir, FileName)
	content := []byte(Render(project, entries))

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("path", outputDir).
			Wrapf(err, "creating index directory")
	}

	tempFile, err := os.CreateTemp(outputDir, FileName+".*.tmp")
	if err != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("path", outputDir).
			Wrapf(err, "creating temporary index file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(content); writeErr != nil {
		_ = tempFile.Close()
		return "", oops.
			Code("WRITE_FAILED").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary index file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary index file")
	}

	if renameErr := os.Rename(tempPath, indexPath); renameErr != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("from", tempPath).
			With("to", indexPath).
			Wrapf(renameErr, "replacing index file")
	}

	return indexPath, nil
}
