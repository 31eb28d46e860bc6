// Package source downloads remote Doxygen XML documents into the input
// directory so they can be converted alongside local ones.
package source

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/samber/oops"
	"resty.dev/v3"
)

const fallbackFilename = "document.xml"

// Fetch downloads rawURL into destDir and returns the path of the written
// file. When filename is empty it is derived from the URL path.
func Fetch(ctx context.Context, rawURL string, destDir string, filename string) (string, error) {
	if filename == "" {
		filename = filenameFromURL(rawURL)
	}

	client := resty.New()
	defer func() {
		_ = client.Close()
	}()

	response, err := client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", oops.
			Code("DOWNLOAD_FAILED").
			With("url", rawURL).
			Wrapf(err, "downloading document")
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return "", oops.
			Code("DOWNLOAD_FAILED").
			With("url", rawURL).
			With("status", response.StatusCode()).
			Errorf("document fetch returned non-success status %d", response.StatusCode())
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return "", oops.
			Code("DOWNLOAD_FAILED").
			With("url", rawURL).
			Wrapf(err, "reading response body")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("path", destDir).
			Wrapf(err, "creating destination directory")
	}

	filePath := filepath.Join(destDir, filename)
	if err := writeFileAtomic(filePath, content); err != nil {
		return "", err
	}

	return filePath, nil
}

func filenameFromURL(rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err == nil {
		baseName := path.Base(parsed.Path)
		if baseName != "" && baseName != "." && baseName != "/" {
			return baseName
		}
	}

	return fallbackFilename
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".doxmd-fetch-*.tmp")
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
