package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/g5becks/doxmd/internal/convert"
)

// DocumentStatus is one row of the conversion report.
type DocumentStatus struct {
	Document string `json:"document"`
	Output   string `json:"output,omitempty"`
	Title    string `json:"title,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// ListOptions controls report rendering.
type ListOptions struct {
	JSON bool
}

// StatusFor maps one document outcome to a report row.
func StatusFor(document string, result *convert.DocumentResult, err error) DocumentStatus {
	status := DocumentStatus{Document: document}

	switch {
	case err != nil:
		status.Status = "failed"
		status.Error = err.Error()
	case result == nil:
		status.Status = "unknown"
	case result.Skipped:
		status.Status = "up-to-date"
		status.Output = result.Output
		status.Title = result.Title
		status.Bytes = result.Bytes
	default:
		status.Status = "converted"
		status.Output = result.Output
		status.Title = result.Title
		status.Bytes = result.Bytes
	}

	return status
}

// RenderDocumentList renders the conversion report as a table or JSON.
func RenderDocumentList(documents []DocumentStatus, opts ListOptions) error {
	if opts.JSON {
		return renderDocumentListJSON(documents)
	}

	renderDocumentListTable(documents)
	return nil
}

func renderDocumentListJSON(documents []DocumentStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(documents); err != nil {
		return fmt.Errorf("encode document list json: %w", err)
	}

	return nil
}

func renderDocumentListTable(documents []DocumentStatus) {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.SetStyle(table.StyleRounded)

	writer.AppendHeader(table.Row{"DOCUMENT", "OUTPUT", "TITLE", "BYTES", "STATUS"})

	for _, doc := range documents {
		size := ""
		if doc.Bytes > 0 {
			size = strconv.Itoa(doc.Bytes)
		}
		writer.AppendRow(table.Row{doc.Document, doc.Output, doc.Title, size, doc.Status})
	}

	writer.Render()
}
