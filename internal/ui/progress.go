package ui

import "github.com/jedib0t/go-pretty/v6/progress"

// NewProgressWriter builds the progress bar used for large conversion
// batches.
func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = false
	writer.Style().Visibility.Value = true

	return writer
}

// NewConversionTracker creates the tracker fed by convert.Run, one unit per
// document.
func NewConversionTracker(writer progress.Writer, total int) *progress.Tracker {
	tracker := &progress.Tracker{
		Message: "converting documents",
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	writer.AppendTracker(tracker)

	return tracker
}
