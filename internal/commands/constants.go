package commands

import "time"

const (
	// DefaultTerminalWidth is the fallback terminal width when detection fails.
	DefaultTerminalWidth = 80

	// DefaultQueryStep is the default step interval for range queries.
	DefaultQueryStep = 15 * time.Second

	// ChartWidthPadding is the horizontal padding subtracted from terminal width for chart rendering.
	ChartWidthPadding = 6

	// DefaultExportWidth and DefaultExportHeight size exported charts in pixels.
	DefaultExportWidth  = 800
	DefaultExportHeight = 400

	// FeedBuffer is how many live batches may queue before feeds block.
	FeedBuffer = 16
)
