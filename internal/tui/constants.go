package tui

import "time"

const (
	// DefaultTerminalWidth is the fallback terminal width when detection fails.
	DefaultTerminalWidth = 80

	// DefaultTerminalHeight is the fallback terminal height when detection fails.
	DefaultTerminalHeight = 24

	// RevealDuration is how long a series takes to draw in the terminal.
	RevealDuration = 600 * time.Millisecond

	// ChromeHeight is lines consumed by the status bar, query input and help bar.
	ChromeHeight = 5

	// LegendMaxRows is the maximum number of visible rows in the legend table.
	LegendMaxRows = 5

	// LegendBorderLines is the legend table header and border overhead.
	LegendBorderLines = 4

	// MinChartHeight keeps the chart usable on short terminals.
	MinChartHeight = 8
)
