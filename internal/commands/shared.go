package commands

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Shared styles used across command output.
var (
	HeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// terminalWidth returns the usable width for charts printed to stdout.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = DefaultTerminalWidth
	}
	return width - ChartWidthPadding
}
