package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Shared styles used across TUI components.
var (
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("231"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	focusedInputStyle = inputStyle.BorderForeground(lipgloss.Color("205"))
)

// NewLoadingSpinner creates a spinner with consistent styling for loading states.
func NewLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return s
}
