package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/render"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(m.renderStatusBar())
	s.WriteString("\n")

	s.WriteString(m.zones.Mark(m.chartID, render.Terminal(m.engine.Scene())))
	s.WriteString("\n")

	s.WriteString(m.legendTable.View())
	s.WriteString("\n")

	if m.reload != nil {
		s.WriteString(m.renderQueryInput())
		s.WriteString("\n")
	}
	if m.err != nil {
		s.WriteString(ErrorStyle.Render("Error: ") + m.err.Error())
		s.WriteString("\n")
	}

	s.WriteString(m.help.View(m.keys))

	return m.zones.Scan(s.String())
}

func (m Model) renderStatusBar() string {
	mode := activeStyle.Render(" " + m.engine.Mode().String() + " ")

	parts := []string{mode}
	if m.loading {
		parts = append(parts, m.spinner.View()+" loading")
	} else if m.source != nil {
		parts = append(parts, m.source.Name())
	}

	if full, ok := m.engine.FullExtent(); ok {
		w := m.engine.Window()
		window := fmt.Sprintf("%s - %s", charts.FormatClock(w.Start), charts.FormatClock(w.End))
		if m.engine.Zoomed() {
			window += fmt.Sprintf(" (of %s - %s)", charts.FormatClock(full.Start), charts.FormatClock(full.End))
		}
		parts = append(parts, window)
	}
	parts = append(parts, fmt.Sprintf("%d samples", len(m.engine.Samples())))
	if m.took > 0 {
		parts = append(parts, formatDuration(m.took))
	}
	if m.feed != nil {
		parts = append(parts, WarningStyle.Render("live"))
	}

	return barStyle.Width(m.width).Render(strings.Join(parts, " | "))
}

func (m Model) renderQueryInput() string {
	style := inputStyle
	if m.editing {
		style = focusedInputStyle
	}
	label := lipgloss.NewStyle().Bold(true).Render("Query: ")
	return style.Render(label + m.queryInput.View())
}

// formatDuration formats a duration with appropriate precision.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
