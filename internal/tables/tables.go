package tables

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/akasprzok/pulse/internal/charts"
)

type Model struct {
	table           table.Model
	filterTextInput textinput.Model
}

// Samples builds a filterable table with one row per sample, in the order
// given.
func Samples(samples []charts.Sample) (Model, error) {
	longestSubject := 0
	rows := make([]table.Row, 0, len(samples))
	for _, sample := range samples {
		if len(sample.Subject) > longestSubject {
			longestSubject = len(sample.Subject)
		}
		rows = append(rows, table.NewRow(table.RowData{
			"subject":   sample.Subject,
			"time":      charts.FormatClock(sample.Timestamp),
			"timestamp": strconv.FormatFloat(sample.Timestamp, 'f', -1, 64),
			"bpm":       charts.FormatBPM(sample.BPM),
		}))
	}

	columns := []table.Column{
		table.NewColumn("subject", "Subject", max(longestSubject+1, 8)).WithFiltered(true),
		table.NewColumn("time", "Time (UTC)", 12).WithFiltered(true),
		table.NewColumn("timestamp", "Timestamp", 16),
		table.NewColumn("bpm", "BPM", 8).WithFiltered(true),
	}

	return Model{
		table: table.
			New(columns).
			Filtered(true).
			Focused(true).
			WithFooterVisibility(true).
			WithPageSize(10).
			WithRows(rows),
		filterTextInput: textinput.New(),
	}, nil
}

// Means builds a table of mean BPM per subject.
func Means(means map[string]float64, colors *charts.ColorMap) Model {
	ids := make([]string, 0, len(means))
	for id := range means {
		ids = append(ids, id)
	}
	charts.SortSubjects(ids)

	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, table.NewRow(table.RowData{
			"color":   colorBlock(colors, id),
			"subject": id,
			"mean":    strconv.FormatFloat(means[id], 'f', 1, 64),
		}))
	}

	columns := []table.Column{
		table.NewColumn("color", "", 3),
		table.NewColumn("subject", "Subject", 16),
		table.NewColumn("mean", "Mean BPM", 10),
	}

	return Model{
		table:           table.New(columns).WithRows(rows).WithPageSize(10),
		filterTextInput: textinput.New(),
	}
}

func colorBlock(colors *charts.ColorMap, id string) string {
	if colors == nil {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colors.ColorOf(id))).Render("\u2588")
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// global
		if msg.String() == "ctrl+c" {
			cmds = append(cmds, tea.Quit)

			return m, tea.Batch(cmds...)
		}
		// event to filter
		if m.filterTextInput.Focused() {
			if msg.String() == "enter" {
				m.filterTextInput.Blur()
			} else {
				m.filterTextInput, _ = m.filterTextInput.Update(msg)
			}
			m.table = m.table.WithFilterInput(m.filterTextInput)

			return m, tea.Batch(cmds...)
		}

		// others component
		switch msg.String() {
		case "/":
			m.filterTextInput.Focus()
		case "q":
			cmds = append(cmds, tea.Quit)
			return m, tea.Batch(cmds...)
		default:
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	body := strings.Builder{}

	body.WriteString(m.table.View())
	body.WriteString("\nPress / + letters to start filtering, and q or ctrl+c to quit")

	return body.String()
}
