package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	teatable "github.com/evertras/bubble-table/table"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/render"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		if m.engine.Step(msg.frame) {
			return m, m.drainFrames()
		}
		return m, nil

	case samplesMsg:
		return m.handleSamples(msg)

	case feedMsg:
		m.engine.Dispatch(charts.AppendSamples{Samples: msg})
		m.refreshLegend()
		return m, tea.Batch(m.drainFrames(), m.waitForFeed())

	case feedClosedMsg:
		m.logger.Info("live feed closed")
		m.feed = nil
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.queryInput, cmd = m.queryInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.queryInput.Width = msg.Width - 12
	m.help.Width = msg.Width
	m.engine.Dispatch(charts.Resize{Width: float64(m.width), Height: float64(m.chartHeight())})
	return m, m.drainFrames()
}

func (m Model) handleSamples(msg samplesMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.took = msg.took
	if msg.err != nil {
		m.err = msg.err
		m.logger.Error("loading samples failed", "source", msg.source, "error", msg.err)
		return m, nil
	}
	m.err = nil
	m.logger.Info("samples loaded", "source", msg.source, "count", len(msg.samples), "took", msg.took)
	m.engine.Dispatch(charts.LoadSamples{Samples: msg.samples})
	m.refreshLegend()
	return m, m.drainFrames()
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.editing {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.SelectAll):
		return m.dispatch(charts.SelectAll{})
	case key.Matches(msg, m.keys.Clear):
		return m.dispatch(charts.ClearSelection{})
	case key.Matches(msg, m.keys.Toggle):
		return m.handleToggleKey(msg.String())
	case key.Matches(msg, m.keys.Average):
		return m.dispatch(charts.ToggleAverage{})
	case key.Matches(msg, m.keys.Reset):
		return m.dispatch(charts.ResetZoom{})
	case key.Matches(msg, m.keys.Query):
		if m.reload == nil {
			return m, nil
		}
		m.editing = true
		cmd := m.queryInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		if m.engine.BrushState() == charts.BrushDragging {
			m.engine.CancelDrag()
			return m, nil
		}
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.legendTable, cmd = m.legendTable.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.queryInput.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.queryInput.Blur()
		src, err := m.reload(m.queryInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.source = src
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.load(src))
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, cmd
}

// handleToggleKey maps 1-9 onto the loaded subjects in numeric order.
func (m Model) handleToggleKey(k string) (tea.Model, tea.Cmd) {
	n, err := strconv.Atoi(k)
	if err != nil {
		return m, nil
	}
	subjects := m.engine.Subjects()
	if n < 1 || n > len(subjects) {
		return m, nil
	}
	return m.dispatch(charts.ToggleSubject{Subject: subjects[n-1]})
}

func (m Model) dispatch(a charts.Action) (tea.Model, tea.Cmd) {
	m.engine.Dispatch(a)
	m.refreshLegend()
	return m, m.drainFrames()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := -1, -1
	if z := m.zones.Get(m.chartID); z != nil {
		x, y = z.Pos(msg)
	}
	if x < 0 || y < 0 {
		if msg.Action == tea.MouseActionRelease {
			m.engine.CancelDrag()
		}
		m.engine.PointerLeave()
		return m, nil
	}
	return m.handlePointer(tea.MouseEvent(msg), float64(x), float64(y))
}

// handlePointer applies a mouse event at chart cell (x, y).
func (m Model) handlePointer(ev tea.MouseEvent, x, y float64) (tea.Model, tea.Cmd) {
	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.engine.PointerMove(x, y)
		m.engine.DragStart(x, y)
	case tea.MouseActionMotion:
		m.engine.PointerMove(x, y)
	case tea.MouseActionRelease:
		if m.engine.DragEnd(x) {
			m.refreshLegend()
			return m, m.drainFrames()
		}
		m.engine.PointerMove(x, y)
	}
	return m, nil
}

func (m *Model) refreshLegend() {
	subjects := m.engine.Subjects()
	selection := m.engine.Selection()
	means := m.engine.Means()
	colors := m.engine.Colors()

	rows := make([]teatable.Row, 0, len(subjects))
	for i, id := range subjects {
		keyLabel := ""
		if i < 9 {
			keyLabel = strconv.Itoa(i + 1)
		}
		mean := "-"
		if v, ok := means[id]; ok {
			mean = fmt.Sprintf("%.1f", v)
		}
		shown := ""
		if selection.Has(id) {
			shown = "✓"
		}
		rows = append(rows, teatable.NewRow(teatable.RowData{
			"key":     keyLabel,
			"color":   render.SeriesStyle(colors.ColorOf(id)).Render("█"),
			"subject": id,
			"mean":    mean,
			"shown":   shown,
		}))
	}

	columns := []teatable.Column{
		teatable.NewColumn("key", "#", 3),
		teatable.NewColumn("color", "", 3),
		teatable.NewColumn("subject", "Subject", 16),
		teatable.NewColumn("mean", "Mean BPM", 10),
		teatable.NewColumn("shown", "Shown", 7),
	}

	m.legendTable = teatable.
		New(columns).
		WithRows(rows).
		WithPageSize(LegendMaxRows).
		WithBaseStyle(lipgloss.NewStyle()).
		Focused(true)
}
