package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/samples"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testSamples() []charts.Sample {
	return []charts.Sample{
		{Subject: "S1", Timestamp: 0, BPM: 100},
		{Subject: "S1", Timestamp: 10, BPM: 110},
		{Subject: "S1", Timestamp: 20, BPM: 90},
		{Subject: "S2", Timestamp: 0, BPM: 70},
		{Subject: "S2", Timestamp: 20, BPM: 72},
	}
}

func newTestModel(opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = charts.ClockFunc(func() time.Time { return fixedNow })
	}
	return New(opts)
}

// loaded returns a model with testSamples already loaded.
func loaded(t *testing.T, mode charts.Mode) Model {
	t.Helper()
	m := newTestModel(Options{Mode: mode, Source: samples.Static(testSamples())})
	return update(t, m, samplesMsg{source: "static", samples: testSamples()})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return got
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"microseconds", 500 * time.Microsecond, "500µs"},
		{"milliseconds", 500 * time.Millisecond, "500ms"},
		{"seconds", 1500 * time.Millisecond, "1.5s"},
		{"zero", 0, "0µs"},
		{"exactly 1s", time.Second, "1.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("loading only with a source", func(t *testing.T) {
		if m := newTestModel(Options{}); m.loading {
			t.Error("loading = true without a source")
		}
		if m := newTestModel(Options{Source: samples.Static(nil)}); !m.loading {
			t.Error("loading = false with a source")
		}
	})

	t.Run("surface fits the terminal", func(t *testing.T) {
		m := newTestModel(Options{Mode: charts.MultiSeries})
		s := m.engine.Surface()
		if s.Width != DefaultTerminalWidth {
			t.Errorf("surface width = %v, want %d", s.Width, DefaultTerminalWidth)
		}
		if s.Height < MinChartHeight {
			t.Errorf("surface height = %v, want >= %d", s.Height, MinChartHeight)
		}
	})

	t.Run("query input holds the initial query", func(t *testing.T) {
		m := newTestModel(Options{Query: `heart_rate_bpm`})
		if got := m.queryInput.Value(); got != `heart_rate_bpm` {
			t.Errorf("query = %q, want heart_rate_bpm", got)
		}
	})
}

func TestLoadCommand(t *testing.T) {
	m := newTestModel(Options{Source: samples.Static(testSamples())})
	msg := m.load(m.source)()
	got, ok := msg.(samplesMsg)
	if !ok {
		t.Fatalf("load() msg = %T, want samplesMsg", msg)
	}
	if got.err != nil || len(got.samples) != 5 {
		t.Errorf("load() = %d samples, err %v", len(got.samples), got.err)
	}
}

func TestHandleSamples(t *testing.T) {
	t.Run("success feeds the engine", func(t *testing.T) {
		m := loaded(t, charts.MultiSeries)
		if m.loading {
			t.Error("loading = true after result")
		}
		if got := len(m.engine.Samples()); got != 5 {
			t.Errorf("engine samples = %d, want 5", got)
		}
		if !strings.Contains(m.legendTable.View(), "S2") {
			t.Error("legend table missing S2")
		}
	})

	t.Run("error is kept", func(t *testing.T) {
		m := newTestModel(Options{Source: samples.Static(nil)})
		m = update(t, m, samplesMsg{err: errors.New("boom")})
		if m.Err() == nil {
			t.Fatal("Err() = nil, want error")
		}
		if m.engine.Empty() != charts.EmptyNoSamples {
			t.Errorf("Empty() = %v, want EmptyNoSamples", m.engine.Empty())
		}
	})
}

func TestSelectionKeys(t *testing.T) {
	m := loaded(t, charts.MultiSeries)

	m = update(t, m, keyPress("c"))
	if got := m.engine.Selection().Len(); got != 0 {
		t.Errorf("after c: selection = %d, want 0", got)
	}

	m = update(t, m, keyPress("a"))
	if got := m.engine.Selection().Len(); got != 2 {
		t.Errorf("after a: selection = %d, want 2", got)
	}

	m = update(t, m, keyPress("1"))
	if m.engine.Selection().Has("S1") {
		t.Error("after 1: S1 still selected")
	}

	m = update(t, m, keyPress("9"))
	if got := m.engine.Selection().Len(); got != 1 {
		t.Errorf("after 9: selection = %d, want 1", got)
	}

	m = update(t, m, keyPress("m"))
	if !m.engine.Toggles().ShowAverage {
		t.Error("after m: ShowAverage = false")
	}
}

func TestBrushWithMouse(t *testing.T) {
	m := loaded(t, charts.SingleSeries)
	s := m.engine.Surface()
	x0, y := s.PlotLeft()+2, s.PlotTop()+1

	press := tea.MouseEvent{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	motion := tea.MouseEvent{Action: tea.MouseActionMotion}
	release := tea.MouseEvent{Action: tea.MouseActionRelease}

	next, _ := m.handlePointer(press, x0, y)
	m = next.(Model)
	next, _ = m.handlePointer(motion, x0+30, y)
	m = next.(Model)
	if m.engine.BrushState() != charts.BrushDragging {
		t.Fatalf("BrushState() = %v, want dragging", m.engine.BrushState())
	}
	next, cmd := m.handlePointer(release, x0+30, y)
	m = next.(Model)

	if !m.engine.Zoomed() {
		t.Fatal("Zoomed() = false after brushing")
	}
	if cmd == nil {
		t.Error("zoom did not schedule reveal frames")
	}

	m = update(t, m, keyPress("r"))
	if m.engine.Zoomed() {
		t.Error("Zoomed() = true after reset")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m := loaded(t, charts.SingleSeries)
	s := m.engine.Surface()

	next, _ := m.handlePointer(tea.MouseEvent{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, s.PlotLeft()+1, s.PlotTop()+1)
	m = next.(Model)
	m = update(t, m, keyPress("esc"))

	if m.engine.BrushState() != charts.BrushIdle {
		t.Errorf("BrushState() = %v, want idle", m.engine.BrushState())
	}
	next, _ = m.handlePointer(tea.MouseEvent{Action: tea.MouseActionRelease}, s.PlotLeft()+40, s.PlotTop()+1)
	if next.(Model).engine.Zoomed() {
		t.Error("release after cancel zoomed the chart")
	}
}

func TestFrames(t *testing.T) {
	m := newTestModel(Options{Mode: charts.SingleSeries})
	m.engine.Dispatch(charts.LoadSamples{Samples: testSamples()})
	if len(m.frames.frames) != 1 {
		t.Fatalf("queued frames = %d, want 1", len(m.frames.frames))
	}
	current := m.frames.frames[0]
	m.frames.frames = nil

	t.Run("current frame schedules the next", func(t *testing.T) {
		_, cmd := m.Update(frameMsg{frame: current})
		if cmd == nil {
			t.Error("Update(frame) cmd = nil, want next tick")
		}
		if len(m.frames.frames) != 0 {
			t.Errorf("queue not drained: %d frames", len(m.frames.frames))
		}
	})

	t.Run("stale frame is dropped", func(t *testing.T) {
		stale := charts.Frame{Series: current.Series, Generation: current.Generation - 1}
		if _, cmd := m.Update(frameMsg{frame: stale}); cmd != nil {
			t.Error("stale frame produced a command")
		}
	})
}

func TestFeed(t *testing.T) {
	ch := make(chan []charts.Sample, 1)
	m := newTestModel(Options{Mode: charts.MultiSeries, Feed: ch})
	m = update(t, m, samplesMsg{samples: testSamples()})

	ch <- []charts.Sample{{Subject: "S3", Timestamp: 30, BPM: 80}}
	msg := m.waitForFeed()()
	next, cmd := m.Update(msg)
	m = next.(Model)

	subjects := m.engine.Subjects()
	if len(subjects) != 3 || subjects[2] != "S3" {
		t.Errorf("Subjects() = %v, want S3 appended", subjects)
	}
	if cmd == nil {
		t.Error("feed batch did not re-arm the feed")
	}

	close(ch)
	m = update(t, m, m.waitForFeed()())
	if m.feed != nil {
		t.Error("feed still set after close")
	}
}

func TestQueryEditing(t *testing.T) {
	var got string
	reload := func(query string) (samples.Source, error) {
		got = query
		return samples.Static(testSamples()), nil
	}
	m := newTestModel(Options{Query: "hr", Reload: reload})

	m = update(t, m, keyPress("/"))
	if !m.editing {
		t.Fatal("editing = false after /")
	}
	m = update(t, m, keyPress("q"))
	if m.quitting {
		t.Fatal("q quit while editing")
	}
	next, cmd := m.Update(keyPress("enter"))
	m = next.(Model)

	if got != "hrq" {
		t.Errorf("reload query = %q, want hrq", got)
	}
	if !m.loading || cmd == nil {
		t.Error("enter did not start loading")
	}
}

func TestQueryEditingDisabledWithoutReload(t *testing.T) {
	m := newTestModel(Options{})
	m = update(t, m, keyPress("/"))
	if m.editing {
		t.Error("editing = true without a reloader")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(Options{})
	next, cmd := m.Update(keyPress("q"))
	if !next.(Model).quitting {
		t.Error("quitting = false")
	}
	if cmd == nil {
		t.Fatal("cmd = nil, want tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("cmd() is not tea.QuitMsg")
	}
}

func TestWindowSize(t *testing.T) {
	m := loaded(t, charts.MultiSeries)
	before := m.engine.Recomputes()
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if got := m.engine.Surface().Width; got != 120 {
		t.Errorf("surface width = %v, want 120", got)
	}
	if got := m.engine.Recomputes(); got != before+1 {
		t.Errorf("Recomputes() = %d, want %d", got, before+1)
	}
}

func TestView(t *testing.T) {
	m := loaded(t, charts.MultiSeries)
	view := m.View()
	for _, want := range []string{"multi", "5 samples", "Subject", "S1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
