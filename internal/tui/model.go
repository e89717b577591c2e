// Package tui is the interactive terminal front end: a bubbletea program
// driving a chart engine with the keyboard and mouse.
package tui

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	teatable "github.com/evertras/bubble-table/table"
	zone "github.com/lrstanley/bubblezone"
	"golang.org/x/term"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/render"
	"github.com/akasprzok/pulse/internal/samples"
)

// Reloader builds a new sample source from an edited query.
type Reloader func(query string) (samples.Source, error)

// Options configures a Model.
type Options struct {
	Mode        charts.Mode
	Source      samples.Source
	Reload      Reloader
	Query       string
	Feed        <-chan []charts.Sample
	Timeout     time.Duration
	Selection   []string
	ShowAverage bool
	Logger      *slog.Logger
	// Clock overrides the animation clock.
	Clock charts.Clock
}

// samplesMsg carries the result of loading a source.
type samplesMsg struct {
	source  string
	samples []charts.Sample
	err     error
	took    time.Duration
}

// feedMsg carries a batch from a live feed.
type feedMsg []charts.Sample

type feedClosedMsg struct{}

// frameMsg delivers a scheduled animation frame.
type frameMsg struct {
	frame charts.Frame
}

// frameQueue collects frames requested by the engine during an update so
// they can be returned as tick commands.
type frameQueue struct {
	frames []charts.Frame
}

func (q *frameQueue) Schedule(f charts.Frame) {
	q.frames = append(q.frames, f)
}

// Model is the main Bubble Tea model for the interactive chart.
type Model struct {
	engine  *charts.Engine
	frames  *frameQueue
	zones   *zone.Manager
	chartID string

	source  samples.Source
	reload  Reloader
	feed    <-chan []charts.Sample
	timeout time.Duration
	logger  *slog.Logger

	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	queryInput  textinput.Model
	legendTable teatable.Model

	editing  bool
	loading  bool
	err      error
	took     time.Duration
	width    int
	height   int
	quitting bool
}

// New returns a model sized to the current terminal.
func New(opts Options) Model {
	width, height := terminalSize()

	ti := textinput.New()
	ti.Placeholder = "Enter PromQL query..."
	ti.SetValue(opts.Query)
	ti.Width = width - 12

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	frames := &frameQueue{}
	m := Model{
		frames:     frames,
		zones:      zone.New(),
		source:     opts.Source,
		reload:     opts.Reload,
		feed:       opts.Feed,
		timeout:    opts.Timeout,
		logger:     logger,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    NewLoadingSpinner(),
		queryInput: ti,
		loading:    opts.Source != nil,
		width:      width,
		height:     height,
	}
	m.chartID = m.zones.NewPrefix()
	m.engine = charts.NewEngine(charts.Config{
		Mode:           opts.Mode,
		Surface:        render.TerminalSurface(opts.Mode, width, m.chartHeight()),
		RevealDuration: RevealDuration,
		Clock:          opts.Clock,
		Scheduler:      frames,
		Selection:      opts.Selection,
		ShowAverage:    opts.ShowAverage,
	})
	m.refreshLegend()
	return m
}

func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultTerminalWidth, DefaultTerminalHeight
	}
	return w, h
}

func (m Model) chromeHeight() int {
	h := ChromeHeight + LegendMaxRows + LegendBorderLines
	if m.reload == nil {
		h -= 3
	}
	return h
}

func (m Model) chartHeight() int {
	return max(m.height-m.chromeHeight(), MinChartHeight)
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForFeed()}
	if m.source != nil {
		cmds = append(cmds, m.spinner.Tick, m.load(m.source))
	}
	return tea.Batch(cmds...)
}

func (m Model) load(src samples.Source) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		loaded, err := src.Load(ctx)
		return samplesMsg{source: src.Name(), samples: loaded, err: err, took: time.Since(start)}
	}
}

func (m Model) waitForFeed() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	ch := m.feed
	return func() tea.Msg {
		batch, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return feedMsg(batch)
	}
}

// drainFrames turns frames scheduled since the last drain into ticks.
func (m Model) drainFrames() tea.Cmd {
	if len(m.frames.frames) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.frames.frames))
	for _, f := range m.frames.frames {
		cmds = append(cmds, tea.Tick(charts.FrameInterval, func(time.Time) tea.Msg {
			return frameMsg{frame: f}
		}))
	}
	m.frames.frames = m.frames.frames[:0]
	return tea.Batch(cmds...)
}

// Err returns the last load error, if any.
func (m Model) Err() error {
	return m.err
}
