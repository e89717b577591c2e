package charts

import (
	"math"
	"time"
)

// Mode selects between a chart of one subject and a comparison of many.
type Mode int

const (
	SingleSeries Mode = iota
	MultiSeries
)

func (m Mode) String() string {
	switch m {
	case SingleSeries:
		return "single"
	case MultiSeries:
		return "multi"
	default:
		return "unknown"
	}
}

// DefaultSurface returns a surface of the given size with margins for
// axis labels, plus a legend column in multi-series mode.
func DefaultSurface(mode Mode, width, height float64) Surface {
	m := Margins{Top: 20, Right: 30, Bottom: 30, Left: 50}
	if mode == MultiSeries {
		m.Right = 120
	}
	return Surface{Width: width, Height: height, Margins: m}
}

// Config configures an Engine.
type Config struct {
	Mode           Mode
	Surface        Surface
	RevealDuration time.Duration
	Clock          Clock
	Scheduler      Scheduler
	// Selection overrides the default selection. In single-series mode
	// only the first subject is used.
	Selection []string
	// ShowAverage turns the mean overlay on from the start.
	ShowAverage bool
}

// Toggles are the view switches owned by the engine.
type Toggles struct {
	ShowAverage bool
}

type pointer struct {
	x, y   float64
	active bool
}

// Engine owns the view state of one chart and recomputes the filtered
// series, scales and overlays whenever that state changes. It is not safe
// for concurrent use; callers drive it from a single event loop.
type Engine struct {
	mode     Mode
	surface  Surface
	animator *Animator

	samples      []Sample
	full         TimeWindow
	hasData      bool
	window       TimeWindow
	windowSet    bool
	selection    Selection
	selectionSet bool
	toggles      Toggles
	colors       *ColorMap

	brush   Brush
	pointer pointer

	series     Series
	scales     Scales
	means      map[string]float64
	empty      EmptyState
	recomputes int
}

// NewEngine returns an engine with no samples. The first recompute happens
// on the first dispatched action.
func NewEngine(cfg Config) *Engine {
	surface := cfg.Surface
	if surface.Width == 0 && surface.Height == 0 {
		surface = DefaultSurface(cfg.Mode, 800, 400)
	}
	e := &Engine{
		mode:     cfg.Mode,
		surface:  surface,
		animator: NewAnimator(cfg.Clock, cfg.Scheduler, cfg.RevealDuration),
		colors:   NewColorMap(nil),
		toggles:  Toggles{ShowAverage: cfg.ShowAverage},
		series:   make(Series),
		means:    make(map[string]float64),
		empty:    EmptyNoSamples,
	}
	var ids []string
	for _, id := range cfg.Selection {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		if e.mode == SingleSeries {
			ids = ids[:1]
		}
		e.selection = NewSelection(ids...)
		e.selectionSet = true
	}
	e.scales = NewScales(e.surface, TimeWindow{}, nil)
	return e
}

// Action is a state mutation applied through Engine.Dispatch.
type Action interface {
	apply(e *Engine)
}

// LoadSamples replaces the sample set. The window follows the new data
// until the user zooms again; a selection made by the user is kept.
type LoadSamples struct{ Samples []Sample }

// AppendSamples adds samples to the current set, e.g. from a live feed. A
// drag in progress survives and is evaluated against the new scale.
type AppendSamples struct{ Samples []Sample }

// SelectSubject adds a subject to the selection. In single-series mode it
// replaces the displayed subject.
type SelectSubject struct{ Subject string }

// DeselectSubject removes a subject from the selection.
type DeselectSubject struct{ Subject string }

// ToggleSubject flips the membership of a subject.
type ToggleSubject struct{ Subject string }

// SelectAll selects every loaded subject.
type SelectAll struct{}

// ClearSelection empties the selection.
type ClearSelection struct{}

// SetWindow zooms to an explicit time window.
type SetWindow struct{ Window TimeWindow }

// ResetZoom restores the full extent of all loaded samples.
type ResetZoom struct{}

// ToggleAverage shows or hides the mean reference lines.
type ToggleAverage struct{}

// Resize changes the surface size, keeping the margins.
type Resize struct{ Width, Height float64 }

func (a LoadSamples) apply(e *Engine) {
	e.samples = append([]Sample(nil), a.Samples...)
	e.windowSet = false
	e.colors.Extend(Subjects(e.samples))
}

func (a AppendSamples) apply(e *Engine) {
	e.samples = append(e.samples, a.Samples...)
	e.colors.Extend(Subjects(a.Samples))
}

func (a SelectSubject) apply(e *Engine) {
	if e.mode == SingleSeries {
		e.setSelection(NewSelection(a.Subject))
		return
	}
	e.setSelection(e.selection.With(a.Subject))
}

func (a DeselectSubject) apply(e *Engine) {
	if e.mode == SingleSeries {
		return
	}
	e.setSelection(e.selection.Without(a.Subject))
}

func (a ToggleSubject) apply(e *Engine) {
	if e.mode == SingleSeries {
		SelectSubject(a).apply(e)
		return
	}
	if e.selection.Has(a.Subject) {
		e.setSelection(e.selection.Without(a.Subject))
		return
	}
	e.setSelection(e.selection.With(a.Subject))
}

func (SelectAll) apply(e *Engine) {
	if e.mode == SingleSeries {
		return
	}
	e.setSelection(NewSelection(Subjects(e.samples)...))
}

func (ClearSelection) apply(e *Engine) {
	if e.mode == SingleSeries {
		return
	}
	e.setSelection(NewSelection())
}

func (a SetWindow) apply(e *Engine) {
	e.window = NewTimeWindow(a.Window.Start, a.Window.End)
	e.windowSet = true
}

func (ResetZoom) apply(e *Engine) {
	e.windowSet = false
}

func (ToggleAverage) apply(e *Engine) {
	e.toggles.ShowAverage = !e.toggles.ShowAverage
}

func (a Resize) apply(e *Engine) {
	e.surface.Width = math.Max(0, a.Width)
	e.surface.Height = math.Max(0, a.Height)
}

func (e *Engine) setSelection(s Selection) {
	e.selection = s
	e.selectionSet = true
}

// Dispatch applies a and recomputes the chart exactly once.
func (e *Engine) Dispatch(a Action) {
	a.apply(e)
	e.recompute()
}

func (e *Engine) recompute() {
	e.full, e.hasData = Extent(e.samples)
	if !e.windowSet {
		e.window = e.full
	}
	if !e.selectionSet {
		e.selection = e.defaultSelection()
	}

	e.series = Filter(e.samples, e.selection, e.window)
	e.scales = NewScales(e.surface, e.window, e.series.Values())
	e.means = Means(e.series)

	switch {
	case !e.hasData:
		e.empty = EmptyNoSamples
	case e.selection.Len() == 0:
		e.empty = EmptyNoSelection
	case e.series.Empty():
		e.empty = EmptyNoDataInWindow
	default:
		e.empty = EmptyNone
	}

	visible := e.series.Subjects()
	e.animator.Retain(visible)
	for _, id := range visible {
		e.animator.Start(id)
	}
	e.recomputes++
}

func (e *Engine) defaultSelection() Selection {
	ids := Subjects(e.samples)
	if e.mode == SingleSeries && len(ids) > 1 {
		ids = ids[:1]
	}
	return NewSelection(ids...)
}

// Step forwards an animation frame to the animator. It reports whether the
// frame is current, in which case the caller should redraw.
func (e *Engine) Step(f Frame) bool {
	return e.animator.Step(f)
}

// PointerMove records the pointer position for the crosshair and tooltip.
// While dragging it also moves the brush. It never recomputes.
func (e *Engine) PointerMove(x, y float64) {
	e.pointer = pointer{x: x, y: y, active: true}
	e.brush.Move(x)
}

// PointerLeave hides the crosshair and tooltip.
func (e *Engine) PointerLeave() {
	e.pointer = pointer{}
}

// DragStart begins a brush at x. Presses outside the plot area are ignored.
func (e *Engine) DragStart(x, y float64) bool {
	if !e.surface.InPlot(x, y) {
		return false
	}
	e.brush.Start(x)
	return true
}

// DragMove updates the brush overlay only.
func (e *Engine) DragMove(x float64) bool {
	return e.brush.Move(x)
}

// DragEnd releases the brush at x. A drag of at least MinBrushPixels
// commits a new window through SetWindow and reports true.
func (e *Engine) DragEnd(x float64) bool {
	w, ok := e.brush.End(x, e.scales.Time)
	if !ok {
		return false
	}
	e.Dispatch(SetWindow{Window: w})
	return true
}

// CancelDrag drops a drag in progress without changing the window.
func (e *Engine) CancelDrag() {
	e.brush.Cancel()
}

// Mode returns the engine mode.
func (e *Engine) Mode() Mode { return e.mode }

// Surface returns the current drawing surface.
func (e *Engine) Surface() Surface { return e.surface }

// Window returns the displayed time window.
func (e *Engine) Window() TimeWindow { return e.window }

// FullExtent returns the window spanning all loaded samples.
func (e *Engine) FullExtent() (TimeWindow, bool) { return e.full, e.hasData }

// Zoomed reports whether the window was narrowed by the user.
func (e *Engine) Zoomed() bool { return e.windowSet }

// Selection returns the displayed subjects.
func (e *Engine) Selection() Selection { return e.selection }

// Toggles returns the view switches.
func (e *Engine) Toggles() Toggles { return e.toggles }

// Subjects returns every loaded subject in numeric order.
func (e *Engine) Subjects() []string { return Subjects(e.samples) }

// Samples returns the loaded samples. Callers must not modify them.
func (e *Engine) Samples() []Sample { return e.samples }

// Series returns the filtered series of the last recompute.
func (e *Engine) Series() Series { return e.series }

// Scales returns the scales of the last recompute.
func (e *Engine) Scales() Scales { return e.scales }

// Means returns the mean BPM per visible series.
func (e *Engine) Means() map[string]float64 { return e.means }

// Colors returns the session color map.
func (e *Engine) Colors() *ColorMap { return e.colors }

// Empty returns the empty state of the last recompute.
func (e *Engine) Empty() EmptyState { return e.empty }

// Recomputes returns how many recomputes have run.
func (e *Engine) Recomputes() int { return e.recomputes }

// BrushState returns the state of the brush gesture.
func (e *Engine) BrushState() BrushState { return e.brush.State() }

// Animating reports whether any path is still being revealed.
func (e *Engine) Animating() bool { return e.animator.Animating() }

// Scene returns the drawing primitives for the current state. Reveal
// progress is read from the animator at call time.
func (e *Engine) Scene() Scene {
	sc := Scene{
		Surface: e.surface,
		Mode:    e.mode,
		Empty:   e.empty,
		Window:  e.window,
	}
	sc.XTicks, sc.YTicks, sc.Grid, sc.Axes = buildAxes(e.surface, e.scales)

	if e.mode == MultiSeries {
		sc.Legend = BuildLegend(e.selection, e.colors)
	}

	if lo, hi, ok := e.brush.Extent(); ok {
		lo, hi = e.scales.Time.ClampRange(lo), e.scales.Time.ClampRange(hi)
		sc.Brush = &Rect{
			X: lo,
			Y: e.surface.PlotTop(),
			W: hi - lo,
			H: e.surface.PlotBottom() - e.surface.PlotTop(),
		}
	}

	if e.empty != EmptyNone {
		return sc
	}

	for _, id := range e.series.Subjects() {
		p := BuildPath(id, e.colors.ColorOf(id), e.series[id], e.scales)
		p.Progress = e.animator.Progress(id)
		sc.Paths = append(sc.Paths, p)
	}
	if e.toggles.ShowAverage {
		sc.Averages = AverageLines(e.means, e.scales, e.colors)
	}
	e.pointerOverlay(&sc)
	return sc
}

func (e *Engine) pointerOverlay(sc *Scene) {
	if !e.pointer.active || e.brush.State() == BrushDragging {
		return
	}
	if !e.surface.InPlot(e.pointer.x, e.pointer.y) {
		return
	}
	t := e.scales.Time.Invert(e.pointer.x)
	hits := NearestAll(e.series, t)
	best, ok := Closest(hits)
	if !ok {
		return
	}
	x := e.scales.Time.Map(best.Sample.Timestamp)
	sc.Crosshair = &Line{
		X1: x, Y1: e.surface.PlotTop(),
		X2: x, Y2: e.surface.PlotBottom(),
		Kind: LineCrosshair,
	}
	rows := make([]TooltipRow, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, TooltipRow{
			Subject: h.Sample.Subject,
			Color:   e.colors.ColorOf(h.Sample.Subject),
			BPM:     h.Sample.BPM,
			Time:    FormatClock(h.Sample.Timestamp),
		})
	}
	sc.Tooltip = tooltipAt(e.surface, x, e.pointer.y, rows)
}
