package charts

import (
	"math"
	"strconv"
	"time"
)

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// LineKind tells surfaces how to style a line.
type LineKind int

const (
	LineGrid LineKind = iota
	LineAxis
	LineCrosshair
)

// Line is a straight segment.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
	Kind   LineKind
}

// Tick is an axis tick with its pixel position and label.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Path is the projected polyline of one series. Progress is the reveal
// progress at the time the scene was built.
type Path struct {
	Subject  string
	Color    string
	Points   []Point
	Progress float64
}

// Visible returns the part of the path revealed so far.
func (p Path) Visible() []Point {
	return Truncate(p.Points, p.Progress)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// TooltipRow is one subject's reading under the pointer.
type TooltipRow struct {
	Subject string
	Color   string
	BPM     float64
	Time    string
}

// Tooltip is the floating panel next to the pointer.
type Tooltip struct {
	X, Y float64
	Rows []TooltipRow
}

// EmptyState explains why a scene has no paths.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoSamples
	EmptyNoSelection
	EmptyNoDataInWindow
)

// Message returns the text surfaces draw in place of the series.
func (e EmptyState) Message() string {
	switch e {
	case EmptyNoSamples:
		return "No data loaded"
	case EmptyNoSelection:
		return "No subjects selected"
	case EmptyNoDataInWindow:
		return "No data in the selected time range"
	default:
		return ""
	}
}

// Scene is every drawing primitive of one frame.
type Scene struct {
	Surface   Surface
	Mode      Mode
	Empty     EmptyState
	Window    TimeWindow
	XTicks    []Tick
	YTicks    []Tick
	Grid      []Line
	Axes      []Line
	Paths     []Path
	Averages  []AverageLine
	Legend    []LegendEntry
	Brush     *Rect
	Crosshair *Line
	Tooltip   *Tooltip
}

// FormatClock formats timestamp seconds as HH:MM:SS in UTC.
func FormatClock(seconds float64) string {
	return time.Unix(int64(math.Floor(seconds)), 0).UTC().Format("15:04:05")
}

// FormatBPM formats a BPM value for labels.
func FormatBPM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildPath projects an ordered series through scales.
func BuildPath(subject, color string, series []Sample, scales Scales) Path {
	points := make([]Point, 0, len(series))
	for _, s := range series {
		points = append(points, Point{X: scales.Time.Map(s.Timestamp), Y: scales.Value.Map(s.BPM)})
	}
	return Path{Subject: subject, Color: color, Points: points, Progress: 1}
}

func buildAxes(surface Surface, scales Scales) (xTicks, yTicks []Tick, grid, axes []Line) {
	left, right := surface.PlotLeft(), surface.PlotRight()
	top, bottom := surface.PlotTop(), surface.PlotBottom()

	for _, v := range scales.Time.Ticks(TimeTicks) {
		x := scales.Time.Map(v)
		xTicks = append(xTicks, Tick{Value: v, Pos: x, Label: FormatClock(v)})
	}
	for _, v := range scales.Value.Ticks(ValueTicks) {
		y := scales.Value.Map(v)
		yTicks = append(yTicks, Tick{Value: v, Pos: y, Label: FormatBPM(v)})
		grid = append(grid, Line{X1: left, Y1: y, X2: right, Y2: y, Kind: LineGrid})
	}
	axes = []Line{
		{X1: left, Y1: bottom, X2: right, Y2: bottom, Kind: LineAxis},
		{X1: left, Y1: top, X2: left, Y2: bottom, Kind: LineAxis},
	}
	return xTicks, yTicks, grid, axes
}

// tooltipAt places the tooltip to the right of x, or to the left when it
// would overflow the surface.
func tooltipAt(surface Surface, x, y float64, rows []TooltipRow) *Tooltip {
	width, offset := surface.TooltipWidth, surface.TooltipOffset
	if width <= 0 {
		width = TooltipWidth
	}
	if offset <= 0 {
		offset = TooltipOffset
	}
	tx := x + offset
	if tx+width > surface.Width {
		tx = x - offset - width
	}
	tx = math.Max(0, tx)
	return &Tooltip{X: tx, Y: math.Max(surface.PlotTop(), y-offset), Rows: rows}
}
