package render

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/charmbracelet/lipgloss"

	"github.com/akasprzok/pulse/internal/charts"
)

var axisStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("3")) // yellow

var labelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("6")) // cyan

var gridStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("238"))

var crosshairStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("244"))

var brushStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("237"))

var tooltipStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Background(lipgloss.Color("235"))

var emptyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	Italic(true)

// TerminalSurface returns a surface measured in terminal cells, with room
// for y labels on the left, x labels below and, in multi-series mode, the
// legend on the right.
func TerminalSurface(mode charts.Mode, cols, rows int) charts.Surface {
	m := charts.Margins{Top: 1, Right: 2, Bottom: 2, Left: 7}
	if mode == charts.MultiSeries {
		m.Right = 12
	}
	return charts.Surface{
		Width:         float64(cols),
		Height:        float64(rows),
		Margins:       m,
		TooltipWidth:  26,
		TooltipOffset: 2,
	}
}

// SeriesStyle returns the foreground style of a palette color.
func SeriesStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Terminal draws a scene onto an ntcharts canvas and returns its view.
// Scene coordinates are cells.
func Terminal(sc charts.Scene) string {
	w, h := int(sc.Surface.Width), int(sc.Surface.Height)
	if w <= 0 || h <= 0 {
		return ""
	}
	c := canvas.New(w, h)
	t := terminal{c: &c, w: w, h: h}

	for _, l := range sc.Grid {
		t.hline(l, '┄', gridStyle)
	}
	t.axes(sc)
	t.ticks(sc)

	if sc.Empty != charts.EmptyNone {
		t.centered(sc.Surface, sc.Empty.Message())
	}
	for _, a := range sc.Averages {
		t.hline(charts.Line{X1: a.X1, Y1: a.Y, X2: a.X2, Y2: a.Y}, '╌', SeriesStyle(a.Color))
		t.text(cell(a.X2)-len(a.Label), cell(a.Y)-1, a.Label, SeriesStyle(a.Color))
	}
	for _, p := range sc.Paths {
		t.path(p.Visible(), SeriesStyle(p.Color))
	}
	if sc.Brush != nil {
		t.shade(*sc.Brush)
	}
	if sc.Crosshair != nil {
		for y := cell(sc.Crosshair.Y1); y <= cell(sc.Crosshair.Y2); y++ {
			p := canvas.Point{X: cell(sc.Crosshair.X1), Y: y}
			if r := t.c.Cell(p).Rune; r == runes.Null || r == ' ' || r == '┄' {
				t.set(p, '│', crosshairStyle)
			}
		}
	}
	t.legend(sc)
	if sc.Tooltip != nil {
		t.tooltip(*sc.Tooltip)
	}
	return c.View()
}

type terminal struct {
	c    *canvas.Model
	w, h int
}

func cell(f float64) int {
	return int(math.Round(f))
}

func (t terminal) inside(p canvas.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < t.w && p.Y < t.h
}

func (t terminal) set(p canvas.Point, r rune, s lipgloss.Style) {
	if t.inside(p) {
		t.c.SetCell(p, canvas.NewCellWithStyle(r, s))
	}
}

func (t terminal) text(x, y int, s string, style lipgloss.Style) {
	if y < 0 || y >= t.h {
		return
	}
	for _, r := range s {
		t.set(canvas.Point{X: x, Y: y}, r, style)
		x++
	}
}

func (t terminal) hline(l charts.Line, r rune, s lipgloss.Style) {
	y := cell(l.Y1)
	for x := cell(l.X1); x <= cell(l.X2); x++ {
		t.set(canvas.Point{X: x, Y: y}, r, s)
	}
}

func (t terminal) axes(sc charts.Scene) {
	left, bottom := cell(sc.Surface.PlotLeft()), cell(sc.Surface.PlotBottom())
	for _, a := range sc.Axes {
		if a.Y1 == a.Y2 {
			t.hline(a, '─', axisStyle)
			continue
		}
		for y := cell(a.Y1); y <= cell(a.Y2); y++ {
			t.set(canvas.Point{X: cell(a.X1), Y: y}, '│', axisStyle)
		}
	}
	t.set(canvas.Point{X: left, Y: bottom}, '└', axisStyle)
}

func (t terminal) ticks(sc charts.Scene) {
	left, bottom := cell(sc.Surface.PlotLeft()), cell(sc.Surface.PlotBottom())
	for _, tk := range sc.YTicks {
		y := cell(tk.Pos)
		t.set(canvas.Point{X: left, Y: y}, '┤', axisStyle)
		t.text(left-1-utf8.RuneCountInString(tk.Label), y, tk.Label, labelStyle)
	}
	lastEnd := -1
	for _, tk := range sc.XTicks {
		x := cell(tk.Pos)
		t.set(canvas.Point{X: x, Y: bottom}, '┬', axisStyle)
		n := utf8.RuneCountInString(tk.Label)
		start := x - n/2
		if start <= lastEnd || start+n > t.w {
			continue
		}
		t.text(start, bottom+1, tk.Label, labelStyle)
		lastEnd = start + n
	}
}

func (t terminal) path(points []charts.Point, s lipgloss.Style) {
	if len(points) == 1 {
		t.set(canvas.Point{X: cell(points[0].X), Y: cell(points[0].Y)}, runes.FullBlock, s)
		return
	}
	for i := 1; i < len(points); i++ {
		p1 := canvas.Point{X: cell(points[i-1].X), Y: cell(points[i-1].Y)}
		p2 := canvas.Point{X: cell(points[i].X), Y: cell(points[i].Y)}
		line := graph.GetLinePoints(p1, p2)
		kept := line[:0]
		for _, p := range line {
			if t.inside(p) {
				kept = append(kept, p)
			}
		}
		graph.DrawLinePoints(t.c, kept, runes.ThinLineStyle, s)
	}
}

func (t terminal) shade(r charts.Rect) {
	for y := cell(r.Y); y <= cell(r.Y+r.H); y++ {
		for x := cell(r.X); x <= cell(r.X+r.W); x++ {
			p := canvas.Point{X: x, Y: y}
			if !t.inside(p) {
				continue
			}
			existing := t.c.Cell(p)
			ch := existing.Rune
			if ch == runes.Null {
				ch = ' '
			}
			t.c.SetCell(p, canvas.NewCellWithStyle(ch, existing.Style.Inherit(brushStyle)))
		}
	}
}

func (t terminal) centered(s charts.Surface, msg string) {
	n := utf8.RuneCountInString(msg)
	x := cell((s.PlotLeft()+s.PlotRight())/2) - n/2
	y := cell((s.PlotTop() + s.PlotBottom()) / 2)
	t.text(max(0, x), y, msg, emptyStyle)
}

func (t terminal) legend(sc charts.Scene) {
	x := cell(sc.Surface.PlotRight()) + 2
	for i, e := range sc.Legend {
		y := cell(sc.Surface.PlotTop()) + i
		if y >= t.h {
			break
		}
		t.text(x, y, fmt.Sprintf("%c %s", runes.FullBlock, e.Subject), SeriesStyle(e.Color))
	}
}

func (t terminal) tooltip(tt charts.Tooltip) {
	lines := make([]string, 0, len(tt.Rows))
	width := 0
	for _, r := range tt.Rows {
		l := fmt.Sprintf("%c %-4s %5s bpm %s", runes.FullBlock, r.Subject, charts.FormatBPM(r.BPM), r.Time)
		lines = append(lines, l)
		width = max(width, utf8.RuneCountInString(l))
	}
	x, y := cell(tt.X), cell(tt.Y)
	for i, l := range lines {
		pad := width - utf8.RuneCountInString(l)
		t.text(x, y+i, " "+l+fmt.Sprintf("%*s", pad+1, ""), tooltipStyle)
		t.set(canvas.Point{X: x + 1, Y: y + i}, runes.FullBlock, SeriesStyle(tt.Rows[i].Color).Inherit(tooltipStyle))
	}
}
