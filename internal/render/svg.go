package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/akasprzok/pulse/internal/charts"
)

const (
	svgFont       = "sans-serif"
	svgBackground = "#ffffff"
	svgAxis       = "#555555"
	svgGrid       = "#e5e5e5"
	svgLabel      = "#333333"
	svgCrosshair  = "#888888"
	svgBrush      = "rgba(68,119,170,0.15)"
)

// SVG writes a scene as a standalone SVG document. Paths are drawn at
// their current reveal progress, so a scene taken mid-animation exports
// partially drawn.
func SVG(w io.Writer, sc charts.Scene) error {
	bw := bufio.NewWriter(w)
	s := sc.Surface

	fmt.Fprintf(bw, `<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg" font-family="%s" font-size="11">`+"\n",
		s.Width, s.Height, s.Width, s.Height, svgFont)
	fmt.Fprintf(bw, `  <rect width="100%%" height="100%%" fill="%s" />`+"\n", svgBackground)

	for _, l := range sc.Grid {
		svgLine(bw, l, svgGrid, 1, "")
	}
	for _, l := range sc.Axes {
		svgLine(bw, l, svgAxis, 1, "")
	}
	for _, tk := range sc.YTicks {
		fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			s.PlotLeft()-6, tk.Pos, svgLabel, html.EscapeString(tk.Label))
	}
	for _, tk := range sc.XTicks {
		fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" text-anchor="middle" fill="%s">%s</text>`+"\n",
			tk.Pos, s.PlotBottom()+16, svgLabel, html.EscapeString(tk.Label))
	}

	if sc.Empty != charts.EmptyNone {
		fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" text-anchor="middle" fill="#999999" font-style="italic">%s</text>`+"\n",
			(s.PlotLeft()+s.PlotRight())/2, (s.PlotTop()+s.PlotBottom())/2, html.EscapeString(sc.Empty.Message()))
	}

	for _, p := range sc.Paths {
		pts := p.Visible()
		if len(pts) == 0 {
			continue
		}
		fmt.Fprintf(bw, `  <path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" data-subject="%s" />`+"\n",
			pathData(pts), p.Color, html.EscapeString(p.Subject))
	}

	for _, a := range sc.Averages {
		svgLine(bw, charts.Line{X1: a.X1, Y1: a.Y, X2: a.X2, Y2: a.Y}, a.Color, 1, ` stroke-dasharray="6 4"`)
		fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" text-anchor="end" fill="%s">%s</text>`+"\n",
			a.X2-4, a.Y-4, a.Color, html.EscapeString(a.Label))
	}

	if sc.Brush != nil {
		fmt.Fprintf(bw, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />`+"\n",
			sc.Brush.X, sc.Brush.Y, sc.Brush.W, sc.Brush.H, svgBrush)
	}
	if sc.Crosshair != nil {
		svgLine(bw, *sc.Crosshair, svgCrosshair, 1, ` stroke-dasharray="3 3"`)
	}

	for i, e := range sc.Legend {
		x := s.PlotRight() + 16
		y := s.PlotTop() + float64(i)*18
		fmt.Fprintf(bw, `  <rect x="%.2f" y="%.2f" width="10" height="10" fill="%s" />`+"\n", x, y, e.Color)
		fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" fill="%s">%s</text>`+"\n", x+16, y+9, svgLabel, html.EscapeString(e.Subject))
	}

	if sc.Tooltip != nil {
		svgTooltip(bw, s, *sc.Tooltip)
	}

	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}

func svgLine(w io.Writer, l charts.Line, stroke string, width float64, extra string) {
	fmt.Fprintf(w, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s />`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, stroke, width, extra)
}

func pathData(pts []charts.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&b, "M%.2f,%.2f", p.X, p.Y)
			continue
		}
		fmt.Fprintf(&b, " L%.2f,%.2f", p.X, p.Y)
	}
	return b.String()
}

func svgTooltip(w io.Writer, s charts.Surface, tt charts.Tooltip) {
	width := s.TooltipWidth
	if width <= 0 {
		width = charts.TooltipWidth
	}
	height := 8 + float64(len(tt.Rows))*16
	fmt.Fprintf(w, `  <g class="tooltip"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="#ffffff" stroke="#cccccc" />`+"\n",
		tt.X, tt.Y, width, height)
	for i, r := range tt.Rows {
		y := tt.Y + 16 + float64(i)*16
		fmt.Fprintf(w, `    <text x="%.2f" y="%.2f" fill="%s">%s %s bpm %s</text>`+"\n",
			tt.X+8, y, r.Color, html.EscapeString(r.Subject), charts.FormatBPM(r.BPM), r.Time)
	}
	fmt.Fprintln(w, `  </g>`)
}
