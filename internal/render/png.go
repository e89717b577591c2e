package render

import (
	"io"

	"github.com/fogleman/gg"

	"github.com/akasprzok/pulse/internal/charts"
)

// PNG rasterises a scene with gg. It mirrors the SVG layout and uses gg's
// built-in face for labels.
func PNG(w io.Writer, sc charts.Scene) error {
	s := sc.Surface
	dc := gg.NewContext(int(s.Width), int(s.Height))
	dc.SetHexColor(svgBackground)
	dc.Clear()

	dc.SetLineWidth(1)
	dc.SetHexColor(svgGrid)
	for _, l := range sc.Grid {
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}
	dc.SetHexColor(svgAxis)
	for _, l := range sc.Axes {
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	dc.SetHexColor(svgLabel)
	for _, tk := range sc.YTicks {
		dc.DrawStringAnchored(tk.Label, s.PlotLeft()-6, tk.Pos, 1, 0.5)
	}
	for _, tk := range sc.XTicks {
		dc.DrawStringAnchored(tk.Label, tk.Pos, s.PlotBottom()+12, 0.5, 0.5)
	}

	if sc.Empty != charts.EmptyNone {
		dc.SetHexColor("#999999")
		dc.DrawStringAnchored(sc.Empty.Message(), (s.PlotLeft()+s.PlotRight())/2, (s.PlotTop()+s.PlotBottom())/2, 0.5, 0.5)
	}

	dc.SetLineWidth(2)
	for _, p := range sc.Paths {
		pts := p.Visible()
		if len(pts) == 0 {
			continue
		}
		dc.SetHexColor(p.Color)
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, pt := range pts[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.Stroke()
	}

	dc.SetLineWidth(1)
	for _, a := range sc.Averages {
		dc.SetHexColor(a.Color)
		dc.SetDash(6, 4)
		dc.DrawLine(a.X1, a.Y, a.X2, a.Y)
		dc.Stroke()
		dc.SetDash()
		dc.DrawStringAnchored(a.Label, a.X2-4, a.Y-8, 1, 0.5)
	}

	if sc.Brush != nil {
		dc.SetRGBA(68.0/255, 119.0/255, 170.0/255, 0.15)
		dc.DrawRectangle(sc.Brush.X, sc.Brush.Y, sc.Brush.W, sc.Brush.H)
		dc.Fill()
	}
	if sc.Crosshair != nil {
		dc.SetHexColor(svgCrosshair)
		dc.SetDash(3, 3)
		dc.DrawLine(sc.Crosshair.X1, sc.Crosshair.Y1, sc.Crosshair.X2, sc.Crosshair.Y2)
		dc.Stroke()
		dc.SetDash()
	}

	for i, e := range sc.Legend {
		x := s.PlotRight() + 16
		y := s.PlotTop() + float64(i)*18
		dc.SetHexColor(e.Color)
		dc.DrawRectangle(x, y, 10, 10)
		dc.Fill()
		dc.SetHexColor(svgLabel)
		dc.DrawStringAnchored(e.Subject, x+16, y+5, 0, 0.5)
	}

	if sc.Tooltip != nil {
		tt := sc.Tooltip
		width := s.TooltipWidth
		if width <= 0 {
			width = charts.TooltipWidth
		}
		dc.SetHexColor("#ffffff")
		dc.DrawRoundedRectangle(tt.X, tt.Y, width, 8+float64(len(tt.Rows))*16, 4)
		dc.FillPreserve()
		dc.SetHexColor("#cccccc")
		dc.Stroke()
		for i, r := range tt.Rows {
			dc.SetHexColor(r.Color)
			dc.DrawStringAnchored(r.Subject+" "+charts.FormatBPM(r.BPM)+" bpm "+r.Time, tt.X+8, tt.Y+12+float64(i)*16, 0, 0.5)
		}
	}

	return dc.EncodePNG(w)
}
