package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/akasprzok/pulse/internal/charts"
)

func testEngine(mode charts.Mode, surface charts.Surface) *charts.Engine {
	e := charts.NewEngine(charts.Config{Mode: mode, Surface: surface})
	e.Dispatch(charts.LoadSamples{Samples: []charts.Sample{
		{Subject: "S1", Timestamp: 0, BPM: 100},
		{Subject: "S1", Timestamp: 10, BPM: 110},
		{Subject: "S1", Timestamp: 20, BPM: 90},
		{Subject: "S2", Timestamp: 5, BPM: 70},
		{Subject: "S2", Timestamp: 15, BPM: 75},
	}})
	return e
}

func TestTerminal(t *testing.T) {
	t.Run("draws labels and legend", func(t *testing.T) {
		e := testEngine(charts.MultiSeries, TerminalSurface(charts.MultiSeries, 80, 20))
		out := Terminal(e.Scene())

		if lines := strings.Split(strings.TrimRight(out, "\n"), "\n"); len(lines) != 20 {
			t.Errorf("line count = %d, want 20", len(lines))
		}
		for _, want := range []string{"00:00:00", "S1", "S2"} {
			if !strings.Contains(out, want) {
				t.Errorf("Terminal() missing %q", want)
			}
		}
	})

	t.Run("empty selection shows message", func(t *testing.T) {
		e := testEngine(charts.MultiSeries, TerminalSurface(charts.MultiSeries, 80, 20))
		e.Dispatch(charts.ClearSelection{})
		out := Terminal(e.Scene())
		if !strings.Contains(out, charts.EmptyNoSelection.Message()) {
			t.Errorf("Terminal() missing %q", charts.EmptyNoSelection.Message())
		}
	})

	t.Run("tooltip under pointer", func(t *testing.T) {
		surface := TerminalSurface(charts.SingleSeries, 80, 20)
		e := testEngine(charts.SingleSeries, surface)
		e.PointerMove(surface.PlotLeft()+1, 5)
		out := Terminal(e.Scene())
		if !strings.Contains(out, "100 bpm") {
			t.Errorf("Terminal() missing tooltip text")
		}
	})

	t.Run("zero size", func(t *testing.T) {
		if got := Terminal(charts.Scene{}); got != "" {
			t.Errorf("Terminal(zero) = %q, want empty", got)
		}
	})
}

func TestSVG(t *testing.T) {
	e := testEngine(charts.MultiSeries, charts.DefaultSurface(charts.MultiSeries, 800, 400))
	e.Dispatch(charts.ToggleAverage{})

	var buf bytes.Buffer
	if err := SVG(&buf, e.Scene()); err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<svg width="800" height="400"`,
		`data-subject="S1"`,
		`data-subject="S2"`,
		`stroke-dasharray="6 4"`,
		">avg 100<",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG() missing %q", want)
		}
	}
}

func TestSVGEmpty(t *testing.T) {
	e := charts.NewEngine(charts.Config{Mode: charts.MultiSeries})
	e.Dispatch(charts.LoadSamples{})

	var buf bytes.Buffer
	if err := SVG(&buf, e.Scene()); err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if !strings.Contains(buf.String(), charts.EmptyNoSamples.Message()) {
		t.Errorf("SVG() missing the empty message")
	}
	if strings.Contains(buf.String(), "<path") {
		t.Errorf("SVG() of an empty chart has a path")
	}
}

func TestPNG(t *testing.T) {
	e := testEngine(charts.SingleSeries, charts.DefaultSurface(charts.SingleSeries, 320, 200))

	var buf bytes.Buffer
	if err := PNG(&buf, e.Scene()); err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("image size = %dx%d, want 320x200", b.Dx(), b.Dy())
	}
}

func TestHTML(t *testing.T) {
	e := testEngine(charts.MultiSeries, charts.DefaultSurface(charts.MultiSeries, 800, 400))

	var buf bytes.Buffer
	if err := HTML(&buf, "Heart rate", e); err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"echarts", "Heart rate", `"S1"`, `"S2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() missing %q", want)
		}
	}
}

func TestExport(t *testing.T) {
	e := testEngine(charts.MultiSeries, charts.DefaultSurface(charts.MultiSeries, 400, 300))

	tests := []struct {
		format  Format
		wantErr bool
	}{
		{FormatSVG, false},
		{FormatPNG, false},
		{FormatHTML, false},
		{"gif", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			err := Export(&buf, tt.format, "test", e)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Export() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && buf.Len() == 0 {
				t.Error("Export() wrote nothing")
			}
		})
	}
}

func TestContentType(t *testing.T) {
	if got := FormatPNG.ContentType(); got != "image/png" {
		t.Errorf("ContentType() = %q, want image/png", got)
	}
	if got := FormatSVG.ContentType(); got != "image/svg+xml" {
		t.Errorf("ContentType() = %q, want image/svg+xml", got)
	}
}

func TestMeansBarchart(t *testing.T) {
	colors := charts.NewColorMap([]string{"S1", "S2"})

	t.Run("labels carry the mean", func(t *testing.T) {
		out := MeansBarchart(map[string]float64{"S1": 100, "S2": 71.26}, colors, 60)
		for _, want := range []string{"S1", "100", "S2", "71.3"} {
			if !strings.Contains(out, want) {
				t.Errorf("MeansBarchart() missing %q", want)
			}
		}
	})

	t.Run("no means", func(t *testing.T) {
		if got := MeansBarchart(nil, colors, 60); got != "" {
			t.Errorf("MeansBarchart(nil) = %q, want empty", got)
		}
	})
}
