package render

import (
	"fmt"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/akasprzok/pulse/internal/charts"
)

// HTML writes an interactive ECharts page for the engine's current state:
// the visible series over the current window, with session colors and,
// when toggled on, mean mark lines. Zooming in the page is client side and
// does not feed back into the engine.
func HTML(w io.Writer, title string, e *charts.Engine) error {
	s := e.Surface()
	window := e.Window()

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     fmt.Sprintf("%.0fpx", s.Width),
			Height:    fmt.Sprintf("%.0fpx", s.Height),
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: e.Empty().Message(),
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Type: "time",
			Min:  window.Start * 1000,
			Max:  window.End * 1000,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name:  "BPM",
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "line",
			},
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(e.Mode() == charts.MultiSeries),
		}),
		echarts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			XAxisIndex: []int{0},
		}),
	)

	series := e.Series()
	means := e.Means()
	for _, id := range series.Subjects() {
		data := make([]opts.LineData, 0, len(series[id]))
		for _, sample := range series[id] {
			data = append(data, opts.LineData{Value: []interface{}{sample.Timestamp * 1000, sample.BPM}})
		}
		color := e.Colors().ColorOf(id)
		seriesOpts := []echarts.SeriesOpts{
			echarts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		}
		if m, ok := means[id]; ok && e.Toggles().ShowAverage {
			seriesOpts = append(seriesOpts, echarts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "avg",
				YAxis: m,
			}))
		}
		line.AddSeries(id, data, seriesOpts...)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("rendering html chart: %w", err)
	}
	return nil
}
