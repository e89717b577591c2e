package render

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"

	"github.com/akasprzok/pulse/internal/charts"
)

// MeansBarchart draws one horizontal bar per subject with its mean BPM, in
// numeric subject order and session colors.
func MeansBarchart(means map[string]float64, colors *charts.ColorMap, width int) string {
	ids := make([]string, 0, len(means))
	for id := range means {
		ids = append(ids, id)
	}
	charts.SortSubjects(ids)
	if len(ids) == 0 || width <= 0 {
		return ""
	}

	barData := make([]barchart.BarData, 0, len(ids))
	for _, id := range ids {
		barData = append(barData, barchart.BarData{
			Label: fmt.Sprintf("%s (%s)", id, charts.FormatBPM(roundTenth(means[id]))),
			Values: []barchart.BarValue{
				{Name: id, Value: means[id], Style: SeriesStyle(colors.ColorOf(id))},
			},
		})
	}

	bc := barchart.New(width, len(barData)*2, barchart.WithDataSet(barData), barchart.WithHorizontalBars())
	bc.Draw()

	return bc.View()
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
