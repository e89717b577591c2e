package charts

import (
	"math"
	"strconv"
)

// Mean returns the arithmetic mean BPM of series.
func Mean(series []Sample) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, s := range series {
		sum += s.BPM
	}
	if !finite(sum) {
		mean := 0.0
		for i, s := range series {
			mean += (s.BPM - mean) / float64(i+1)
		}
		return mean, true
	}
	return sum / float64(len(series)), true
}

// Means returns the mean BPM of every non-empty series.
func Means(series Series) map[string]float64 {
	means := make(map[string]float64, len(series))
	for id, samples := range series {
		if m, ok := Mean(samples); ok {
			means[id] = m
		}
	}
	return means
}

// AverageLine is a horizontal mean reference line for one series.
type AverageLine struct {
	Subject string
	Mean    float64
	X1, X2  float64
	Y       float64
	Color   string
	Label   string
}

// AverageLines projects means onto the plot area, in subject order.
func AverageLines(means map[string]float64, scales Scales, colors *ColorMap) []AverageLine {
	ids := make([]string, 0, len(means))
	for id := range means {
		ids = append(ids, id)
	}
	SortSubjects(ids)

	x1, x2 := scales.Time.Range()
	lines := make([]AverageLine, 0, len(ids))
	for _, id := range ids {
		m := means[id]
		lines = append(lines, AverageLine{
			Subject: id,
			Mean:    m,
			X1:      x1,
			X2:      x2,
			Y:       scales.Value.Map(m),
			Color:   colors.ColorOf(id),
			Label:   "avg " + strconv.Itoa(int(math.Round(m))),
		})
	}
	return lines
}
