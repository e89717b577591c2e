package charts

import (
	"math"
	"sort"
)

// Nearest returns the sample of series closest in time to t. series must
// be sorted ascending by timestamp. When two samples are equally close the
// earlier one wins. The boolean is false for an empty series.
func Nearest(series []Sample, t float64) (Sample, bool) {
	n := len(series)
	if n == 0 {
		return Sample{}, false
	}
	i := sort.Search(n, func(i int) bool {
		return series[i].Timestamp >= t
	})
	switch {
	case i == 0:
		return series[0], true
	case i == n:
		return series[n-1], true
	}
	before, after := series[i-1], series[i]
	if t-before.Timestamp <= after.Timestamp-t {
		return before, true
	}
	return after, true
}

// Hit is the nearest sample of one series to a query time.
type Hit struct {
	Sample   Sample
	Distance float64
}

// NearestAll runs Nearest on every series and returns the hits in subject
// order. Empty series produce no hit.
func NearestAll(series Series, t float64) []Hit {
	hits := make([]Hit, 0, len(series))
	for _, id := range series.Subjects() {
		s, ok := Nearest(series[id], t)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Sample: s, Distance: math.Abs(s.Timestamp - t)})
	}
	return hits
}

// Closest returns the hit with the smallest distance, preferring the first
// in subject order on ties.
func Closest(hits []Hit) (Hit, bool) {
	if len(hits) == 0 {
		return Hit{}, false
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.Distance < best.Distance {
			best = h
		}
	}
	return best, true
}
