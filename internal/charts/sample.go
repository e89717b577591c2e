package charts

import (
	"math"
	"sort"
)

// Sample is a single heart-rate reading for one subject.
type Sample struct {
	Subject   string  `json:"subject" yaml:"subject"`
	Timestamp float64 `json:"timestamp" yaml:"timestamp"`
	BPM       float64 `json:"bpm" yaml:"bpm"`
}

// Valid reports whether the sample can be charted: it needs a subject,
// a finite timestamp and a finite, non-negative BPM value.
func (s Sample) Valid() bool {
	return s.Subject != "" && finite(s.Timestamp) && finite(s.BPM) && s.BPM >= 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// TimeWindow is an inclusive [Start, End] range in seconds.
type TimeWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NewTimeWindow orders a and b so that Start <= End.
func NewTimeWindow(a, b float64) TimeWindow {
	if b < a {
		a, b = b, a
	}
	return TimeWindow{Start: a, End: b}
}

// Contains reports whether t falls inside the window, bounds included.
func (w TimeWindow) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Width returns End - Start.
func (w TimeWindow) Width() float64 {
	return w.End - w.Start
}

// Extent returns the window spanning every valid sample. The boolean is
// false when there is no valid sample.
func Extent(samples []Sample) (TimeWindow, bool) {
	var w TimeWindow
	found := false
	for _, s := range samples {
		if !s.Valid() {
			continue
		}
		if !found {
			w = TimeWindow{Start: s.Timestamp, End: s.Timestamp}
			found = true
			continue
		}
		w.Start = math.Min(w.Start, s.Timestamp)
		w.End = math.Max(w.End, s.Timestamp)
	}
	return w, found
}

// Subjects returns the distinct subjects of the valid samples in numeric order.
func Subjects(samples []Sample) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, s := range samples {
		if !s.Valid() || seen[s.Subject] {
			continue
		}
		seen[s.Subject] = true
		ids = append(ids, s.Subject)
	}
	SortSubjects(ids)
	return ids
}

// Series holds the filtered samples of each visible subject, each slice
// sorted ascending by timestamp.
type Series map[string][]Sample

// Subjects returns the series keys in numeric order.
func (s Series) Subjects() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	SortSubjects(ids)
	return ids
}

// Values returns every BPM value across all series.
func (s Series) Values() []float64 {
	values := make([]float64, 0)
	for _, samples := range s {
		for _, sample := range samples {
			values = append(values, sample.BPM)
		}
	}
	return values
}

// Empty reports whether no series holds a sample.
func (s Series) Empty() bool {
	for _, samples := range s {
		if len(samples) > 0 {
			return false
		}
	}
	return true
}

// Filter keeps the valid samples whose subject is selected and whose
// timestamp lies in the window, grouped by subject and sorted by time.
// Subjects without a matching sample are left out of the result.
func Filter(samples []Sample, selection Selection, window TimeWindow) Series {
	out := make(Series)
	if selection.Len() == 0 {
		return out
	}
	for _, s := range samples {
		if !s.Valid() || !selection.Has(s.Subject) || !window.Contains(s.Timestamp) {
			continue
		}
		out[s.Subject] = append(out[s.Subject], s)
	}
	for _, series := range out {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Timestamp < series[j].Timestamp
		})
	}
	return out
}
