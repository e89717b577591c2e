package charts

import (
	"math"
	"testing"
)

func s1Samples() []Sample {
	return []Sample{
		{Subject: "S1", Timestamp: 0, BPM: 100},
		{Subject: "S1", Timestamp: 10, BPM: 110},
		{Subject: "S1", Timestamp: 20, BPM: 90},
	}
}

func TestSampleValid(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   bool
	}{
		{"ok", Sample{Subject: "S1", Timestamp: 1, BPM: 60}, true},
		{"zero bpm", Sample{Subject: "S1", Timestamp: 1, BPM: 0}, true},
		{"empty subject", Sample{Timestamp: 1, BPM: 60}, false},
		{"negative bpm", Sample{Subject: "S1", Timestamp: 1, BPM: -1}, false},
		{"nan bpm", Sample{Subject: "S1", Timestamp: 1, BPM: math.NaN()}, false},
		{"inf bpm", Sample{Subject: "S1", Timestamp: 1, BPM: math.Inf(1)}, false},
		{"nan timestamp", Sample{Subject: "S1", Timestamp: math.NaN(), BPM: 60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTimeWindowOrdersBounds(t *testing.T) {
	w := NewTimeWindow(20, 5)
	if w.Start != 5 || w.End != 20 {
		t.Errorf("NewTimeWindow(20, 5) = %+v, want {5 20}", w)
	}
	if !w.Contains(5) || !w.Contains(20) || w.Contains(21) {
		t.Errorf("Contains() should include both bounds only")
	}
}

func TestExtent(t *testing.T) {
	t.Run("ignores invalid samples", func(t *testing.T) {
		samples := append(s1Samples(), Sample{Subject: "S2", Timestamp: 99, BPM: -5})
		w, ok := Extent(samples)
		if !ok {
			t.Fatal("Extent() ok = false, want true")
		}
		if w.Start != 0 || w.End != 20 {
			t.Errorf("Extent() = %+v, want {0 20}", w)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, ok := Extent(nil); ok {
			t.Error("Extent(nil) ok = true, want false")
		}
	})
}

func TestFilter(t *testing.T) {
	samples := []Sample{
		{Subject: "S2", Timestamp: 15, BPM: 70},
		{Subject: "S1", Timestamp: 20, BPM: 90},
		{Subject: "S1", Timestamp: 0, BPM: 100},
		{Subject: "S1", Timestamp: 10, BPM: 110},
		{Subject: "S2", Timestamp: 5, BPM: 72},
		{Subject: "S3", Timestamp: 7, BPM: 80},
		{Subject: "S1", Timestamp: 12, BPM: math.Inf(1)},
	}

	t.Run("S1 full window is ordered", func(t *testing.T) {
		got := Filter(s1Samples(), NewSelection("S1"), TimeWindow{Start: 0, End: 20})
		want := s1Samples()
		if len(got["S1"]) != len(want) {
			t.Fatalf("len(S1) = %d, want %d", len(got["S1"]), len(want))
		}
		for i := range want {
			if got["S1"][i] != want[i] {
				t.Errorf("S1[%d] = %+v, want %+v", i, got["S1"][i], want[i])
			}
		}
	})

	t.Run("membership and order", func(t *testing.T) {
		sel := NewSelection("S1", "S2")
		w := TimeWindow{Start: 5, End: 15}
		got := Filter(samples, sel, w)

		if _, ok := got["S3"]; ok {
			t.Error("unselected subject S3 present")
		}
		for id, series := range got {
			for i, s := range series {
				if !sel.Has(s.Subject) || s.Subject != id {
					t.Errorf("%s[%d] has subject %q", id, i, s.Subject)
				}
				if !w.Contains(s.Timestamp) {
					t.Errorf("%s[%d].Timestamp = %v outside window", id, i, s.Timestamp)
				}
				if !s.Valid() {
					t.Errorf("%s[%d] is invalid: %+v", id, i, s)
				}
				if i > 0 && series[i-1].Timestamp > s.Timestamp {
					t.Errorf("%s not sorted at %d", id, i)
				}
			}
		}
		if len(got["S1"]) != 1 || len(got["S2"]) != 2 {
			t.Errorf("len(S1), len(S2) = %d, %d, want 1, 2", len(got["S1"]), len(got["S2"]))
		}
	})

	t.Run("empty selection", func(t *testing.T) {
		got := Filter(samples, NewSelection(), TimeWindow{Start: 0, End: 100})
		if len(got) != 0 {
			t.Errorf("len(Filter()) = %d, want 0", len(got))
		}
		if !got.Empty() {
			t.Error("Empty() = false, want true")
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := append([]Sample(nil), samples...)
		Filter(samples, NewSelection("S1", "S2"), TimeWindow{Start: 0, End: 100})
		for i := range samples {
			if samples[i] != before[i] {
				t.Errorf("samples[%d] changed", i)
			}
		}
	})
}

func TestSelectionIsImmutable(t *testing.T) {
	a := NewSelection("S1")
	b := a.With("S2")
	c := b.Without("S1")

	if a.Len() != 1 || b.Len() != 2 || c.Len() != 1 {
		t.Errorf("Len() = %d, %d, %d, want 1, 2, 1", a.Len(), b.Len(), c.Len())
	}
	if !c.Has("S2") || c.Has("S1") {
		t.Errorf("c.IDs() = %v, want [S2]", c.IDs())
	}
}

func TestSelectionIDsIgnoreInsertionOrder(t *testing.T) {
	got := NewSelection("S10", "S2", "S1").IDs()
	want := []string{"S1", "S2", "S10"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs() = %v, want %v", got, want)
			break
		}
	}
}
