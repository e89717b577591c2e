package charts

import (
	"math"
	"testing"
)

func TestBrushEnd(t *testing.T) {
	// 0..20 seconds over 50..770 pixels, 36 pixels per second.
	scale := NewLinearScale(0, 20, 50, 770)

	tests := []struct {
		name       string
		from, to   float64
		wantCommit bool
		wantStart  float64
		wantEnd    float64
	}{
		{"left to right", 86, 230, true, 1, 5},
		{"right to left", 230, 86, true, 1, 5},
		{"exactly two pixels", 86, 88, true, 1, 1 + 2.0/36},
		{"under two pixels", 86, 87.5, false, 0, 0},
		{"no movement", 86, 86, false, 0, 0},
		{"clamped to plot", 0, 950, true, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Brush
			b.Start(tt.from)
			if b.State() != BrushDragging {
				t.Fatalf("State() = %v, want Dragging", b.State())
			}
			w, ok := b.End(tt.to, scale)
			if ok != tt.wantCommit {
				t.Fatalf("End() ok = %v, want %v", ok, tt.wantCommit)
			}
			if b.State() != BrushIdle {
				t.Errorf("State() after End = %v, want Idle", b.State())
			}
			if !ok {
				return
			}
			if math.Abs(w.Start-tt.wantStart) > 1e-9 || math.Abs(w.End-tt.wantEnd) > 1e-9 {
				t.Errorf("End() = %+v, want {%v %v}", w, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBrushEndDiscardsSubResolutionWindow(t *testing.T) {
	// The domain is one ulp wide at this magnitude, so every pixel inverts
	// to one of two floats.
	start := 1.7e9
	scale := NewLinearScale(start, math.Nextafter(start, math.Inf(1)), 50, 770)

	var b Brush
	b.Start(400)
	if w, ok := b.End(402, scale); ok {
		t.Errorf("End() = %+v, true, want the drag discarded", w)
	}
}

func TestBrushMoveOnlyWhileDragging(t *testing.T) {
	var b Brush
	if b.Move(100) {
		t.Error("Move() while idle = true, want false")
	}
	if _, _, ok := b.Extent(); ok {
		t.Error("Extent() while idle ok = true, want false")
	}

	b.Start(300)
	b.Move(120)
	b.Move(120)
	lo, hi, ok := b.Extent()
	if !ok || lo != 120 || hi != 300 {
		t.Errorf("Extent() = %v, %v, %v, want 120, 300, true", lo, hi, ok)
	}

	b.Cancel()
	if b.State() != BrushIdle {
		t.Errorf("State() after Cancel = %v, want Idle", b.State())
	}
}

func TestBrushEndWhileIdle(t *testing.T) {
	var b Brush
	if _, ok := b.End(200, NewLinearScale(0, 1, 0, 100)); ok {
		t.Error("End() while idle ok = true, want false")
	}
}
