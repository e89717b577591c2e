package charts

import "math"

// BrushState is the state of the brush-to-zoom gesture.
type BrushState int

const (
	BrushIdle BrushState = iota
	BrushDragging
)

func (s BrushState) String() string {
	switch s {
	case BrushIdle:
		return "Idle"
	case BrushDragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}

// Brush turns a horizontal pointer drag into a time window.
type Brush struct {
	state   BrushState
	origin  float64
	current float64
}

// State returns the current gesture state.
func (b Brush) State() BrushState {
	return b.state
}

// Start begins a drag at pixel x. A drag already in progress is restarted.
func (b *Brush) Start(x float64) {
	b.state = BrushDragging
	b.origin = x
	b.current = x
}

// Move updates the drag extent. It only touches the overlay and returns
// false when no drag is in progress.
func (b *Brush) Move(x float64) bool {
	if b.state != BrushDragging {
		return false
	}
	b.current = x
	return true
}

// Extent returns the pixel extent of the drag in progress, ordered.
func (b Brush) Extent() (float64, float64, bool) {
	if b.state != BrushDragging {
		return 0, 0, false
	}
	return math.Min(b.origin, b.current), math.Max(b.origin, b.current), true
}

// End finishes the drag at pixel x and converts it through the inverse of
// scale, which must be the time scale in effect at release. Both ends are
// clamped to the scale's pixel range. Drags shorter than MinBrushPixels,
// or too narrow to give distinct times, are discarded and report false.
func (b *Brush) End(x float64, scale LinearScale) (TimeWindow, bool) {
	if b.state != BrushDragging {
		return TimeWindow{}, false
	}
	a := scale.ClampRange(b.origin)
	z := scale.ClampRange(x)
	b.Cancel()
	if math.Abs(a-z) < MinBrushPixels {
		return TimeWindow{}, false
	}
	w := NewTimeWindow(scale.Invert(a), scale.Invert(z))
	if !(w.End > w.Start) {
		return TimeWindow{}, false
	}
	return w, true
}

// Cancel drops any drag in progress.
func (b *Brush) Cancel() {
	*b = Brush{}
}
