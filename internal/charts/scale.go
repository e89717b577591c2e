package charts

import (
	"math"
)

// Margins reserve room around the plot area for labels, legend and tooltip.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Surface is a fixed-size drawing area. Units are whatever the renderer
// draws in: pixels for images, cells for the terminal.
type Surface struct {
	Width   float64
	Height  float64
	Margins Margins
	// TooltipWidth and TooltipOffset size the tooltip panel. Zero means
	// the pixel defaults.
	TooltipWidth  float64
	TooltipOffset float64
}

// PlotLeft returns the x of the left plot edge.
func (s Surface) PlotLeft() float64 { return s.Margins.Left }

// PlotRight returns the x of the right plot edge.
func (s Surface) PlotRight() float64 { return s.Width - s.Margins.Right }

// PlotTop returns the y of the top plot edge.
func (s Surface) PlotTop() float64 { return s.Margins.Top }

// PlotBottom returns the y of the bottom plot edge.
func (s Surface) PlotBottom() float64 { return s.Height - s.Margins.Bottom }

// InPlot reports whether (x, y) lies inside the plot area.
func (s Surface) InPlot(x, y float64) bool {
	return x >= s.PlotLeft() && x <= s.PlotRight() && y >= s.PlotTop() && y <= s.PlotBottom()
}

// LinearScale maps a numeric domain onto a pixel range and back.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale returns a scale mapping [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the domain bounds.
func (s LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the pixel bounds.
func (s LinearScale) Range() (float64, float64) { return s.r0, s.r1 }

// Map projects a domain value to a pixel coordinate.
func (s LinearScale) Map(v float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Invert projects a pixel coordinate back to a domain value.
func (s LinearScale) Invert(px float64) float64 {
	if s.r1 == s.r0 {
		return s.d0
	}
	return s.d0 + (px-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

// ClampRange restricts px to the pixel range.
func (s LinearScale) ClampRange(px float64) float64 {
	lo, hi := math.Min(s.r0, s.r1), math.Max(s.r0, s.r1)
	return math.Max(lo, math.Min(hi, px))
}

// Nice extends the domain outward to round tick boundaries.
func (s LinearScale) Nice(count int) LinearScale {
	d0, d1 := s.d0, s.d1
	for i := 0; i < 10; i++ {
		step := tickStep(d0, d1, count)
		if step == 0 {
			break
		}
		n0 := math.Floor(d0/step) * step
		n1 := math.Ceil(d1/step) * step
		if n0 == d0 && n1 == d1 {
			break
		}
		d0, d1 = n0, n1
	}
	s.d0, s.d1 = d0, d1
	return s
}

// Ticks returns round values inside the domain, about count of them.
func (s LinearScale) Ticks(count int) []float64 {
	lo, hi := math.Min(s.d0, s.d1), math.Max(s.d0, s.d1)
	step := tickStep(lo, hi, count)
	if step == 0 {
		if lo == hi {
			return []float64{lo}
		}
		return nil
	}
	precision := math.Max(0, -math.Floor(math.Log10(step)))
	factor := math.Pow(10, precision)
	first := math.Ceil(lo / step)
	last := math.Floor(hi / step)
	// Past 2^53 steps from zero consecutive ticks collapse onto one float.
	if first+1 == first || last-first > float64(maxTicksPerCount*count) {
		return nil
	}
	n := int(last - first)
	if n < 0 {
		return nil
	}
	ticks := make([]float64, 0, n+1)
	for k := 0; k <= n; k++ {
		ticks = append(ticks, math.Round((first+float64(k))*step*factor)/factor)
	}
	return ticks
}

// tickStep picks a 1, 2 or 5 times a power of ten step giving about count
// intervals over [start, stop].
func tickStep(start, stop float64, count int) float64 {
	span := stop - start
	if count <= 0 || span <= 0 || !finite(span) {
		return 0
	}
	raw := span / float64(count)
	step := math.Pow(10, math.Floor(math.Log10(raw)))
	ratio := raw / step
	switch {
	case ratio >= math.Sqrt(50):
		step *= 10
	case ratio >= math.Sqrt(10):
		step *= 5
	case ratio >= math.Sqrt(2):
		step *= 2
	}
	return step
}

// Scales pairs the time and value scales of one recompute.
type Scales struct {
	Time  LinearScale
	Value LinearScale
}

// NewScales builds the scales for a window and the currently visible BPM
// values. A zero-width window spans one second from its start and an empty
// or all-zero value set falls back to [0, 1], so axes can always be drawn.
func NewScales(surface Surface, window TimeWindow, values []float64) Scales {
	t0, t1 := window.Start, window.End
	if !(t1 > t0) {
		t1 = t0 + 1
	}

	v0, v1 := 0.0, 1.0
	if len(values) > 0 {
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		v0 = math.Max(0, lo*ValuePadLow)
		v1 = hi * ValuePadHigh
		if !finite(v1) {
			v1 = hi
		}
		if !(v1 > v0) || !finite(v1-v0) {
			v0, v1 = 0, 1
		}
	}

	value := NewLinearScale(v0, v1, surface.PlotBottom(), surface.PlotTop())
	if nice := value.Nice(ValueTicks); finite(nice.d0) && finite(nice.d1) && finite(nice.d1-nice.d0) {
		value = nice
	}
	return Scales{
		Time:  NewLinearScale(t0, t1, surface.PlotLeft(), surface.PlotRight()),
		Value: value,
	}
}
