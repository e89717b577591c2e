package charts

import "time"

const (
	// RevealDuration is how long a series path takes to draw in.
	RevealDuration = 1000 * time.Millisecond

	// FrameInterval is the spacing between reveal animation frames.
	FrameInterval = time.Second / 30

	// MinBrushPixels is the smallest drag extent that commits a zoom.
	MinBrushPixels = 2.0

	// ValueTicks is the tick count requested for the BPM axis.
	ValueTicks = 5

	// TimeTicks is the tick count requested for the time axis.
	TimeTicks = 6

	// maxTicksPerCount caps Ticks at this multiple of the requested count.
	maxTicksPerCount = 4

	// ValuePadLow and ValuePadHigh widen the BPM domain around the visible values.
	ValuePadLow  = 0.9
	ValuePadHigh = 1.1

	// TooltipWidth is the horizontal space reserved for the tooltip panel.
	TooltipWidth = 150.0

	// TooltipOffset is the gap between the pointer and the tooltip panel.
	TooltipOffset = 12.0
)
