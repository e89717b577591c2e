package charts

import (
	"math"
	"time"
)

// Clock supplies the current time to the animator.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Frame identifies one scheduled animation step of a series reveal.
type Frame struct {
	Series     string
	Generation uint64
}

// Scheduler delivers a frame back to Animator.Step at the next frame
// boundary. Frames must be delivered in the order they were scheduled.
type Scheduler interface {
	Schedule(Frame)
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(Frame)

func (f SchedulerFunc) Schedule(fr Frame) { f(fr) }

// EaseFunc maps linear progress in [0, 1] to eased progress in [0, 1].
type EaseFunc func(float64) float64

// EaseCubicInOut accelerates through the first half and decelerates
// through the second.
func EaseCubicInOut(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

type reveal struct {
	started    time.Time
	generation uint64
}

// Animator reveals series paths over a fixed duration. Each series has at
// most one reveal in flight; starting a new one makes frames of the old one
// stale.
type Animator struct {
	clock      Clock
	scheduler  Scheduler
	duration   time.Duration
	ease       EaseFunc
	runs       map[string]reveal
	generation uint64
}

// NewAnimator returns an animator reading time from clock and requesting
// frames from scheduler. A nil clock uses SystemClock; a nil scheduler
// means nobody drives frames and progress is only read on demand.
func NewAnimator(clock Clock, scheduler Scheduler, duration time.Duration) *Animator {
	if clock == nil {
		clock = SystemClock
	}
	return &Animator{
		clock:     clock,
		scheduler: scheduler,
		duration:  duration,
		ease:      EaseCubicInOut,
		runs:      make(map[string]reveal),
	}
}

// Start restarts the reveal of series from empty.
func (a *Animator) Start(series string) {
	a.generation++
	a.runs[series] = reveal{started: a.clock.Now(), generation: a.generation}
	if a.duration > 0 && a.scheduler != nil {
		a.scheduler.Schedule(Frame{Series: series, Generation: a.generation})
	}
}

// Step handles a delivered frame and reports whether it belongs to the
// current reveal of its series. Stale frames return false. A current frame
// schedules the next one until the reveal is complete.
func (a *Animator) Step(f Frame) bool {
	run, ok := a.runs[f.Series]
	if !ok || run.generation != f.Generation {
		return false
	}
	if a.progress(run) < 1 && a.scheduler != nil {
		a.scheduler.Schedule(f)
	}
	return true
}

// Progress returns the eased reveal progress of series in [0, 1]. Unknown
// series are fully drawn.
func (a *Animator) Progress(series string) float64 {
	run, ok := a.runs[series]
	if !ok {
		return 1
	}
	return a.ease(a.progress(run))
}

func (a *Animator) progress(run reveal) float64 {
	if a.duration <= 0 {
		return 1
	}
	elapsed := a.clock.Now().Sub(run.started)
	return clamp01(float64(elapsed) / float64(a.duration))
}

// Animating reports whether any reveal is still in flight.
func (a *Animator) Animating() bool {
	for _, run := range a.runs {
		if a.progress(run) < 1 {
			return true
		}
	}
	return false
}

// Retain forgets the reveals of series not listed, so their pending frames
// go stale.
func (a *Animator) Retain(series []string) {
	keep := make(map[string]bool, len(series))
	for _, s := range series {
		keep[s] = true
	}
	for s := range a.runs {
		if !keep[s] {
			delete(a.runs, s)
		}
	}
}

// Truncate returns the leading part of a polyline covering progress of its
// total length, interpolating the final point.
func Truncate(points []Point, progress float64) []Point {
	progress = clamp01(progress)
	if progress >= 1 || len(points) < 2 {
		if progress <= 0 && len(points) > 0 {
			return points[:1]
		}
		return points
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += dist(points[i-1], points[i])
	}
	if total == 0 {
		return points[:1]
	}
	remaining := total * progress
	out := []Point{points[0]}
	for i := 1; i < len(points); i++ {
		seg := dist(points[i-1], points[i])
		if seg >= remaining {
			if seg > 0 && remaining > 0 {
				f := remaining / seg
				out = append(out, Point{
					X: points[i-1].X + (points[i].X-points[i-1].X)*f,
					Y: points[i-1].Y + (points[i].Y-points[i-1].Y)*f,
				})
			}
			return out
		}
		remaining -= seg
		out = append(out, points[i])
	}
	return out
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
