// Package anim provides the easing curves and timing used to animate crop
// re-layouts and slider snaps.
//
// The models in crop and slider always jump to their final state
// immediately; a Timing only tells the presentation layer how to interpolate
// from the old state to the new one.
package anim

import "time"

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOutCubic accelerates through the first half and decelerates through
// the second.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 1 + f*f*f/2
}

// EaseOutCubic decelerates towards the end. Used for snap-back motions.
func EaseOutCubic(t float64) float64 {
	f := t - 1
	return f*f*f + 1
}

// Timing describes how long an animation runs and how it is eased.
type Timing struct {
	Duration time.Duration
	Ease     Easing
}

// Progress returns eased progress for the elapsed time, clamped to [0, 1].
// A zero or negative duration completes immediately.
func (t Timing) Progress(elapsed time.Duration) float64 {
	if t.Duration <= 0 || elapsed >= t.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(t.Duration)
	if t.Ease == nil {
		return p
	}
	return t.Ease(p)
}

// Done reports whether the animation has finished at the elapsed time.
func (t Timing) Done(elapsed time.Duration) bool {
	return elapsed >= t.Duration
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Transition interpolates from one state of T to another. Mix blends two
// states at eased progress t; with no Mix the transition jumps to To.
type Transition[T any] struct {
	From   T
	To     T
	Timing Timing
	Mix    func(from, to T, t float64) T
}

// At returns the state after elapsed time.
func (tr Transition[T]) At(elapsed time.Duration) T {
	p := tr.Timing.Progress(elapsed)
	if p >= 1 || tr.Mix == nil {
		return tr.To
	}
	return tr.Mix(tr.From, tr.To, p)
}

// Scalar returns a transition between two float values.
func Scalar(from, to float64, timing Timing) Transition[float64] {
	return Transition[float64]{From: from, To: to, Timing: timing, Mix: Lerp}
}
