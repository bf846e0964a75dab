// Package slider maps a one-dimensional drag to a bounded filter value.
//
// Around the default value lies a deadzone, a symmetric band whose width is
// a percentage of the full range. Entering the band fires a single haptic
// pulse; releasing inside it snaps the value to exactly the default. Both
// behaviors apply only when the default is strictly inside the range.
package slider

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/retouch/anim"
	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/logging"
)

// DefaultDeadzonePercent is the deadzone width as a percentage of the range.
const DefaultDeadzonePercent = 4

// DefaultSnapDuration is the length of the snap-to-default animation.
const DefaultSnapDuration = 150 * time.Millisecond

// Haptics produces tactile feedback.
type Haptics interface {
	Pulse()
}

// HapticsFunc adapts a function to Haptics.
type HapticsFunc func()

// Pulse calls f.
func (f HapticsFunc) Pulse() { f() }

// ValueSink receives every value the slider produces. It may clamp and
// returns the value it applied. filter.ActiveState satisfies ValueSink.
type ValueSink interface {
	SetValue(v float64) (float64, error)
}

var _ ValueSink = (*filter.ActiveState)(nil)

// Slider is the value model behind a slider control. It is not safe for
// concurrent use; drive it from the UI goroutine.
type Slider struct {
	min, max, def float64
	value         float64

	deadzonePercent float64
	snap            anim.Timing
	haptics         Haptics
	sink            ValueSink

	// pulsed is set when a pulse fired for the current stay in the
	// deadzone and cleared on leaving it.
	pulsed bool
}

// Option configures a Slider.
type Option func(*Slider)

// WithDeadzonePercent sets the deadzone width as a percentage of the range.
// Negative values disable the deadzone.
func WithDeadzonePercent(p float64) Option {
	return func(s *Slider) {
		s.deadzonePercent = max(p, 0)
	}
}

// WithHaptics sets the haptic feedback generator.
func WithHaptics(h Haptics) Option {
	return func(s *Slider) {
		s.haptics = h
	}
}

// WithSink sets the receiver of value changes.
func WithSink(sink ValueSink) Option {
	return func(s *Slider) {
		s.sink = sink
	}
}

// WithSnapDuration sets the snap animation length.
func WithSnapDuration(d time.Duration) Option {
	return func(s *Slider) {
		s.snap.Duration = d
	}
}

// New creates a slider over [min, max] starting at def.
func New(min, max, def float64, opts ...Option) (*Slider, error) {
	if math.IsNaN(min) || math.IsNaN(max) || min >= max {
		return nil, fmt.Errorf("%w: slider range [%g, %g]", filter.ErrInvalidParameterRange, min, max)
	}
	if math.IsNaN(def) || def < min || def > max {
		return nil, fmt.Errorf("%w: slider default %g not in [%g, %g]", filter.ErrInvalidParameterRange, def, min, max)
	}
	s := &Slider{
		min:             min,
		max:             max,
		def:             def,
		value:           def,
		deadzonePercent: DefaultDeadzonePercent,
		snap:            anim.Timing{Duration: DefaultSnapDuration, Ease: anim.EaseOutCubic},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pulsed = s.InDeadzone(s.value)
	return s, nil
}

// ForSpec creates a slider over spec's range, starting at its current value.
func ForSpec(spec *filter.Spec, opts ...Option) (*Slider, error) {
	s, err := New(spec.Min(), spec.Max(), spec.Default(), opts...)
	if err != nil {
		return nil, fmt.Errorf("slider %s: %w", spec.Kind(), err)
	}
	s.value = spec.Value()
	s.pulsed = s.InDeadzone(s.value)
	return s, nil
}

// Value returns the current value.
func (s *Slider) Value() float64 { return s.value }

// ShowsCenterIndicator reports whether the control marks the default.
func (s *Slider) ShowsCenterIndicator() bool {
	return s.def > s.min && s.def < s.max
}

// Deadzone returns the band around the default. When the default is at a
// range bound the band is empty and lo == hi == default.
func (s *Slider) Deadzone() (lo, hi float64) {
	if !s.ShowsCenterIndicator() {
		return s.def, s.def
	}
	half := (s.max - s.min) * s.deadzonePercent / 100 / 2
	return max(s.def-half, s.min), min(s.def+half, s.max)
}

// InDeadzone reports whether v lies inside the deadzone.
func (s *Slider) InDeadzone(v float64) bool {
	if !s.ShowsCenterIndicator() || s.deadzonePercent == 0 {
		return false
	}
	lo, hi := s.Deadzone()
	return v >= lo && v <= hi
}

// ValueAt maps a position along a track of the given length to a value.
// Positions outside the track clamp to the ends.
func (s *Slider) ValueAt(position, length float64) float64 {
	if length <= 0 || math.IsNaN(position) {
		return s.value
	}
	t := math.Max(0, math.Min(1, position/length))
	return s.min + t*(s.max-s.min)
}

// PositionOf maps a value to its position along a track.
func (s *Slider) PositionOf(v, length float64) float64 {
	v = math.Max(s.min, math.Min(s.max, v))
	return (v - s.min) / (s.max - s.min) * length
}

// Drag moves the thumb to position and publishes the new value.
func (s *Slider) Drag(position, length float64) float64 {
	return s.Set(s.ValueAt(position, length))
}

// Set clamps v into range, updates the haptic state and publishes it.
func (s *Slider) Set(v float64) float64 {
	if math.IsNaN(v) {
		v = s.value
	}
	v = math.Max(s.min, math.Min(s.max, v))
	s.value = v

	inside := s.InDeadzone(v)
	switch {
	case inside && !s.pulsed:
		s.pulsed = true
		if s.haptics != nil {
			s.haptics.Pulse()
		}
	case !inside:
		s.pulsed = false
	}

	s.publish(v)
	return v
}

// Release ends the drag. Inside the deadzone with an interior default the
// value snaps to exactly the default, listeners are notified, and the
// returned transition animates the thumb. ok is false when nothing snapped.
func (s *Slider) Release() (tr anim.Transition[float64], ok bool) {
	if !s.InDeadzone(s.value) || s.value == s.def {
		return anim.Transition[float64]{}, false
	}
	from := s.value
	s.value = s.def
	s.publish(s.def)
	logging.L().Debug("slider: snapped to default", "from", from, "to", s.def)
	return anim.Scalar(from, s.def, s.snap), true
}

func (s *Slider) publish(v float64) {
	if s.sink == nil {
		return
	}
	if _, err := s.sink.SetValue(v); err != nil {
		logging.L().Warn("slider: sink rejected value", "value", v, "err", err)
	}
}
