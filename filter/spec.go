package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Errors returned by this package.
var (
	// ErrInvalidParameterRange is returned when a value lies outside a
	// filter's [min, max] range. Callers at the input boundary clamp first.
	ErrInvalidParameterRange = errors.New("filter: value outside parameter range")

	// ErrUnknownKind is returned for a kind missing from the catalogue.
	ErrUnknownKind = errors.New("filter: unknown kind")

	// ErrNoActiveFilter is returned when no filter is selected.
	ErrNoActiveFilter = errors.New("filter: no active filter")
)

// Spec is a single tunable filter.
//
// The current value moves while the user drags; the committed value changes
// only on Commit. Both always lie within [Min, Max].
type Spec struct {
	kind   Kind
	family Family
	name   string
	min    float64
	max    float64
	def    float64
	cur    float64
	commit float64
}

// NewSpec creates a spec whose current and committed values start at def.
func NewSpec(kind Kind, family Family, min, max, def float64) (*Spec, error) {
	switch {
	case kind == "":
		return nil, fmt.Errorf("%w: empty kind", ErrUnknownKind)
	case !family.Valid():
		return nil, fmt.Errorf("filter: %s: unknown family %q", kind, family)
	case math.IsNaN(min) || math.IsNaN(max) || min > max:
		return nil, fmt.Errorf("%w: %s: empty range [%g, %g]", ErrInvalidParameterRange, kind, min, max)
	case math.IsNaN(def) || def < min || def > max:
		return nil, fmt.Errorf("%w: %s: default %g not in [%g, %g]", ErrInvalidParameterRange, kind, def, min, max)
	}
	return &Spec{
		kind:   kind,
		family: family,
		name:   DisplayName(kind),
		min:    min,
		max:    max,
		def:    def,
		cur:    def,
		commit: def,
	}, nil
}

// DisplayName returns the title-cased label for kind.
func DisplayName(kind Kind) string {
	s := strings.ReplaceAll(string(kind), "_", " ")
	return cases.Title(language.English).String(s)
}

func (s *Spec) Kind() Kind           { return s.kind }
func (s *Spec) Family() Family       { return s.family }
func (s *Spec) DisplayName() string  { return s.name }
func (s *Spec) Min() float64         { return s.min }
func (s *Spec) Max() float64         { return s.max }
func (s *Spec) Default() float64     { return s.def }
func (s *Spec) Value() float64       { return s.cur }
func (s *Spec) Committed() float64   { return s.commit }
func (s *Spec) Range() float64       { return s.max - s.min }
func (s *Spec) Dirty() bool          { return s.cur != s.commit }
func (s *Spec) IsAdjustment() bool   { return s.family == FamilyAdjustment }
func (s *Spec) OperatorValue() Value { return ValueFor(s.kind, s.cur) }

// HasInteriorDefault reports whether the default lies strictly inside the
// range. Only then does the slider show a center mark and snap to it.
func (s *Spec) HasInteriorDefault() bool {
	return s.def > s.min && s.def < s.max
}

// Contains reports whether v is a legal value.
func (s *Spec) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= s.min && v <= s.max
}

// Clamp limits v to [Min, Max]. NaN maps to the default.
func (s *Spec) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return s.def
	case v < s.min:
		return s.min
	case v > s.max:
		return s.max
	}
	return v
}

// SetValue sets the current value. It fails with ErrInvalidParameterRange,
// leaving the value unchanged, when v is outside [Min, Max].
func (s *Spec) SetValue(v float64) error {
	if !s.Contains(v) {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrInvalidParameterRange, s.kind, v, s.min, s.max)
	}
	s.cur = v
	return nil
}

// Revert discards the in-progress edit, returning to the committed value.
func (s *Spec) Revert() { s.cur = s.commit }

// Commit confirms the current value.
func (s *Spec) Commit() { s.commit = s.cur }

// Reset returns the current value to the default without committing.
func (s *Spec) Reset() { s.cur = s.def }

// Entry returns the stack entry for the current value.
func (s *Spec) Entry() Entry {
	return Entry{Kind: s.kind, Family: s.family, Value: s.OperatorValue()}
}

// Clone returns an independent copy of s.
func (s *Spec) Clone() *Spec {
	c := *s
	return &c
}

func (s *Spec) String() string {
	return fmt.Sprintf("%s[%g..%g]=%g", s.kind, s.min, s.max, s.cur)
}
