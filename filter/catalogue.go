package filter

import "fmt"

// Definition is the static description of a catalogue entry.
type Definition struct {
	Kind    Kind
	Family  Family
	Min     float64
	Max     float64
	Default float64
}

// DefaultAdjustments returns the adjustment filters in display order.
func DefaultAdjustments() []Definition {
	return []Definition{
		{Kind: Exposure, Family: FamilyAdjustment, Min: -1, Max: 1, Default: 0},
		{Kind: Brightness, Family: FamilyAdjustment, Min: -1, Max: 1, Default: 0},
		{Kind: Contrast, Family: FamilyAdjustment, Min: 0.5, Max: 1.5, Default: 1},
		{Kind: Saturation, Family: FamilyAdjustment, Min: 0, Max: 2, Default: 1},
		{Kind: Warmth, Family: FamilyAdjustment, Min: -1, Max: 1, Default: 0},
		{Kind: Tint, Family: FamilyAdjustment, Min: -1, Max: 1, Default: 0},
		{Kind: Highlights, Family: FamilyAdjustment, Min: 0, Max: 1, Default: 1},
		{Kind: Shadows, Family: FamilyAdjustment, Min: -1, Max: 1, Default: 0},
		{Kind: Vignette, Family: FamilyAdjustment, Min: 0, Max: 2, Default: 0},
	}
}

// DefaultLooks returns the style filters in display order. Intensity runs
// from 0 (unfiltered) to 1 (full look) and starts at full strength.
func DefaultLooks() []Definition {
	kinds := []Kind{Chrome, Fade, Instant, Mono, Noir, Process, Tonal, Transfer}
	defs := make([]Definition, len(kinds))
	for i, k := range kinds {
		defs[i] = Definition{Kind: k, Family: FamilyStyle, Min: 0, Max: 1, Default: 1}
	}
	return defs
}

// DefaultDefinitions returns adjustments followed by looks.
func DefaultDefinitions() []Definition {
	return append(DefaultAdjustments(), DefaultLooks()...)
}

// Catalogue is the fixed set of specs owned by one editing session.
// It is built once and never grows.
type Catalogue struct {
	order []Kind
	specs map[Kind]*Spec
}

// NewCatalogue builds fresh specs from defs. Kinds must be unique.
func NewCatalogue(defs ...Definition) (*Catalogue, error) {
	c := &Catalogue{specs: make(map[Kind]*Spec, len(defs))}
	for _, d := range defs {
		if _, dup := c.specs[d.Kind]; dup {
			return nil, fmt.Errorf("filter: duplicate kind %q in catalogue", d.Kind)
		}
		s, err := NewSpec(d.Kind, d.Family, d.Min, d.Max, d.Default)
		if err != nil {
			return nil, err
		}
		c.specs[d.Kind] = s
		c.order = append(c.order, d.Kind)
	}
	return c, nil
}

// DefaultCatalogue returns a catalogue of DefaultDefinitions.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(DefaultDefinitions()...)
	if err != nil {
		panic(err) // static definitions are valid
	}
	return c
}

// Lookup returns the spec for kind.
func (c *Catalogue) Lookup(kind Kind) (*Spec, error) {
	s, ok := c.specs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s, nil
}

// Specs returns the specs of family in catalogue order.
func (c *Catalogue) Specs(family Family) []*Spec {
	var out []*Spec
	for _, k := range c.order {
		if s := c.specs[k]; s.Family() == family {
			out = append(out, s)
		}
	}
	return out
}

// Kinds returns every kind in catalogue order.
func (c *Catalogue) Kinds() []Kind {
	return append([]Kind(nil), c.order...)
}

// Len returns the number of specs.
func (c *Catalogue) Len() int { return len(c.order) }

// Validate checks that e names a catalogued kind of the right family and,
// for scalar values, lies within range.
func (c *Catalogue) Validate(e Entry) error {
	s, err := c.Lookup(e.Kind)
	if err != nil {
		return err
	}
	if s.Family() != e.Family {
		return fmt.Errorf("filter: %s is a %s filter, not %s", e.Kind, s.Family(), e.Family)
	}
	v, ok := sliderValue(e)
	if !ok {
		return fmt.Errorf("filter: %s: unexpected value %v", e.Kind, e.Value)
	}
	if !s.Contains(v) {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrInvalidParameterRange, e.Kind, v, s.Min(), s.Max())
	}
	return nil
}

// Restore sets every spec's current and committed values to match the
// stack; specs absent from the stack return to their defaults.
func (c *Catalogue) Restore(st *Stack) error {
	for _, e := range st.Entries() {
		if err := c.Validate(e); err != nil {
			return err
		}
	}
	for _, k := range c.order {
		s := c.specs[k]
		s.Reset()
		if e, ok := st.Get(k); ok {
			v, _ := sliderValue(e)
			s.cur = v
		}
		s.Commit()
	}
	return nil
}

// sliderValue recovers the single slider value from an entry.
func sliderValue(e Entry) (float64, bool) {
	switch e.Kind {
	case Warmth:
		x, y, ok := e.Value.Vector2()
		return x, ok && y == 0
	case Tint:
		x, y, ok := e.Value.Vector2()
		return y, ok && x == 0
	default:
		return e.Value.Scalar()
	}
}
