package filter

// Entry is one confirmed filter application.
type Entry struct {
	Kind   Kind   `yaml:"kind"`
	Family Family `yaml:"family"`
	Value  Value  `yaml:"value"`
}

// Stack is the ordered list of confirmed filters. Insertion order is
// application order; each kind appears at most once.
//
// The zero Stack is empty and ready to use.
type Stack struct {
	entries []Entry
}

// NewStack returns a stack holding entries in order. Later duplicates
// replace earlier ones in place.
func NewStack(entries ...Entry) *Stack {
	s := &Stack{}
	for _, e := range entries {
		s.Apply(e)
	}
	return s
}

// Apply confirms e. A kind already present keeps its position and takes the
// new value; a new kind is appended.
func (s *Stack) Apply(e Entry) {
	if i := s.Index(e.Kind); i >= 0 {
		s.entries[i] = e
		return
	}
	s.entries = append(s.entries, e)
}

// Remove drops kind from the stack. Returns false if it was absent.
func (s *Stack) Remove(kind Kind) bool {
	i := s.Index(kind)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Index returns the position of kind, or -1.
func (s *Stack) Index(kind Kind) int {
	for i, e := range s.entries {
		if e.Kind == kind {
			return i
		}
	}
	return -1
}

// Get returns the entry for kind.
func (s *Stack) Get(kind Kind) (Entry, bool) {
	if i := s.Index(kind); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// Len returns the number of entries.
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in application order.
func (s *Stack) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Family returns the entries of family in application order.
func (s *Stack) Family(f Family) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if e.Family == f {
			out = append(out, e)
		}
	}
	return out
}

// Without returns a copy of s with kind removed.
func (s *Stack) Without(kind Kind) *Stack {
	c := s.Clone()
	c.Remove(kind)
	return c
}

// Clone returns an independent copy.
func (s *Stack) Clone() *Stack {
	return &Stack{entries: s.Entries()}
}

// Equal reports whether both stacks hold the same entries in the same order.
func (s *Stack) Equal(o *Stack) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for i := range s.entries {
		if s.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}
