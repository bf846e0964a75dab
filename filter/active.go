package filter

import (
	"fmt"
	"sync"
)

// Snapshot is the observable state of the active filter at one revision.
type Snapshot struct {
	Kind     Kind
	Family   Family
	Value    float64
	Revision uint64
}

// Active reports whether a filter was selected in this snapshot.
func (s Snapshot) Active() bool { return s.Kind != "" }

// ActiveState is the single observable "filter being edited". The slider
// writes it, the render loop reads it, and subscribers are notified on
// every change.
//
// Mutation is expected from one goroutine; the lock only protects the
// subscriber list and revision against readers on other goroutines.
type ActiveState struct {
	mu       sync.Mutex
	spec     *Spec
	revision uint64
	nextID   int
	subs     map[int]func(Snapshot)
}

// NewActiveState returns a state with nothing selected.
func NewActiveState() *ActiveState {
	return &ActiveState{subs: make(map[int]func(Snapshot))}
}

// Select makes spec the active filter. A nil spec clears the selection.
func (a *ActiveState) Select(spec *Spec) {
	a.mu.Lock()
	a.spec = spec
	a.mu.Unlock()
	a.changed()
}

// Clear deselects the active filter.
func (a *ActiveState) Clear() { a.Select(nil) }

// Spec returns the active spec, or nil.
func (a *ActiveState) Spec() *Spec {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spec
}

// SetValue clamps v into the active spec's range and sets it. The applied
// value is returned.
func (a *ActiveState) SetValue(v float64) (float64, error) {
	a.mu.Lock()
	spec := a.spec
	if spec == nil {
		a.mu.Unlock()
		return 0, ErrNoActiveFilter
	}
	v = spec.Clamp(v)
	if err := spec.SetValue(v); err != nil {
		a.mu.Unlock()
		return 0, fmt.Errorf("filter: active %s: %w", spec.Kind(), err)
	}
	a.mu.Unlock()
	a.changed()
	return v, nil
}

// Touch bumps the revision and notifies subscribers without changing the
// value. Used after Commit or Revert on the active spec.
func (a *ActiveState) Touch() { a.changed() }

// Revision returns a counter that increases on every change.
func (a *ActiveState) Revision() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.revision
}

// Snapshot returns the current state.
func (a *ActiveState) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. fn runs on the goroutine that made the change.
func (a *ActiveState) Subscribe(fn func(Snapshot)) (cancel func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			a.mu.Unlock()
		})
	}
}

func (a *ActiveState) changed() {
	a.mu.Lock()
	a.revision++
	snap := a.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(a.subs))
	for id := 0; id < a.nextID; id++ {
		if fn, ok := a.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (a *ActiveState) snapshotLocked() Snapshot {
	s := Snapshot{Revision: a.revision}
	if a.spec != nil {
		s.Kind = a.spec.Kind()
		s.Family = a.spec.Family()
		s.Value = a.spec.Value()
	}
	return s
}
