package retouch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/retouch/adjust"
	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/gpu"
	"github.com/gogpu/retouch/internal/logging"
	"github.com/gogpu/retouch/internal/pixmap"
	"github.com/gogpu/retouch/render"
	"github.com/gogpu/retouch/slider"
	"github.com/gogpu/retouch/style"
)

// EditingSession edits one source image.
//
// Filter actions are meant to come from one UI goroutine. PreviewImage may
// be called concurrently from a render goroutine; the session serializes it
// with the actions.
type EditingSession struct {
	id     uuid.UUID
	log    *slog.Logger
	source *gg.Pixmap

	catalogue *filter.Catalogue
	active    *filter.ActiveState
	adjust    *adjust.Engine
	style     *style.Engine
	accel     *gpu.Accelerator
	sliders   []slider.Option

	mu      sync.Mutex
	stack   *filter.Stack
	closed  bool
	output  *gg.Pixmap // full stack output
	base    *gg.Pixmap // stack output without baseFor
	baseFor filter.Kind
	preview *gg.Pixmap

	// previewRev is the active state revision preview was rendered at.
	previewRev uint64
}

var _ render.Source = (*EditingSession)(nil)

// BeginEditing starts a session on src. The session keeps src and never
// modifies it.
func BeginEditing(src *gg.Pixmap, opts ...Option) (*EditingSession, error) {
	if !pixmap.Valid(src) {
		return nil, ErrNilSource
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	catalogue, err := filter.NewCatalogue(o.definitions...)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	base := o.logger
	if base == nil {
		base = logging.L()
	}
	s := &EditingSession{
		id:        id,
		log:       base.With("session", id.String()),
		source:    src,
		catalogue: catalogue,
		active:    filter.NewActiveState(),
		stack:     filter.NewStack(),
		sliders:   o.sliders,
	}

	var adjustOpts []adjust.Option
	styleOpts := []style.Option{style.WithWorkers(o.workers), style.WithCacheSize(o.cacheSize)}
	if o.provider != nil {
		acc := gpu.NewAccelerator()
		if err := acc.SetDeviceProvider(o.provider); err != nil {
			s.log.Warn("retouch: GPU accelerator unavailable, using CPU", "err", err)
		} else {
			s.accel = acc
			adjustOpts = append(adjustOpts, adjust.WithEvaluator(acc))
			styleOpts = append(styleOpts, style.WithMixer(acc))
		}
	}
	s.adjust = adjust.NewEngine(adjustOpts...)
	s.style = style.NewEngine(styleOpts...)

	for _, spec := range catalogue.Specs(filter.FamilyStyle) {
		if !s.style.Supports(spec.Kind()) {
			return nil, fmt.Errorf("%w: no look for %s", ErrUnknownKind, spec.Kind())
		}
	}
	for _, spec := range catalogue.Specs(filter.FamilyAdjustment) {
		if !s.adjust.Supports(spec.Kind()) {
			return nil, fmt.Errorf("%w: no operator for %s", ErrUnknownKind, spec.Kind())
		}
	}

	s.log.Info("retouch: editing session started",
		"width", src.Width(), "height", src.Height(), "filters", catalogue.Len(), "gpu", s.accel != nil)
	return s, nil
}

// BeginEditingFrom loads the source image from p and starts a session.
func BeginEditingFrom(ctx context.Context, p ImageProvider, opts ...Option) (*EditingSession, error) {
	src, err := p.Image(ctx)
	if err != nil {
		return nil, fmt.Errorf("retouch: load source: %w", err)
	}
	return BeginEditing(src, opts...)
}

// ID returns the session identifier used in log records.
func (s *EditingSession) ID() uuid.UUID { return s.id }

// Source returns the unmodified source image.
func (s *EditingSession) Source() *gg.Pixmap { return s.source }

// Catalogue returns the session's filter catalogue.
func (s *EditingSession) Catalogue() *filter.Catalogue { return s.catalogue }

// Active returns the observable state of the filter being edited.
func (s *EditingSession) Active() *filter.ActiveState { return s.active }

// SelectAdjustmentFilter starts editing an adjustment filter from its last
// confirmed value.
func (s *EditingSession) SelectAdjustmentFilter(kind filter.Kind) error {
	return s.selectFilter(kind, filter.FamilyAdjustment)
}

// SelectStyleFilter starts editing a style look from its last confirmed
// intensity.
func (s *EditingSession) SelectStyleFilter(kind filter.Kind) error {
	return s.selectFilter(kind, filter.FamilyStyle)
}

func (s *EditingSession) selectFilter(kind filter.Kind, family filter.Family) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	spec, err := s.catalogue.Lookup(kind)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if spec.Family() != family {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is a %s filter", ErrUnknownKind, kind, spec.Family())
	}
	// A previous edit that was neither confirmed nor cancelled is dropped.
	if prev := s.active.Spec(); prev != nil && prev != spec {
		prev.Revert()
	}
	spec.Revert()
	s.mu.Unlock()

	// Subscribers run outside the session lock so they may read the preview.
	s.active.Select(spec)
	s.log.Debug("retouch: filter selected", "kind", kind, "value", spec.Value())
	return nil
}

// UpdateActiveFilterValue sets the live value of the active filter, clamped
// into its range. It returns the value applied.
func (s *EditingSession) UpdateActiveFilterValue(v float64) (float64, error) {
	return s.active.SetValue(v)
}

// ConfirmActiveFilter commits the active filter's value and records it in
// the stack. A kind already in the stack keeps its position.
func (s *EditingSession) ConfirmActiveFilter() error {
	s.mu.Lock()
	spec := s.active.Spec()
	if spec == nil {
		s.mu.Unlock()
		return ErrNoActiveFilter
	}
	spec.Commit()
	s.stack.Apply(spec.Entry())
	s.invalidateLocked()
	n := s.stack.Len()
	s.mu.Unlock()

	s.active.Clear()
	s.log.Debug("retouch: filter confirmed", "kind", spec.Kind(), "value", spec.Committed(), "stack", n)
	return nil
}

// CancelActiveFilter restores the active filter's last confirmed value and
// leaves the stack unchanged.
func (s *EditingSession) CancelActiveFilter() error {
	s.mu.Lock()
	spec := s.active.Spec()
	if spec == nil {
		s.mu.Unlock()
		return ErrNoActiveFilter
	}
	spec.Revert()
	s.mu.Unlock()

	s.active.Clear()
	s.log.Debug("retouch: filter cancelled", "kind", spec.Kind())
	return nil
}

// RemoveFilter drops kind from the stack and returns its spec to the
// default value.
func (s *EditingSession) RemoveFilter(kind filter.Kind) error {
	s.mu.Lock()
	spec, err := s.catalogue.Lookup(kind)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.stack.Remove(kind) {
		s.mu.Unlock()
		return nil
	}
	wasActive := s.active.Spec() == spec
	spec.Reset()
	spec.Commit()
	s.invalidateLocked()
	s.mu.Unlock()

	if wasActive {
		s.active.Clear()
	}
	return nil
}

// Stack returns a copy of the confirmed filter stack.
func (s *EditingSession) Stack() *filter.Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Clone()
}

// OutputImage applies the confirmed stack to the source in order. The
// result must not be modified.
func (s *EditingSession) OutputImage() (*gg.Pixmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.outputLocked()
}

// PreviewImage returns the image to display: the active filter's live value
// over the output of every other confirmed filter, or the confirmed output
// when nothing is being edited. The result must not be modified.
func (s *EditingSession) PreviewImage() (*gg.Pixmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}

	snap := s.active.Snapshot()
	if s.preview != nil && s.previewRev == snap.Revision {
		return s.preview, nil
	}

	var (
		img *gg.Pixmap
		err error
	)
	if !snap.Active() {
		img, err = s.outputLocked()
	} else {
		img, err = s.previewLocked(snap)
	}
	if err != nil {
		return nil, err
	}
	s.preview, s.previewRev = img, snap.Revision
	return img, nil
}

// Image implements render.Source.
func (s *EditingSession) Image() (*gg.Pixmap, error) { return s.PreviewImage() }

func (s *EditingSession) previewLocked(snap filter.Snapshot) (*gg.Pixmap, error) {
	if s.base == nil || s.baseFor != snap.Kind {
		base, err := s.applyLocked(s.stack.Without(snap.Kind).Entries())
		if err != nil {
			return nil, err
		}
		if s.base != nil {
			s.style.Forget(s.base)
		}
		s.base, s.baseFor = base, snap.Kind
	}
	if snap.Family == filter.FamilyStyle {
		return s.style.Composite(s.base, snap.Kind, snap.Value)
	}
	return s.adjust.Evaluate(s.base, snap.Kind, filter.ValueFor(snap.Kind, snap.Value))
}

func (s *EditingSession) outputLocked() (*gg.Pixmap, error) {
	if s.output == nil {
		out, err := s.applyLocked(s.stack.Entries())
		if err != nil {
			return nil, err
		}
		s.output = out
	}
	return s.output, nil
}

// applyLocked runs entries over the source, each stage consuming the
// previous stage's output.
func (s *EditingSession) applyLocked(entries []filter.Entry) (*gg.Pixmap, error) {
	cur := s.source
	for _, e := range entries {
		var err error
		switch e.Family {
		case filter.FamilyAdjustment:
			cur, err = s.adjust.Evaluate(cur, e.Kind, e.Value)
		case filter.FamilyStyle:
			intensity, ok := e.Value.Scalar()
			if !ok {
				return nil, fmt.Errorf("%w: %s: intensity must be a scalar", ErrNoOutput, e.Kind)
			}
			cur, err = s.style.Composite(cur, e.Kind, intensity)
		default:
			err = fmt.Errorf("%w: %s has unknown family %q", ErrNoOutput, e.Kind, e.Family)
		}
		if err != nil {
			return nil, err
		}
	}
	if cur == s.source {
		return pixmap.Clone(cur), nil
	}
	return cur, nil
}

func (s *EditingSession) invalidateLocked() {
	if s.base != nil {
		s.style.Forget(s.base)
	}
	s.output, s.base, s.baseFor, s.preview = nil, nil, "", nil
}

// Slider returns a slider for the active filter that writes its values to
// the session. opts apply after the session's slider defaults.
func (s *EditingSession) Slider(opts ...slider.Option) (*slider.Slider, error) {
	spec := s.active.Spec()
	if spec == nil {
		return nil, ErrNoActiveFilter
	}
	all := make([]slider.Option, 0, len(s.sliders)+len(opts)+1)
	all = append(all, slider.WithSink(s.active))
	all = append(all, s.sliders...)
	return slider.ForSpec(spec, append(all, opts...)...)
}

// Thumbnails renders every style look over the source, downsampled to fit
// a size x size box.
func (s *EditingSession) Thumbnails(ctx context.Context, size int) ([]style.Thumbnail, error) {
	return s.style.Thumbnails(ctx, s.source, size)
}

// StyleStats reports how often looks and blends were evaluated.
func (s *EditingSession) StyleStats() style.Stats { return s.style.Stats() }

// LoadRecipe replaces the confirmed stack with a recipe written by
// SaveRecipe. Every filter's value is restored; an edit in progress is
// dropped.
func (s *EditingSession) LoadRecipe(r io.Reader) error {
	st, err := filter.ReadRecipe(r, s.catalogue)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if err := s.catalogue.Restore(st); err != nil {
		s.mu.Unlock()
		return err
	}
	s.stack = st
	s.invalidateLocked()
	s.mu.Unlock()

	s.active.Clear()
	s.log.Info("retouch: recipe loaded", "filters", st.Len())
	return nil
}

// SaveRecipe writes the confirmed stack as YAML.
func (s *EditingSession) SaveRecipe(w io.Writer) error {
	s.mu.Lock()
	st := s.stack.Clone()
	s.mu.Unlock()
	return filter.WriteRecipe(w, st)
}

// Finish renders the output image and hands it with the recipe to sink.
func (s *EditingSession) Finish(ctx context.Context, sink OutputSink) error {
	out, err := s.OutputImage()
	if err != nil {
		return err
	}
	if err := sink.Deliver(ctx, Output{Image: out, Recipe: s.Stack()}); err != nil {
		return fmt.Errorf("retouch: deliver output: %w", err)
	}
	s.log.Info("retouch: editing finished", "filters", s.Stack().Len())
	return nil
}

// Close releases GPU resources. Filter and image calls on a closed
// session return ErrSessionClosed.
func (s *EditingSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.invalidateLocked()
	if s.accel != nil {
		s.accel.Close()
	}
	s.mu.Unlock()

	s.active.Clear()
	return nil
}
