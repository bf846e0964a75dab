// Package style renders "look" filters and blends them over the source at a
// user-controlled intensity.
//
// Compositing runs in two stages. The look transform is expensive and a pure
// function of the source, so its result is cached per (source, look). The
// intensity blend is cheap and is the only work done when the slider moves.
//
// Sources are identified by pointer: a pixmap must not be modified in place
// after it has been passed to the engine.
package style

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gg"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/retouch/adjust"
	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/blend"
	"github.com/gogpu/retouch/internal/cache"
	"github.com/gogpu/retouch/internal/logging"
	"github.com/gogpu/retouch/internal/pixmap"
)

// ErrNoOutput is shared with the adjustment engine so callers test one
// sentinel for any failed evaluation.
var ErrNoOutput = adjust.ErrNoOutput

// DefaultCacheSize is the number of rendered looks kept by default.
const DefaultCacheSize = 16

// DefaultWorkers bounds thumbnail rendering parallelism.
const DefaultWorkers = 4

// Mixer blends fg over bg at an opacity. *gpu.Accelerator implements it.
type Mixer interface {
	Mix(dst, fg, bg *gg.Pixmap, alpha float64) error
}

type cpuMixer struct{}

func (cpuMixer) Mix(dst, fg, bg *gg.Pixmap, alpha float64) error {
	return blend.Mix(dst, fg, bg, alpha)
}

type lookKey struct {
	src  *gg.Pixmap
	kind filter.Kind
}

// Engine renders and composites looks. Safe for concurrent use.
type Engine struct {
	looks   map[filter.Kind]Look
	order   []filter.Kind
	cache   *cache.LRU[lookKey, *gg.Pixmap]
	mixer   Mixer
	workers int

	lookRuns atomic.Uint64
	blends   atomic.Uint64
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	looks     []Look
	cacheSize int
	mixer     Mixer
	workers   int
}

// WithLooks replaces the built-in looks.
func WithLooks(looks ...Look) Option {
	return func(o *engineOptions) {
		o.looks = looks
	}
}

// WithCacheSize sets how many rendered looks are kept.
func WithCacheSize(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithMixer sets the blend implementation. nil keeps the CPU.
func WithMixer(m Mixer) Option {
	return func(o *engineOptions) {
		if m != nil {
			o.mixer = m
		}
	}
}

// WithWorkers bounds thumbnail parallelism.
func WithWorkers(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// NewEngine returns an engine over the built-in looks.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		looks:     DefaultLooks(),
		cacheSize: DefaultCacheSize,
		mixer:     cpuMixer{},
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		looks:   make(map[filter.Kind]Look, len(o.looks)),
		cache:   cache.New[lookKey, *gg.Pixmap](o.cacheSize),
		mixer:   o.mixer,
		workers: o.workers,
	}
	for _, l := range o.looks {
		if _, dup := e.looks[l.Kind()]; !dup {
			e.order = append(e.order, l.Kind())
		}
		e.looks[l.Kind()] = l
	}
	return e
}

// Kinds returns the looks in catalogue order.
func (e *Engine) Kinds() []filter.Kind {
	return append([]filter.Kind(nil), e.order...)
}

// Supports reports whether kind is a known look.
func (e *Engine) Supports(kind filter.Kind) bool {
	_, ok := e.looks[kind]
	return ok
}

// LookImage returns the full-strength look applied to src. The result is
// cached and shared; callers must not modify it.
func (e *Engine) LookImage(src *gg.Pixmap, kind filter.Kind) (*gg.Pixmap, error) {
	if !pixmap.Valid(src) {
		return nil, fmt.Errorf("%w: %s: empty source", ErrNoOutput, kind)
	}
	look, ok := e.looks[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrNoOutput, filter.ErrUnknownKind, kind)
	}
	return e.cache.GetOrCreate(lookKey{src: src, kind: kind}, func() (*gg.Pixmap, error) {
		e.lookRuns.Add(1)
		logging.L().Debug("style: rendering look", "kind", kind, "w", src.Width(), "h", src.Height())
		return look.Render(src), nil
	})
}

// Composite blends the look for kind over src at intensity. Intensity 0
// returns a copy of src, 1 a copy of the look image.
func (e *Engine) Composite(src *gg.Pixmap, kind filter.Kind, intensity float64) (*gg.Pixmap, error) {
	if !pixmap.Valid(src) {
		return nil, fmt.Errorf("%w: %s: empty source", ErrNoOutput, kind)
	}
	if !e.Supports(kind) {
		return nil, fmt.Errorf("%w: %w: %q", ErrNoOutput, filter.ErrUnknownKind, kind)
	}
	if intensity <= 0 {
		return pixmap.Clone(src), nil
	}
	look, err := e.LookImage(src, kind)
	if err != nil {
		return nil, err
	}
	dst := gg.NewPixmap(src.Width(), src.Height())
	if err := e.mixer.Mix(dst, look, src, intensity); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoOutput, kind, err)
	}
	e.blends.Add(1)
	return dst, nil
}

// Apply runs the style entries of a confirmed stack in order over src.
func (e *Engine) Apply(src *gg.Pixmap, entries []filter.Entry) (*gg.Pixmap, error) {
	cur := src
	for _, en := range entries {
		if en.Family != filter.FamilyStyle {
			return nil, fmt.Errorf("%w: %s is a %s filter", ErrNoOutput, en.Kind, en.Family)
		}
		intensity, ok := en.Value.Scalar()
		if !ok {
			return nil, fmt.Errorf("%w: %s: intensity must be a scalar", ErrNoOutput, en.Kind)
		}
		next, err := e.Composite(cur, en.Kind, intensity)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == src {
		return pixmap.Clone(src), nil
	}
	return cur, nil
}

// Forget drops every cached look rendered from src.
func (e *Engine) Forget(src *gg.Pixmap) {
	for _, k := range e.order {
		e.cache.Delete(lookKey{src: src, kind: k})
	}
}

// Thumbnail is a small preview of one look.
type Thumbnail struct {
	Kind  filter.Kind
	Image *gg.Pixmap
}

// Thumbnails renders every look over a copy of src downsampled to fit a
// size x size box, in catalogue order. Looks render in parallel.
func (e *Engine) Thumbnails(ctx context.Context, src *gg.Pixmap, size int) ([]Thumbnail, error) {
	if !pixmap.Valid(src) || size <= 0 {
		return nil, fmt.Errorf("%w: thumbnails: empty source or size", ErrNoOutput)
	}
	w, h := pixmap.FitSize(src.Width(), src.Height(), size)
	small := src
	if w != src.Width() || h != src.Height() {
		small = pixmap.Scale(src, w, h)
	}

	out := make([]Thumbnail, len(e.order))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, kind := range e.order {
		look := e.looks[kind]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.lookRuns.Add(1)
			out[i] = Thumbnail{Kind: kind, Image: look.Render(small)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.L().Debug("style: thumbnails ready", "count", len(out), "w", w, "h", h)
	return out, nil
}

// Stats counts work done by the engine.
type Stats struct {
	// LookRuns is the number of look transforms evaluated.
	LookRuns uint64
	// Blends is the number of intensity blends evaluated.
	Blends uint64
	// Cache describes the rendered look cache.
	Cache cache.Stats
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		LookRuns: e.lookRuns.Load(),
		Blends:   e.blends.Load(),
		Cache:    e.cache.Stats(),
	}
}
