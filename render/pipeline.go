// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/retouch/internal/logging"
	"github.com/gogpu/retouch/internal/pixmap"
)

// Source supplies the image to present. Implementations return an error
// wrapping a "no output" sentinel when there is nothing to draw this tick.
type Source interface {
	Image() (*gg.Pixmap, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (*gg.Pixmap, error)

// Image calls f.
func (f SourceFunc) Image() (*gg.Pixmap, error) { return f() }

// TickResult describes what a single tick did.
type TickResult uint8

const (
	// TickSubmitted means a draw was handed to the queue.
	TickSubmitted TickResult = iota
	// TickNoSource means the source produced no image.
	TickNoSource
	// TickNoQueue means there was no queue or it rejected the draw.
	TickNoQueue
	// TickNoDrawable means the surface had no drawable.
	TickNoDrawable
	// TickCoalesced means the previous draw was still in flight.
	TickCoalesced
)

func (r TickResult) String() string {
	switch r {
	case TickSubmitted:
		return "submitted"
	case TickNoSource:
		return "no-source"
	case TickNoQueue:
		return "no-queue"
	case TickNoDrawable:
		return "no-drawable"
	case TickCoalesced:
		return "coalesced"
	default:
		return fmt.Sprintf("TickResult(%d)", r)
	}
}

// Skipped reports whether the tick presented nothing.
func (r TickResult) Skipped() bool { return r != TickSubmitted }

// Stats counts pipeline activity.
type Stats struct {
	Ticks     uint64
	Submitted uint64
	Presented uint64
	Coalesced uint64
	Skipped   uint64
	Failed    uint64
	// LastError is the most recent skip or draw failure, nil if none.
	LastError error
}

// Pipeline draws the source into the surface once per tick.
type Pipeline struct {
	source  Source
	surface Surface
	queue   Queue

	fit        FitMode
	background gg.RGBA
	scaler     xdraw.Transformer

	inFlight atomic.Bool

	mu    sync.Mutex
	stats Stats
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithFitMode selects aspect fit (default) or fill.
func WithFitMode(m FitMode) PipelineOption {
	return func(p *Pipeline) {
		p.fit = m
	}
}

// WithBackground sets the letterbox color. Default is opaque black.
func WithBackground(c gg.RGBA) PipelineOption {
	return func(p *Pipeline) {
		p.background = c
	}
}

// WithScaler sets the resampling kernel. Default is bilinear.
func WithScaler(t xdraw.Transformer) PipelineOption {
	return func(p *Pipeline) {
		if t != nil {
			p.scaler = t
		}
	}
}

// NewPipeline creates a pipeline. Any collaborator may be nil; ticks are
// skipped until it is available.
func NewPipeline(source Source, surface Surface, queue Queue, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:     source,
		surface:    surface,
		queue:      queue,
		fit:        AspectFit,
		background: gg.RGBA{A: 1},
		scaler:     xdraw.ApproxBiLinear,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tick performs one refresh. It never blocks on the draw and never fails;
// the result says whether a draw was submitted.
func (p *Pipeline) Tick() TickResult {
	p.count(func(s *Stats) { s.Ticks++ })

	if p.inFlight.Load() {
		p.count(func(s *Stats) { s.Coalesced++ })
		return TickCoalesced
	}

	if p.source == nil {
		return p.skip(TickNoSource, nil)
	}
	img, err := p.source.Image()
	if err != nil || !pixmap.Valid(img) {
		return p.skip(TickNoSource, err)
	}
	if p.queue == nil {
		return p.skip(TickNoQueue, nil)
	}
	if p.surface == nil {
		return p.skip(TickNoDrawable, ErrSurfaceUnavailable)
	}
	d, ok := p.surface.Drawable()
	if !ok || d == nil || d.Size().Empty() {
		return p.skip(TickNoDrawable, ErrSurfaceUnavailable)
	}

	if !p.inFlight.CompareAndSwap(false, true) {
		p.count(func(s *Stats) { s.Coalesced++ })
		return TickCoalesced
	}
	frame := Frame{
		Source:      Size{W: img.Width(), H: img.Height()},
		Destination: d.Size(),
		Fit:         p.fit,
	}
	submitted := p.queue.Submit(func() error {
		return p.draw(img, d, frame)
	}, p.complete)
	if !submitted {
		p.inFlight.Store(false)
		return p.skip(TickNoQueue, errors.New("render: queue rejected draw"))
	}
	p.count(func(s *Stats) { s.Submitted++ })
	return TickSubmitted
}

// Run ticks every interval until ctx is done and returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.Tick()
		}
	}
}

// InFlight reports whether a submitted draw has not completed yet.
func (p *Pipeline) InFlight() bool { return p.inFlight.Load() }

// Stats returns a snapshot of the counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Pipeline) draw(img *gg.Pixmap, d Drawable, f Frame) error {
	target := d.Target()
	if target == nil || target.Width() != f.Destination.W || target.Height() != f.Destination.H {
		return ErrSurfaceUnavailable
	}
	pixmap.Fill(target, p.background)

	m := f.Transform()
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	src := pixmap.View(img)
	p.scaler.Transform(pixmap.View(target), aff, src, src.Bounds(), xdraw.Over, nil)
	return d.Present()
}

func (p *Pipeline) complete(err error) {
	p.inFlight.Store(false)
	if err != nil {
		logging.L().Warn("render: draw failed", "err", err)
		p.count(func(s *Stats) {
			s.Failed++
			s.LastError = err
		})
		return
	}
	p.count(func(s *Stats) { s.Presented++ })
}

func (p *Pipeline) skip(r TickResult, err error) TickResult {
	logging.L().Debug("render: tick skipped", "reason", r, "err", err)
	p.count(func(s *Stats) {
		s.Skipped++
		if err != nil {
			s.LastError = err
		}
	})
	return r
}

func (p *Pipeline) count(fn func(*Stats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}
