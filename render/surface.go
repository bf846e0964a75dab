// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"sync"

	"github.com/gogpu/gg"
)

// ErrSurfaceUnavailable reports that a surface had no drawable at tick time.
// It is recorded in Stats, never returned from Tick.
var ErrSurfaceUnavailable = errors.New("render: surface unavailable")

// Drawable is one frame's worth of destination. The pipeline writes
// premultiplied RGBA into Target and then calls Present exactly once.
type Drawable interface {
	// Size returns the destination size in pixels.
	Size() Size
	// Target returns the CPU pixels to draw into. Its dimensions equal Size.
	Target() *gg.Pixmap
	// Present makes the drawn frame visible.
	Present() error
}

// Surface hands out drawables. ok is false while no drawable exists, for
// example during a resize.
type Surface interface {
	Drawable() (d Drawable, ok bool)
}

// PixmapSurface is a CPU surface for tests, the CLI and software hosts.
// Frames are drawn into a back buffer and copied to the front on Present.
//
// PixmapSurface is safe for concurrent use.
type PixmapSurface struct {
	mu        sync.Mutex
	back      *gg.Pixmap
	front     *gg.Pixmap
	presented uint64
}

// NewPixmapSurface creates a surface of the given size. A non-positive size
// creates a surface with no drawable until Resize.
func NewPixmapSurface(width, height int) *PixmapSurface {
	s := &PixmapSurface{}
	s.Resize(width, height)
	return s
}

// Resize reallocates both buffers. The front buffer is cleared.
func (s *PixmapSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width <= 0 || height <= 0 {
		s.back, s.front = nil, nil
		return
	}
	s.back = gg.NewPixmap(width, height)
	s.front = gg.NewPixmap(width, height)
}

// Drawable implements Surface.
func (s *PixmapSurface) Drawable() (Drawable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.back == nil {
		return nil, false
	}
	return &pixmapDrawable{surface: s, back: s.back}, true
}

// Frame returns a copy of the last presented frame, or nil.
func (s *PixmapSurface) Frame() *gg.Pixmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return nil
	}
	out := gg.NewPixmap(s.front.Width(), s.front.Height())
	copy(out.Data(), s.front.Data())
	return out
}

// Presented returns the number of presented frames.
func (s *PixmapSurface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

type pixmapDrawable struct {
	surface *PixmapSurface
	back    *gg.Pixmap
}

func (d *pixmapDrawable) Size() Size         { return Size{W: d.back.Width(), H: d.back.Height()} }
func (d *pixmapDrawable) Target() *gg.Pixmap { return d.back }

func (d *pixmapDrawable) Present() error {
	s := d.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	// A resize between Drawable and Present invalidates this frame.
	if s.back != d.back {
		return ErrSurfaceUnavailable
	}
	copy(s.front.Data(), d.back.Data())
	s.presented++
	return nil
}
