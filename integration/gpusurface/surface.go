// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpusurface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/retouch/internal/logging"
	"github.com/gogpu/retouch/render"
)

// Common errors returned by Surface operations.
var (
	// ErrSurfaceClosed is returned when presenting on a closed surface.
	ErrSurfaceClosed = errors.New("gpusurface: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("gpusurface: invalid dimensions")

	// ErrNoTextureCreator is returned when the drawer cannot create textures.
	ErrNoTextureCreator = errors.New("gpusurface: drawer has no texture creator")
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// premultiplier is implemented by gogpu textures that can switch to a
// premultiplied alpha blend.
type premultiplier interface {
	SetPremultiplied(bool)
}

// Surface is a render.Surface backed by a GPU texture.
type Surface struct {
	mu      sync.Mutex
	drawer  gpucontext.TextureDrawer
	staging *gg.Pixmap
	texture gpucontext.Texture

	// Replaced textures are destroyed only after the next upload, when the
	// GPU no longer samples them.
	oldTexture gpucontext.Texture
	x, y       float32
	presented  uint64
	closed     bool
}

var _ render.Surface = (*Surface)(nil)

// New creates a surface of the given size.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Surface{staging: gg.NewPixmap(width, height)}, nil
}

// Attach sets the drawer used by the next Present. A nil drawer detaches the
// surface; Drawable then reports no drawable.
func (s *Surface) Attach(dc gpucontext.TextureDrawer) {
	s.mu.Lock()
	s.drawer = dc
	s.mu.Unlock()
}

// SetPosition sets where the texture is drawn in the window.
func (s *Surface) SetPosition(x, y float32) {
	s.mu.Lock()
	s.x, s.y = x, y
	s.mu.Unlock()
}

// Resize replaces the staging pixmap. The texture is recreated on the next
// Present. A frame drawn before the resize fails to present with
// render.ErrSurfaceUnavailable.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staging.Width() == width && s.staging.Height() == height {
		return nil
	}
	s.staging = gg.NewPixmap(width, height)
	return nil
}

// Drawable implements render.Surface.
func (s *Surface) Drawable() (render.Drawable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.drawer == nil {
		return nil, false
	}
	return &drawable{surface: s, target: s.staging}, true
}

// Texture returns the current GPU texture, or nil before the first Present.
func (s *Surface) Texture() gpucontext.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texture
}

// Presented returns the number of frames drawn to the window.
func (s *Surface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Close releases the GPU textures. Close is idempotent.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	destroy(s.oldTexture)
	destroy(s.texture)
	s.oldTexture, s.texture = nil, nil
	s.drawer = nil
	return nil
}

func (s *Surface) present(target *gg.Pixmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	if s.drawer == nil || target != s.staging {
		return render.ErrSurfaceUnavailable
	}
	tex, err := s.upload()
	if err != nil {
		return err
	}
	if err := s.drawer.DrawTexture(tex, s.x, s.y); err != nil {
		return fmt.Errorf("gpusurface: draw texture: %w", err)
	}
	s.presented++
	return nil
}

// upload copies the staging pixels into the texture, creating it when it
// does not exist or no longer matches the staging size.
func (s *Surface) upload() (gpucontext.Texture, error) {
	w, h := s.staging.Width(), s.staging.Height()
	data := s.staging.Data()

	if s.texture != nil && s.texture.Width() == w && s.texture.Height() == h {
		if updater, ok := s.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return nil, fmt.Errorf("gpusurface: texture update failed: %w", err)
			}
			destroy(s.oldTexture)
			s.oldTexture = nil
			return s.texture, nil
		}
	}

	creator := s.drawer.TextureCreator()
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	tex, err := creator.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return nil, fmt.Errorf("gpusurface: NewTextureFromRGBA failed: %w", err)
	}
	// Staging pixels are premultiplied.
	if pt, ok := tex.(premultiplier); ok {
		pt.SetPremultiplied(true)
	}
	logging.L().Debug("gpusurface: texture created", "width", w, "height", h)

	// NewTextureFromRGBA waits for the GPU, so the texture before the
	// previous one is idle now.
	destroy(s.oldTexture)
	s.oldTexture, s.texture = s.texture, tex
	return tex, nil
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

type drawable struct {
	surface *Surface
	target  *gg.Pixmap
}

func (d *drawable) Size() render.Size {
	return render.Size{W: d.target.Width(), H: d.target.Height()}
}

func (d *drawable) Target() *gg.Pixmap { return d.target }
func (d *drawable) Present() error     { return d.surface.present(d.target) }
