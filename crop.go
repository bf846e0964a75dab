package retouch

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/retouch/anim"
	"github.com/gogpu/retouch/crop"
	"github.com/gogpu/retouch/internal/logging"
	"github.com/gogpu/retouch/internal/pixmap"
)

// CropSession crops one source image. It is not safe for concurrent use.
type CropSession struct {
	id       uuid.UUID
	source   *gg.Pixmap
	geometry *crop.Geometry
}

// BeginCrop places src behind a crop window of the given size, contracted
// and centered.
func BeginCrop(src *gg.Pixmap, window crop.Size, opts ...crop.Option) (*CropSession, error) {
	if !pixmap.Valid(src) {
		return nil, ErrNilSource
	}
	natural := crop.Size{W: float64(src.Width()), H: float64(src.Height())}
	g, err := crop.New(natural, window, opts...)
	if err != nil {
		return nil, err
	}
	c := &CropSession{id: uuid.New(), source: src, geometry: g}
	logging.L().Info("retouch: crop session started", "session", c.id.String(),
		"width", src.Width(), "height", src.Height(), "window", fmt.Sprintf("%gx%g", window.W, window.H))
	return c, nil
}

// ID returns the session identifier used in log records.
func (c *CropSession) ID() uuid.UUID { return c.id }

// Geometry returns the crop geometry for views that draw the image.
func (c *CropSession) Geometry() *crop.Geometry { return c.geometry }

// UpdateCropGesture applies a pinch or pan event. When the last running
// gesture ends, ok is true and tr animates the bounds correction.
func (c *CropSession) UpdateCropGesture(ev crop.GestureEvent) (tr anim.Transition[crop.Layout], ok bool) {
	return c.geometry.Handle(ev)
}

// ToggleCropAspect switches between filling and fitting the crop window.
func (c *CropSession) ToggleCropAspect() anim.Transition[crop.Layout] {
	return c.geometry.ToggleAspect()
}

// CropRect returns the visible rectangle in source pixels.
func (c *CropSession) CropRect() image.Rectangle { return c.geometry.Rect() }

// CroppedImage cuts the visible rectangle from the full-resolution source.
func (c *CropSession) CroppedImage() (*gg.Pixmap, error) {
	out := c.geometry.Extract(c.source)
	if out == nil {
		return nil, fmt.Errorf("%w: empty crop %v", ErrInvalidGeometry, c.geometry.Rect())
	}
	return out, nil
}

// Finish crops the source and hands the image with its rectangle to sink.
func (c *CropSession) Finish(ctx context.Context, sink OutputSink) error {
	out, err := c.CroppedImage()
	if err != nil {
		return err
	}
	if err := sink.Deliver(ctx, Output{Image: out, Crop: c.CropRect()}); err != nil {
		return fmt.Errorf("retouch: deliver crop: %w", err)
	}
	logging.L().Info("retouch: crop finished", "session", c.id.String(), "rect", c.CropRect().String())
	return nil
}
