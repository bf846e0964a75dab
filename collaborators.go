package retouch

import (
	"context"
	"image"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/filter"
)

// ImageProvider supplies the decoded source image, for example from a
// camera or a photo library picker.
type ImageProvider interface {
	Image(ctx context.Context) (*gg.Pixmap, error)
}

// ImageProviderFunc adapts a function to ImageProvider.
type ImageProviderFunc func(ctx context.Context) (*gg.Pixmap, error)

// Image implements ImageProvider.
func (f ImageProviderFunc) Image(ctx context.Context) (*gg.Pixmap, error) { return f(ctx) }

// Output is the result handed back when a session finishes.
type Output struct {
	// Image is the final bitmap.
	Image *gg.Pixmap
	// Recipe is the confirmed filter stack. Nil for a crop.
	Recipe *filter.Stack
	// Crop is the cropped rectangle of the source. Empty for an edit.
	Crop image.Rectangle
}

// OutputSink receives the finished image, for example to compress and
// upload it.
type OutputSink interface {
	Deliver(ctx context.Context, out Output) error
}

// OutputSinkFunc adapts a function to OutputSink.
type OutputSinkFunc func(ctx context.Context, out Output) error

// Deliver implements OutputSink.
func (f OutputSinkFunc) Deliver(ctx context.Context, out Output) error { return f(ctx, out) }
