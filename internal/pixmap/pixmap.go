// Package pixmap converts between image.Image and *gg.Pixmap and provides the
// small set of whole-buffer helpers the filter engines share.
//
// A gg.Pixmap stores premultiplied RGBA8, which is the same memory layout as
// *image.RGBA, so View can expose a pixmap to image/draw code without copying.
package pixmap

import (
	"bytes"
	"image"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// Valid reports whether pm is non-nil and has a non-empty area.
func Valid(pm *gg.Pixmap) bool {
	return pm != nil && pm.Width() > 0 && pm.Height() > 0
}

// View wraps pm as an *image.RGBA sharing its pixel memory.
func View(pm *gg.Pixmap) *image.RGBA {
	return &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

// FromImage copies img into a new pixmap. The result always starts at (0, 0).
func FromImage(img image.Image) *gg.Pixmap {
	b := img.Bounds()
	pm := gg.NewPixmap(b.Dx(), b.Dy())
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == b.Dx()*4 && len(rgba.Pix) == len(pm.Data()) {
		copy(pm.Data(), rgba.Pix)
		return pm
	}
	xdraw.Draw(View(pm), View(pm).Bounds(), img, b.Min, xdraw.Src)
	return pm
}

// Crop copies the pixels of pm inside r into a new pixmap. r is clipped to
// the bounds of pm. Bytes are copied unchanged, so translucent pixels keep
// their exact premultiplied values.
func Crop(pm *gg.Pixmap, r image.Rectangle) *gg.Pixmap {
	r = r.Intersect(image.Rect(0, 0, pm.Width(), pm.Height()))
	out := gg.NewPixmap(r.Dx(), r.Dy())
	src, dst := pm.Data(), out.Data()
	stride, row := pm.Width()*4, r.Dx()*4
	for y := 0; y < r.Dy(); y++ {
		start := (r.Min.Y+y)*stride + r.Min.X*4
		copy(dst[y*row:(y+1)*row], src[start:start+row])
	}
	return out
}

// Clone returns a deep copy of pm.
func Clone(pm *gg.Pixmap) *gg.Pixmap {
	out := gg.NewPixmap(pm.Width(), pm.Height())
	copy(out.Data(), pm.Data())
	return out
}

// Equal reports whether a and b have identical dimensions and bytes.
func Equal(a, b *gg.Pixmap) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Width() == b.Width() && a.Height() == b.Height() && bytes.Equal(a.Data(), b.Data())
}

// Scale resamples src to width x height with Catmull-Rom interpolation.
func Scale(src *gg.Pixmap, width, height int) *gg.Pixmap {
	dst := gg.NewPixmap(width, height)
	dv := View(dst)
	xdraw.CatmullRom.Scale(dv, dv.Bounds(), View(src), View(src).Bounds(), xdraw.Src, nil)
	return dst
}

// FitSize returns the largest size with the aspect ratio of w x h that fits
// inside a maxSide x maxSide box. Sizes never drop below one pixel.
func FitSize(w, h, maxSide int) (int, int) {
	if w <= 0 || h <= 0 || maxSide <= 0 {
		return 0, 0
	}
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		return maxSide, max(nh, 1)
	}
	nw := w * maxSide / h
	return max(nw, 1), maxSide
}

// Fill sets every pixel of pm to the premultiplied bytes of c.
func Fill(pm *gg.Pixmap, c gg.RGBA) {
	p := c.Premultiply()
	r, g, b, a := toByte(p.R), toByte(p.G), toByte(p.B), toByte(p.A)
	data := pm.Data()
	for i := 0; i < len(data); i += 4 {
		data[i+0] = r
		data[i+1] = g
		data[i+2] = b
		data[i+3] = a
	}
}

func toByte(v float64) uint8 {
	v = v*255 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
