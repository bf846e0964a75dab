package crop

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/internal/pixmap"
)

// Rect returns the part of the natural image visible through the window, in
// natural pixels, clamped to the image bounds.
func (g *Geometry) Rect() image.Rectangle {
	k := g.natural.W / g.display.W
	imageMin := Point{X: g.offset.X - g.display.W/2, Y: g.offset.Y - g.display.H/2}
	windowMin := Point{X: -g.window.W / 2, Y: -g.window.H / 2}
	o := windowMin.Sub(imageMin).Mul(k)

	r := image.Rect(
		round(o.X), round(o.Y),
		round(o.X+g.window.W*k), round(o.Y+g.window.H*k),
	)
	return r.Intersect(image.Rect(0, 0, round(g.natural.W), round(g.natural.H)))
}

// Extract crops src to Rect. When src is not the natural size the rectangle
// is scaled to it. Pixels are copied without resampling. Extract returns nil
// for an invalid source or an empty crop.
func (g *Geometry) Extract(src *gg.Pixmap) *gg.Pixmap {
	if !pixmap.Valid(src) {
		return nil
	}
	r := g.Rect()
	sw, sh := src.Width(), src.Height()
	if nw, nh := round(g.natural.W), round(g.natural.H); sw != nw || sh != nh {
		fx, fy := float64(sw)/g.natural.W, float64(sh)/g.natural.H
		r = image.Rect(
			round(float64(r.Min.X)*fx), round(float64(r.Min.Y)*fy),
			round(float64(r.Max.X)*fx), round(float64(r.Max.Y)*fy),
		)
	}
	r = r.Intersect(image.Rect(0, 0, sw, sh))
	if r.Empty() {
		return nil
	}
	return pixmap.Crop(src, r)
}

func round(v float64) int { return int(math.Round(v)) }
