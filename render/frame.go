// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/gg"
)

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// FitMode selects how a source is scaled into a destination.
type FitMode uint8

const (
	// AspectFit shows the whole source, letterboxing the remainder.
	AspectFit FitMode = iota
	// AspectFill covers the whole destination, cropping overflow.
	AspectFill
)

func (m FitMode) String() string {
	if m == AspectFill {
		return "fill"
	}
	return "fit"
}

// Frame is the per-draw placement of a source in a destination.
type Frame struct {
	Source      Size
	Destination Size
	Fit         FitMode
}

// Scale returns the uniform scale factor: the smaller of the two axis ratios
// for AspectFit, the larger for AspectFill. An empty frame has scale 0.
func (f Frame) Scale() float64 {
	if f.Source.Empty() || f.Destination.Empty() {
		return 0
	}
	sx := float64(f.Destination.W) / float64(f.Source.W)
	sy := float64(f.Destination.H) / float64(f.Source.H)
	if f.Fit == AspectFill {
		return math.Max(sx, sy)
	}
	return math.Min(sx, sy)
}

// Origin returns the top-left corner of the scaled source, centered in the
// destination. Negative coordinates are clamped to zero.
func (f Frame) Origin() (x, y float64) {
	s := f.Scale()
	x = (float64(f.Destination.W) - float64(f.Source.W)*s) / 2
	y = (float64(f.Destination.H) - float64(f.Source.H)*s) / 2
	return math.Max(x, 0), math.Max(y, 0)
}

// Transform returns the affine map from source to destination pixels.
func (f Frame) Transform() gg.Matrix {
	s := f.Scale()
	x, y := f.Origin()
	return gg.Translate(x, y).Multiply(gg.Scale(s, s))
}
