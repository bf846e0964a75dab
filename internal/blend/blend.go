// Package blend composites premultiplied pixmaps at a global opacity.
//
// Mix works on premultiplied RGBA8 bytes as stored by gg.Pixmap.
// Weights are quantized to 1/255 steps; the weights 0 and 255 short-circuit
// to an exact copy of one input.
package blend

import (
	"errors"

	"github.com/gogpu/gg"
)

// ErrSizeMismatch is returned when the inputs do not share dimensions.
var ErrSizeMismatch = errors.New("blend: pixmap dimensions differ")

// Weight converts an opacity in [0, 1] to a byte weight. Values outside the
// range are clamped.
func Weight(alpha float64) byte {
	switch {
	case alpha != alpha || alpha <= 0:
		return 0
	case alpha >= 1:
		return 255
	}
	return byte(alpha*255 + 0.5)
}

// Mix writes fg*alpha + bg*(1-alpha) into dst. dst may alias either input.
//
// For opaque inputs this equals drawing fg source-over bg at the given
// opacity. At alpha <= 0 dst receives an exact copy of bg; at alpha >= 1 an
// exact copy of fg.
func Mix(dst, fg, bg *gg.Pixmap, alpha float64) error {
	if !sameSize(dst, fg) || !sameSize(dst, bg) {
		return ErrSizeMismatch
	}
	w := Weight(alpha)
	d, f, b := dst.Data(), fg.Data(), bg.Data()
	switch w {
	case 0:
		copy(d, b)
		return nil
	case 255:
		copy(d, f)
		return nil
	}
	for i := range d {
		d[i] = lerp255(f[i], b[i], w)
	}
	return nil
}

func sameSize(a, b *gg.Pixmap) bool {
	return a != nil && b != nil && a.Width() == b.Width() && a.Height() == b.Height()
}
