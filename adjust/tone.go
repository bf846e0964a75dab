package adjust

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/colormatrix"
)

// midGrey is the luma pivot between shadows and highlights.
const midGrey = 0.5

// toneOperator remaps luma and rescales color to follow it.
type toneOperator struct {
	kind     filter.Kind
	// curve maps luma in [0, 1] to new luma given the amount. identity is the
	// amount at which curve is a no-op.
	curve    func(l, amount float64) float64
	identity float64
}

func (o *toneOperator) Apply(src *gg.Pixmap, v filter.Value) (*gg.Pixmap, error) {
	amount, ok := v.Scalar()
	if !ok {
		return nil, valueError(o.kind, "scalar", v)
	}
	dst := gg.NewPixmap(src.Width(), src.Height())
	s, d := src.Data(), dst.Data()
	if amount == o.identity {
		copy(d, s)
		return dst, nil
	}

	for i := 0; i+3 < len(s); i += 4 {
		a := s[i+3]
		if a == 0 {
			continue
		}
		alpha := float64(a) / 255
		r := float64(s[i]) / 255 / alpha
		g := float64(s[i+1]) / 255 / alpha
		b := float64(s[i+2]) / 255 / alpha

		l := colormatrix.LumR*r + colormatrix.LumG*g + colormatrix.LumB*b
		nl := clamp01(o.curve(l, amount))
		if l > 1e-6 {
			k := nl / l
			r, g, b = r*k, g*k, b*k
		} else {
			r, g, b = nl, nl, nl
		}
		d[i] = unit8(clamp01(r) * alpha)
		d[i+1] = unit8(clamp01(g) * alpha)
		d[i+2] = unit8(clamp01(b) * alpha)
		d[i+3] = a
	}
	return dst, nil
}

// highlightCurve compresses luma above mid grey towards it. amount 1 keeps
// highlights, 0 pulls them all the way down to mid grey.
func highlightCurve(l, amount float64) float64 {
	if l <= midGrey {
		return l
	}
	return midGrey + (l-midGrey)*amount
}

// shadowCurve lifts (positive amount) or crushes (negative) luma below mid
// grey, with full effect at black fading to none at mid grey.
func shadowCurve(l, amount float64) float64 {
	if l >= midGrey {
		return l
	}
	w := 1 - l/midGrey
	if amount >= 0 {
		return l + amount*w*(midGrey-l)
	}
	return l + amount*w*l
}

// vignette darkens towards the corners. amount 0 is a no-op, 2 takes the
// corners to black.
func vignette(src *gg.Pixmap, v filter.Value) (*gg.Pixmap, error) {
	amount, ok := v.Scalar()
	if !ok {
		return nil, valueError(filter.Vignette, "scalar", v)
	}
	w, h := src.Width(), src.Height()
	dst := gg.NewPixmap(w, h)
	s, d := src.Data(), dst.Data()
	if amount == 0 {
		copy(d, s)
		return dst, nil
	}

	const inner = 0.35
	cx, cy := float64(w)/2, float64(h)/2
	norm := math.Hypot(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / norm
			t := clamp01((dist - inner) / (1 - inner))
			f := 1 - amount/2*t*t*(3-2*t)
			i := (y*w + x) * 4
			// Premultiplied color scales directly; alpha is kept.
			d[i] = unit8(float64(s[i]) / 255 * f)
			d[i+1] = unit8(float64(s[i+1]) / 255 * f)
			d[i+2] = unit8(float64(s[i+2]) / 255 * f)
			d[i+3] = s[i+3]
		}
	}
	return dst, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
