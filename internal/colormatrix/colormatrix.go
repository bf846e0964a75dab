// Package colormatrix implements the 4x5 color matrix operator behind most
// adjustment filters.
//
// The transformation is
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
//
// evaluated on straight-alpha channel values in [0, 255]. Pixmaps store
// premultiplied color, so Apply un-premultiplies before the matrix and
// re-premultiplies after it.
package colormatrix

import (
	"math"

	"github.com/gogpu/gg"
)

// Matrix is a row-major 4x5 color matrix.
type Matrix [20]float32

// Rec. 709 luminance weights.
const (
	LumR = 0.2126
	LumG = 0.7152
	LumB = 0.0722
)

// Identity returns the matrix that leaves colors unchanged.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Gain scales the color channels by r, g and b.
func Gain(r, g, b float32) Matrix {
	return Matrix{
		r, 0, 0, 0, 0,
		0, g, 0, 0, 0,
		0, 0, b, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Exposure scales linear intensity by 2^ev, like opening the aperture by ev
// stops.
func Exposure(ev float64) Matrix {
	g := float32(math.Exp2(ev))
	return Gain(g, g, g)
}

// Brightness adds offset (in [−1, 1] of full scale) to every color channel.
func Brightness(offset float64) Matrix {
	o := float32(offset * 255)
	return Matrix{
		1, 0, 0, 0, o,
		0, 1, 0, 0, o,
		0, 0, 1, 0, o,
		0, 0, 0, 1, 0,
	}
}

// Contrast scales channel distance from mid grey by factor.
// 0 = flat grey, 1 = unchanged.
func Contrast(factor float64) Matrix {
	f := float32(factor)
	o := 128 * (1 - f)
	return Matrix{
		f, 0, 0, 0, o,
		0, f, 0, 0, o,
		0, 0, f, 0, o,
		0, 0, 0, 1, 0,
	}
}

// Saturation blends between luminance (0) and the original color (1).
// Values above 1 oversaturate.
func Saturation(factor float64) Matrix {
	s := float32(factor)
	inv := 1 - s
	return Matrix{
		LumR*inv + s, LumG * inv, LumB * inv, 0, 0,
		LumR * inv, LumG*inv + s, LumB * inv, 0, 0,
		LumR * inv, LumG * inv, LumB*inv + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// WhiteBalance shifts color temperature and tint. Positive warmth pushes
// towards amber (more red, less blue), positive tint towards magenta (less
// green). Both axes are in [−1, 1]; 0,0 is the identity.
func WhiteBalance(warmth, tint float64) Matrix {
	const strength = 0.25
	r := 1 + strength*warmth
	b := 1 - strength*warmth
	g := 1 - strength*tint
	return Gain(float32(r), float32(g), float32(b))
}

// Sepia returns the classic sepia tone matrix.
func Sepia() Matrix {
	return Matrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Then returns the matrix that applies m first and then next.
func (m Matrix) Then(next Matrix) Matrix {
	var out Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += next[row*5+k] * m[k*5+col]
			}
			out[row*5+col] = sum
		}
		out[row*5+4] = next[row*5+0]*m[4] + next[row*5+1]*m[9] +
			next[row*5+2]*m[14] + next[row*5+3]*m[19] + next[row*5+4]
	}
	return out
}

// IsIdentity reports whether m leaves every color unchanged.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Apply transforms every pixel of src into dst. Both pixmaps must have the
// same dimensions; src and dst may be the same pixmap.
func (m Matrix) Apply(src, dst *gg.Pixmap) {
	if src == nil || dst == nil || src.Width() != dst.Width() || src.Height() != dst.Height() {
		return
	}
	s := src.Data()
	d := dst.Data()
	for i := 0; i+3 < len(s); i += 4 {
		d[i+0], d[i+1], d[i+2], d[i+3] = m.Pixel(s[i+0], s[i+1], s[i+2], s[i+3])
	}
}

// Pixel transforms a single premultiplied pixel.
func (m Matrix) Pixel(pr, pg, pb, pa uint8) (r, g, b, a uint8) {
	alpha := float32(pa)
	if alpha == 0 {
		return 0, 0, 0, 0
	}

	fr, fg, fb := float32(pr), float32(pg), float32(pb)
	if pa != 255 {
		fr = fr * 255 / alpha
		fg = fg * 255 / alpha
		fb = fb * 255 / alpha
	}

	nr := m[0]*fr + m[1]*fg + m[2]*fb + m[3]*alpha + m[4]
	ng := m[5]*fr + m[6]*fg + m[7]*fb + m[8]*alpha + m[9]
	nb := m[10]*fr + m[11]*fg + m[12]*fb + m[13]*alpha + m[14]
	na := m[15]*fr + m[16]*fg + m[17]*fb + m[18]*alpha + m[19]

	na = clamp255(na)
	if na <= 0 {
		return 0, 0, 0, 0
	}
	nr, ng, nb = clamp255(nr), clamp255(ng), clamp255(nb)
	if na < 255 {
		f := na / 255
		nr *= f
		ng *= f
		nb *= f
	}
	return round8(nr), round8(ng), round8(nb), round8(na)
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func round8(v float32) uint8 {
	return uint8(v + 0.5)
}
