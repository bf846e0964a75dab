package style

import (
	"github.com/disintegration/gift"
	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/pixmap"
)

// Look is a fixed, deterministic image transform. It has no strength
// parameter; intensity is applied afterwards by blending.
type Look struct {
	kind  filter.Kind
	chain *gift.GIFT
}

// NewLook builds a look from a gift filter chain. Filters that change the
// image bounds are not supported.
func NewLook(kind filter.Kind, filters ...gift.Filter) Look {
	g := gift.New(filters...)
	return Look{kind: kind, chain: g}
}

// Kind returns the look's catalogue kind.
func (l Look) Kind() filter.Kind { return l.kind }

// Render returns a new pixmap with the look applied to src.
func (l Look) Render(src *gg.Pixmap) *gg.Pixmap {
	dst := gg.NewPixmap(src.Width(), src.Height())
	l.chain.Draw(pixmap.View(dst), pixmap.View(src))
	return dst
}

// DefaultLooks returns the built-in looks, one per filter.DefaultLooks kind.
func DefaultLooks() []Look {
	return []Look{
		NewLook(filter.Chrome,
			gift.Contrast(20),
			gift.Saturation(25),
			gift.ColorBalance(-4, 0, 6)),
		NewLook(filter.Fade,
			gift.Contrast(-25),
			gift.Saturation(-30),
			gift.Brightness(8)),
		NewLook(filter.Instant,
			gift.Sigmoid(0.5, 4),
			gift.ColorBalance(10, 3, -8),
			gift.Saturation(-10)),
		NewLook(filter.Mono,
			gift.Grayscale()),
		NewLook(filter.Noir,
			gift.Grayscale(),
			gift.Contrast(40),
			gift.Gamma(0.85)),
		NewLook(filter.Process,
			gift.ColorBalance(-6, 4, 12),
			gift.Contrast(10),
			gift.Saturation(15)),
		NewLook(filter.Tonal,
			gift.Grayscale(),
			gift.Contrast(-15)),
		NewLook(filter.Transfer,
			gift.Sepia(35),
			gift.ColorBalance(6, 2, -6),
			gift.Contrast(-8)),
	}
}
