package adjust

import (
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/filter"
)

// gradient returns an opaque pixmap with a diagonal color ramp.
func gradient(w, h int) *gg.Pixmap {
	pm := gg.NewPixmap(w, h)
	data := pm.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			data[i] = uint8(x * 255 / max(w-1, 1))
			data[i+1] = uint8(y * 255 / max(h-1, 1))
			data[i+2] = uint8((x + y) * 255 / max(w+h-2, 1))
			data[i+3] = 255
		}
	}
	return pm
}

func solid(w, h int, r, g, b uint8) *gg.Pixmap {
	pm := gg.NewPixmap(w, h)
	data := pm.Data()
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = r, g, b, 255
	}
	return pm
}

func pixel(pm *gg.Pixmap, x, y int) [4]uint8 {
	i := (y*pm.Width() + x) * 4
	d := pm.Data()
	return [4]uint8{d[i], d[i+1], d[i+2], d[i+3]}
}

func mustEval(t *testing.T, e *Engine, src *gg.Pixmap, kind filter.Kind, v float64) *gg.Pixmap {
	t.Helper()
	out, err := e.Evaluate(src, kind, filter.ValueFor(kind, v))
	if err != nil {
		t.Fatalf("Evaluate(%s, %v): %v", kind, v, err)
	}
	return out
}
