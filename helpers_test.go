package retouch

import (
	"bytes"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/adjust"
	"github.com/gogpu/retouch/filter"
)

// testImage returns an opaque pixmap with a color ramp in every channel.
func testImage(w, h int) *gg.Pixmap {
	pm := gg.NewPixmap(w, h)
	data := pm.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			data[i] = uint8(40 + x*170/max(w-1, 1))
			data[i+1] = uint8(30 + y*190/max(h-1, 1))
			data[i+2] = uint8(200 - (x+y)*150/max(w+h-2, 1))
			data[i+3] = 255
		}
	}
	return pm
}

func mustBegin(t *testing.T, src *gg.Pixmap, opts ...Option) *EditingSession {
	t.Helper()
	s, err := BeginEditing(src, opts...)
	if err != nil {
		t.Fatalf("BeginEditing: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// confirm selects kind, sets v and confirms it.
func confirm(t *testing.T, s *EditingSession, kind filter.Kind, v float64) {
	t.Helper()
	spec, err := s.Catalogue().Lookup(kind)
	if err != nil {
		t.Fatal(err)
	}
	if spec.IsAdjustment() {
		err = s.SelectAdjustmentFilter(kind)
	} else {
		err = s.SelectStyleFilter(kind)
	}
	if err != nil {
		t.Fatalf("select %s: %v", kind, err)
	}
	if _, err := s.UpdateActiveFilterValue(v); err != nil {
		t.Fatalf("update %s: %v", kind, err)
	}
	if err := s.ConfirmActiveFilter(); err != nil {
		t.Fatalf("confirm %s: %v", kind, err)
	}
}

func mustOutput(t *testing.T, s *EditingSession) *gg.Pixmap {
	t.Helper()
	out, err := s.OutputImage()
	if err != nil {
		t.Fatalf("OutputImage: %v", err)
	}
	return out
}

func mustEval(t *testing.T, e *adjust.Engine, src *gg.Pixmap, kind filter.Kind, v float64) *gg.Pixmap {
	t.Helper()
	out, err := e.Evaluate(src, kind, filter.ValueFor(kind, v))
	if err != nil {
		t.Fatalf("Evaluate %s: %v", kind, err)
	}
	return out
}

func samePixels(a, b *gg.Pixmap) bool {
	return a.Width() == b.Width() && a.Height() == b.Height() && bytes.Equal(a.Data(), b.Data())
}
