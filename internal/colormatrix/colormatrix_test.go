package colormatrix

import (
	"testing"

	"github.com/gogpu/gg"
)

func solid(w, h int, r, g, b, a uint8) *gg.Pixmap {
	pm := gg.NewPixmap(w, h)
	d := pm.Data()
	for i := 0; i < len(d); i += 4 {
		d[i], d[i+1], d[i+2], d[i+3] = r, g, b, a
	}
	return pm
}

func TestIdentityLeavesPixelsUnchanged(t *testing.T) {
	src := solid(4, 4, 10, 128, 250, 255)
	dst := gg.NewPixmap(4, 4)
	Identity().Apply(src, dst)
	for i, v := range src.Data() {
		if dst.Data()[i] != v {
			t.Fatalf("byte %d = %d, want %d", i, dst.Data()[i], v)
		}
	}
}

func TestPixel(t *testing.T) {
	tests := []struct {
		name      string
		m         Matrix
		in        [4]uint8
		want      [4]uint8
		tolerance int
	}{
		{"exposure +1 doubles", Exposure(1), [4]uint8{50, 60, 70, 255}, [4]uint8{100, 120, 140, 255}, 0},
		{"exposure clamps", Exposure(1), [4]uint8{200, 200, 200, 255}, [4]uint8{255, 255, 255, 255}, 0},
		{"brightness adds", Brightness(0.1), [4]uint8{100, 100, 100, 255}, [4]uint8{126, 126, 126, 255}, 1},
		{"contrast zero flattens", Contrast(0), [4]uint8{0, 90, 255, 255}, [4]uint8{128, 128, 128, 255}, 0},
		{"saturation zero is grey", Saturation(0), [4]uint8{255, 0, 0, 255}, [4]uint8{54, 54, 54, 255}, 1},
		{"white balance warm", WhiteBalance(1, 0), [4]uint8{100, 100, 100, 255}, [4]uint8{125, 100, 75, 255}, 0},
		{"transparent stays transparent", Brightness(1), [4]uint8{0, 0, 0, 0}, [4]uint8{0, 0, 0, 0}, 0},
		{"half alpha round trips", Identity(), [4]uint8{64, 32, 16, 128}, [4]uint8{64, 32, 16, 128}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.m.Pixel(tt.in[0], tt.in[1], tt.in[2], tt.in[3])
			got := [4]uint8{r, g, b, a}
			for k := range got {
				diff := int(got[k]) - int(tt.want[k])
				if diff < -tt.tolerance || diff > tt.tolerance {
					t.Fatalf("Pixel(%v) = %v, want %v ±%d", tt.in, got, tt.want, tt.tolerance)
				}
			}
		})
	}
}

func TestThenComposesInOrder(t *testing.T) {
	// Brightness then contrast differs from contrast then brightness.
	a := Brightness(0.2).Then(Contrast(2))
	b := Contrast(2).Then(Brightness(0.2))

	r1, _, _, _ := a.Pixel(100, 100, 100, 255)
	r2, _, _, _ := b.Pixel(100, 100, 100, 255)
	if r1 == r2 {
		t.Fatalf("composition order ignored: both gave %d", r1)
	}

	// Sequential application must match the composed matrix.
	src := solid(1, 1, 100, 100, 100, 255)
	step := gg.NewPixmap(1, 1)
	Brightness(0.2).Apply(src, step)
	Contrast(2).Apply(step, step)
	if diff := int(step.Data()[0]) - int(r1); diff < -1 || diff > 1 {
		t.Errorf("sequential = %d, composed = %d", step.Data()[0], r1)
	}
}

func TestIsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if !Exposure(0).IsIdentity() {
		t.Error("Exposure(0) should be identity")
	}
	if !WhiteBalance(0, 0).IsIdentity() {
		t.Error("WhiteBalance(0, 0) should be identity")
	}
	if Contrast(1.1).IsIdentity() {
		t.Error("Contrast(1.1) reported identity")
	}
}

func TestApplyMismatchedSizesIsNoop(t *testing.T) {
	src := solid(2, 2, 1, 2, 3, 255)
	dst := gg.NewPixmap(3, 3)
	Exposure(1).Apply(src, dst)
	for _, v := range dst.Data() {
		if v != 0 {
			t.Fatal("dst modified despite size mismatch")
		}
	}
}
