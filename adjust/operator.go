package adjust

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/colormatrix"
)

// Operator is a continuous image operator. Apply never modifies src.
type Operator interface {
	Apply(src *gg.Pixmap, v filter.Value) (*gg.Pixmap, error)
}

// OperatorFunc adapts a function to Operator.
type OperatorFunc func(src *gg.Pixmap, v filter.Value) (*gg.Pixmap, error)

// Apply calls f.
func (f OperatorFunc) Apply(src *gg.Pixmap, v filter.Value) (*gg.Pixmap, error) {
	return f(src, v)
}

// MatrixEvaluator applies a color matrix to a whole pixmap.
// *gpu.Accelerator and CPU implement it.
type MatrixEvaluator interface {
	ApplyMatrix(m colormatrix.Matrix, src, dst *gg.Pixmap) error
}

// CPU evaluates color matrices on the calling goroutine.
type CPU struct{}

// ApplyMatrix implements MatrixEvaluator.
func (CPU) ApplyMatrix(m colormatrix.Matrix, src, dst *gg.Pixmap) error {
	if src == nil || dst == nil || src.Width() != dst.Width() || src.Height() != dst.Height() {
		return fmt.Errorf("adjust: matrix: pixmap sizes differ")
	}
	m.Apply(src, dst)
	return nil
}

// matrixOperator builds a color matrix from the value and evaluates it.
type matrixOperator struct {
	kind  filter.Kind
	build func(filter.Value) (colormatrix.Matrix, error)
	eval  MatrixEvaluator
}

func (o *matrixOperator) Apply(src *gg.Pixmap, v filter.Value) (*gg.Pixmap, error) {
	m, err := o.build(v)
	if err != nil {
		return nil, err
	}
	dst := gg.NewPixmap(src.Width(), src.Height())
	if m.IsIdentity() {
		copy(dst.Data(), src.Data())
		return dst, nil
	}
	if err := o.eval.ApplyMatrix(m, src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// scalarMatrix wraps a single-parameter matrix constructor.
func scalarMatrix(kind filter.Kind, fn func(float64) colormatrix.Matrix) func(filter.Value) (colormatrix.Matrix, error) {
	return func(v filter.Value) (colormatrix.Matrix, error) {
		x, ok := v.Scalar()
		if !ok {
			return colormatrix.Matrix{}, valueError(kind, "scalar", v)
		}
		return fn(x), nil
	}
}

// whiteBalance reads the warmth/tint vector.
func whiteBalance(v filter.Value) (colormatrix.Matrix, error) {
	x, y, ok := v.Vector2()
	if !ok {
		return colormatrix.Matrix{}, valueError("white balance", "2-vector", v)
	}
	return colormatrix.WhiteBalance(x, y), nil
}

func valueError(kind filter.Kind, want string, v filter.Value) error {
	return fmt.Errorf("adjust: %s expects a %s value, got %v", kind, want, v)
}
