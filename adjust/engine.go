// Package adjust applies continuous adjustment operators to pixmaps.
//
// Each adjustment kind maps to one Operator. Color-matrix kinds (exposure,
// brightness, contrast, saturation, warmth, tint) run through a
// MatrixEvaluator, which is the CPU by default or the GPU accelerator when
// one is attached. Tone kinds (highlights, shadows) and vignette run on the
// CPU.
//
// Any failure to produce an image is reported as ErrNoOutput; the engine
// never panics past its callers.
package adjust

import (
	"errors"
	"fmt"
	"maps"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/internal/colormatrix"
	"github.com/gogpu/retouch/internal/logging"
	"github.com/gogpu/retouch/internal/pixmap"
)

// ErrNoOutput is returned when an operator cannot produce an image for its
// input. Render loops treat it as a skipped frame.
var ErrNoOutput = errors.New("adjust: no output")

// Engine evaluates adjustment operators. It holds no per-image state and is
// safe for concurrent use once constructed.
type Engine struct {
	eval MatrixEvaluator
	ops  map[filter.Kind]Operator
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	eval MatrixEvaluator
	ops  map[filter.Kind]Operator
}

// WithEvaluator sets the color matrix evaluator. nil keeps the CPU.
func WithEvaluator(e MatrixEvaluator) Option {
	return func(o *engineOptions) {
		if e != nil {
			o.eval = e
		}
	}
}

// WithOperator registers op for kind, replacing a built-in operator.
func WithOperator(kind filter.Kind, op Operator) Option {
	return func(o *engineOptions) {
		o.ops[kind] = op
	}
}

// NewEngine returns an engine with every built-in adjustment.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		eval: CPU{},
		ops:  make(map[filter.Kind]Operator),
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		eval: o.eval,
		ops:  make(map[filter.Kind]Operator),
	}
	e.registerBuiltins()
	maps.Copy(e.ops, o.ops)
	return e
}

func (e *Engine) registerBuiltins() {
	matrix := func(kind filter.Kind, build func(filter.Value) (colormatrix.Matrix, error)) {
		e.ops[kind] = &matrixOperator{kind: kind, build: build, eval: e.eval}
	}
	matrix(filter.Exposure, scalarMatrix(filter.Exposure, colormatrix.Exposure))
	matrix(filter.Brightness, scalarMatrix(filter.Brightness, colormatrix.Brightness))
	matrix(filter.Contrast, scalarMatrix(filter.Contrast, colormatrix.Contrast))
	matrix(filter.Saturation, scalarMatrix(filter.Saturation, colormatrix.Saturation))
	matrix(filter.Warmth, whiteBalance)
	matrix(filter.Tint, whiteBalance)

	e.ops[filter.Highlights] = &toneOperator{kind: filter.Highlights, curve: highlightCurve, identity: 1}
	e.ops[filter.Shadows] = &toneOperator{kind: filter.Shadows, curve: shadowCurve, identity: 0}
	e.ops[filter.Vignette] = OperatorFunc(vignette)
}

// Supports reports whether kind has an operator.
func (e *Engine) Supports(kind filter.Kind) bool {
	_, ok := e.ops[kind]
	return ok
}

// Evaluate applies the operator for kind to src.
func (e *Engine) Evaluate(src *gg.Pixmap, kind filter.Kind, v filter.Value) (out *gg.Pixmap, err error) {
	if !pixmap.Valid(src) {
		return nil, fmt.Errorf("%w: %s: empty source", ErrNoOutput, kind)
	}
	op, ok := e.ops[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrNoOutput, filter.ErrUnknownKind, kind)
	}

	defer func() {
		if r := recover(); r != nil {
			logging.L().Error("adjust: operator panicked", "kind", kind, "panic", r)
			out, err = nil, fmt.Errorf("%w: %s: %v", ErrNoOutput, kind, r)
		}
	}()
	out, err = op.Apply(src, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoOutput, kind, err)
	}
	if !pixmap.Valid(out) {
		return nil, fmt.Errorf("%w: %s: operator returned no image", ErrNoOutput, kind)
	}
	return out, nil
}

// Apply runs entries in order, each consuming the previous output. Only
// adjustment entries are accepted. With no entries a copy of src is
// returned.
func (e *Engine) Apply(src *gg.Pixmap, entries []filter.Entry) (*gg.Pixmap, error) {
	if !pixmap.Valid(src) {
		return nil, fmt.Errorf("%w: empty source", ErrNoOutput)
	}
	cur := src
	for _, en := range entries {
		if en.Family != filter.FamilyAdjustment {
			return nil, fmt.Errorf("%w: %s is a %s filter", ErrNoOutput, en.Kind, en.Family)
		}
		next, err := e.Evaluate(cur, en.Kind, en.Value)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == src {
		return pixmap.Clone(src), nil
	}
	return cur, nil
}

// Preview renders spec's live value over base, the output of the confirmed
// stack. Nothing is composed permanently.
func (e *Engine) Preview(base *gg.Pixmap, spec *filter.Spec) (*gg.Pixmap, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: %w", ErrNoOutput, filter.ErrNoActiveFilter)
	}
	if !spec.IsAdjustment() {
		return nil, fmt.Errorf("%w: %s is not an adjustment", ErrNoOutput, spec.Kind())
	}
	return e.Evaluate(base, spec.Kind(), spec.OperatorValue())
}
