package filter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	// ValueNone is the zero Value.
	ValueNone ValueKind = iota
	// ValueScalar holds a single float.
	ValueScalar
	// ValueVector2 holds two floats.
	ValueVector2
)

// Value is an operator input: either a scalar or a 2-vector.
// The zero Value holds nothing.
type Value struct {
	kind ValueKind
	x, y float64
}

// Scalar returns a scalar Value.
func Scalar(v float64) Value { return Value{kind: ValueScalar, x: v} }

// Vector2 returns a two-component Value.
func Vector2(x, y float64) Value { return Value{kind: ValueVector2, x: x, y: y} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Scalar returns the scalar and true when v is a scalar.
func (v Value) Scalar() (float64, bool) {
	return v.x, v.kind == ValueScalar
}

// Vector2 returns both components and true when v is a 2-vector.
func (v Value) Vector2() (x, y float64, ok bool) {
	return v.x, v.y, v.kind == ValueVector2
}

func (v Value) String() string {
	switch v.kind {
	case ValueScalar:
		return fmt.Sprintf("%g", v.x)
	case ValueVector2:
		return fmt.Sprintf("(%g, %g)", v.x, v.y)
	default:
		return "none"
	}
}

// MarshalYAML encodes a scalar as a number and a 2-vector as a flow
// sequence.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case ValueScalar:
		return v.x, nil
	case ValueVector2:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, c := range []float64{v.x, v.y} {
			var item yaml.Node
			if err := item.Encode(c); err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &item)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("filter: cannot encode empty value")
	}
}

// UnmarshalYAML decodes the forms written by MarshalYAML.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Scalar(f)
		return nil
	case yaml.SequenceNode:
		var fs []float64
		if err := node.Decode(&fs); err != nil {
			return err
		}
		if len(fs) != 2 {
			return fmt.Errorf("filter: line %d: vector value needs 2 components, got %d", node.Line, len(fs))
		}
		*v = Vector2(fs[0], fs[1])
		return nil
	default:
		return fmt.Errorf("filter: line %d: unsupported value", node.Line)
	}
}
