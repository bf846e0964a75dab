package crop

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Size is a width and height in points.
type Size struct {
	W, H float64
}

// Scale returns s with both dimensions multiplied by f.
func (s Size) Scale(f float64) Size { return Size{W: s.W * f, H: s.H * f} }

func (s Size) valid() bool {
	return s.W > 0 && s.H > 0 && !math.IsInf(s.W, 1) && !math.IsInf(s.H, 1)
}

// Point is a position or displacement in points.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Mul returns p scaled by f.
func (p Point) Mul(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Aspect is the layout state of a Geometry.
type Aspect uint8

const (
	// Contracted fills the crop window with the image.
	Contracted Aspect = iota
	// Expanded fits the whole image inside the crop window.
	Expanded
)

func (a Aspect) String() string {
	if a == Expanded {
		return "expanded"
	}
	return "contracted"
}

// Edges is a set of window edges.
type Edges uint8

// Window edges. Edges values are bit sets of these.
const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight

	// NoEdges is the empty set.
	NoEdges Edges = 0
	// AllEdges holds all four edges.
	AllEdges = EdgeTop | EdgeBottom | EdgeLeft | EdgeRight
)

// Has reports whether every edge in o is in e.
func (e Edges) Has(o Edges) bool { return e&o == o }

// Count returns the number of edges in e.
func (e Edges) Count() int { return bits.OnesCount8(uint8(e & AllEdges)) }

func (e Edges) String() string {
	if e&AllEdges == 0 {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		edge Edges
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e.Has(n.edge) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Layout is the animatable part of a Geometry.
type Layout struct {
	Offset  Point
	Display Size
}

// MixLayout interpolates between two layouts.
func MixLayout(from, to Layout, t float64) Layout {
	return Layout{
		Offset: Point{
			X: from.Offset.X + (to.Offset.X-from.Offset.X)*t,
			Y: from.Offset.Y + (to.Offset.Y-from.Offset.Y)*t,
		},
		Display: Size{
			W: from.Display.W + (to.Display.W-from.Display.W)*t,
			H: from.Display.H + (to.Display.H-from.Display.H)*t,
		},
	}
}

// CorrectionKind classifies a bounds correction by how many edges moved.
type CorrectionKind uint8

const (
	// CorrectionNone means no edge moved.
	CorrectionNone CorrectionKind = iota
	// CorrectionSingleEdge means exactly one edge moved.
	CorrectionSingleEdge
	// CorrectionMultipleEdges means two or three edges moved.
	CorrectionMultipleEdges
	// CorrectionAllEdges means every edge moved.
	CorrectionAllEdges
)

func (k CorrectionKind) String() string {
	switch k {
	case CorrectionSingleEdge:
		return "single edge"
	case CorrectionMultipleEdges:
		return "multiple edges"
	case CorrectionAllEdges:
		return "all edges"
	default:
		return "none"
	}
}

// Correction is the result of a bounds correction.
type Correction struct {
	// Snapped holds the edges that had a gap and were moved flush.
	Snapped Edges
	From    Layout
	To      Layout
}

// Kind classifies the correction.
func (c Correction) Kind() CorrectionKind {
	switch n := c.Snapped.Count(); {
	case n == 0:
		return CorrectionNone
	case n == 1:
		return CorrectionSingleEdge
	case n == 4:
		return CorrectionAllEdges
	default:
		return CorrectionMultipleEdges
	}
}

func (c Correction) String() string {
	return fmt.Sprintf("correction(%s: %s)", c.Kind(), c.Snapped)
}
