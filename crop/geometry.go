package crop

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/retouch/anim"
	"github.com/gogpu/retouch/internal/logging"
)

// ErrInvalidGeometry reports a natural or window size that is not positive
// and finite.
var ErrInvalidGeometry = errors.New("crop: invalid geometry")

const (
	// DefaultMaxZoom is the largest display size as a multiple of the base
	// size of the current aspect state.
	DefaultMaxZoom = 5

	// DefaultAnimationDuration is the length of re-layout and correction
	// animations.
	DefaultAnimationDuration = 250 * time.Millisecond
)

// Positions closer than this to a window edge count as flush.
const edgeTolerance = 1e-6

// Option configures a Geometry.
type Option func(*Geometry)

// WithMaxZoom sets the maximum zoom factor. Values below 1 mean 1.
func WithMaxZoom(zoom float64) Option {
	return func(g *Geometry) {
		if !(zoom >= 1) || math.IsInf(zoom, 1) {
			zoom = 1
		}
		g.maxZoom = zoom
	}
}

// WithAnimationDuration sets the duration of the returned transitions.
func WithAnimationDuration(d time.Duration) Option {
	return func(g *Geometry) {
		g.timing.Duration = max(d, 0)
	}
}

// Geometry is the placement of an image behind a crop window.
type Geometry struct {
	natural Size
	window  Size
	aspect  Aspect
	offset  Point
	display Size
	edges   Edges

	maxZoom float64
	timing  anim.Timing

	pinch pinchTrack
	pan   panTrack
}

// New starts a crop of an image of the given natural size behind a window
// of the given size. The image starts contracted and centered.
func New(natural, window Size, opts ...Option) (*Geometry, error) {
	if !natural.valid() || !window.valid() {
		return nil, fmt.Errorf("%w: image %gx%g in window %gx%g",
			ErrInvalidGeometry, natural.W, natural.H, window.W, window.H)
	}
	g := &Geometry{
		natural: natural,
		window:  window,
		aspect:  Contracted,
		maxZoom: DefaultMaxZoom,
		timing:  anim.Timing{Duration: DefaultAnimationDuration, Ease: anim.EaseInOutCubic},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.display = g.baseSize(Contracted)
	g.updateEdges()
	return g, nil
}

// NaturalSize returns the image size in pixels.
func (g *Geometry) NaturalSize() Size { return g.natural }

// WindowSize returns the crop window size in points.
func (g *Geometry) WindowSize() Size { return g.window }

// Offset returns the image center relative to the window center.
func (g *Geometry) Offset() Point { return g.offset }

// DisplaySize returns the on-screen size of the whole image.
func (g *Geometry) DisplaySize() Size { return g.display }

// Aspect returns the current layout state.
func (g *Geometry) Aspect() Aspect { return g.aspect }

// MaxZoom returns the largest zoom factor gestures can reach.
func (g *Geometry) MaxZoom() float64 { return g.maxZoom }

// Edges returns the edges at which the image currently covers the window.
func (g *Geometry) Edges() Edges { return g.edges }

// Layout returns the current offset and display size.
func (g *Geometry) Layout() Layout { return Layout{Offset: g.offset, Display: g.display} }

// Zoom returns the display size relative to the base size of the current
// aspect state, in [1, MaxZoom].
func (g *Geometry) Zoom() float64 {
	return g.display.W / g.baseSize(g.aspect).W
}

// Gesturing reports whether a pinch or pan is in progress.
func (g *Geometry) Gesturing() bool { return g.pinch.active || g.pan.active }

// ToggleAspect switches between the contracted and expanded states. The zoom
// relative to the state's base size is kept and the point under the window
// center stays put as far as bounds allow. Running gestures are dropped and
// their remaining events ignored until the next Began.
func (g *Geometry) ToggleAspect() anim.Transition[Layout] {
	from := g.Layout()
	zoom := g.Zoom()
	oldScale := g.scale()

	next := Expanded
	if g.aspect == Expanded {
		next = Contracted
	}
	g.aspect = next
	g.display = g.baseSize(next).Scale(zoom)
	g.offset = g.offset.Mul(g.scale() / oldScale)
	g.pinch = pinchTrack{dropped: g.pinch.active || g.pinch.dropped}
	g.pan = panTrack{dropped: g.pan.active || g.pan.dropped}
	c := g.correct()

	logging.L().Debug("crop: aspect toggled", "aspect", next, "zoom", zoom, "snapped", c.Snapped)
	return g.transition(from, g.timing)
}

// Handle applies a gesture event. When the event ends the last running
// gesture, bounds correction runs and the returned transition animates from
// the released layout to the corrected one; ok is false otherwise.
func (g *Geometry) Handle(ev GestureEvent) (tr anim.Transition[Layout], ok bool) {
	switch e := ev.(type) {
	case PinchEvent:
		g.handlePinch(e)
	case PanEvent:
		g.handlePan(e)
	default:
		return tr, false
	}
	if !ev.gesturePhase().finished() || g.Gesturing() {
		return tr, false
	}

	from := g.Layout()
	c := g.correct()
	if c.Snapped != NoEdges {
		logging.L().Debug("crop: bounds corrected", "kind", c.Kind(), "edges", c.Snapped)
	}
	return g.transition(from, anim.Timing{Duration: g.timing.Duration, Ease: anim.EaseOutCubic}), true
}

// Correct snaps every edge that leaves a gap inside the window flush with
// it. On an axis where the image is smaller than the window the image is
// centered instead.
func (g *Geometry) Correct() Correction {
	return g.correct()
}

func (g *Geometry) handlePinch(e PinchEvent) {
	switch e.Phase {
	case Began:
		g.pinch = pinchTrack{active: true, scale: 1}
		return
	case Cancelled:
		g.pinch = pinchTrack{}
		return
	}
	if g.pinch.dropped {
		if e.Phase == Ended {
			g.pinch = pinchTrack{}
		}
		return
	}
	if !g.pinch.active {
		g.pinch = pinchTrack{active: true, scale: 1}
	}
	if e.Scale > 0 && !math.IsInf(e.Scale, 1) && finite(e.Focal) {
		g.zoomAround(e.Scale/g.pinch.scale, e.Focal)
		g.pinch.scale = e.Scale
	}
	if e.Phase == Ended {
		g.pinch = pinchTrack{}
	}
}

func (g *Geometry) handlePan(e PanEvent) {
	switch e.Phase {
	case Began:
		g.pan = panTrack{active: true}
		return
	case Cancelled:
		g.pan = panTrack{}
		return
	}
	if g.pan.dropped {
		if e.Phase == Ended {
			g.pan = panTrack{}
		}
		return
	}
	if !g.pan.active {
		g.pan = panTrack{active: true}
	}
	if finite(e.Translation) {
		g.offset = g.offset.Add(e.Translation.Sub(g.pan.translation))
		g.pan.translation = e.Translation
		g.updateEdges()
	}
	if e.Phase == Ended {
		g.pan = panTrack{}
	}
}

// zoomAround scales the display by ratio, clamped to the zoom range, keeping
// the image point under focal fixed.
func (g *Geometry) zoomAround(ratio float64, focal Point) {
	base := g.baseSize(g.aspect).W
	w := math.Min(math.Max(g.display.W*ratio, base), base*g.maxZoom)
	s := w / g.display.W
	g.display = g.natural.Scale(w / g.natural.W)
	g.offset = focal.Sub(focal.Sub(g.offset).Mul(s))
	g.updateEdges()
}

func (g *Geometry) correct() Correction {
	from := g.Layout()
	var x, y Edges
	g.offset.X, x = fitAxis(g.offset.X, g.display.W, g.window.W, EdgeLeft, EdgeRight)
	g.offset.Y, y = fitAxis(g.offset.Y, g.display.H, g.window.H, EdgeTop, EdgeBottom)
	g.updateEdges()
	return Correction{Snapped: x | y, From: from, To: g.Layout()}
}

// fitAxis returns the offset on one axis that leaves no gap, and the edges
// that had to move. lo is the edge on the negative side.
func fitAxis(offset, display, window float64, lo, hi Edges) (float64, Edges) {
	slack := (display - window) / 2
	if slack < 0 {
		if math.Abs(offset) > edgeTolerance {
			return 0, lo | hi
		}
		return 0, NoEdges
	}
	var moved Edges
	switch {
	case offset > slack:
		if offset-slack > edgeTolerance {
			moved = lo
		}
		return slack, moved
	case offset < -slack:
		if -slack-offset > edgeTolerance {
			moved = hi
		}
		return -slack, moved
	}
	return offset, NoEdges
}

func (g *Geometry) updateEdges() {
	halfW, halfH := g.display.W/2, g.display.H/2
	winW, winH := g.window.W/2, g.window.H/2
	var e Edges
	if g.offset.Y-halfH <= -winH+edgeTolerance {
		e |= EdgeTop
	}
	if g.offset.Y+halfH >= winH-edgeTolerance {
		e |= EdgeBottom
	}
	if g.offset.X-halfW <= -winW+edgeTolerance {
		e |= EdgeLeft
	}
	if g.offset.X+halfW >= winW-edgeTolerance {
		e |= EdgeRight
	}
	g.edges = e
}

func (g *Geometry) baseScale(a Aspect) float64 {
	sx := g.window.W / g.natural.W
	sy := g.window.H / g.natural.H
	if a == Expanded {
		return math.Min(sx, sy)
	}
	return math.Max(sx, sy)
}

func (g *Geometry) baseSize(a Aspect) Size { return g.natural.Scale(g.baseScale(a)) }

// scale is display points per natural pixel.
func (g *Geometry) scale() float64 { return g.display.W / g.natural.W }

func (g *Geometry) transition(from Layout, timing anim.Timing) anim.Transition[Layout] {
	return anim.Transition[Layout]{From: from, To: g.Layout(), Timing: timing, Mix: MixLayout}
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
