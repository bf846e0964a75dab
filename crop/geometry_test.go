package crop

import (
	"errors"
	"image"
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func mustNew(t *testing.T, natural, window Size, opts ...Option) *Geometry {
	t.Helper()
	g, err := New(natural, window, opts...)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", natural, window, err)
	}
	return g
}

func TestNewContractedFillsWindow(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})

	if d := g.DisplaySize(); !near(d.W, 300) || !near(d.H, 600) {
		t.Errorf("DisplaySize = %v, want 300x600", d)
	}
	if g.Aspect() != Contracted {
		t.Errorf("Aspect = %v", g.Aspect())
	}
	if g.Offset() != (Point{}) {
		t.Errorf("Offset = %v, want centered", g.Offset())
	}
	if g.Edges() != AllEdges {
		t.Errorf("Edges = %v, want all", g.Edges())
	}
	if got, want := g.Rect(), image.Rect(0, 500, 1000, 1500); got != want {
		t.Errorf("Rect = %v, want %v", got, want)
	}
}

func TestNewRejectsInvalidSizes(t *testing.T) {
	tests := []struct {
		name            string
		natural, window Size
	}{
		{"zero natural", Size{0, 10}, Size{10, 10}},
		{"negative window", Size{10, 10}, Size{-1, 10}},
		{"nan", Size{math.NaN(), 10}, Size{10, 10}},
		{"inf", Size{10, 10}, Size{math.Inf(1), 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.natural, tt.window); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("err = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestToggleAspect(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})

	tr := g.ToggleAspect()
	if g.Aspect() != Expanded {
		t.Fatalf("Aspect = %v", g.Aspect())
	}
	if d := g.DisplaySize(); !near(d.W, 150) || !near(d.H, 300) {
		t.Errorf("expanded DisplaySize = %v, want 150x300", d)
	}
	if !near(tr.From.Display.W, 300) || tr.To != g.Layout() {
		t.Errorf("transition %+v -> %+v", tr.From, tr.To)
	}

	g.ToggleAspect()
	if d := g.DisplaySize(); !near(d.W, 300) || !near(d.H, 600) {
		t.Errorf("round trip DisplaySize = %v, want 300x600", d)
	}
}

func TestToggleAspectKeepsZoom(t *testing.T) {
	g := mustNew(t, Size{800, 600}, Size{200, 200})
	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Ended, Scale: 2})
	before := g.DisplaySize()
	if !near(g.Zoom(), 2) {
		t.Fatalf("Zoom = %v, want 2", g.Zoom())
	}

	g.ToggleAspect()
	if !near(g.Zoom(), 2) {
		t.Errorf("expanded Zoom = %v, want 2", g.Zoom())
	}
	g.ToggleAspect()
	after := g.DisplaySize()
	if !near(before.W, after.W) || !near(before.H, after.H) {
		t.Errorf("DisplaySize %v -> %v after round trip", before, after)
	}
}

func TestToggleAspectDropsRunningPinch(t *testing.T) {
	g := mustNew(t, Size{800, 600}, Size{200, 200})
	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Changed, Scale: 2})

	g.ToggleAspect()
	if g.Gesturing() {
		t.Error("Gesturing = true after ToggleAspect")
	}
	g.Handle(PinchEvent{Phase: Changed, Scale: 3})
	g.Handle(PinchEvent{Phase: Ended, Scale: 3})
	if !near(g.Zoom(), 2) {
		t.Errorf("Zoom = %v after stale pinch events, want 2", g.Zoom())
	}

	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Ended, Scale: 1.5})
	if !near(g.Zoom(), 3) {
		t.Errorf("Zoom = %v after a fresh pinch, want 3", g.Zoom())
	}
}

func TestToggleAspectDropsRunningPan(t *testing.T) {
	g := mustNew(t, Size{800, 600}, Size{200, 200})
	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Ended, Scale: 4})
	g.Handle(PanEvent{Phase: Began})
	g.Handle(PanEvent{Phase: Changed, Translation: Point{20, 0}})

	g.ToggleAspect()
	after := g.Offset()
	g.Handle(PanEvent{Phase: Changed, Translation: Point{60, 10}})
	g.Handle(PanEvent{Phase: Ended, Translation: Point{60, 10}})
	if o := g.Offset(); !near(o.X, after.X) || !near(o.Y, after.Y) {
		t.Errorf("Offset = %v after stale pan events, want %v", o, after)
	}

	g.Handle(PanEvent{Phase: Began})
	g.Handle(PanEvent{Phase: Changed, Translation: Point{-5, 0}})
	if o := g.Offset(); !near(o.X, after.X-5) {
		t.Errorf("Offset.X = %v after a fresh pan, want %v", o.X, after.X-5)
	}
}

func TestPinchClampsZoom(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		opts  []Option
		wantW float64
	}{
		{"shrink below base", 0.5, nil, 300},
		{"within range", 1.5, nil, 450},
		{"beyond default max", 10, nil, 1500},
		{"custom max", 10, []Option{WithMaxZoom(2)}, 600},
		{"max below one", 3, []Option{WithMaxZoom(0.5)}, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustNew(t, Size{1000, 2000}, Size{300, 300}, tt.opts...)
			g.Handle(PinchEvent{Phase: Began})
			g.Handle(PinchEvent{Phase: Changed, Scale: tt.scale})
			if d := g.DisplaySize(); !near(d.W, tt.wantW) || !near(d.H, tt.wantW*2) {
				t.Errorf("DisplaySize = %v, want width %v", d, tt.wantW)
			}
		})
	}
}

func TestPinchKeepsFocalPointFixed(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})
	focal := Point{50, -30}
	// Image coordinates, as a fraction of the display size, under focal.
	under := func() Point {
		o, d := g.Offset(), g.DisplaySize()
		return Point{(focal.X - o.X) / d.W, (focal.Y - o.Y) / d.H}
	}
	before := under()

	g.Handle(PinchEvent{Phase: Began, Focal: focal})
	g.Handle(PinchEvent{Phase: Changed, Scale: 1.5, Focal: focal})
	g.Handle(PinchEvent{Phase: Changed, Scale: 2, Focal: focal})

	after := under()
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("point under fingers moved from %v to %v", before, after)
	}
	if o := g.Offset(); !near(o.X, -50) || !near(o.Y, 30) {
		t.Errorf("Offset = %v, want (-50, 30)", o)
	}
}

func TestPinchIgnoresInvalidScale(t *testing.T) {
	g := mustNew(t, Size{100, 100}, Size{50, 50})
	g.Handle(PinchEvent{Phase: Began})
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		g.Handle(PinchEvent{Phase: Changed, Scale: s})
	}
	if d := g.DisplaySize(); d != (Size{50, 50}) {
		t.Errorf("DisplaySize = %v", d)
	}
}

func TestPanCorrection(t *testing.T) {
	tests := []struct {
		name     string
		aspect   Aspect
		dx, dy   float64
		snapped  Edges
		kind     CorrectionKind
		wantOffX float64
		wantOffY float64
	}{
		{"inside bounds", Contracted, 0, 100, NoEdges, CorrectionNone, 0, 100},
		{"drift right", Contracted, 40, 0, EdgeLeft, CorrectionSingleEdge, 0, 0},
		{"drift left", Contracted, -10, -20, EdgeRight, CorrectionSingleEdge, 0, -20},
		{"drift down and right", Contracted, 40, 200, EdgeLeft | EdgeTop, CorrectionMultipleEdges, 0, 150},
		{"drift up", Contracted, 0, -400, EdgeBottom, CorrectionSingleEdge, 0, -150},
		{"expanded recenters narrow axis", Expanded, 30, 0, EdgeLeft | EdgeRight, CorrectionMultipleEdges, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustNew(t, Size{1000, 2000}, Size{300, 300})
			if tt.aspect == Expanded {
				g.ToggleAspect()
			}
			g.Handle(PanEvent{Phase: Began})
			g.Handle(PanEvent{Phase: Changed, Translation: Point{tt.dx, tt.dy}})
			if g.Offset() != (Point{tt.dx, tt.dy}) {
				t.Fatalf("Offset during pan = %v", g.Offset())
			}
			released := g.Layout()
			c := g.Correct()
			if c.Snapped != tt.snapped || c.Kind() != tt.kind {
				t.Errorf("Correct = %v, want %v (%v)", c, tt.snapped, tt.kind)
			}
			if c.From != released || c.To != g.Layout() {
				t.Errorf("correction layouts = %+v", c)
			}
			if o := g.Offset(); !near(o.X, tt.wantOffX) || !near(o.Y, tt.wantOffY) {
				t.Errorf("Offset = %v, want (%v, %v)", o, tt.wantOffX, tt.wantOffY)
			}
		})
	}
}

func TestPanEndRunsCorrection(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})
	if _, ok := g.Handle(PanEvent{Phase: Began}); ok {
		t.Error("Began returned a transition")
	}
	if _, ok := g.Handle(PanEvent{Phase: Changed, Translation: Point{20, 0}}); ok {
		t.Error("Changed returned a transition")
	}
	if g.Edges().Has(EdgeLeft) {
		t.Errorf("Edges = %v while a gap is visible on the left", g.Edges())
	}
	tr, ok := g.Handle(PanEvent{Phase: Ended, Translation: Point{20, 0}})
	if !ok {
		t.Fatal("Ended returned no transition")
	}
	if tr.From.Offset != (Point{20, 0}) || tr.To.Offset != (Point{}) {
		t.Errorf("transition %v -> %v", tr.From.Offset, tr.To.Offset)
	}
	if tr.At(0) != tr.From || tr.At(time.Hour) != tr.To {
		t.Error("transition endpoints do not match From and To")
	}
	if g.Edges() != AllEdges {
		t.Errorf("Edges after correction = %v", g.Edges())
	}
}

func TestConcurrentGestures(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})
	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PanEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Changed, Scale: 2})
	g.Handle(PanEvent{Phase: Changed, Translation: Point{10, 10}})
	g.Handle(PanEvent{Phase: Changed, Translation: Point{25, 10}})

	if o := g.Offset(); !near(o.X, 25) || !near(o.Y, 10) {
		t.Errorf("Offset = %v, want pan deltas applied after pinch", o)
	}
	if _, ok := g.Handle(PanEvent{Phase: Ended, Translation: Point{25, 10}}); ok {
		t.Error("correction ran while the pinch was still active")
	}
	if !g.Gesturing() {
		t.Error("Gesturing = false with a pinch in progress")
	}
	if _, ok := g.Handle(PinchEvent{Phase: Ended, Scale: 2}); !ok {
		t.Error("ending the last gesture returned no transition")
	}
	if g.Gesturing() {
		t.Error("Gesturing = true after all gestures ended")
	}
}

func TestCancelledGestureKeepsState(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})
	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Changed, Scale: 1.5})
	tr, ok := g.Handle(PinchEvent{Phase: Cancelled, Scale: 4})
	if !ok {
		t.Fatal("cancel of the last gesture returned no transition")
	}
	if !near(tr.To.Display.W, 450) {
		t.Errorf("display width = %v, want 450", tr.To.Display.W)
	}
}

func TestGesturesKeepWindowCovered(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	sizes := []Size{{1000, 2000}, {4000, 3000}, {640, 640}, {300, 5000}}
	for _, natural := range sizes {
		g := mustNew(t, natural, Size{320, 240})
		for i := 0; i < 50; i++ {
			focal := Point{rng.Float64()*320 - 160, rng.Float64()*240 - 120}
			g.Handle(PinchEvent{Phase: Began, Focal: focal})
			g.Handle(PanEvent{Phase: Began})
			scale, tx, ty := 1.0, 0.0, 0.0
			for step := 0; step < 5; step++ {
				scale *= 0.6 + rng.Float64()*0.9
				tx += rng.Float64()*400 - 200
				ty += rng.Float64()*400 - 200
				g.Handle(PinchEvent{Phase: Changed, Scale: scale, Focal: focal})
				g.Handle(PanEvent{Phase: Changed, Translation: Point{tx, ty}})
			}
			g.Handle(PinchEvent{Phase: Ended, Scale: scale, Focal: focal})
			g.Handle(PanEvent{Phase: Ended, Translation: Point{tx, ty}})

			if g.Edges() != AllEdges {
				t.Fatalf("%v round %d: Edges = %v, layout %+v", natural, i, g.Edges(), g.Layout())
			}
			assertCovered(t, g)
			if z := g.Zoom(); z < 1-eps || z > DefaultMaxZoom+eps {
				t.Fatalf("Zoom = %v out of range", z)
			}
		}
	}
}

func assertCovered(t *testing.T, g *Geometry) {
	t.Helper()
	o, d, w := g.Offset(), g.DisplaySize(), g.WindowSize()
	if o.X-d.W/2 > -w.W/2+1e-6 || o.X+d.W/2 < w.W/2-1e-6 ||
		o.Y-d.H/2 > -w.H/2+1e-6 || o.Y+d.H/2 < w.H/2-1e-6 {
		t.Fatalf("window not covered: offset %v display %v window %v", o, d, w)
	}
}

func TestRectClampsToImage(t *testing.T) {
	g := mustNew(t, Size{1000, 2000}, Size{300, 300})
	g.ToggleAspect()
	if got, want := g.Rect(), image.Rect(0, 0, 1000, 2000); got != want {
		t.Errorf("expanded Rect = %v, want %v", got, want)
	}

	g = mustNew(t, Size{1000, 2000}, Size{300, 300})
	g.Handle(PinchEvent{Phase: Began})
	g.Handle(PinchEvent{Phase: Ended, Scale: 2})
	// Display 600x1200 centered: the window shows the middle quarter width.
	if got, want := g.Rect(), image.Rect(250, 750, 750, 1250); got != want {
		t.Errorf("zoomed Rect = %v, want %v", got, want)
	}
}

func TestCorrectionKind(t *testing.T) {
	tests := []struct {
		edges Edges
		want  CorrectionKind
	}{
		{NoEdges, CorrectionNone},
		{EdgeTop, CorrectionSingleEdge},
		{EdgeTop | EdgeLeft, CorrectionMultipleEdges},
		{AllEdges &^ EdgeRight, CorrectionMultipleEdges},
		{AllEdges, CorrectionAllEdges},
	}
	for _, tt := range tests {
		if got := (Correction{Snapped: tt.edges}).Kind(); got != tt.want {
			t.Errorf("Kind(%v) = %v, want %v", tt.edges, got, tt.want)
		}
	}
	if s := (EdgeTop | EdgeRight).String(); s != "top|right" {
		t.Errorf("String = %q", s)
	}
}

func TestAnimationDuration(t *testing.T) {
	g := mustNew(t, Size{100, 200}, Size{50, 50}, WithAnimationDuration(time.Second))
	tr := g.ToggleAspect()
	if tr.Timing.Duration != time.Second {
		t.Errorf("Duration = %v", tr.Timing.Duration)
	}
	mid := tr.At(500 * time.Millisecond)
	if !(mid.Display.W < tr.From.Display.W && mid.Display.W > tr.To.Display.W) {
		t.Errorf("midpoint width %v not between %v and %v", mid.Display.W, tr.From.Display.W, tr.To.Display.W)
	}
}
