package retouch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/retouch/adjust"
	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/render"
	"github.com/gogpu/retouch/slider"
	"github.com/gogpu/retouch/style"
)

func TestBeginEditingRejectsEmptySource(t *testing.T) {
	for _, src := range []*gg.Pixmap{nil, gg.NewPixmap(0, 4)} {
		if _, err := BeginEditing(src); !errors.Is(err, ErrNilSource) {
			t.Errorf("BeginEditing(%v) error = %v, want ErrNilSource", src, err)
		}
	}
}

func TestBeginEditingFrom(t *testing.T) {
	src := testImage(8, 8)
	s, err := BeginEditingFrom(context.Background(), ImageProviderFunc(func(context.Context) (*gg.Pixmap, error) {
		return src, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if s.Source() != src {
		t.Error("session does not hold the provided image")
	}

	errPicker := errors.New("picker dismissed")
	_, err = BeginEditingFrom(context.Background(), ImageProviderFunc(func(context.Context) (*gg.Pixmap, error) {
		return nil, errPicker
	}))
	if !errors.Is(err, errPicker) {
		t.Errorf("error = %v, want provider error", err)
	}
}

func TestBeginEditingRejectsUnsupportedCatalogue(t *testing.T) {
	defs := []filter.Definition{{Kind: "sharpen", Family: filter.FamilyAdjustment, Min: 0, Max: 1}}
	if _, err := BeginEditing(testImage(4, 4), WithCatalogue(defs...)); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
}

func TestOutputFollowsStackOrder(t *testing.T) {
	src := testImage(24, 16)
	s := mustBegin(t, src)
	confirm(t, s, filter.Exposure, 0.2)
	confirm(t, s, filter.Contrast, 1.1)

	e := adjust.NewEngine()
	want := mustEval(t, e, mustEval(t, e, src, filter.Exposure, 0.2), filter.Contrast, 1.1)
	if !samePixels(mustOutput(t, s), want) {
		t.Error("output is not contrast(exposure(src))")
	}
	reversed := mustEval(t, e, mustEval(t, e, src, filter.Contrast, 1.1), filter.Exposure, 0.2)
	if samePixels(want, reversed) {
		t.Fatal("test image does not distinguish filter order")
	}
}

func TestReconfirmKeepsPosition(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	confirm(t, s, filter.Exposure, 0.2)
	confirm(t, s, filter.Contrast, 1.1)
	confirm(t, s, filter.Exposure, -0.4)

	entries := s.Stack().Entries()
	if len(entries) != 2 || entries[0].Kind != filter.Exposure || entries[1].Kind != filter.Contrast {
		t.Fatalf("stack = %v", entries)
	}
	if v, _ := entries[0].Value.Scalar(); v != -0.4 {
		t.Errorf("exposure = %v, want -0.4", v)
	}
}

func TestCancelRestoresCommittedValue(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	confirm(t, s, filter.Saturation, 1.5)
	before := mustOutput(t, s)

	if err := s.SelectAdjustmentFilter(filter.Saturation); err != nil {
		t.Fatal(err)
	}
	if snap := s.Active().Snapshot(); snap.Value != 1.5 {
		t.Errorf("selection seeded with %v, want committed 1.5", snap.Value)
	}
	s.UpdateActiveFilterValue(0.2)
	if err := s.CancelActiveFilter(); err != nil {
		t.Fatal(err)
	}

	spec, _ := s.Catalogue().Lookup(filter.Saturation)
	if spec.Value() != 1.5 || spec.Committed() != 1.5 {
		t.Errorf("value = %v committed = %v, want 1.5", spec.Value(), spec.Committed())
	}
	if s.Active().Snapshot().Active() {
		t.Error("filter still active after cancel")
	}
	if !samePixels(before, mustOutput(t, s)) {
		t.Error("cancel changed the output")
	}
}

func TestActiveFilterErrors(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	if _, err := s.UpdateActiveFilterValue(1); !errors.Is(err, ErrNoActiveFilter) {
		t.Errorf("update without selection = %v", err)
	}
	if err := s.ConfirmActiveFilter(); !errors.Is(err, ErrNoActiveFilter) {
		t.Errorf("confirm without selection = %v", err)
	}
	if err := s.CancelActiveFilter(); !errors.Is(err, ErrNoActiveFilter) {
		t.Errorf("cancel without selection = %v", err)
	}
	if err := s.SelectStyleFilter(filter.Exposure); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("exposure as style = %v", err)
	}
	if err := s.SelectAdjustmentFilter("sharpen"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind = %v", err)
	}
}

func TestUpdateClampsIntoRange(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	s.SelectAdjustmentFilter(filter.Contrast)
	for _, tt := range []struct{ in, want float64 }{{5, 1.5}, {-5, 0.5}, {1.2, 1.2}} {
		got, err := s.UpdateActiveFilterValue(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("Update(%v) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPreviewRendersLiveValueOverConfirmedStack(t *testing.T) {
	src := testImage(16, 16)
	s := mustBegin(t, src)
	confirm(t, s, filter.Contrast, 1.2)
	confirm(t, s, filter.Exposure, 0.1)

	s.SelectAdjustmentFilter(filter.Exposure)
	s.UpdateActiveFilterValue(0.5)
	got, err := s.PreviewImage()
	if err != nil {
		t.Fatal(err)
	}

	e := adjust.NewEngine()
	want := mustEval(t, e, mustEval(t, e, src, filter.Contrast, 1.2), filter.Exposure, 0.5)
	if !samePixels(got, want) {
		t.Error("preview is not the live exposure over the other confirmed filters")
	}
	if entries := s.Stack().Entries(); len(entries) != 2 {
		t.Errorf("preview changed the stack: %v", entries)
	}
}

func TestPreviewIsIdempotent(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	s.SelectAdjustmentFilter(filter.Vignette)
	s.UpdateActiveFilterValue(1)
	a, _ := s.PreviewImage()
	b, _ := s.PreviewImage()
	if a != b {
		t.Error("unchanged state rendered a new preview")
	}
	s.UpdateActiveFilterValue(1.5)
	c, _ := s.PreviewImage()
	if c == a || samePixels(a, c) {
		t.Error("value change did not produce a new preview")
	}
}

func TestPreviewWithoutActiveFilterIsOutput(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	confirm(t, s, filter.Brightness, 0.3)
	p, err := s.PreviewImage()
	if err != nil {
		t.Fatal(err)
	}
	if !samePixels(p, mustOutput(t, s)) {
		t.Error("preview differs from output with nothing selected")
	}
}

func TestStyleSliderBlendsWithoutRerunningLook(t *testing.T) {
	s := mustBegin(t, testImage(32, 32))
	if err := s.SelectStyleFilter(filter.Chrome); err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{0.2, 0.5, 0.8} {
		s.UpdateActiveFilterValue(v)
		if _, err := s.PreviewImage(); err != nil {
			t.Fatal(err)
		}
	}
	st := s.StyleStats()
	if st.LookRuns != 1 || st.Blends != 3 {
		t.Errorf("LookRuns = %d, Blends = %d; want 1 and 3", st.LookRuns, st.Blends)
	}
}

func TestStyleIntensityBoundaries(t *testing.T) {
	src := testImage(16, 16)

	s := mustBegin(t, src)
	confirm(t, s, filter.Noir, 0)
	if !samePixels(mustOutput(t, s), src) {
		t.Error("intensity 0 differs from the source")
	}

	s = mustBegin(t, src)
	confirm(t, s, filter.Noir, 1)
	look, err := style.NewEngine().LookImage(src, filter.Noir)
	if err != nil {
		t.Fatal(err)
	}
	if !samePixels(mustOutput(t, s), look) {
		t.Error("intensity 1 differs from the look")
	}
}

func TestWarmthAndTintAreIndependent(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	confirm(t, s, filter.Warmth, 0.5)

	s.SelectAdjustmentFilter(filter.Tint)
	s.UpdateActiveFilterValue(-0.3)
	s.CancelActiveFilter()

	entries := s.Stack().Entries()
	if len(entries) != 1 || entries[0].Kind != filter.Warmth {
		t.Fatalf("stack = %v", entries)
	}
	if x, y, ok := entries[0].Value.Vector2(); !ok || x != 0.5 || y != 0 {
		t.Errorf("warmth value = (%v, %v, %v)", x, y, ok)
	}

	confirm(t, s, filter.Tint, -0.3)
	if s.Stack().Len() != 2 {
		t.Errorf("stack length = %d, want 2", s.Stack().Len())
	}
}

func TestRecipeRoundTripIsDeterministic(t *testing.T) {
	src := testImage(20, 12)
	s := mustBegin(t, src)
	confirm(t, s, filter.Exposure, 0.2)
	confirm(t, s, filter.Fade, 0.6)
	confirm(t, s, filter.Shadows, 0.4)
	want := mustOutput(t, s)

	var buf bytes.Buffer
	if err := s.SaveRecipe(&buf); err != nil {
		t.Fatal(err)
	}

	reloaded := mustBegin(t, src)
	if err := reloaded.LoadRecipe(&buf); err != nil {
		t.Fatal(err)
	}
	if !reloaded.Stack().Equal(s.Stack()) {
		t.Fatalf("stack %v, want %v", reloaded.Stack().Entries(), s.Stack().Entries())
	}
	if !samePixels(mustOutput(t, reloaded), want) {
		t.Error("reloaded recipe produced different pixels")
	}
	spec, _ := reloaded.Catalogue().Lookup(filter.Exposure)
	if spec.Committed() != 0.2 {
		t.Errorf("restored exposure committed = %v", spec.Committed())
	}
}

func TestRemoveFilter(t *testing.T) {
	src := testImage(8, 8)
	s := mustBegin(t, src)
	confirm(t, s, filter.Brightness, 0.5)
	if err := s.RemoveFilter(filter.Brightness); err != nil {
		t.Fatal(err)
	}
	if s.Stack().Len() != 0 || !samePixels(mustOutput(t, s), src) {
		t.Error("removed filter still applied")
	}
	spec, _ := s.Catalogue().Lookup(filter.Brightness)
	if spec.Committed() != spec.Default() {
		t.Errorf("committed = %v, want default", spec.Committed())
	}
}

func TestSliderWritesActiveFilter(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	if _, err := s.Slider(); !errors.Is(err, ErrNoActiveFilter) {
		t.Errorf("Slider without selection = %v", err)
	}
	s.SelectAdjustmentFilter(filter.Exposure)
	sl, err := s.Slider()
	if err != nil {
		t.Fatal(err)
	}
	sl.Drag(75, 100)
	if v := s.Active().Snapshot().Value; v != 0.5 {
		t.Errorf("active value = %v, want 0.5", v)
	}
	sl.Drag(51, 100)
	if _, ok := sl.Release(); !ok {
		t.Error("release near the default did not snap")
	}
	if v := s.Active().Snapshot().Value; v != 0 {
		t.Errorf("active value after snap = %v, want 0", v)
	}
}

func TestSliderDeadzoneOption(t *testing.T) {
	s := mustBegin(t, testImage(8, 8), WithSliderDeadzone(20))
	if err := s.SelectAdjustmentFilter(filter.Exposure); err != nil {
		t.Fatal(err)
	}
	sl, err := s.Slider()
	if err != nil {
		t.Fatal(err)
	}
	if lo, hi := sl.Deadzone(); lo != -0.2 || hi != 0.2 {
		t.Errorf("Deadzone = [%v, %v], want [-0.2, 0.2]", lo, hi)
	}

	// Options passed to Slider override the session default.
	sl, err = s.Slider(slider.WithDeadzonePercent(0))
	if err != nil {
		t.Fatal(err)
	}
	if sl.InDeadzone(0.01) {
		t.Error("caller option did not override the session deadzone")
	}
}

func TestSubscribersMayReadPreview(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	var previews int
	cancel := s.Active().Subscribe(func(filter.Snapshot) {
		if _, err := s.PreviewImage(); err == nil {
			previews++
		}
	})
	defer cancel()

	confirm(t, s, filter.Exposure, 0.3)
	// select, update and confirm each notify once.
	if previews != 3 {
		t.Errorf("subscriber rendered %d previews, want 3", previews)
	}
}

func TestSessionIsRenderSource(t *testing.T) {
	s := mustBegin(t, testImage(40, 20))
	surface := render.NewPixmapSurface(20, 20)
	p := render.NewPipeline(s, surface, render.InlineQueue{})

	if r := p.Tick(); r != render.TickSubmitted {
		t.Fatalf("Tick = %v", r)
	}
	s.SelectAdjustmentFilter(filter.Exposure)
	s.UpdateActiveFilterValue(0.8)
	p.Tick()
	if surface.Presented() != 2 {
		t.Errorf("Presented = %d, want 2", surface.Presented())
	}
}

func TestWithAcceleratorFallsBackToCPU(t *testing.T) {
	src := testImage(8, 8)
	s := mustBegin(t, src, WithAccelerator(struct{}{}))
	confirm(t, s, filter.Exposure, 0.3)

	cpu := mustBegin(t, src)
	confirm(t, cpu, filter.Exposure, 0.3)
	if !samePixels(mustOutput(t, s), mustOutput(t, cpu)) {
		t.Error("fallback output differs from CPU output")
	}
}

func TestThumbnails(t *testing.T) {
	s := mustBegin(t, testImage(64, 32), WithThumbnailWorkers(2))
	thumbs, err := s.Thumbnails(context.Background(), 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(thumbs) != len(filter.DefaultLooks()) {
		t.Fatalf("got %d thumbnails", len(thumbs))
	}
	for _, th := range thumbs {
		if th.Image.Width() != 16 || th.Image.Height() != 8 {
			t.Errorf("%s thumbnail is %dx%d", th.Kind, th.Image.Width(), th.Image.Height())
		}
	}
}

func TestFinishDeliversOutput(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	confirm(t, s, filter.Mono, 0.7)

	var got Output
	err := s.Finish(context.Background(), OutputSinkFunc(func(_ context.Context, out Output) error {
		got = out
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got.Image == nil || got.Recipe.Len() != 1 || !got.Crop.Empty() {
		t.Errorf("delivered %+v", got)
	}

	errUpload := errors.New("upload failed")
	err = s.Finish(context.Background(), OutputSinkFunc(func(context.Context, Output) error { return errUpload }))
	if !errors.Is(err, errUpload) {
		t.Errorf("Finish error = %v", err)
	}
}

func TestClose(t *testing.T) {
	s := mustBegin(t, testImage(8, 8))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if _, err := s.OutputImage(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("OutputImage after Close = %v", err)
	}
	if err := s.SelectAdjustmentFilter(filter.Exposure); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("select after Close = %v", err)
	}
}
