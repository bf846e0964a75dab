// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cropgesture turns the per-frame gesture deltas a gogpu window
// reports into the cumulative pinch and pan events crop.Geometry consumes.
//
//	tracker := cropgesture.New(cropCenter)
//	source.OnGesture(func(ev gpucontext.GestureEvent) {
//	    if tr, ok := tracker.Feed(geometry, ev); ok {
//	        view.Animate(tr)
//	    }
//	})
package cropgesture

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/retouch/anim"
	"github.com/gogpu/retouch/crop"
)

// Tracker accumulates gesture frames. The zero value is not usable; call New.
//
// Tracker is NOT safe for concurrent use.
type Tracker struct {
	center      crop.Point
	active      bool
	scale       float64
	translation crop.Point
	focal       crop.Point
}

// New creates a tracker for a crop window whose center is at center in
// window coordinates.
func New(center crop.Point) *Tracker {
	return &Tracker{center: center, scale: 1}
}

// SetCenter moves the crop window center, for example after a resize.
func (t *Tracker) SetCenter(center crop.Point) { t.center = center }

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool { return t.active }

// Events converts one gesture frame. Two or more pointers begin or continue
// a pinch and a pan; fewer pointers end them.
func (t *Tracker) Events(ev gpucontext.GestureEvent) []crop.GestureEvent {
	if ev.NumPointers < 2 {
		return t.finish(crop.Ended)
	}

	var out []crop.GestureEvent
	t.focal = crop.Point{X: ev.Center.X - t.center.X, Y: ev.Center.Y - t.center.Y}
	if !t.active {
		t.active, t.scale, t.translation = true, 1, crop.Point{}
		out = append(out,
			crop.PinchEvent{Phase: crop.Began, Scale: 1, Focal: t.focal},
			crop.PanEvent{Phase: crop.Began},
		)
	}
	if ev.ZoomDelta > 0 {
		t.scale *= ev.ZoomDelta
	}
	t.translation = t.translation.Add(crop.Point{X: ev.TranslationDelta.X, Y: ev.TranslationDelta.Y})

	return append(out,
		crop.PinchEvent{Phase: crop.Changed, Scale: t.scale, Focal: t.focal},
		crop.PanEvent{Phase: crop.Changed, Translation: t.translation},
	)
}

// Cancel ends a running gesture without applying further movement.
func (t *Tracker) Cancel() []crop.GestureEvent {
	return t.finish(crop.Cancelled)
}

// Feed converts ev and applies the events to g. It returns the correction
// transition when the gesture ends.
func (t *Tracker) Feed(g *crop.Geometry, ev gpucontext.GestureEvent) (tr anim.Transition[crop.Layout], ok bool) {
	for _, e := range t.Events(ev) {
		if next, done := g.Handle(e); done {
			tr, ok = next, true
		}
	}
	return tr, ok
}

func (t *Tracker) finish(phase crop.Phase) []crop.GestureEvent {
	if !t.active {
		return nil
	}
	t.active = false
	return []crop.GestureEvent{
		crop.PinchEvent{Phase: phase, Scale: t.scale, Focal: t.focal},
		crop.PanEvent{Phase: phase, Translation: t.translation},
	}
}
