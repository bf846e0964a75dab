// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render presents filtered images on a display surface.
//
// The Pipeline is passive: a display link (the host's refresh callback, or
// Run for headless hosts) calls Tick once per refresh. Each tick reads the
// current image from a Source, computes an aspect-preserving Frame for the
// surface, and submits one draw to a Queue.
//
// # Failure semantics
//
// A tick is skipped without error when the source has no image, the queue is
// missing, the surface has no drawable (e.g. mid-resize) or the previous draw
// is still in flight. Skips are counted in Stats and the previous frame stays
// on screen.
//
// # Usage
//
//	surface := render.NewPixmapSurface(800, 600)
//	p := render.NewPipeline(render.SourceFunc(session.PreviewImage), surface, render.InlineQueue{})
//	host.OnDraw(func() { p.Tick() })
package render
