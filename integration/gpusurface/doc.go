// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpusurface presents render.Pipeline frames in a gogpu window.
//
// The pipeline draws each frame into a CPU staging pixmap. Present uploads
// it to a GPU texture and draws the texture with the frame's
// gpucontext.TextureDrawer:
//
//	render.Pipeline -> staging Pixmap (CPU) -> GPU Texture -> Window
//
// # Usage
//
//	surface, _ := gpusurface.New(800, 600)
//	defer surface.Close()
//	pipeline := render.NewPipeline(session, surface, render.InlineQueue{})
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    surface.Attach(dc.AsTextureDrawer())
//	    pipeline.Tick()
//	})
//
// Without an attached drawer the surface has no drawable and ticks are
// skipped, which is how a window that is not currently drawing reports
// itself to the pipeline.
//
// # Thread Safety
//
// Surface is safe for concurrent use; Present may run on a render queue
// goroutine while the UI goroutine attaches drawers or resizes.
package gpusurface
