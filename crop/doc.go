// Package crop tracks where an image sits behind a fixed crop window while
// the user pinches and pans, and turns the final placement into a pixel
// rectangle of the original image.
//
// Coordinates are in window points with the origin at the window center.
// Offset is the image center relative to that origin and DisplaySize is the
// image size on screen under the current zoom.
//
// A Geometry is in one of two aspect states. Contracted (the initial state)
// fills the window: the image's smaller side matches the window. Expanded
// fits the image inside the window: its larger side matches. The minimum
// zoom is the base size of the current state and the maximum is MaxZoom
// times that.
//
// Gesture events carry cumulative values since the gesture began. When the
// last active gesture ends, bounds correction snaps any edge that would
// leave a gap inside the window flush with it. The model jumps to the
// corrected state at once; the returned anim.Transition describes the
// motion for the view.
//
// A Geometry is not safe for concurrent use. It is meant to be driven from
// the UI goroutine.
package crop
