// Package retouch provides the editing core of a photo editor: tunable
// adjustment filters, blended style looks, a live preview source for a
// GPU render loop, and a pinch/pan crop.
//
// # Overview
//
// An EditingSession owns one source image and a fixed catalogue of filters.
// The user selects a filter, drags its slider, and confirms or cancels.
// Confirmed filters form a stack that is applied in insertion order to
// produce the output image:
//
//	session, err := retouch.BeginEditing(src)
//	if err != nil {
//	    return err
//	}
//	session.SelectAdjustmentFilter(filter.Exposure)
//	session.UpdateActiveFilterValue(0.4)
//	session.ConfirmActiveFilter()
//	out, err := session.OutputImage()
//
// While a filter is being edited, PreviewImage renders only that filter's
// live value over the output of the other confirmed filters. The session is
// a render.Source, so a render.Pipeline can draw it once per display
// refresh.
//
// # Style Looks
//
// Style filters run a fixed look once per source image and blend it over
// the image at the slider value. Moving the slider only repeats the blend.
//
// # Crop
//
// A CropSession places the image behind a fixed window. Pinch and pan events
// move it; when the gestures end any gap at the window edges is corrected.
// CroppedImage cuts the visible rectangle from the full-resolution source.
//
// # Collaborators
//
// Image loading and result delivery are outside the core. They are passed
// in as an ImageProvider and an OutputSink.
//
// # Logging
//
// Nothing is logged by default. Call SetLogger to enable logging for this
// package and all its sub-packages.
package retouch
