// Package filter models tunable image filters independently of rendering.
//
// A Spec describes one filter: its kind, family, value range, default, the
// value being edited and the value last confirmed by the user. A Catalogue
// holds the fixed set of specs an editing session works with, and a Stack
// records confirmed filters in application order.
//
// Two families share the Spec type:
//
//   - Adjustment filters pass their value to an image operator. Warmth and
//     tint both drive the white balance operator and carry a two-axis Value.
//   - Style filters apply a fixed look; their value in [0, 1] is only the
//     opacity at which the look is blended over the unfiltered image.
//
// ActiveState is the single observable "currently edited filter" shared by
// the slider and the render loop.
package filter
