package retouch

import (
	"errors"

	"github.com/gogpu/retouch/adjust"
	"github.com/gogpu/retouch/crop"
	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/render"
)

// Errors returned by sessions. Most are defined by the sub-package that
// detects them and repeated here so callers need only this package.
var (
	// ErrNilSource is returned when a session is started without an image.
	ErrNilSource = errors.New("retouch: nil or empty source image")

	// ErrSessionClosed is returned by a session after Close.
	ErrSessionClosed = errors.New("retouch: session is closed")

	// ErrInvalidParameterRange is returned for a filter value outside its
	// range. UpdateActiveFilterValue clamps instead.
	ErrInvalidParameterRange = filter.ErrInvalidParameterRange

	// ErrUnknownKind is returned for a filter kind missing from the
	// catalogue or selected through the wrong family.
	ErrUnknownKind = filter.ErrUnknownKind

	// ErrNoActiveFilter is returned when no filter is selected.
	ErrNoActiveFilter = filter.ErrNoActiveFilter

	// ErrNoOutput is returned when a filter could not produce an image.
	ErrNoOutput = adjust.ErrNoOutput

	// ErrSurfaceUnavailable is recorded by the render pipeline when it has
	// no drawable.
	ErrSurfaceUnavailable = render.ErrSurfaceUnavailable

	// ErrInvalidGeometry is returned for an unusable crop setup.
	ErrInvalidGeometry = crop.ErrInvalidGeometry
)
