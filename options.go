package retouch

import (
	"log/slog"

	"github.com/gogpu/retouch/filter"
	"github.com/gogpu/retouch/slider"
	"github.com/gogpu/retouch/style"
)

// Option configures an EditingSession during creation.
//
// Example:
//
//	session, err := retouch.BeginEditing(src,
//	    retouch.WithLogger(logger),
//	    retouch.WithAccelerator(app.GPUContextProvider()),
//	)
type Option func(*options)

// options holds optional configuration for session creation.
type options struct {
	logger      *slog.Logger
	provider    any
	workers     int
	cacheSize   int
	definitions []filter.Definition
	sliders     []slider.Option
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		workers:     style.DefaultWorkers,
		cacheSize:   style.DefaultCacheSize,
		definitions: filter.DefaultDefinitions(),
	}
}

// WithLogger sets the logger for one session. Records carry the session ID.
// Without it the session logs through the package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithAccelerator evaluates color matrices and look blends with GPU compute
// kernels on the provider's device. The provider must expose HalDevice and
// HalQueue, as gogpu's GPU context provider does. If the device cannot be
// used the session logs a warning and stays on the CPU.
func WithAccelerator(provider any) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithThumbnailWorkers bounds the goroutines rendering look thumbnails.
func WithThumbnailWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLookCacheSize sets how many rendered looks are kept.
func WithLookCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithCatalogue replaces the default filter catalogue.
//
// Example:
//
//	retouch.WithCatalogue(filter.DefaultAdjustments()...)
func WithCatalogue(defs ...filter.Definition) Option {
	return func(o *options) {
		o.definitions = defs
	}
}

// WithSliderDeadzone sets the deadzone width, as a percentage of the value
// range, of every slider the session returns.
func WithSliderDeadzone(percent float64) Option {
	return func(o *options) {
		o.sliders = append(o.sliders, slider.WithDeadzonePercent(percent))
	}
}
