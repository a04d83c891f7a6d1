package photoedit

import (
	"log/slog"

	"github.com/gogpu/photoedit/internal/imageio"
)

// Option configures a Photo.
//
// Example:
//
//	photo := photoedit.New(
//	    photoedit.WithJPEGQuality(95),
//	    photoedit.WithClampParameters(false),
//	)
type Option func(*options)

type options struct {
	logger      *slog.Logger
	clamp       bool
	jpegQuality int
}

func defaultOptions() options {
	return options{
		clamp:       true,
		jpegQuality: imageio.DefaultJPEGQuality,
	}
}

// WithLogger sets a logger for one photo. Without it the photo logs to
// the package logger set with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClampParameters controls whether Effect.SetParameter limits numeric
// values to the parameter range. Clamping is on by default. With it off,
// values are only converted to the parameter type.
func WithClampParameters(clamp bool) Option {
	return func(o *options) {
		o.clamp = clamp
	}
}

// WithJPEGQuality sets the quality used when saving JPEG files.
func WithJPEGQuality(q int) Option {
	return func(o *options) {
		o.jpegQuality = q
	}
}
