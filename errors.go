package photoedit

import (
	"errors"
	"fmt"

	"github.com/gogpu/photoedit/render"
)

// Sentinel errors. Structured errors below match them with errors.Is.
var (
	// ErrDecode is returned when a source image cannot be loaded.
	ErrDecode = errors.New("photoedit: cannot decode image")

	// ErrImageTooLarge is returned when a source image exceeds the device
	// texture limit.
	ErrImageTooLarge = errors.New("photoedit: image too large")

	// ErrEncode is returned when the edited image cannot be encoded.
	ErrEncode = errors.New("photoedit: cannot encode image")

	// ErrIO is returned when writing an encoded image fails.
	ErrIO = errors.New("photoedit: write failed")

	// ErrDeviceLost is returned when the rendering device was lost during
	// an operation. Recover with Photo.RecoverAfterDeviceLost.
	ErrDeviceLost = errors.New("photoedit: device lost")

	// ErrUnsupported is returned for selection shapes, operations or value
	// kinds outside their enumerations.
	ErrUnsupported = errors.New("photoedit: unsupported operation")

	// ErrUnknownKind is returned for effect kinds outside the catalog.
	ErrUnknownKind = errors.New("photoedit: unknown effect kind")

	// ErrCorruptState is returned when saved state cannot be decoded.
	ErrCorruptState = errors.New("photoedit: corrupt state")

	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("photoedit: no image loaded")
)

// DecodeError reports a source image that could not be loaded. Limit is
// non-zero when the image was rejected for its size.
type DecodeError struct {
	Width, Height int
	Limit         uint32
	Err           error
}

func (e *DecodeError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("photoedit: image is %dx%d pixels, larger than the %d pixel limit of this device",
			e.Width, e.Height, e.Limit)
	}
	return fmt.Sprintf("photoedit: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode, or ErrImageTooLarge for a size
// rejection.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode || (target == ErrImageTooLarge && e.Limit > 0)
}

// DeviceLostError reports the operation during which the device was lost.
type DeviceLostError struct {
	Op  string
	Err error
}

func (e *DeviceLostError) Error() string {
	return fmt.Sprintf("photoedit: %s: device lost", e.Op)
}

func (e *DeviceLostError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDeviceLost.
func (e *DeviceLostError) Is(target error) bool { return target == ErrDeviceLost }

// IsDeviceLost reports whether err was caused by a lost device.
func IsDeviceLost(err error) bool {
	return errors.Is(err, ErrDeviceLost) || errors.Is(err, render.ErrDeviceLost)
}

// wrapDevice wraps an error from a device call made during op.
func wrapDevice(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, render.ErrDeviceLost) {
		return &DeviceLostError{Op: op, Err: err}
	}
	return fmt.Errorf("photoedit: %s: %w", op, err)
}
