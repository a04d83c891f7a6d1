// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/photoedit/internal/imageio"
)

// Device errors.
var (
	// ErrDeviceLost is returned by any operation on a lost device or on a
	// resource created by one.
	ErrDeviceLost = errors.New("render: device lost")

	// ErrTooLarge is matched by *TooLargeError.
	ErrTooLarge = errors.New("render: image exceeds maximum texture size")

	// ErrInvalidSize is returned for non-positive surface dimensions.
	ErrInvalidSize = errors.New("render: invalid size")
)

// TooLargeError reports an image that the device cannot hold.
type TooLargeError struct {
	Width, Height int
	Limit         uint32
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("render: %dx%d image exceeds maximum texture size %d", e.Width, e.Height, e.Limit)
}

// Is reports whether target is ErrTooLarge.
func (e *TooLargeError) Is(target error) bool { return target == ErrTooLarge }

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider. A device that is
// attached to a host context reports the host's surface format as its
// preferred pixel layout.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// DeviceCapabilities describes the limits of a device.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum texture dimension supported.
	MaxTextureSize uint32

	// DeviceName is a human readable device name.
	DeviceName string
}

// CompositeMode selects the rule used to combine two images.
type CompositeMode uint8

const (
	// SourceOver draws the source over the destination.
	SourceOver CompositeMode = iota

	// DestinationIn keeps the destination where the source is opaque.
	DestinationIn

	// DestinationOut erases the destination where the source is opaque.
	DestinationOut

	// Xor keeps the parts of each image the other does not cover.
	Xor

	// Copy replaces the destination with the source.
	Copy

	// Plus adds the images channel by channel.
	Plus
)

// String returns the mode name.
func (m CompositeMode) String() string {
	switch m {
	case SourceOver:
		return "SourceOver"
	case DestinationIn:
		return "DestinationIn"
	case DestinationOut:
		return "DestinationOut"
	case Xor:
		return "Xor"
	case Copy:
		return "Copy"
	case Plus:
		return "Plus"
	default:
		return fmt.Sprintf("CompositeMode(%d)", uint8(m))
	}
}

// FileFormat is an encoded image file format.
type FileFormat = imageio.FileFormat

// Supported encodings.
const (
	FormatJPEG = imageio.FormatJPEG
	FormatPNG  = imageio.FormatPNG
	FormatBMP  = imageio.FormatBMP
	FormatTIFF = imageio.FormatTIFF
)

// FormatFromPath picks an encoding from a file extension, JPEG by default.
func FormatFromPath(path string) FileFormat { return imageio.FormatFromPath(path) }

// Device is the rendering capability the edit pipeline depends on.
type Device interface {
	// Capabilities reports device limits.
	Capabilities() DeviceCapabilities

	// Handle returns the host GPU context, NullDeviceHandle if none.
	Handle() DeviceHandle

	// PreferredFormat is the pixel layout used for read-back buffers.
	PreferredFormat() gputypes.TextureFormat

	// Decode decodes an encoded image into a device bitmap.
	Decode(r io.Reader) (*Bitmap, error)

	// CreateBitmap uploads a packed pixel buffer.
	CreateBitmap(pix []byte, width, height int, format gputypes.TextureFormat) (*Bitmap, error)

	// CreateRenderTarget allocates a transparent surface.
	CreateRenderTarget(width, height int) (*RenderTarget, error)

	// DrawImage composites img onto target with mode. Only the part of the
	// target covered by img.Bounds() is affected.
	DrawImage(target *RenderTarget, img Image, mode CompositeMode) error

	// Rasterize evaluates img into a new buffer covering bounds.
	Rasterize(img Image, bounds image.Rectangle) (*image.RGBA, error)

	// Encode writes a rasterized buffer in the given file format.
	Encode(w io.Writer, pix *image.RGBA, format FileFormat, quality int) error

	// IsLost reports whether the device has been lost.
	IsLost() bool
}

// residency is implemented by devices so resources can tell whether their
// owner is still alive.
type residency interface {
	IsLost() bool
}
