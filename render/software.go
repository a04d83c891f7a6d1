// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/photoedit/internal/blend"
	"github.com/gogpu/photoedit/internal/imageio"
)

// DefaultMaxTextureSize is the texture limit of a SoftwareDevice unless
// WithMaxTextureSize overrides it.
const DefaultMaxTextureSize = 16384

// DeviceOption configures a SoftwareDevice.
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	maxTextureSize uint32
	handle         DeviceHandle
	name           string
}

// WithMaxTextureSize sets the largest width or height the device accepts.
func WithMaxTextureSize(n uint32) DeviceOption {
	return func(o *deviceOptions) {
		o.maxTextureSize = n
	}
}

// WithDeviceHandle attaches a host GPU context. The device then prefers
// the host surface format for read-back buffers.
func WithDeviceHandle(h DeviceHandle) DeviceOption {
	return func(o *deviceOptions) {
		o.handle = h
	}
}

// WithDeviceName sets the name reported in DeviceCapabilities.
func WithDeviceName(name string) DeviceOption {
	return func(o *deviceOptions) {
		o.name = name
	}
}

// SoftwareDevice is a CPU implementation of Device.
//
// Lose simulates a device loss: from then on every operation on the device
// and on its bitmaps and targets fails with ErrDeviceLost. Create a new
// device to recover.
type SoftwareDevice struct {
	caps   DeviceCapabilities
	handle DeviceHandle
	lost   atomic.Bool
}

// NewSoftwareDevice creates a CPU rendering device.
func NewSoftwareDevice(opts ...DeviceOption) *SoftwareDevice {
	o := deviceOptions{
		maxTextureSize: DefaultMaxTextureSize,
		handle:         NullDeviceHandle{},
		name:           "software",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.handle == nil {
		o.handle = NullDeviceHandle{}
	}
	return &SoftwareDevice{
		caps: DeviceCapabilities{
			MaxTextureSize: o.maxTextureSize,
			DeviceName:     o.name,
		},
		handle: o.handle,
	}
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)

// Capabilities reports device limits.
func (d *SoftwareDevice) Capabilities() DeviceCapabilities { return d.caps }

// Handle returns the attached host context.
func (d *SoftwareDevice) Handle() DeviceHandle { return d.handle }

// PreferredFormat returns the host surface format when it is an 8-bit RGBA
// or BGRA layout, RGBA8Unorm otherwise.
func (d *SoftwareDevice) PreferredFormat() gputypes.TextureFormat {
	switch f := d.handle.SurfaceFormat(); f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return f
	default:
		return imageio.DefaultPixelFormat
	}
}

// IsLost reports whether Lose has been called.
func (d *SoftwareDevice) IsLost() bool { return d.lost.Load() }

// Lose marks the device as lost.
func (d *SoftwareDevice) Lose() {
	if !d.lost.Swap(true) {
		Logger().Warn("render: device lost", "device", d.caps.DeviceName)
	}
}

func (d *SoftwareDevice) checkSize(w, h int) error {
	limit := d.caps.MaxTextureSize
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if limit > 0 && (uint64(w) > uint64(limit) || uint64(h) > uint64(limit)) {
		return &TooLargeError{Width: w, Height: h, Limit: limit}
	}
	return nil
}

// Decode reads an encoded image. The header is checked against the
// texture limit before the pixels are decoded.
func (d *SoftwareDevice) Decode(r io.Reader) (*Bitmap, error) {
	if d.IsLost() {
		return nil, ErrDeviceLost
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("render: read image: %w", err)
	}
	cfg, _, err := imageio.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := d.checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	img, name, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	Logger().Debug("render: decoded", "format", name, "width", cfg.Width, "height", cfg.Height)
	return &Bitmap{img: img, format: d.PreferredFormat(), owner: d}, nil
}

// CreateBitmap uploads a packed pixel buffer. The bitmap reads back in
// the same format.
func (d *SoftwareDevice) CreateBitmap(pix []byte, width, height int, format gputypes.TextureFormat) (*Bitmap, error) {
	if d.IsLost() {
		return nil, ErrDeviceLost
	}
	if err := d.checkSize(width, height); err != nil {
		return nil, err
	}
	img, err := imageio.Unpack(pix, width, height, format)
	if err != nil {
		return nil, err
	}
	return &Bitmap{img: img, format: format, owner: d}, nil
}

// CreateRenderTarget allocates a transparent surface.
func (d *SoftwareDevice) CreateRenderTarget(width, height int) (*RenderTarget, error) {
	if d.IsLost() {
		return nil, ErrDeviceLost
	}
	if err := d.checkSize(width, height); err != nil {
		return nil, err
	}
	return &RenderTarget{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		owner: d,
	}, nil
}

// DrawImage composites img onto target inside img.Bounds().
func (d *SoftwareDevice) DrawImage(target *RenderTarget, img Image, mode CompositeMode) error {
	if d.IsLost() || target.owner.IsLost() {
		return ErrDeviceLost
	}
	r := target.img.Rect.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	ev := newEvaluator()
	src, err := ev.eval(img)
	if err != nil {
		return err
	}
	// Read the source completely before writing when the graph is the
	// target itself.
	if src == target.img {
		src = cloneRGBA(src)
	}
	sub := target.img.SubImage(r).(*image.RGBA)
	blend.Composite(blendMode(mode), sub, sub, src)
	Logger().Debug("render: draw", "mode", mode, "rect", r, "nodes", ev.nodes)
	return nil
}

// Rasterize evaluates img into a new buffer covering bounds. Pixels
// outside img.Bounds() are transparent.
func (d *SoftwareDevice) Rasterize(img Image, bounds image.Rectangle) (*image.RGBA, error) {
	if d.IsLost() {
		return nil, ErrDeviceLost
	}
	ev := newEvaluator()
	src, err := ev.eval(img)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(bounds)
	blend.Composite(blend.BlendSource, out, nil, src)
	Logger().Debug("render: rasterize", "bounds", bounds, "nodes", ev.nodes)
	return out, nil
}

// Encode writes pix in the given file format.
func (d *SoftwareDevice) Encode(w io.Writer, pix *image.RGBA, format FileFormat, quality int) error {
	if d.IsLost() {
		return ErrDeviceLost
	}
	return imageio.Encode(w, pix, format, quality)
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}
