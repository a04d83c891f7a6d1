// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/photoedit/internal/imageio"
)

// Bitmap is an immutable device-resident image with its origin at zero.
type Bitmap struct {
	img    *image.RGBA
	format gputypes.TextureFormat
	owner  residency
}

// Bounds returns the bitmap rectangle.
func (b *Bitmap) Bounds() image.Rectangle { return b.img.Rect }

// Size returns the bitmap dimensions.
func (b *Bitmap) Size() image.Point { return b.img.Rect.Size() }

// Format returns the pixel layout returned by Pixels.
func (b *Bitmap) Format() gputypes.TextureFormat { return b.format }

// Pixels reads the bitmap back as a tightly packed buffer in Format.
func (b *Bitmap) Pixels() ([]byte, error) {
	if b.owner.IsLost() {
		return nil, ErrDeviceLost
	}
	return imageio.Pack(b.img, b.format)
}

func (b *Bitmap) evaluate(*evaluator) (*image.RGBA, error) {
	if b.owner.IsLost() {
		return nil, ErrDeviceLost
	}
	return b.img, nil
}

// RenderTarget is a mutable device-resident surface with its origin at
// zero. It starts transparent.
type RenderTarget struct {
	img   *image.RGBA
	owner residency
}

// Bounds returns the target rectangle.
func (t *RenderTarget) Bounds() image.Rectangle { return t.img.Rect }

// Size returns the target dimensions.
func (t *RenderTarget) Size() image.Point { return t.img.Rect.Size() }

// Pixels reads the target back as tightly packed premultiplied RGBA.
func (t *RenderTarget) Pixels() ([]byte, error) {
	if t.owner.IsLost() {
		return nil, ErrDeviceLost
	}
	return imageio.Pack(t.img, gputypes.TextureFormatRGBA8Unorm)
}

func (t *RenderTarget) evaluate(*evaluator) (*image.RGBA, error) {
	if t.owner.IsLost() {
		return nil, ErrDeviceLost
	}
	return t.img, nil
}
