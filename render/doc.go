// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the rendering device boundary of the photo editor.
//
// The edit pipeline never touches pixels directly. It builds a graph of lazy
// [Image] nodes (device bitmaps, filters, composites) and hands the graph
// to a [Device] to rasterize for display or export.
//
// # Key Principle
//
// Device-resident resources are owned by the device that created them. When
// the device is lost, every [Bitmap] and [RenderTarget] it created becomes
// unusable and operations on them fail with [ErrDeviceLost]. Callers keep
// CPU-side copies of whatever they need to re-upload and rebuild their
// resources on a new device; nothing is recovered automatically.
//
// # Core Types
//
//   - Device: decodes, uploads, draws, rasterizes and encodes
//   - DeviceHandle: the host GPU context (gpucontext.DeviceProvider)
//   - Image: a lazy image node, evaluated only by Device.Rasterize
//   - Bitmap: an immutable device-resident image
//   - RenderTarget: a mutable device-resident surface
//
// # Implementations
//
//   - SoftwareDevice: CPU implementation with a simulated device loss
//
// # Usage
//
//	dev := render.NewSoftwareDevice()
//	src, _ := dev.Decode(f)
//	img := render.Apply(src, &filter.BlurFilter{RadiusX: 2, RadiusY: 2})
//	pix, _ := dev.Rasterize(img, img.Bounds())
package render
