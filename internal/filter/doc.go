// Package filter provides the image-processing primitives behind every
// effect kind of the edit pipeline and the region mask engine.
//
// Every filter reads a premultiplied *image.RGBA and writes a premultiplied
// *image.RGBA whose rectangle is the filter's Bounds of the source rectangle:
//   - Gaussian and directional blur (separable, edge-clamped)
//   - 4x5 color matrices (contrast, saturation, sepia, temperature)
//   - Exact integer grayscale and invert
//   - Exposure, highlights/shadows/clarity, vignette, posterize
//   - Sharpen, edge detection, emboss and morphology (backed by gift)
//   - Straighten, crop and scale (backed by x/image/draw)
//   - Chroma key for color-similarity selection
//
// Filters never modify their source.
package filter
