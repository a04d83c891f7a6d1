package filter

import (
	"image"
	"image/color"
)

// Test helper functions shared across filter tests.

type imageFilter interface {
	Bounds(image.Rectangle) image.Rectangle
	Apply(src, dst *image.RGBA)
}

// run applies f to src into a freshly allocated destination.
func run(f imageFilter, src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(f.Bounds(src.Rect))
	f.Apply(src, dst)
	return dst
}

// solid creates a w×h image filled with c.
func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// gradient creates an opaque image whose red channel varies with x and
// green channel with y.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / max(w-1, 1)), uint8(y * 255 / max(h-1, 1)), 77, 255})
		}
	}
	return img
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func colorNear(a, b color.RGBA, tol uint8) bool {
	return absDiff(a.R, b.R) <= tol && absDiff(a.G, b.G) <= tol &&
		absDiff(a.B, b.B) <= tol && absDiff(a.A, b.A) <= tol
}
