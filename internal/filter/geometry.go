package filter

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// StraightenFilter rotates the image about its center by Angle radians.
// With MaintainSize the image is also zoomed so the rotated corners never
// show, and the output keeps the source rectangle. Without it the output
// grows to the rotated bounding box.
type StraightenFilter struct {
	Angle        float32
	MaintainSize bool
}

// Bounds returns the output rectangle for a source rectangle.
func (f *StraightenFilter) Bounds(src image.Rectangle) image.Rectangle {
	if f.MaintainSize || f.Angle == 0 {
		return src
	}
	sin, cos := math.Sincos(math.Abs(float64(f.Angle)))
	w, h := float64(src.Dx()), float64(src.Dy())
	rw := w*cos + h*sin
	rh := w*sin + h*cos
	cx := float64(src.Min.X+src.Max.X) / 2
	cy := float64(src.Min.Y+src.Max.Y) / 2
	return image.Rect(
		int(math.Floor(cx-rw/2)), int(math.Floor(cy-rh/2)),
		int(math.Ceil(cx+rw/2)), int(math.Ceil(cy+rh/2)),
	)
}

// Apply writes the rotated src into dst.
func (f *StraightenFilter) Apply(src, dst *image.RGBA) {
	if f.Angle == 0 {
		copyRGBA(dst, src)
		return
	}
	sr := src.Rect
	theta := float64(f.Angle)
	scale := 1.0
	if f.MaintainSize {
		scale = coverScale(float64(sr.Dx()), float64(sr.Dy()), math.Abs(theta))
	}

	sin, cos := math.Sincos(theta)
	cx := float64(sr.Min.X+sr.Max.X) / 2
	cy := float64(sr.Min.Y+sr.Max.Y) / 2
	a, b := scale*cos, -scale*sin
	d, e := scale*sin, scale*cos
	s2d := f64.Aff3{
		a, b, cx - a*cx - b*cy,
		d, e, cy - d*cx - e*cy,
	}

	clearRGBA(dst)
	xdraw.BiLinear.Transform(dst, s2d, src, sr, draw.Src, nil)
}

// coverScale returns the zoom that makes a w×h image rotated by theta
// cover its original rectangle.
func coverScale(w, h, theta float64) float64 {
	if w == 0 || h == 0 {
		return 1
	}
	sin, cos := math.Sincos(theta)
	return max((w*cos+h*sin)/w, (w*sin+h*cos)/h)
}

// CropFilter restricts the image to Rect. An empty Rect leaves the image
// uncropped.
type CropFilter struct {
	Rect image.Rectangle
}

// Bounds returns the intersection of the source and the crop rectangle.
func (f *CropFilter) Bounds(src image.Rectangle) image.Rectangle {
	if f.Rect.Empty() {
		return src
	}
	return src.Intersect(f.Rect)
}

// Apply copies the cropped area.
func (f *CropFilter) Apply(src, dst *image.RGBA) {
	copyRGBA(dst, src)
}

// ScaleFilter resamples the image by Factor around the origin.
type ScaleFilter struct {
	Factor float64
}

// Bounds returns the scaled rectangle.
func (f *ScaleFilter) Bounds(src image.Rectangle) image.Rectangle {
	if f.Factor <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(float64(src.Min.X)*f.Factor)), int(math.Floor(float64(src.Min.Y)*f.Factor)),
		int(math.Ceil(float64(src.Max.X)*f.Factor)), int(math.Ceil(float64(src.Max.Y)*f.Factor)),
	)
}

// Apply resamples src into dst.
func (f *ScaleFilter) Apply(src, dst *image.RGBA) {
	if f.Factor == 1 {
		copyRGBA(dst, src)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
}

func clearRGBA(img *image.RGBA) {
	n := img.Rect.Dx() * 4
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		clear(img.Pix[img.PixOffset(img.Rect.Min.X, y):][:n])
	}
}
