package filter

import (
	"image"
	"math"
)

// MotionBlurFilter blurs along a single direction.
type MotionBlurFilter struct {
	// Radius is the standard deviation along the direction, in pixels.
	Radius float64

	// Angle of the motion in radians, 0 is horizontal.
	Angle float64

	Border BorderMode
}

// Bounds returns the output rectangle for a source rectangle.
func (f *MotionBlurFilter) Bounds(src image.Rectangle) image.Rectangle {
	if f.Border == BorderHard {
		return src
	}
	half := float64(KernelHalfSize(f.Radius))
	sin, cos := math.Sincos(f.Angle)
	ex := int(math.Ceil(math.Abs(cos) * half))
	ey := int(math.Ceil(math.Abs(sin) * half))
	return image.Rect(src.Min.X-ex, src.Min.Y-ey, src.Max.X+ex, src.Max.Y+ey)
}

// Apply writes the blurred src into dst. Samples along the direction are
// taken at the nearest pixel.
func (f *MotionBlurFilter) Apply(src, dst *image.RGBA) {
	if f.Radius <= 0 || src.Rect.Empty() {
		copyRGBA(dst, src)
		return
	}
	kernel := CachedGaussianKernel(f.Radius)
	half := len(kernel) / 2
	sin, cos := math.Sincos(f.Angle)

	offsets := make([]image.Point, len(kernel))
	for k := range kernel {
		t := float64(k - half)
		offsets[k] = image.Pt(int(math.Round(t*cos)), int(math.Round(t*sin)))
	}

	sr := src.Rect
	out := dst.Rect
	for y := out.Min.Y; y < out.Max.Y; y++ {
		for x := out.Min.X; x < out.Max.X; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				sx, sy := x+offsets[k].X, y+offsets[k].Y
				if !(image.Point{X: sx, Y: sy}).In(sr) {
					if f.Border == BorderSoft {
						continue
					}
					sx = clampInt(sx, sr.Min.X, sr.Max.X-1)
					sy = clampInt(sy, sr.Min.Y, sr.Max.Y-1)
				}
				i := src.PixOffset(sx, sy)
				r += float32(src.Pix[i+0]) * weight
				g += float32(src.Pix[i+1]) * weight
				b += float32(src.Pix[i+2]) * weight
				a += float32(src.Pix[i+3]) * weight
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = clampUint8(r)
			dst.Pix[i+1] = clampUint8(g)
			dst.Pix[i+2] = clampUint8(b)
			dst.Pix[i+3] = clampUint8(a)
		}
	}
}
