package filter

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ChromaKeyFilter makes pixels whose color lies within Tolerance of Key
// transparent. With InvertAlpha the matched pixels are kept opaque and
// everything else becomes transparent, which is what color-similarity
// selection needs.
type ChromaKeyFilter struct {
	Key color.RGBA

	// Tolerance in [0, 1] is a fraction of the largest RGB distance.
	Tolerance float64

	InvertAlpha bool
}

// maxRGBDistance is the distance between black and white in unit RGB.
var maxRGBDistance = math.Sqrt(3)

// Bounds returns the input bounds unchanged.
func (f *ChromaKeyFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the keyed src into dst.
func (f *ChromaKeyFilter) Apply(src, dst *image.RGBA) {
	key, _ := colorful.MakeColor(f.Key)

	eachPixel(src, dst, func(p, q []uint8) {
		c := colorful.Color{}
		if a := float64(p[3]); a > 0 {
			c = colorful.Color{R: float64(p[0]) / a, G: float64(p[1]) / a, B: float64(p[2]) / a}
		}
		matched := c.DistanceRgb(key)/maxRGBDistance <= f.Tolerance
		if matched != f.InvertAlpha {
			q[0], q[1], q[2], q[3] = 0, 0, 0, 0
			return
		}
		copy(q, p)
	})
}
