package filter

import "image"

// GrayscaleFilter desaturates with Rec. 709 luma weights in fixed point.
// Luma is linear, so it is computed directly on premultiplied channels and
// the result never exceeds alpha.
type GrayscaleFilter struct{}

// Luma returns the Rec. 709 luma of r, g, b rounded to the nearest integer.
func Luma(r, g, b uint8) uint8 {
	return uint8((2126*uint32(r) + 7152*uint32(g) + 722*uint32(b) + 5000) / 10000)
}

// Bounds returns the input bounds unchanged.
func (GrayscaleFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the grayscale version of src into dst.
func (GrayscaleFilter) Apply(src, dst *image.RGBA) {
	eachPixel(src, dst, func(p []uint8, q []uint8) {
		l := Luma(p[0], p[1], p[2])
		q[0], q[1], q[2], q[3] = l, l, l, p[3]
	})
}

// InvertFilter inverts color channels and keeps alpha.
// On premultiplied data the inverse of c is a - c.
type InvertFilter struct{}

// Bounds returns the input bounds unchanged.
func (InvertFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the inverted src into dst.
func (InvertFilter) Apply(src, dst *image.RGBA) {
	eachPixel(src, dst, func(p []uint8, q []uint8) {
		a := p[3]
		q[0], q[1], q[2], q[3] = a-min(p[0], a), a-min(p[1], a), a-min(p[2], a), a
	})
}

// eachPixel calls fn with the 4-byte source and destination pixel for
// every pixel in the overlap of src and dst.
func eachPixel(src, dst *image.RGBA, fn func(p, q []uint8)) {
	r := dst.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			fn(src.Pix[si:si+4:si+4], dst.Pix[di:di+4:di+4])
			si += 4
			di += 4
		}
	}
}
