package blend

import (
	"image"

	"github.com/gogpu/photoedit/internal/parallel"
)

// Composite blends src onto dst with the given operator and writes the
// result into out. All three images are premultiplied RGBA.
//
// The operation covers out.Bounds(). Pixels of dst or src that fall outside
// their own bounds are treated as transparent black, so dst and src may have
// different extents. dst or src may be nil, which is equivalent to an empty
// image. out may alias dst. Tall images are split into row bands that run
// concurrently.
func Composite(mode BlendMode, out, dst, src *image.RGBA) {
	fn := GetBlendFunc(mode)
	parallel.Rows(out.Bounds(), func(r image.Rectangle) {
		compositeRect(fn, r, out, dst, src)
	})
}

func compositeRect(fn BlendFunc, r image.Rectangle, out, dst, src *image.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sr, sg, sb, sa := pixelAt(src, x, y)
			dr, dg, db, da := pixelAt(dst, x, y)
			cr, cg, cb, ca := fn(sr, sg, sb, sa, dr, dg, db, da)

			i := out.PixOffset(x, y)
			out.Pix[i+0] = cr
			out.Pix[i+1] = cg
			out.Pix[i+2] = cb
			out.Pix[i+3] = ca
		}
	}
}

// pixelAt returns the premultiplied components at (x, y), or zero outside
// the image.
func pixelAt(img *image.RGBA, x, y int) (r, g, b, a byte) {
	if img == nil || !(image.Point{X: x, Y: y}).In(img.Rect) {
		return 0, 0, 0, 0
	}
	i := img.PixOffset(x, y)
	return img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
}
