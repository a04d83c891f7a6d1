package filter

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
)

// runGIFT applies a gift filter chain to src and writes the premultiplied
// result into dst. gift works on straight alpha; draw.Draw converts back.
func runGIFT(g *gift.GIFT, src, dst *image.RGBA) {
	tmp := runGIFTStraight(g, src)
	draw.Draw(dst, dst.Rect, tmp, tmp.Rect.Min, draw.Src)
}

// runGIFTStraight applies a gift filter chain and returns its straight-alpha
// output, whose origin is the zero point.
func runGIFTStraight(g *gift.GIFT, src *image.RGBA) *image.NRGBA {
	tmp := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(tmp, src)
	return tmp
}

// SharpenFilter is an unsharp mask.
type SharpenFilter struct {
	// Amount is the strength of the sharpening, 0 disables it.
	Amount float32

	// Threshold in [0, 1] skips low-contrast differences.
	Threshold float32
}

// Bounds returns the input bounds unchanged.
func (f *SharpenFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the sharpened src into dst.
func (f *SharpenFilter) Apply(src, dst *image.RGBA) {
	if f.Amount <= 0 {
		copyRGBA(dst, src)
		return
	}
	runGIFT(gift.New(gift.UnsharpMask(1, f.Amount, f.Threshold)), src, dst)
}

// EdgeFilter detects edges with a Sobel operator after an optional blur.
type EdgeFilter struct {
	// Amount in (0, 1] scales edge strength.
	Amount float32

	// BlurAmount pre-blurs the input to suppress noise.
	BlurAmount float32

	// OverlayEdges keeps the source and draws the edges over it. Otherwise
	// the output is the edge map alone.
	OverlayEdges bool
}

// Bounds returns the input bounds unchanged.
func (f *EdgeFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the edge map of src into dst.
func (f *EdgeFilter) Apply(src, dst *image.RGBA) {
	var chain []gift.Filter
	if f.BlurAmount > 0 {
		chain = append(chain, gift.GaussianBlur(f.BlurAmount))
	}
	chain = append(chain, gift.Sobel())

	// Edge magnitude is read from the color channels only.
	edges := runGIFTStraight(gift.New(chain...), src)

	gain := 2 * f.Amount
	r := dst.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			e := edges.Pix[edges.PixOffset(x-src.Rect.Min.X+edges.Rect.Min.X, y-src.Rect.Min.Y+edges.Rect.Min.Y):]
			s := src.Pix[src.PixOffset(x, y):]
			q := dst.Pix[dst.PixOffset(x, y):]
			v := clampUint8(float32(Luma(e[0], e[1], e[2])) * gain)

			if !f.OverlayEdges {
				// Opaque edge map over black, with the source coverage.
				g := uint8((uint32(v)*uint32(s[3]) + 127) / 255)
				q[0], q[1], q[2], q[3] = g, g, g, s[3]
				continue
			}
			// White edges with coverage v, source-over the source pixel.
			inv := 255 - uint32(v)
			q[0] = uint8(uint32(v) + (uint32(s[0])*inv+127)/255)
			q[1] = uint8(uint32(v) + (uint32(s[1])*inv+127)/255)
			q[2] = uint8(uint32(v) + (uint32(s[2])*inv+127)/255)
			q[3] = uint8(uint32(v) + (uint32(s[3])*inv+127)/255)
		}
	}
}

// EmbossFilter produces a gray relief lit from Angle (radians).
type EmbossFilter struct {
	Amount float32
	Angle  float32
}

// Bounds returns the input bounds unchanged.
func (f *EmbossFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the embossed src into dst.
func (f *EmbossFilter) Apply(src, dst *image.RGBA) {
	dx := float32(math.Cos(float64(f.Angle)))
	dy := float32(math.Sin(float64(f.Angle)))

	// Directional derivative along the light direction.
	kernel := make([]float32, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			ox := float32(col - 1)
			oy := float32(row - 1)
			kernel[row*3+col] = -f.Amount * (ox*dx + oy*dy) / 2
		}
	}

	runGIFT(gift.New(
		gift.Convolution(kernel, false, false, false, 0.5),
		gift.Grayscale(),
	), src, dst)
}

// MorphologyFilter grows (Radius > 0) or shrinks (Radius < 0) opaque
// regions with a square structuring element of side 2*|Radius|+1.
type MorphologyFilter struct {
	Radius int
}

// Bounds returns the input bounds unchanged.
func (f *MorphologyFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the dilated or eroded src into dst.
func (f *MorphologyFilter) Apply(src, dst *image.RGBA) {
	switch {
	case f.Radius > 0:
		runGIFT(gift.New(gift.Maximum(2*f.Radius+1, false)), src, dst)
	case f.Radius < 0:
		runGIFT(gift.New(gift.Minimum(-2*f.Radius+1, false)), src, dst)
	default:
		copyRGBA(dst, src)
	}
}
