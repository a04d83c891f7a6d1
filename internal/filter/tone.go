package filter

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/adjust"
)

// ExposureFilter scales linear light by 2^Exposure stops.
type ExposureFilter struct {
	Exposure float32
}

// Bounds returns the input bounds unchanged.
func (f *ExposureFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the exposure-adjusted src into dst.
func (f *ExposureFilter) Apply(src, dst *image.RGBA) {
	if f.Exposure == 0 {
		copyRGBA(dst, src)
		return
	}
	gain := float32(math.Exp2(float64(f.Exposure)))
	out := adjust.Apply(src, func(c color.RGBA) color.RGBA {
		// Premultiplied channels may not exceed alpha.
		limit := float32(c.A)
		return color.RGBA{
			R: clampUint8(min(float32(c.R)*gain, limit)),
			G: clampUint8(min(float32(c.G)*gain, limit)),
			B: clampUint8(min(float32(c.B)*gain, limit)),
			A: c.A,
		}
	})
	draw.Draw(dst, dst.Rect, out, out.Rect.Min, draw.Src)
}

// HighlightsFilter recovers highlights, lifts shadows and adds local
// contrast ("clarity") around a blurred luminance mask.
type HighlightsFilter struct {
	Highlights     float32
	Shadows        float32
	Clarity        float32
	MaskBlurAmount float32
}

// Bounds returns the input bounds unchanged.
func (f *HighlightsFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the tone-mapped src into dst.
func (f *HighlightsFilter) Apply(src, dst *image.RGBA) {
	if f.Highlights == 0 && f.Shadows == 0 && f.Clarity == 0 {
		copyRGBA(dst, src)
		return
	}

	var blurred *image.RGBA
	if f.Clarity != 0 {
		blur := NewBlurFilter(1 + 10*float64(f.MaskBlurAmount))
		blurred = image.NewRGBA(blur.Bounds(src.Rect))
		blur.Apply(src, blurred)
	}

	r := dst.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := src.PixOffset(x, y)
			p := src.Pix[i : i+4 : i+4]
			q := dst.Pix[dst.PixOffset(x, y):]
			a := float32(p[3])
			if a == 0 {
				q[0], q[1], q[2], q[3] = 0, 0, 0, 0
				continue
			}

			lum := float32(Luma(p[0], p[1], p[2])) / a
			delta := 0.5*f.Highlights*smoothstep(0.5, 1, lum) +
				0.5*f.Shadows*(1-smoothstep(0, 0.5, lum))
			if blurred != nil {
				b := blurred.Pix[blurred.PixOffset(x, y):]
				var local float32
				if b[3] > 0 {
					local = float32(Luma(b[0], b[1], b[2])) / float32(b[3])
				}
				delta += f.Clarity * (lum - local)
			}

			// Shift in straight space, store premultiplied.
			shift := delta * a
			q[0] = clampUint8(min(float32(p[0])+shift, a))
			q[1] = clampUint8(min(float32(p[1])+shift, a))
			q[2] = clampUint8(min(float32(p[2])+shift, a))
			q[3] = p[3]
		}
	}
}

// VignetteFilter darkens toward the corners. Amount is the strength at the
// corners; Curve moves the start of the falloff toward the center.
type VignetteFilter struct {
	Amount float32
	Curve  float32
}

// Bounds returns the input bounds unchanged.
func (f *VignetteFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the vignetted src into dst.
func (f *VignetteFilter) Apply(src, dst *image.RGBA) {
	sr := src.Rect
	cx := float64(sr.Min.X+sr.Max.X) / 2
	cy := float64(sr.Min.Y+sr.Max.Y) / 2
	maxDist := math.Hypot(float64(sr.Dx())/2, float64(sr.Dy())/2)
	if maxDist == 0 {
		copyRGBA(dst, src)
		return
	}
	start := 1 - f.Curve

	r := dst.Rect.Intersect(sr)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d := float32(math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / maxDist)
			k := 1 - f.Amount*smoothstep(start, 1, d)

			i := src.PixOffset(x, y)
			q := dst.Pix[dst.PixOffset(x, y):]
			q[0] = clampUint8(float32(src.Pix[i+0]) * k)
			q[1] = clampUint8(float32(src.Pix[i+1]) * k)
			q[2] = clampUint8(float32(src.Pix[i+2]) * k)
			q[3] = src.Pix[i+3]
		}
	}
}

// PosterizeFilter quantizes each color channel to a number of levels.
type PosterizeFilter struct {
	RedLevels   int
	GreenLevels int
	BlueLevels  int
}

// Bounds returns the input bounds unchanged.
func (f *PosterizeFilter) Bounds(src image.Rectangle) image.Rectangle { return src }

// Apply writes the posterized src into dst.
func (f *PosterizeFilter) Apply(src, dst *image.RGBA) {
	red := levelTable(f.RedLevels)
	green := levelTable(f.GreenLevels)
	blue := levelTable(f.BlueLevels)

	eachPixel(src, dst, func(p, q []uint8) {
		a := p[3]
		if a == 0 {
			q[0], q[1], q[2], q[3] = 0, 0, 0, 0
			return
		}
		if a == 255 {
			q[0], q[1], q[2], q[3] = red[p[0]], green[p[1]], blue[p[2]], 255
			return
		}
		q[0] = premul(red[unpremul(p[0], a)], a)
		q[1] = premul(green[unpremul(p[1], a)], a)
		q[2] = premul(blue[unpremul(p[2], a)], a)
		q[3] = a
	})
}

// levelTable maps every byte to the nearest of n evenly spaced levels.
func levelTable(n int) *[256]uint8 {
	n = clampInt(n, 2, 256)
	var t [256]uint8
	steps := float64(n - 1)
	for v := range t {
		level := math.Round(float64(v) / 255 * steps)
		t[v] = uint8(math.Round(level / steps * 255))
	}
	return &t
}

func unpremul(c, a uint8) uint8 {
	return uint8(min((uint32(c)*255+uint32(a)/2)/uint32(a), 255))
}

func premul(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
