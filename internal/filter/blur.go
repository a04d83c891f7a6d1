package filter

import (
	"image"
	"sync"
)

// BorderMode selects how a convolution treats pixels beyond the source.
type BorderMode uint8

const (
	// BorderSoft treats the outside as transparent and grows the output by
	// the kernel reach.
	BorderSoft BorderMode = iota

	// BorderHard extends edge pixels and keeps the output the size of the
	// source.
	BorderHard
)

// BlurFilter applies separable Gaussian blur to an image.
// The separable algorithm processes horizontal and vertical passes
// independently, achieving O(w*h*(rx+ry)) complexity instead of O(w*h*rx*ry).
type BlurFilter struct {
	// RadiusX is the horizontal standard deviation in pixels.
	RadiusX float64

	// RadiusY is the vertical standard deviation in pixels.
	RadiusY float64

	Border BorderMode
}

// NewBlurFilter creates a blur filter with equal radius in both directions
// and hard borders.
func NewBlurFilter(radius float64) *BlurFilter {
	return &BlurFilter{
		RadiusX: radius,
		RadiusY: radius,
		Border:  BorderHard,
	}
}

// SetRadius sets both radii.
func (f *BlurFilter) SetRadius(radius float64) {
	f.RadiusX = radius
	f.RadiusY = radius
}

// Bounds returns the output rectangle for a source rectangle.
func (f *BlurFilter) Bounds(src image.Rectangle) image.Rectangle {
	if f.Border == BorderHard {
		return src
	}
	return image.Rectangle{
		Min: image.Pt(src.Min.X-KernelHalfSize(f.RadiusX), src.Min.Y-KernelHalfSize(f.RadiusY)),
		Max: image.Pt(src.Max.X+KernelHalfSize(f.RadiusX), src.Max.Y+KernelHalfSize(f.RadiusY)),
	}
}

// Apply blurs src into dst. dst must cover f.Bounds(src.Rect).
//  1. Horizontal pass: convolve each source row into a float buffer
//  2. Vertical pass: convolve each buffer column into dst
func (f *BlurFilter) Apply(src, dst *image.RGBA) {
	if src.Rect.Empty() {
		return
	}
	if f.RadiusX <= 0 && f.RadiusY <= 0 {
		copyRGBA(dst, src)
		return
	}

	out := dst.Rect
	width := out.Dx()
	rows := src.Rect.Dy()

	temp := getTempBuffer(width, rows)
	defer putTempBuffer(temp)

	blurHorizontal(src, temp, out.Min.X, width, CachedGaussianKernel(f.RadiusX), f.Border)
	blurVertical(temp, src.Rect, dst, CachedGaussianKernel(f.RadiusY), f.Border)
}

// blurHorizontal convolves every source row. temp holds one row per source
// row and one column per output column starting at minX.
func blurHorizontal(src *image.RGBA, temp []float32, minX, width int, kernel []float32, border BorderMode) {
	half := len(kernel) / 2
	sr := src.Rect

	for y := sr.Min.Y; y < sr.Max.Y; y++ {
		row := src.Pix[src.PixOffset(sr.Min.X, y):]
		for x := 0; x < width; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				kx := minX + x + k - half
				if kx < sr.Min.X || kx >= sr.Max.X {
					if border == BorderSoft {
						continue
					}
					kx = clampInt(kx, sr.Min.X, sr.Max.X-1)
				}
				i := (kx - sr.Min.X) * 4
				r += float32(row[i+0]) * weight
				g += float32(row[i+1]) * weight
				b += float32(row[i+2]) * weight
				a += float32(row[i+3]) * weight
			}
			t := ((y-sr.Min.Y)*width + x) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = b
			temp[t+3] = a
		}
	}
}

// blurVertical convolves every buffer column into dst.
func blurVertical(temp []float32, sr image.Rectangle, dst *image.RGBA, kernel []float32, border BorderMode) {
	half := len(kernel) / 2
	out := dst.Rect
	width := out.Dx()
	rows := sr.Dy()

	for y := out.Min.Y; y < out.Max.Y; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				ky := y + k - half - sr.Min.Y
				if ky < 0 || ky >= rows {
					if border == BorderSoft {
						continue
					}
					ky = clampInt(ky, 0, rows-1)
				}
				t := (ky*width + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				b += temp[t+2] * weight
				a += temp[t+3] * weight
			}
			i := dst.PixOffset(out.Min.X+x, y)
			dst.Pix[i+0] = clampUint8(r)
			dst.Pix[i+1] = clampUint8(g)
			dst.Pix[i+2] = clampUint8(b)
			dst.Pix[i+3] = clampUint8(a)
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() interface{} {
		return &floatBuffer{data: make([]float32, 512*512*4)}
	},
}

// getTempBuffer retrieves a zeroed buffer of width*height*4 floats.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)

	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}

	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putTempBuffer returns a temporary buffer to the pool.
func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampInt clamps an integer to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and rounds to the nearest uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// copyRGBA copies the overlap of src into dst.
func copyRGBA(dst, src *image.RGBA) {
	r := dst.Rect.Intersect(src.Rect)
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(dst.Pix[dst.PixOffset(r.Min.X, y):][:n], src.Pix[src.PixOffset(r.Min.X, y):][:n])
	}
}
