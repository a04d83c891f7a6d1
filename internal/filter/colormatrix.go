package filter

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// ColorMatrixFilter applies a 4x5 color transformation matrix to an image.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The fifth column provides bias/offset values.
// Color values are straight alpha in [0, 255] during transformation,
// then clamped back to valid range.
type ColorMatrixFilter struct {
	// Matrix is the 4x5 transformation matrix in row-major order.
	// [0-4] = row 0 (R), [5-9] = row 1 (G), [10-14] = row 2 (B), [15-19] = row 3 (A)
	Matrix [20]float32
}

// identityMatrix passes colors through unchanged.
var identityMatrix = [20]float32{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// sepiaMatrix is the classic full-strength sepia tone.
var sepiaMatrix = [20]float32{
	0.393, 0.769, 0.189, 0, 0,
	0.349, 0.686, 0.168, 0, 0,
	0.272, 0.534, 0.131, 0, 0,
	0, 0, 0, 1, 0,
}

// NewColorMatrixFilter creates a color matrix filter with the given matrix.
func NewColorMatrixFilter(matrix [20]float32) *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: matrix}
}

// NewIdentityColorMatrix creates a color matrix filter that passes through unchanged.
func NewIdentityColorMatrix() *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: identityMatrix}
}

// NewContrastFilter creates a filter that adjusts contrast.
// factor: 0.0 = gray, 1.0 = unchanged, 2.0 = high contrast
func NewContrastFilter(factor float32) *ColorMatrixFilter {
	// (color - 128) * factor + 128
	offset := 128 * (1 - factor)
	return &ColorMatrixFilter{
		Matrix: [20]float32{
			factor, 0, 0, 0, offset,
			0, factor, 0, 0, offset,
			0, 0, factor, 0, offset,
			0, 0, 0, 1, 0,
		},
	}
}

// ContrastFactor maps a contrast amount in [-1, 1] to a multiplier using
// the 259/255 curve: -1 flattens to gray, 0 is identity, 1 is near-binary.
func ContrastFactor(amount float32) float32 {
	c := amount * 255
	return (259 * (c + 255)) / (255 * (259 - c))
}

// NewSaturationFilter creates a filter that adjusts color saturation.
// factor: 0.0 = grayscale, 1.0 = unchanged, 2.0 = oversaturated
func NewSaturationFilter(factor float32) *ColorMatrixFilter {
	// Luminance weights (Rec. 709)
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)

	invFactor := 1 - factor

	return &ColorMatrixFilter{
		Matrix: [20]float32{
			lumR*invFactor + factor, lumG * invFactor, lumB * invFactor, 0, 0,
			lumR * invFactor, lumG*invFactor + factor, lumB * invFactor, 0, 0,
			lumR * invFactor, lumG * invFactor, lumB*invFactor + factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewSepiaFilter creates a sepia filter blended with the identity by
// intensity in [0, 1].
func NewSepiaFilter(intensity float32) *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: lerpMatrix(identityMatrix, sepiaMatrix, intensity)}
}

// NewTemperatureFilter shifts white balance. temperature warms (positive)
// or cools (negative); tint moves between green (negative) and magenta.
// Both are in [-1, 1].
func NewTemperatureFilter(temperature, tint float32) *ColorMatrixFilter {
	warm := &ColorMatrixFilter{Matrix: [20]float32{
		1 + 0.3*temperature, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1 - 0.3*temperature, 0, 0,
		0, 0, 0, 1, 0,
	}}
	magenta := &ColorMatrixFilter{Matrix: [20]float32{
		1 + 0.15*tint, 0, 0, 0, 0,
		0, 1 - 0.3*tint, 0, 0, 0,
		0, 0, 1 + 0.15*tint, 0, 0,
		0, 0, 0, 1, 0,
	}}
	return warm.Then(magenta)
}

// Apply applies the color matrix transformation to src and writes dst.
func (f *ColorMatrixFilter) Apply(src, dst *image.RGBA) {
	r := dst.Rect.Intersect(src.Rect)
	m := &f.Matrix

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(x, y)

			pr := float32(src.Pix[si+0])
			pg := float32(src.Pix[si+1])
			pb := float32(src.Pix[si+2])
			a := float32(src.Pix[si+3])

			// Matrix coefficients assume straight-alpha color values.
			var cr, cg, cb float32
			if a > 0 {
				cr = pr * 255 / a
				cg = pg * 255 / a
				cb = pb * 255 / a
			}

			newR := m[0]*cr + m[1]*cg + m[2]*cb + m[3]*a + m[4]
			newG := m[5]*cr + m[6]*cg + m[7]*cb + m[8]*a + m[9]
			newB := m[10]*cr + m[11]*cg + m[12]*cb + m[13]*a + m[14]
			newA := m[15]*cr + m[16]*cg + m[17]*cb + m[18]*a + m[19]

			if newA > 255 {
				newA = 255
			}
			if newA > 0 {
				factor := newA / 255
				newR = clampChannel(newR) * factor
				newG = clampChannel(newG) * factor
				newB = clampChannel(newB) * factor
			} else {
				newR, newG, newB = 0, 0, 0
			}

			dst.Pix[di+0] = clampUint8(newR)
			dst.Pix[di+1] = clampUint8(newG)
			dst.Pix[di+2] = clampUint8(newB)
			dst.Pix[di+3] = clampUint8(newA)
		}
	}
}

// Bounds returns the input bounds unchanged.
func (f *ColorMatrixFilter) Bounds(src image.Rectangle) image.Rectangle {
	return src
}

// Then returns a filter equivalent to applying f and then next.
func (f *ColorMatrixFilter) Then(next *ColorMatrixFilter) *ColorMatrixFilter {
	var product mat.Dense
	product.Mul(homogeneous(next.Matrix), homogeneous(f.Matrix))
	return &ColorMatrixFilter{Matrix: fromHomogeneous(&product)}
}

// homogeneous lifts a 4x5 color matrix into a 5x5 affine matrix.
func homogeneous(m [20]float32) *mat.Dense {
	d := mat.NewDense(5, 5, nil)
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			d.Set(row, col, float64(m[row*5+col]))
		}
	}
	d.Set(4, 4, 1)
	return d
}

func fromHomogeneous(d mat.Matrix) [20]float32 {
	var m [20]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			m[row*5+col] = float32(d.At(row, col))
		}
	}
	return m
}

// lerpMatrix returns a*(1-t) + b*t.
func lerpMatrix(a, b [20]float32, t float32) [20]float32 {
	var from, to, sum mat.Dense
	from.Scale(float64(1-t), homogeneous(a))
	to.Scale(float64(t), homogeneous(b))
	sum.Add(&from, &to)
	return fromHomogeneous(&sum)
}

func clampChannel(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
