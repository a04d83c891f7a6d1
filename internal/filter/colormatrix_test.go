package filter

import (
	"image/color"
	"math"
	"testing"
)

func TestIdentityColorMatrix(t *testing.T) {
	src := gradient(8, 8)
	dst := run(NewIdentityColorMatrix(), src)
	for i := range src.Pix {
		if src.Pix[i] != dst.Pix[i] {
			t.Fatalf("Pix[%d] = %d, want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
}

func TestContrastFactor(t *testing.T) {
	tests := []struct {
		amount float32
		want   float32
	}{
		{0, 1},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := ContrastFactor(tt.amount); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("ContrastFactor(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
	if ContrastFactor(0.5) <= 1 {
		t.Error("positive contrast should increase the factor")
	}
}

func TestContrastFilterPivot(t *testing.T) {
	dst := run(NewContrastFilter(2), solid(1, 1, color.RGBA{128, 100, 200, 255}))
	want := color.RGBA{128, 72, 255, 255}
	if got := dst.RGBAAt(0, 0); got != want {
		t.Errorf("contrast = %v, want %v", got, want)
	}
}

func TestSaturationZeroIsGray(t *testing.T) {
	dst := run(NewSaturationFilter(0), solid(1, 1, color.RGBA{200, 50, 10, 255}))
	got := dst.RGBAAt(0, 0)
	if absDiff(got.R, got.G) > 1 || absDiff(got.G, got.B) > 1 {
		t.Errorf("saturation 0 = %v, want equal channels", got)
	}
}

func TestSepiaIntensity(t *testing.T) {
	src := gradient(4, 4)

	none := run(NewSepiaFilter(0), src)
	for i := range src.Pix {
		if absDiff(none.Pix[i], src.Pix[i]) > 1 {
			t.Fatalf("intensity 0 changed Pix[%d] %d -> %d", i, src.Pix[i], none.Pix[i])
		}
	}

	full := NewSepiaFilter(1)
	for i, v := range sepiaMatrix {
		if math.Abs(float64(full.Matrix[i]-v)) > 1e-6 {
			t.Fatalf("Matrix[%d] = %v, want %v", i, full.Matrix[i], v)
		}
	}
}

func TestColorMatrixThen(t *testing.T) {
	double := NewColorMatrixFilter([20]float32{
		2, 0, 0, 0, 0,
		0, 2, 0, 0, 0,
		0, 0, 2, 0, 0,
		0, 0, 0, 1, 0,
	})
	shift := NewColorMatrixFilter([20]float32{
		1, 0, 0, 0, 10,
		0, 1, 0, 0, 10,
		0, 0, 1, 0, 10,
		0, 0, 0, 1, 0,
	})

	// (x*2)+10, not (x+10)*2.
	m := double.Then(shift).Matrix
	if m[0] != 2 || m[4] != 10 {
		t.Errorf("double.Then(shift) row 0 = %v, want [2 0 0 0 10]", m[0:5])
	}
	m = shift.Then(double).Matrix
	if m[0] != 2 || m[4] != 20 {
		t.Errorf("shift.Then(double) row 0 = %v, want [2 0 0 0 20]", m[0:5])
	}
}

func TestTemperatureNeutral(t *testing.T) {
	f := NewTemperatureFilter(0, 0)
	for i, v := range identityMatrix {
		if math.Abs(float64(f.Matrix[i]-v)) > 1e-6 {
			t.Fatalf("Matrix[%d] = %v, want %v", i, f.Matrix[i], v)
		}
	}

	warm := run(NewTemperatureFilter(1, 0), solid(1, 1, color.RGBA{100, 100, 100, 255})).RGBAAt(0, 0)
	if !(warm.R > 100 && warm.B < 100) {
		t.Errorf("warm = %v, want more red and less blue", warm)
	}
}

func TestColorMatrixTransparentPixel(t *testing.T) {
	dst := run(NewContrastFilter(3), solid(2, 2, color.RGBA{}))
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("transparent pixel = %v, want zero", got)
	}
}
