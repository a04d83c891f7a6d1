package filter

import (
	"image"
	"image/color"
	"testing"
)

func TestBlurUniformImageUnchanged(t *testing.T) {
	c := color.RGBA{40, 80, 120, 255}
	src := solid(16, 12, c)

	for _, radius := range []float64{0, 0.5, 2, 5} {
		dst := run(NewBlurFilter(radius), src)
		if dst.Rect != src.Rect {
			t.Fatalf("radius %v: bounds = %v, want %v", radius, dst.Rect, src.Rect)
		}
		for y := 0; y < 12; y++ {
			for x := 0; x < 16; x++ {
				if got := dst.RGBAAt(x, y); !colorNear(got, c, 1) {
					t.Fatalf("radius %v: At(%d, %d) = %v, want %v", radius, x, y, got, c)
				}
			}
		}
	}
}

func TestBlurSoftBorderExpands(t *testing.T) {
	src := solid(4, 4, color.RGBA{255, 255, 255, 255})
	f := &BlurFilter{RadiusX: 1, RadiusY: 1, Border: BorderSoft}

	dst := run(f, src)
	want := image.Rect(-3, -3, 7, 7)
	if dst.Rect != want {
		t.Fatalf("bounds = %v, want %v", dst.Rect, want)
	}
	if a := dst.RGBAAt(-3, -3).A; a != 0 {
		t.Errorf("far corner alpha = %d, want 0", a)
	}
	if a := dst.RGBAAt(0, 0).A; a == 0 || a == 255 {
		t.Errorf("edge alpha = %d, want partial coverage", a)
	}
}

func TestBlurSpreadsSinglePixel(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 9, 9))
	src.SetRGBA(4, 4, color.RGBA{255, 255, 255, 255})

	dst := run(NewBlurFilter(1), src)

	center := dst.RGBAAt(4, 4).A
	near := dst.RGBAAt(5, 4).A
	far := dst.RGBAAt(8, 4).A
	if !(center > near && near > far) {
		t.Errorf("alpha falloff center=%d near=%d far=%d, want decreasing", center, near, far)
	}
}

func TestBlurNonZeroOrigin(t *testing.T) {
	src := solid(8, 8, color.RGBA{10, 20, 30, 255}).SubImage(image.Rect(2, 2, 6, 6)).(*image.RGBA)

	dst := run(NewBlurFilter(1), src)
	if dst.Rect != src.Rect {
		t.Fatalf("bounds = %v, want %v", dst.Rect, src.Rect)
	}
	if got := dst.RGBAAt(2, 2); !colorNear(got, color.RGBA{10, 20, 30, 255}, 1) {
		t.Errorf("At(2, 2) = %v", got)
	}
}

func TestMotionBlurUniform(t *testing.T) {
	c := color.RGBA{90, 60, 30, 255}
	dst := run(&MotionBlurFilter{Radius: 3, Angle: 0.7, Border: BorderHard}, solid(10, 10, c))
	if got := dst.RGBAAt(0, 9); !colorNear(got, c, 1) {
		t.Errorf("At(0, 9) = %v, want %v", got, c)
	}
}

func TestMotionBlurHorizontalKeepsColumnsOfRows(t *testing.T) {
	// A horizontal stripe blurred horizontally stays a stripe.
	src := image.NewRGBA(image.Rect(0, 0, 10, 5))
	for x := 0; x < 10; x++ {
		src.SetRGBA(x, 2, color.RGBA{255, 255, 255, 255})
	}
	dst := run(&MotionBlurFilter{Radius: 2, Border: BorderHard}, src)
	if a := dst.RGBAAt(5, 2).A; a != 255 {
		t.Errorf("stripe alpha = %d, want 255", a)
	}
	if a := dst.RGBAAt(5, 1).A; a != 0 {
		t.Errorf("off-stripe alpha = %d, want 0", a)
	}
}
