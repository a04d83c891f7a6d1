package filter

import (
	"image/color"
	"testing"
)

func TestLuma(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 54},
		{0, 255, 0, 182},
		{0, 0, 255, 18},
		{100, 100, 100, 100},
	}
	for _, tt := range tests {
		if got := Luma(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("Luma(%d, %d, %d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestGrayscaleFilter(t *testing.T) {
	src := gradient(5, 5)
	dst := run(GrayscaleFilter{}, src)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			s := src.RGBAAt(x, y)
			want := Luma(s.R, s.G, s.B)
			got := dst.RGBAAt(x, y)
			if got != (color.RGBA{want, want, want, s.A}) {
				t.Fatalf("At(%d, %d) = %v, want gray %d", x, y, got, want)
			}
		}
	}
}

func TestInvertFilter(t *testing.T) {
	tests := []struct {
		in, want color.RGBA
	}{
		{color.RGBA{0, 128, 255, 255}, color.RGBA{255, 127, 0, 255}},
		{color.RGBA{50, 20, 0, 100}, color.RGBA{50, 80, 100, 100}},
		{color.RGBA{}, color.RGBA{}},
	}
	for _, tt := range tests {
		got := run(InvertFilter{}, solid(1, 1, tt.in)).RGBAAt(0, 0)
		if got != tt.want {
			t.Errorf("invert(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInvertTwiceIsIdentity(t *testing.T) {
	src := gradient(6, 6)
	dst := run(InvertFilter{}, run(InvertFilter{}, src))
	for i := range src.Pix {
		if src.Pix[i] != dst.Pix[i] {
			t.Fatalf("Pix[%d] = %d, want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
}
