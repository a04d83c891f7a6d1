package filter

import (
	"image"
	"image/color"
	"testing"
)

func TestSharpenZeroAmountCopies(t *testing.T) {
	src := gradient(5, 5)
	dst := run(&SharpenFilter{}, src)
	for i := range src.Pix {
		if src.Pix[i] != dst.Pix[i] {
			t.Fatalf("Pix[%d] = %d, want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
}

func TestSharpenUniformUnchanged(t *testing.T) {
	c := color.RGBA{120, 60, 30, 255}
	got := run(&SharpenFilter{Amount: 3}, solid(6, 6, c)).RGBAAt(3, 3)
	if !colorNear(got, c, 1) {
		t.Errorf("sharpened uniform = %v, want %v", got, c)
	}
}

func TestEdgeFilterUniformIsBlack(t *testing.T) {
	got := run(&EdgeFilter{Amount: 0.5}, solid(6, 6, color.RGBA{90, 90, 90, 255})).RGBAAt(3, 3)
	if got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("edges of uniform image = %v, want opaque black", got)
	}
}

func TestEdgeFilterOverlayKeepsSource(t *testing.T) {
	c := color.RGBA{90, 40, 10, 255}
	got := run(&EdgeFilter{Amount: 0.5, OverlayEdges: true}, solid(6, 6, c)).RGBAAt(3, 3)
	if got != c {
		t.Errorf("overlay on uniform image = %v, want %v", got, c)
	}
}

func TestEdgeFilterFindsStep(t *testing.T) {
	src := solid(8, 8, color.RGBA{0, 0, 0, 255})
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			src.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	dst := run(&EdgeFilter{Amount: 1}, src)
	if dst.RGBAAt(4, 4).R == 0 && dst.RGBAAt(3, 4).R == 0 {
		t.Error("no edge response at the step")
	}
	if got := dst.RGBAAt(0, 4).R; got != 0 {
		t.Errorf("flat area edge = %d, want 0", got)
	}
}

func TestEmbossUniformIsMidGray(t *testing.T) {
	got := run(&EmbossFilter{Amount: 2, Angle: 1}, solid(6, 6, color.RGBA{200, 30, 30, 255})).RGBAAt(3, 3)
	mid := color.RGBA{128, 128, 128, 255}
	if !colorNear(got, mid, 1) {
		t.Errorf("emboss of uniform image = %v, want about %v", got, mid)
	}
}

func TestMorphologyDilate(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 7, 7))
	src.SetRGBA(3, 3, color.RGBA{255, 255, 255, 255})

	dst := run(&MorphologyFilter{Radius: 1}, src)
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			inside := x >= 2 && x <= 4 && y >= 2 && y <= 4
			a := dst.RGBAAt(x, y).A
			if inside && a != 255 {
				t.Errorf("At(%d, %d) alpha = %d, want 255", x, y, a)
			}
			if !inside && a != 0 {
				t.Errorf("At(%d, %d) alpha = %d, want 0", x, y, a)
			}
		}
	}
}

func TestMorphologyErode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 9, 9))
	for y := 2; y < 7; y++ {
		for x := 2; x < 7; x++ {
			src.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	dst := run(&MorphologyFilter{Radius: -1}, src)
	if a := dst.RGBAAt(2, 2).A; a != 0 {
		t.Errorf("eroded corner alpha = %d, want 0", a)
	}
	if a := dst.RGBAAt(4, 4).A; a != 255 {
		t.Errorf("core alpha = %d, want 255", a)
	}
	if a := dst.RGBAAt(3, 3).A; a != 255 {
		t.Errorf("inner ring alpha = %d, want 255", a)
	}
}
