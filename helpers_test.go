package photoedit

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/photoedit/render"
)

// Test helper functions shared across photoedit tests.

// testImage creates an opaque w×h image whose red channel varies with x,
// green with y and blue fixed at mid gray.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / max(w-1, 1)), uint8(y * 255 / max(h-1, 1)), 128, 255})
		}
	}
	return img
}

// splitImage creates an opaque image, pure red on the left half and pure
// blue on the right.
func splitImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{255, 0, 0, 255}
			if x >= w/2 {
				c = color.RGBA{0, 0, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// loadPhoto creates a photo on a fresh software device with img loaded.
func loadPhoto(t *testing.T, img image.Image, opts ...Option) (*Photo, *render.SoftwareDevice) {
	t.Helper()
	dev := render.NewSoftwareDevice()
	p := New(opts...)
	if err := p.Load(dev, bytes.NewReader(encodePNG(t, img))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p, dev
}

// rasterize renders the edited photo over its bounds.
func rasterize(t *testing.T, p *Photo) *image.RGBA {
	t.Helper()
	img := p.Image()
	if img == nil {
		t.Fatal("Image() = nil")
	}
	out, err := p.Device().Rasterize(img, img.Bounds())
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return out
}

// renderImage renders img over bounds.
func renderImage(t *testing.T, dev render.Device, img render.Image, bounds image.Rectangle) *image.RGBA {
	t.Helper()
	out, err := dev.Rasterize(img, bounds)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return out
}

// selectRect commits a rectangle gesture from (x0, y0) to (x1, y1).
func selectRect(t *testing.T, r *Region, op SelectionOperation, x0, y0, x1, y1 float64) {
	t.Helper()
	r.SetMode(ModeRectangle)
	r.BeginEdit(r2.Vec{X: x0, Y: y0})
	r.AddPoints(r2.Vec{X: x1, Y: y1})
	if err := r.Commit(op, 1); err != nil {
		t.Fatalf("Commit(%v): %v", op, err)
	}
}

// maskAt returns the committed mask alpha at (x, y), or 0 without a mask.
func maskAt(r *Region, x, y int) uint8 {
	mask := r.MaskBytes()
	if mask == nil {
		return 0
	}
	w := r.Group().Photo().Size().X
	return mask[y*w+x]
}

func setFloat(t *testing.T, e *Effect, name string, v float32) {
	t.Helper()
	p, ok := e.Entry().Parameter(name)
	if !ok {
		t.Fatalf("%v has no parameter %q", e.Kind(), name)
	}
	e.SetParameter(p, FloatValue(v))
}

func sameImage(a, b *image.RGBA) bool {
	return a.Rect == b.Rect && bytes.Equal(a.Pix, b.Pix)
}
