package statefile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/photoedit"
	"github.com/gogpu/photoedit/render"
)

func testPhoto(t *testing.T) *photoedit.Photo {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 8), uint8(y * 10), 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	p := photoedit.New()
	if err := p.Load(render.NewSoftwareDevice(), &buf); err != nil {
		t.Fatalf("Load: %v", err)
	}

	g := p.Groups()[0]
	r := g.Region()
	r.BeginEdit(r2.Vec{X: 2, Y: 2})
	r.AddPoints(r2.Vec{X: 16, Y: 12})
	if err := r.Commit(photoedit.SelectionReplace, 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	g.AddEffect(photoedit.Invert)
	return p
}

func rasterize(t *testing.T, p *photoedit.Photo) *image.RGBA {
	t.Helper()
	img := p.Image()
	out, err := p.Device().Rasterize(img, img.Bounds())
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return out
}

func TestWriteRead(t *testing.T) {
	p := testPhoto(t)
	path := filepath.Join(t.TempDir(), "doc.peds")
	if err := Write(path, "/photos/beach.jpg", p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	q := photoedit.New()
	source, err := Read(path, render.NewSoftwareDevice(), q)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if source != "/photos/beach.jpg" {
		t.Errorf("source = %q", source)
	}
	want, got := rasterize(t, p), rasterize(t, q)
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("restored document renders differently")
	}
}

func TestReadNotAStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.peds")
	if err := os.WriteFile(path, []byte("GIF89a"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path, render.NewSoftwareDevice(), photoedit.New()); !errors.Is(err, ErrFormat) {
		t.Errorf("Read error = %v, want ErrFormat", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	p := testPhoto(t)
	var buf bytes.Buffer
	if err := encode(&buf, "a.png", p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := buf.Bytes()[:buf.Len()/2]

	q := photoedit.New()
	if _, err := decode(bytes.NewReader(data), render.NewSoftwareDevice(), q); err == nil {
		t.Fatal("decode of truncated file succeeded")
	}
	if q.Loaded() {
		t.Error("truncated file loaded an image")
	}
}

func TestWriteWithoutImage(t *testing.T) {
	dir := t.TempDir()
	err := Write(filepath.Join(dir, "doc.peds"), "", photoedit.New())
	if !errors.Is(err, photoedit.ErrNoImage) {
		t.Errorf("Write error = %v, want ErrNoImage", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("failed Write left %d files", len(entries))
	}
}
