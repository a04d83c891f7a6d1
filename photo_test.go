package photoedit

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/photoedit/render"
)

type bgraHandle struct{ render.NullDeviceHandle }

func (bgraHandle) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func TestNewPhotoIsEmpty(t *testing.T) {
	p := New()
	if p.Loaded() || p.Image() != nil {
		t.Error("new photo has an image")
	}
	if err := p.Save(&bytes.Buffer{}, render.FormatPNG); !errors.Is(err, ErrNoImage) {
		t.Errorf("Save error = %v, want ErrNoImage", err)
	}
	if err := p.RecoverAfterDeviceLost(render.NewSoftwareDevice()); !errors.Is(err, ErrNoImage) {
		t.Errorf("RecoverAfterDeviceLost error = %v, want ErrNoImage", err)
	}
}

func TestLoadResetsGroups(t *testing.T) {
	p, dev := loadPhoto(t, testImage(30, 20))
	p.Groups()[0].AddEffect(Invert)
	p.AddGroup()
	p.Groups()[1].SetEditingRegion(true)

	var reset bool
	p.Observe(func(c Change) { reset = reset || c.Op == Reset })
	if err := p.Load(dev, bytes.NewReader(encodePNG(t, testImage(16, 16)))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	groups := p.Groups()
	if len(groups) != 1 || len(groups[0].Effects()) != 0 || groups[0].Region().HasMask() {
		t.Error("Load did not reset to one empty group")
	}
	if p.ActiveGroup() != nil {
		t.Error("active group survived Load")
	}
	if p.Size() != image.Pt(16, 16) {
		t.Errorf("Size() = %v, want (16,16)", p.Size())
	}
	if !reset {
		t.Error("Load did not report a reset")
	}
}

func TestLoadErrors(t *testing.T) {
	p := New()
	err := p.Load(render.NewSoftwareDevice(), strings.NewReader("not an image"))
	if !errors.Is(err, ErrDecode) || errors.Is(err, ErrImageTooLarge) {
		t.Errorf("garbage: error = %v, want ErrDecode only", err)
	}

	small := render.NewSoftwareDevice(render.WithMaxTextureSize(64))
	err = p.Load(small, bytes.NewReader(encodePNG(t, testImage(100, 10))))
	if !errors.Is(err, ErrImageTooLarge) || !errors.Is(err, ErrDecode) {
		t.Fatalf("oversized: error = %v, want ErrImageTooLarge", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Width != 100 || de.Height != 10 || de.Limit != 64 {
		t.Errorf("DecodeError = %+v", de)
	}
	if p.Loaded() {
		t.Error("failed Load left an image")
	}
}

func TestSaveEncodesEditedImage(t *testing.T) {
	p, _ := loadPhoto(t, testImage(40, 30))
	p.Groups()[0].AddEffect(Invert)
	want := rasterize(t, p)

	var buf bytes.Buffer
	if err := p.Save(&buf, render.FormatPNG); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	for _, pt := range []image.Point{{0, 0}, {20, 15}, {39, 29}} {
		r, g, b, _ := img.At(pt.X, pt.Y).RGBA()
		c := want.RGBAAt(pt.X, pt.Y)
		if uint8(r>>8) != c.R || uint8(g>>8) != c.G || uint8(b>>8) != c.B {
			t.Errorf("pixel %v = %d,%d,%d, want %v", pt, r>>8, g>>8, b>>8, c)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSaveWriteError(t *testing.T) {
	p, _ := loadPhoto(t, testImage(8, 8))
	if err := p.Save(failingWriter{}, render.FormatPNG); !errors.Is(err, ErrIO) {
		t.Errorf("Save error = %v, want ErrIO", err)
	}
}

func TestSaveFile(t *testing.T) {
	p, _ := loadPhoto(t, testImage(24, 24))
	crop := p.Groups()[0].AddEffect(Crop)
	crop.SetParameter(crop.Entry().Parameters[0], RectValue(Rect{X: 4, Y: 4, W: 10, H: 8}))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := p.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 8 {
		t.Errorf("saved size = %dx%d, want 10x8", cfg.Width, cfg.Height)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the saved file", len(entries))
	}
}

func TestSaveDeviceLost(t *testing.T) {
	p, dev := loadPhoto(t, testImage(8, 8))
	dev.Lose()
	err := p.Save(&bytes.Buffer{}, render.FormatPNG)
	if !IsDeviceLost(err) || !errors.Is(err, ErrDeviceLost) {
		t.Errorf("Save error = %v, want ErrDeviceLost", err)
	}
}

func TestRecoverAfterDeviceLost(t *testing.T) {
	p, dev := loadPhoto(t, testImage(50, 50))
	g := p.Groups()[0]
	selectRect(t, g.Region(), SelectionReplace, 5, 5, 25, 25)
	g.AddEffect(Invert)
	want := rasterize(t, p)

	dev.Lose()
	if _, err := dev.Rasterize(p.Image(), p.Image().Bounds()); !errors.Is(err, render.ErrDeviceLost) {
		t.Fatalf("Rasterize on lost device: %v", err)
	}

	if err := p.RecoverAfterDeviceLost(render.NewSoftwareDevice()); err != nil {
		t.Fatalf("RecoverAfterDeviceLost: %v", err)
	}
	if got := rasterize(t, p); !sameImage(got, want) {
		t.Error("recovered photo renders differently")
	}
}

func TestGroupIndexing(t *testing.T) {
	p := New()
	a := p.AddGroup()
	b := p.AddGroup()
	c, err := p.InsertGroup(1)
	if err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}
	if _, err := p.InsertGroup(9); err == nil {
		t.Error("InsertGroup(9) succeeded")
	}
	if err := p.MoveGroup(0, 3); err == nil {
		t.Error("MoveGroup(0, 3) succeeded")
	}

	b.SetEditingRegion(true)
	if err := p.MoveGroup(2, 0); err != nil {
		t.Fatalf("MoveGroup: %v", err)
	}
	got := p.Groups()
	if got[0] != b || got[1] != a || got[2] != c {
		t.Error("unexpected order after MoveGroup")
	}
	if p.ActiveGroup() != b {
		t.Error("active group changed by MoveGroup")
	}
	a.Dispose()
	if p.ActiveGroup() != b {
		t.Error("active group changed by removing another group")
	}
}

func TestObserveRevision(t *testing.T) {
	p := New()
	start := p.Revision()
	var n int
	cancel := p.Observe(func(Change) { n++ })

	g := p.AddGroup()
	g.Region().SetExpand(2)
	g.SetEnabled(false)
	g.SetEnabled(false)
	if n != 3 {
		t.Errorf("changes = %d, want 3", n)
	}
	if p.Revision() != start+3 {
		t.Errorf("Revision() = %d, want %d", p.Revision(), start+3)
	}

	cancel()
	g.SetEnabled(true)
	if n != 3 {
		t.Errorf("changes after cancel = %d, want 3", n)
	}
	if p.Revision() != start+4 {
		t.Errorf("Revision() = %d, want %d", p.Revision(), start+4)
	}
}

func TestMagicWandOnBGRADevice(t *testing.T) {
	dev := render.NewSoftwareDevice(render.WithDeviceHandle(bgraHandle{}))
	p := New()
	if err := p.Load(dev, bytes.NewReader(encodePNG(t, splitImage(40, 40)))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Fatalf("Format() = %v, want BGRA8Unorm", p.Format())
	}
	r := p.Groups()[0].Region()
	r.SetMode(ModeMagicWand)
	r.BeginEdit(r2.Vec{X: 35, Y: 5})
	if err := r.Commit(SelectionReplace, 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := maskAt(r, 30, 30); got != 255 {
		t.Errorf("blue half = %d, want 255", got)
	}
	if got := maskAt(r, 5, 30); got != 0 {
		t.Errorf("red half = %d, want 0", got)
	}
}
