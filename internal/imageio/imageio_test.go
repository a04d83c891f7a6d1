package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(2, 0, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(0, 1, color.RGBA{10, 20, 30, 128})
	return img
}

func TestPackBGRASwapsChannels(t *testing.T) {
	pix, err := Pack(testImage(), gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if got := pix[0:4]; !bytes.Equal(got, []byte{0, 0, 255, 255}) {
		t.Errorf("first BGRA pixel = %v, want [0 0 255 255]", got)
	}

	back, err := Unpack(pix, 3, 2, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !bytes.Equal(back.Pix, testImage().Pix) {
		t.Error("BGRA pack/unpack changed pixels")
	}
}

func TestPackSubImage(t *testing.T) {
	sub := testImage().SubImage(image.Rect(1, 0, 3, 1)).(*image.RGBA)
	pix, err := Pack(sub, DefaultPixelFormat)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	want := []byte{0, 255, 0, 255, 0, 0, 255, 255}
	if !bytes.Equal(pix, want) {
		t.Errorf("Pack(sub) = %v, want %v", pix, want)
	}
}

func TestAlphaOnlyRoundTrip(t *testing.T) {
	pix, err := Pack(testImage(), gputypes.TextureFormatR8Unorm)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if want := []byte{255, 255, 255, 128, 0, 0}; !bytes.Equal(pix, want) {
		t.Fatalf("alpha plane = %v, want %v", pix, want)
	}
	img, err := Unpack(pix, 3, 2, gputypes.TextureFormatR8Unorm)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{128, 128, 128, 128}) {
		t.Errorf("expanded mask pixel = %v", got)
	}
}

func TestUnpackErrors(t *testing.T) {
	if _, err := Unpack(make([]byte, 7), 1, 2, DefaultPixelFormat); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("short buffer error = %v, want ErrSizeMismatch", err)
	}
	if _, err := Unpack(nil, 0, 0, gputypes.TextureFormatDepth24PlusStencil8); !errors.Is(err, ErrUnsupportedPixelFormat) {
		t.Errorf("depth format error = %v, want ErrUnsupportedPixelFormat", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want FileFormat
	}{
		{"out.png", FormatPNG},
		{"OUT.PNG", FormatPNG},
		{"a/b.bmp", FormatBMP},
		{"scan.tif", FormatTIFF},
		{"scan.tiff", FormatTIFF},
		{"photo.jpg", FormatJPEG},
		{"noext", FormatJPEG},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, f := range []FileFormat{FormatPNG, FormatJPEG, FormatBMP, FormatTIFF} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, testImage(), f, DefaultJPEGQuality); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img, _, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Rect != image.Rect(0, 0, 3, 2) {
				t.Errorf("decoded bounds = %v", img.Rect)
			}
		})
	}
}

func TestDecodePNGExact(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(), FormatPNG, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, name, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if name != "png" {
		t.Errorf("format = %q, want png", name)
	}
	if got := img.RGBAAt(2, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("At(2, 0) = %v", got)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode(garbage) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestToRGBAOffsetOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 128})
	got := ToRGBA(src)
	if got.Rect != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", got.Rect)
	}
	if c := got.RGBAAt(0, 0); c.A != 128 || c.R != 128 {
		t.Errorf("premultiplied pixel = %v, want R=128 A=128", c)
	}
}
