package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the file format is not supported.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
)

// FileFormat is an encoded image file format.
type FileFormat uint8

const (
	FormatJPEG FileFormat = iota
	FormatPNG
	FormatBMP
	FormatTIFF
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 90

// String returns the conventional short name.
func (f FileFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the encoding from a file extension. Anything not
// recognized is written as JPEG.
func FormatFromPath(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatJPEG
	}
}

// DecodeConfig reads only the header and reports dimensions.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, name, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("imageio: decode config: %w", err)
	}
	return cfg, name, nil
}

// Decode decodes an image and returns it premultiplied with its origin at
// zero, together with the registered format name.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("imageio: decode: %w", ErrUnsupportedFormat)
		}
		return nil, "", fmt.Errorf("imageio: decode %s: %w", name, err)
	}
	return ToRGBA(img), name, nil
}

// ToRGBA converts any image into a premultiplied RGBA image whose origin is
// zero. An *image.RGBA that already starts at zero is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

// Encode writes img in the given format. quality applies to JPEG only and
// is clamped to [1, 100].
func Encode(w io.Writer, img image.Image, format FileFormat, quality int) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		quality = max(1, min(quality, 100))
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("imageio: encode: %w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", format, err)
	}
	return nil
}
