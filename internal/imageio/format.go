package imageio

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Pixel buffer errors.
var (
	// ErrUnsupportedPixelFormat is returned for texture formats that cannot
	// hold a source image.
	ErrUnsupportedPixelFormat = errors.New("imageio: unsupported pixel format")

	// ErrSizeMismatch is returned when a pixel buffer does not match its
	// declared dimensions.
	ErrSizeMismatch = errors.New("imageio: pixel buffer size mismatch")
)

// DefaultPixelFormat is the layout of pixel buffers produced by Pack when
// the device does not ask for another one: premultiplied RGBA, 8 bits per
// channel.
const DefaultPixelFormat = gputypes.TextureFormatRGBA8Unorm

// BytesPerPixel returns the pixel size of a supported format.
func BytesPerPixel(format gputypes.TextureFormat) (int, error) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4, nil
	case gputypes.TextureFormatR8Unorm:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, format)
	}
}

// Pack converts a premultiplied image into a tightly packed buffer in the
// given format. R8Unorm keeps alpha only, which is how masks are stored.
func Pack(img *image.RGBA, format gputypes.TextureFormat) ([]byte, error) {
	bpp, err := BytesPerPixel(format)
	if err != nil {
		return nil, err
	}
	r := img.Rect
	w, h := r.Dx(), r.Dy()
	out := make([]byte, w*h*bpp)

	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):][:w*4]
		dst := out[y*w*bpp:][:w*bpp]
		switch format {
		case gputypes.TextureFormatRGBA8Unorm:
			copy(dst, row)
		case gputypes.TextureFormatBGRA8Unorm:
			for x := 0; x < w; x++ {
				dst[x*4+0] = row[x*4+2]
				dst[x*4+1] = row[x*4+1]
				dst[x*4+2] = row[x*4+0]
				dst[x*4+3] = row[x*4+3]
			}
		case gputypes.TextureFormatR8Unorm:
			for x := 0; x < w; x++ {
				dst[x] = row[x*4+3]
			}
		}
	}
	return out, nil
}

// Unpack converts a packed buffer back into a premultiplied image with its
// origin at zero. R8Unorm buffers expand to premultiplied white.
func Unpack(pix []byte, width, height int, format gputypes.TextureFormat) (*image.RGBA, error) {
	bpp, err := BytesPerPixel(format)
	if err != nil {
		return nil, err
	}
	if width < 0 || height < 0 || len(pix) != width*height*bpp {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %v", ErrSizeMismatch, len(pix), width, height, format)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		copy(img.Pix, pix)
	case gputypes.TextureFormatBGRA8Unorm:
		for i := 0; i < len(pix); i += 4 {
			img.Pix[i+0] = pix[i+2]
			img.Pix[i+1] = pix[i+1]
			img.Pix[i+2] = pix[i+0]
			img.Pix[i+3] = pix[i+3]
		}
	case gputypes.TextureFormatR8Unorm:
		for i, a := range pix {
			img.Pix[i*4+0] = a
			img.Pix[i*4+1] = a
			img.Pix[i*4+2] = a
			img.Pix[i*4+3] = a
		}
	}
	return img, nil
}
