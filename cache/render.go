package cache

import (
	"github.com/gogpu/photoedit/internal/imageio"
	"github.com/gogpu/photoedit/render"
)

// RenderCache memoizes one rasterized image keyed by K.
//
// RenderCache is not safe for concurrent use.
type RenderCache[K comparable] struct {
	img   render.Image
	key   K
	valid bool

	hits, misses uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits   uint64
	Misses uint64
	Valid  bool
}

// NewRenderCache creates an empty render cache.
func NewRenderCache[K comparable]() *RenderCache[K] {
	return &RenderCache[K]{}
}

// Get returns the cached image when the stored key equals key. A lookup
// with a different key invalidates the entry.
func (c *RenderCache[K]) Get(key K) (render.Image, bool) {
	if c.valid && c.key == key {
		c.hits++
		return c.img, true
	}
	c.misses++
	if c.valid {
		render.Logger().Debug("cache: render cache invalidated")
	}
	c.drop()
	return nil, false
}

// Put rasterizes img on dev, stores the pixels in a device bitmap under
// key and returns the cached image. The returned image covers the same
// bounds as img. On failure the cache is left empty.
func (c *RenderCache[K]) Put(dev render.Device, img render.Image, key K) (render.Image, error) {
	c.drop()

	bounds := img.Bounds()
	if bounds.Empty() {
		c.img, c.key, c.valid = img, key, true
		return img, nil
	}
	pix, err := dev.Rasterize(img, bounds)
	if err != nil {
		return nil, err
	}
	format := dev.PreferredFormat()
	buf, err := imageio.Pack(pix, format)
	if err != nil {
		return nil, err
	}
	bmp, err := dev.CreateBitmap(buf, bounds.Dx(), bounds.Dy(), format)
	if err != nil {
		return nil, err
	}

	c.img = render.Translate(bmp, bounds.Min)
	c.key = key
	c.valid = true
	render.Logger().Debug("cache: render cache filled", "bounds", bounds)
	return c.img, nil
}

// Reset drops the cached entry.
func (c *RenderCache[K]) Reset() { c.drop() }

// RecoverAfterDeviceLost drops the device bitmap. The next Put rebuilds it
// on the new device.
func (c *RenderCache[K]) RecoverAfterDeviceLost() { c.drop() }

// Stats returns hit and miss counts.
func (c *RenderCache[K]) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Valid: c.valid}
}

func (c *RenderCache[K]) drop() {
	var zero K
	c.img = nil
	c.key = zero
	c.valid = false
}
