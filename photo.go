package photoedit

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/photoedit/render"
)

// Photo is the document root: a source image and the edit groups applied
// to it, in order.
type Photo struct {
	opts options

	device render.Device
	source *render.Bitmap

	// CPU copy of the source, kept to rebuild the bitmap on a new device.
	pixels []byte
	format gputypes.TextureFormat
	size   image.Point

	groups   []*EditGroup
	active   int
	selected *Effect

	observers
}

// New creates an empty photo. Load an image before rendering.
func New(opts ...Option) *Photo {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Photo{opts: o, active: -1}
}

// Device returns the device that owns the photo's resources, or nil.
func (p *Photo) Device() render.Device { return p.device }

// Loaded reports whether a source image is present.
func (p *Photo) Loaded() bool { return p.source != nil }

// Size returns the source image dimensions.
func (p *Photo) Size() image.Point { return p.size }

// Format returns the pixel layout of the retained source pixels.
func (p *Photo) Format() gputypes.TextureFormat { return p.format }

// Source returns the unedited source bitmap, or nil.
func (p *Photo) Source() *render.Bitmap { return p.source }

// Load decodes a source image on dev and resets the document to a single
// empty group. The previous document is kept if decoding fails.
func (p *Photo) Load(dev render.Device, r io.Reader) error {
	bmp, err := dev.Decode(r)
	if err != nil {
		return decodeError(err)
	}
	pix, err := bmp.Pixels()
	if err != nil {
		return wrapDevice("load", err)
	}

	p.device = dev
	p.source = bmp
	p.pixels = pix
	p.format = bmp.Format()
	p.size = bmp.Size()

	for _, g := range p.groups {
		g.photo = nil
	}
	p.groups = []*EditGroup{newEditGroup(p)}
	p.active = -1
	p.selected = nil

	p.logger().Info("photoedit: loaded", "width", p.size.X, "height", p.size.Y, "format", p.format)
	p.emit(Change{Source: p, Property: "Groups", Op: Reset})
	return nil
}

func decodeError(err error) error {
	var tooLarge *render.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return &DecodeError{Width: tooLarge.Width, Height: tooLarge.Height, Limit: tooLarge.Limit, Err: err}
	case errors.Is(err, render.ErrDeviceLost):
		return &DeviceLostError{Op: "load", Err: err}
	default:
		return &DecodeError{Err: err}
	}
}

// Image returns the edited image: every group applied in order to the
// source. It returns nil before an image is loaded. The result is a lazy
// graph; nothing is rendered until a device rasterizes it.
func (p *Photo) Image() render.Image {
	if p.source == nil {
		return nil
	}
	var img render.Image = p.source
	for _, g := range p.groups {
		img = g.Apply(img)
	}
	return img
}

// Save rasterizes the edited image over its bounds, which may be smaller
// than the source after cropping, and writes it to w. Nothing is written
// unless encoding succeeds.
func (p *Photo) Save(w io.Writer, format render.FileFormat) error {
	img := p.Image()
	if img == nil {
		return ErrNoImage
	}
	bounds := img.Bounds()
	pix, err := p.device.Rasterize(img, bounds)
	if err != nil {
		return wrapDevice("save", err)
	}

	var buf bytes.Buffer
	if err := p.device.Encode(&buf, pix, format, p.opts.jpegQuality); err != nil {
		if IsDeviceLost(err) {
			return wrapDevice("save", err)
		}
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	p.logger().Info("photoedit: saved", "format", format, "bounds", bounds, "bytes", buf.Len())
	return nil
}

// SaveFile saves the edited image to path. The format follows the
// extension: .png, .bmp and .tif/.tiff, JPEG otherwise. The file is
// written next to path under a temporary name and renamed into place.
func (p *Photo) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := p.Save(tmp, render.FormatFromPath(path)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// RecoverAfterDeviceLost rebuilds the source bitmap and every selection
// mask on dev from the retained CPU copies. Render caches built on the
// old device must be reset by their owners.
func (p *Photo) RecoverAfterDeviceLost(dev render.Device) error {
	if p.pixels == nil {
		return ErrNoImage
	}
	src := sourcePixels{pix: p.pixels, format: p.format, size: p.size}
	if err := p.recreateResources(dev, src, p.groups); err != nil {
		return err
	}
	p.logger().Warn("photoedit: recovered after device loss", "groups", len(p.groups))
	p.emit(Change{Source: p, Property: "Source", Op: PropertyChanged})
	return nil
}

// sourcePixels is the CPU copy of a source image.
type sourcePixels struct {
	pix    []byte
	format gputypes.TextureFormat
	size   image.Point
}

// recreateResources uploads src and the masks of groups to dev and makes
// them the photo's state. Device loss recovery and RestoreState both end
// here. Nothing is changed unless every upload succeeds.
func (p *Photo) recreateResources(dev render.Device, src sourcePixels, groups []*EditGroup) error {
	bmp, err := dev.CreateBitmap(src.pix, src.size.X, src.size.Y, src.format)
	if err != nil {
		return wrapDevice("recreate resources", err)
	}
	masks := make([]*render.RenderTarget, len(groups))
	for i, g := range groups {
		if masks[i], err = g.region.recover(dev, src.size); err != nil {
			return wrapDevice("recreate resources", err)
		}
	}

	p.device = dev
	p.source = bmp
	p.pixels = src.pix
	p.format = src.format
	p.size = src.size
	for i, g := range groups {
		g.photo = p
		g.region.mask = masks[i]
	}
	return nil
}

// sourceColor returns the premultiplied source color at pt.
func (p *Photo) sourceColor(pt image.Point) color.RGBA {
	i := (pt.Y*p.size.X + pt.X) * 4
	if i < 0 || i+4 > len(p.pixels) {
		return color.RGBA{}
	}
	c := p.pixels[i : i+4]
	if p.format == gputypes.TextureFormatBGRA8Unorm {
		return color.RGBA{R: c[2], G: c[1], B: c[0], A: c[3]}
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Groups returns the edit groups in application order.
func (p *Photo) Groups() []*EditGroup { return slices.Clone(p.groups) }

// AddGroup appends an empty, enabled group.
func (p *Photo) AddGroup() *EditGroup {
	g := newEditGroup(p)
	p.groups = append(p.groups, g)
	p.emit(Change{Source: p, Property: "Groups", Op: Inserted})
	return g
}

// InsertGroup inserts an empty group at index i.
func (p *Photo) InsertGroup(i int) (*EditGroup, error) {
	if i < 0 || i > len(p.groups) {
		return nil, fmt.Errorf("photoedit: insert group: index %d out of range [0, %d]", i, len(p.groups))
	}
	g := newEditGroup(p)
	p.groups = slices.Insert(p.groups, i, g)
	if p.active >= i {
		p.active++
	}
	p.emit(Change{Source: p, Property: "Groups", Op: Inserted})
	return g, nil
}

// MoveGroup moves the group at index from to index to.
func (p *Photo) MoveGroup(from, to int) error {
	n := len(p.groups)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("photoedit: move group: index out of range [0, %d)", n)
	}
	if from == to {
		return nil
	}
	active := p.ActiveGroup()
	g := p.groups[from]
	p.groups = slices.Delete(p.groups, from, from+1)
	p.groups = slices.Insert(p.groups, to, g)
	p.active = slices.Index(p.groups, active)
	p.emit(Change{Source: p, Property: "Groups", Op: Moved})
	return nil
}

func (p *Photo) removeGroup(g *EditGroup) {
	i := slices.Index(p.groups, g)
	if i < 0 {
		return
	}
	active := p.ActiveGroup()
	p.groups = slices.Delete(p.groups, i, i+1)
	g.photo = nil
	p.active = slices.Index(p.groups, active)
	if p.selected != nil && p.selected.group == g {
		p.SetSelectedEffect(nil)
	}
	p.emit(Change{Source: p, Property: "Groups", Op: Removed})
}

// ActiveGroup returns the group whose region is being edited, or nil.
func (p *Photo) ActiveGroup() *EditGroup {
	if p.active < 0 || p.active >= len(p.groups) {
		return nil
	}
	return p.groups[p.active]
}

// SetActiveGroup makes g the only group whose region is being edited. nil
// or a group of another photo clears it.
func (p *Photo) SetActiveGroup(g *EditGroup) {
	i := slices.Index(p.groups, g)
	if i == p.active {
		return
	}
	p.active = i
	p.emit(Change{Source: p, Property: "ActiveGroup", Op: PropertyChanged})
}

// SelectedEffect returns the effect highlighted in the UI, or nil.
func (p *Photo) SelectedEffect() *Effect { return p.selected }

// SetSelectedEffect highlights e. It has no effect on rendering.
func (p *Photo) SetSelectedEffect(e *Effect) {
	if e == p.selected {
		return
	}
	p.selected = e
	p.emit(Change{Source: p, Property: "SelectedEffect", Op: PropertyChanged})
}

// Observe registers fn for every change to the photo or anything it owns.
// Call cancel to unregister.
func (p *Photo) Observe(fn func(Change)) (cancel func()) { return p.observers.add(fn) }

// Revision returns a counter that increases with every change. Equal
// revisions of the same photo render identically.
func (p *Photo) Revision() uint64 { return p.observers.revision }

func (p *Photo) logger() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return Logger()
}
