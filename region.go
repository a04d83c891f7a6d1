package photoedit

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/gogpu/gputypes"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/photoedit/internal/filter"
	"github.com/gogpu/photoedit/render"
)

// maskFormat is the layout of the CPU copies of a mask: alpha only.
const maskFormat = gputypes.TextureFormatR8Unorm

// Region is the selection mask of an edit group.
//
// A gesture starts with BeginEdit, accumulates points with AddPoints and
// ends with Commit, which draws the shape into the mask. The mask lives on
// the device; the last committed mask and the one before it are also kept
// as alpha bytes, for device loss recovery and a single level of undo.
type Region struct {
	group *EditGroup

	mask     *render.RenderTarget
	current  []byte
	previous []byte
	canUndo  bool
	undone   bool

	expand  int
	feather float32

	mode          SelectionMode
	add, subtract bool

	editing bool
	points  []r2.Vec
}

func newRegion(g *EditGroup) *Region {
	return &Region{group: g}
}

// Group returns the owning group.
func (r *Region) Group() *EditGroup { return r.group }

// HasMask reports whether a selection exists. Without one the group's
// effects apply to the whole image.
func (r *Region) HasMask() bool { return r.mask != nil }

// MaskBytes returns a copy of the committed mask, one alpha byte per
// pixel, or nil without a selection.
func (r *Region) MaskBytes() []byte { return slices.Clone(r.current) }

// CanUndo reports whether the last commit can be undone.
func (r *Region) CanUndo() bool { return r.canUndo }

// Mode returns the selection shape.
func (r *Region) Mode() SelectionMode { return r.mode }

// SetMode sets the selection shape of the next gesture.
func (r *Region) SetMode(mode SelectionMode) {
	if mode == r.mode {
		return
	}
	r.mode = mode
	r.notify("Mode")
}

// Expand returns the mask dilation in pixels. Negative values erode.
func (r *Region) Expand() int { return r.expand }

// SetExpand sets the mask dilation.
func (r *Region) SetExpand(n int) {
	if n == r.expand {
		return
	}
	r.expand = n
	r.notify("Expand")
}

// Feather returns the mask blur radius.
func (r *Region) Feather() float32 { return r.feather }

// SetFeather sets the mask blur radius. Negative values are treated as 0.
func (r *Region) SetFeather(f float32) {
	f = max(f, 0)
	if f == r.feather {
		return
	}
	r.feather = f
	r.notify("Feather")
}

// SetModifiers records the add and subtract modifiers of the current
// gesture. Operation derives the selection operation from them.
func (r *Region) SetModifiers(add, subtract bool) {
	if add == r.add && subtract == r.subtract {
		return
	}
	r.add, r.subtract = add, subtract
	r.notify("Operation")
}

// Operation returns the operation selected by the modifiers: neither
// replaces, add adds, subtract subtracts and both invert.
func (r *Region) Operation() SelectionOperation { return operationFor(r.add, r.subtract) }

// Editing reports whether a gesture is in progress.
func (r *Region) Editing() bool { return r.editing }

// Points returns the points of the gesture in progress.
func (r *Region) Points() []r2.Vec { return slices.Clone(r.points) }

// BeginEdit starts a gesture at p, in image pixels. A gesture already in
// progress is discarded.
func (r *Region) BeginEdit(p r2.Vec) {
	r.editing = true
	r.points = append(r.points[:0], p)
}

// AddPoints extends the gesture in progress. It does nothing when no
// gesture was started.
func (r *Region) AddPoints(ps ...r2.Vec) {
	if !r.editing {
		return
	}
	r.points = append(r.points, ps...)
}

// Commit ends the gesture and draws its shape into the mask with op. zoom
// is the display zoom, which scales the magic wand tolerance.
//
// Commit is atomic: on any error, including a lost device, the mask, the
// undo snapshot and CanUndo are unchanged. The gesture is over either way.
func (r *Region) Commit(op SelectionOperation, zoom float64) error {
	if !r.editing {
		return fmt.Errorf("photoedit: commit region: %w: no gesture in progress", ErrUnsupported)
	}
	points := r.points
	r.editing = false
	r.points = nil

	p := r.photo()
	if p == nil || p.source == nil {
		return ErrNoImage
	}
	mode, clearFirst, err := compositeFor(op)
	if err != nil {
		return fmt.Errorf("photoedit: commit region: %w", err)
	}
	shape, err := r.shapeImage(p, points, zoom)
	if err != nil {
		return wrapDevice("commit region", err)
	}

	dev := p.device
	target, err := dev.CreateRenderTarget(p.size.X, p.size.Y)
	if err != nil {
		return wrapDevice("commit region", err)
	}
	if !clearFirst && r.mask != nil {
		if err := dev.DrawImage(target, r.mask, render.Copy); err != nil {
			return wrapDevice("commit region", err)
		}
	}
	if err := dev.DrawImage(target, shape, mode); err != nil {
		return wrapDevice("commit region", err)
	}
	pix, err := target.Pixels()
	if err != nil {
		return wrapDevice("commit region", err)
	}

	if r.mask != nil {
		r.previous = r.current
	} else {
		r.previous = nil
	}
	r.mask = target
	r.current = alphaChannel(pix)
	r.canUndo = true
	r.undone = false

	p.logger().Debug("photoedit: region committed", "mode", r.mode, "op", op, "points", len(points))
	r.notify("Mask")
	return nil
}

// Undo restores the mask from before the last commit. Without an earlier
// mask, as after the first commit, the selection is removed. Only one step
// is kept: a second Undo before the next commit does nothing.
func (r *Region) Undo() error {
	if r.undone {
		return nil
	}
	if r.previous != nil {
		p := r.photo()
		if p == nil || p.device == nil {
			return ErrNoImage
		}
		target, err := upload(p.device, r.previous, p.size)
		if err != nil {
			return wrapDevice("undo region", err)
		}
		r.mask = target
		r.current = r.previous
		r.previous = nil
	} else {
		r.mask = nil
		r.current = nil
	}
	r.canUndo = false
	r.undone = true
	r.notify("Mask")
	return nil
}

// EffectiveMask returns the mask after expansion and feathering, or nil
// without a selection. Expansion is applied first.
func (r *Region) EffectiveMask() render.Image {
	if r.mask == nil {
		return nil
	}
	var mask render.Image = r.mask
	if r.expand != 0 {
		mask = render.Filter(mask, &filter.MorphologyFilter{Radius: r.expand})
	}
	if r.feather > 0 {
		f := filter.NewBlurFilter(float64(r.feather))
		mask = render.Filter(mask, f)
	}
	return mask
}

// shapeImage returns the mask of the gesture as a full-size image.
func (r *Region) shapeImage(p *Photo, points []r2.Vec, zoom float64) (render.Image, error) {
	if r.mode == ModeMagicWand {
		return r.magicWand(p, points, zoom), nil
	}
	alpha, err := rasterizeShape(r.mode, points, p.size)
	if err != nil {
		return nil, err
	}
	return p.device.CreateBitmap(alpha.Pix, p.size.X, p.size.Y, maskFormat)
}

// magicWand keys the source image on the color under the first point.
func (r *Region) magicWand(p *Photo, points []r2.Vec, zoom float64) render.Image {
	var key color.RGBA
	if len(points) > 0 {
		key = p.sourceColor(clampPoint(points[0], p.size))
	}
	keyed := render.Filter(p.source, &filter.ChromaKeyFilter{
		Key:         key,
		Tolerance:   wandTolerance(points, zoom),
		InvertAlpha: true,
	})
	return render.Filter(keyed, filter.NewColorMatrixFilter(whiteMatrix))
}

// upload recreates a mask target from alpha bytes.
func upload(dev render.Device, alpha []byte, size image.Point) (*render.RenderTarget, error) {
	bmp, err := dev.CreateBitmap(alpha, size.X, size.Y, maskFormat)
	if err != nil {
		return nil, err
	}
	target, err := dev.CreateRenderTarget(size.X, size.Y)
	if err != nil {
		return nil, err
	}
	if err := dev.DrawImage(target, bmp, render.Copy); err != nil {
		return nil, err
	}
	return target, nil
}

// recover rebuilds the mask target on dev from the committed bytes. It
// returns nil without a selection.
func (r *Region) recover(dev render.Device, size image.Point) (*render.RenderTarget, error) {
	if r.current == nil {
		return nil, nil
	}
	return upload(dev, r.current, size)
}

// restore installs committed bytes read from saved state. No undo step is
// available afterwards.
func (r *Region) restore(alpha []byte) {
	r.current = alpha
	r.previous = nil
	r.canUndo = false
	r.undone = false
	r.mask = nil
}

func (r *Region) photo() *Photo {
	if r.group == nil {
		return nil
	}
	return r.group.photo
}

func (r *Region) notify(property string) {
	if p := r.photo(); p != nil {
		p.emit(Change{Source: r, Property: property, Op: PropertyChanged})
	}
}

// alphaChannel extracts the alpha bytes of packed RGBA pixels.
func alphaChannel(pix []byte) []byte {
	out := make([]byte, len(pix)/4)
	for i := range out {
		out[i] = pix[i*4+3]
	}
	return out
}
