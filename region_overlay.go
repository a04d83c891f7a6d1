package photoedit

import (
	"github.com/gogpu/photoedit/internal/filter"
	"github.com/gogpu/photoedit/render"
)

// Display helpers. None of them change the committed mask.

// overlayMatrix grays out the unselected area: mid gray with alpha
// 0.75 * (1 - mask).
var overlayMatrix = [20]float32{
	0, 0, 0, 0, 127.5,
	0, 0, 0, 0, 127.5,
	0, 0, 0, 0, 127.5,
	0, 0, 0, -0.75, 191.25,
}

// magentaMatrix turns an edge map into magenta with the edge strength as
// alpha.
var magentaMatrix = [20]float32{
	1, 0, 0, 0, 0,
	0, 0, 0, 0, 0,
	1, 0, 0, 0, 0,
	1, 0, 0, 0, 0,
}

// Alpha of the in-progress fill for geometric shapes and the magic wand.
const (
	shapePreviewAlpha = 0x20 / 255.0
	wandPreviewAlpha  = 0.25
)

// Overlay returns a translucent gray layer covering everything outside the
// effective mask, or nil without a selection.
func (r *Region) Overlay() render.Image {
	mask := r.EffectiveMask()
	if mask == nil {
		return nil
	}
	return render.Filter(mask, filter.NewColorMatrixFilter(overlayMatrix))
}

// Border returns a magenta outline of the mask whose width stays constant
// on screen at the given zoom, or nil without a selection.
func (r *Region) Border(zoom float64) render.Image {
	if r.mask == nil {
		return nil
	}
	return selectionBorder(r.mask, zoom)
}

// EditPreview returns the shape of the gesture in progress as a faint
// white fill with a magenta outline. It returns nil when no gesture is in
// progress.
func (r *Region) EditPreview(zoom float64) (render.Image, error) {
	if !r.editing {
		return nil, nil
	}
	p := r.photo()
	if p == nil || p.source == nil {
		return nil, ErrNoImage
	}

	var shape render.Image
	alpha := float32(shapePreviewAlpha)
	if r.mode == ModeMagicWand {
		shape = r.magicWand(p, r.points, zoom)
		alpha = wandPreviewAlpha
	} else {
		mask, err := rasterizeShape(r.mode, r.points, p.size)
		if err != nil {
			return nil, err
		}
		bmp, err := p.device.CreateBitmap(mask.Pix, p.size.X, p.size.Y, maskFormat)
		if err != nil {
			return nil, wrapDevice("edit preview", err)
		}
		shape = bmp
	}

	fill := render.Filter(shape, filter.NewColorMatrixFilter([20]float32{
		0, 0, 0, 0, 255,
		0, 0, 0, 0, 255,
		0, 0, 0, 0, 255,
		0, 0, 0, alpha, 0,
	}))
	return render.Composite(render.SourceOver, fill, selectionBorder(shape, zoom)), nil
}

// selectionBorder scales the mask to display size, finds its edges,
// colors them and scales back.
func selectionBorder(mask render.Image, zoom float64) render.Image {
	if zoom <= 0 {
		zoom = 1
	}
	img := render.Filter(mask, &filter.ScaleFilter{Factor: zoom})
	img = render.Filter(img, &filter.EdgeFilter{Amount: 0.1})
	img = render.Filter(img, filter.NewColorMatrixFilter(magentaMatrix))
	return render.Filter(img, &filter.ScaleFilter{Factor: 1 / zoom})
}
