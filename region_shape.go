package photoedit

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/photoedit/render"
)

// SelectionMode is the shape drawn by a region gesture.
type SelectionMode uint8

const (
	// ModeRectangle selects the box spanned by the first and last point.
	ModeRectangle SelectionMode = iota

	// ModeEllipse selects the ellipse inscribed in that box.
	ModeEllipse

	// ModeFreehand selects the polygon through every point.
	ModeFreehand

	// ModeMagicWand selects pixels similar in color to the one under the
	// first point. Dragging further raises the tolerance.
	ModeMagicWand
)

// String returns the mode name.
func (m SelectionMode) String() string {
	switch m {
	case ModeRectangle:
		return "Rectangle"
	case ModeEllipse:
		return "Ellipse"
	case ModeFreehand:
		return "Freehand"
	case ModeMagicWand:
		return "MagicWand"
	default:
		return fmt.Sprintf("SelectionMode(%d)", uint8(m))
	}
}

// SelectionOperation is how a new shape combines with the current mask.
type SelectionOperation uint8

const (
	// SelectionReplace discards the current mask.
	SelectionReplace SelectionOperation = iota

	// SelectionAdd unions the shape with the mask.
	SelectionAdd

	// SelectionSubtract removes the shape from the mask.
	SelectionSubtract

	// SelectionInvert toggles the mask inside the shape.
	SelectionInvert
)

// String returns the operation name.
func (op SelectionOperation) String() string {
	switch op {
	case SelectionReplace:
		return "Replace"
	case SelectionAdd:
		return "Add"
	case SelectionSubtract:
		return "Subtract"
	case SelectionInvert:
		return "Invert"
	default:
		return fmt.Sprintf("SelectionOperation(%d)", uint8(op))
	}
}

// operationFor maps the add and subtract modifiers to an operation. Both
// together invert.
func operationFor(add, subtract bool) SelectionOperation {
	switch {
	case add && subtract:
		return SelectionInvert
	case add:
		return SelectionAdd
	case subtract:
		return SelectionSubtract
	default:
		return SelectionReplace
	}
}

// compositeFor returns the mode used to draw a shape for op and whether
// the mask is cleared first.
func compositeFor(op SelectionOperation) (mode render.CompositeMode, clearFirst bool, err error) {
	switch op {
	case SelectionReplace:
		return render.SourceOver, true, nil
	case SelectionAdd:
		return render.SourceOver, false, nil
	case SelectionSubtract:
		return render.DestinationOut, false, nil
	case SelectionInvert:
		return render.Xor, false, nil
	default:
		return 0, false, fmt.Errorf("%w: selection operation %v", ErrUnsupported, op)
	}
}

// ellipseKappa places cubic control points so four curves approximate a
// quarter circle each.
const ellipseKappa = 0.5522847498

// rasterizeShape fills the geometric shape of points into an alpha mask
// of the given size.
func rasterizeShape(mode SelectionMode, points []r2.Vec, size image.Point) (*image.Alpha, error) {
	mask := image.NewAlpha(image.Rectangle{Max: size})
	if len(points) == 0 {
		return mask, nil
	}
	z := vector.NewRasterizer(size.X, size.Y)
	start, end := points[0], points[len(points)-1]

	switch mode {
	case ModeRectangle:
		x0, y0 := float32(min(start.X, end.X)), float32(min(start.Y, end.Y))
		x1, y1 := float32(max(start.X, end.X)), float32(max(start.Y, end.Y))
		if x0 == x1 || y0 == y1 {
			return mask, nil
		}
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()

	case ModeEllipse:
		c := r2.Scale(0.5, r2.Add(start, end))
		rad := r2.Scale(0.5, r2.Sub(end, start))
		rx, ry := float32(math.Abs(rad.X)), float32(math.Abs(rad.Y))
		if rx == 0 || ry == 0 {
			return mask, nil
		}
		cx, cy := float32(c.X), float32(c.Y)
		kx, ky := rx*ellipseKappa, ry*ellipseKappa
		z.MoveTo(cx+rx, cy)
		z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
		z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
		z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
		z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
		z.ClosePath()

	case ModeFreehand:
		if len(points) < 3 {
			return mask, nil
		}
		z.MoveTo(float32(start.X), float32(start.Y))
		for _, p := range points[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()

	default:
		return nil, fmt.Errorf("%w: selection mode %v", ErrUnsupported, mode)
	}

	z.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	return mask, nil
}

// wandTolerance converts the drag distance of a magic wand gesture into a
// color tolerance in [0, 1].
func wandTolerance(points []r2.Vec, zoom float64) float64 {
	if len(points) == 0 {
		return 0
	}
	drag := r2.Norm(r2.Sub(points[len(points)-1], points[0]))
	return min(drag/512*zoom, 1)
}

// clampPoint returns the pixel under p, clamped to an image of size.
func clampPoint(p r2.Vec, size image.Point) image.Point {
	x := min(max(int(p.X), 0), size.X-1)
	y := min(max(int(p.Y), 0), size.Y-1)
	return image.Pt(x, y)
}

// whiteMatrix keeps alpha and sets the color to white.
var whiteMatrix = [20]float32{
	0, 0, 0, 0, 255,
	0, 0, 0, 0, 255,
	0, 0, 0, 0, 255,
	0, 0, 0, 1, 0,
}
