// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/photoedit/internal/blend"
)

// Image is a lazy image node. Nothing is computed until the graph is
// handed to Device.Rasterize or Device.DrawImage.
//
// Images are immutable except RenderTarget, whose contents change when
// it is drawn into. A graph that references a render target sees the
// target's contents at evaluation time.
type Image interface {
	// Bounds reports the rectangle the image covers. Pixels outside it are
	// transparent.
	Bounds() image.Rectangle

	evaluate(ev *evaluator) (*image.RGBA, error)
}

// Op is an image-processing primitive. Apply reads a premultiplied source
// and writes a premultiplied destination covering Bounds(src.Rect). Apply
// must not modify src.
type Op interface {
	Bounds(src image.Rectangle) image.Rectangle
	Apply(src, dst *image.RGBA)
}

// Filter returns a node that runs op over src. op is captured by
// reference; it must not be mutated while the node is in use.
func Filter(src Image, op Op) Image {
	return &filterNode{src: src, op: op}
}

// Composite returns a node combining dst and src with mode. The result
// covers the union of both bounds.
func Composite(mode CompositeMode, dst, src Image) Image {
	return &compositeNode{mode: mode, dst: dst, src: src}
}

// Flood returns an image of a single premultiplied color covering r.
func Flood(c color.RGBA, r image.Rectangle) Image {
	return &floodNode{c: c, r: r.Canon()}
}

// Crop returns src restricted to r.
func Crop(src Image, r image.Rectangle) Image {
	return &cropNode{src: src, r: r.Canon()}
}

// Translate returns src moved by d.
func Translate(src Image, d image.Point) Image {
	if d == (image.Point{}) {
		return src
	}
	return &translateNode{src: src, d: d}
}

type filterNode struct {
	src Image
	op  Op
}

func (n *filterNode) Bounds() image.Rectangle { return n.op.Bounds(n.src.Bounds()) }

func (n *filterNode) evaluate(ev *evaluator) (*image.RGBA, error) {
	src, err := ev.eval(n.src)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(n.op.Bounds(src.Rect))
	n.op.Apply(src, dst)
	return dst, nil
}

type compositeNode struct {
	mode     CompositeMode
	dst, src Image
}

func (n *compositeNode) Bounds() image.Rectangle {
	return n.dst.Bounds().Union(n.src.Bounds())
}

func (n *compositeNode) evaluate(ev *evaluator) (*image.RGBA, error) {
	dst, err := ev.eval(n.dst)
	if err != nil {
		return nil, err
	}
	src, err := ev.eval(n.src)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(dst.Rect.Union(src.Rect))
	blend.Composite(blendMode(n.mode), out, dst, src)
	return out, nil
}

type floodNode struct {
	c color.RGBA
	r image.Rectangle
}

func (n *floodNode) Bounds() image.Rectangle { return n.r }

func (n *floodNode) evaluate(*evaluator) (*image.RGBA, error) {
	out := image.NewRGBA(n.r)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = n.c.R
		out.Pix[i+1] = n.c.G
		out.Pix[i+2] = n.c.B
		out.Pix[i+3] = n.c.A
	}
	return out, nil
}

type cropNode struct {
	src Image
	r   image.Rectangle
}

func (n *cropNode) Bounds() image.Rectangle { return n.src.Bounds().Intersect(n.r) }

func (n *cropNode) evaluate(ev *evaluator) (*image.RGBA, error) {
	src, err := ev.eval(n.src)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(src.Rect.Intersect(n.r))
	blend.Composite(blend.BlendSource, out, nil, src)
	return out, nil
}

type translateNode struct {
	src Image
	d   image.Point
}

func (n *translateNode) Bounds() image.Rectangle { return n.src.Bounds().Add(n.d) }

func (n *translateNode) evaluate(ev *evaluator) (*image.RGBA, error) {
	src, err := ev.eval(n.src)
	if err != nil {
		return nil, err
	}
	out := *src
	out.Rect = src.Rect.Add(n.d)
	return &out, nil
}

// evaluator rasterizes a graph once per node. Results are shared between
// the nodes that reference them and must be treated as read-only.
type evaluator struct {
	done  map[Image]*image.RGBA
	nodes int
}

func newEvaluator() *evaluator {
	return &evaluator{done: make(map[Image]*image.RGBA)}
}

func (ev *evaluator) eval(img Image) (*image.RGBA, error) {
	if out, ok := ev.done[img]; ok {
		return out, nil
	}
	out, err := img.evaluate(ev)
	if err != nil {
		return nil, err
	}
	ev.done[img] = out
	ev.nodes++
	return out, nil
}

func blendMode(m CompositeMode) blend.BlendMode {
	switch m {
	case DestinationIn:
		return blend.BlendDestinationIn
	case DestinationOut:
		return blend.BlendDestinationOut
	case Xor:
		return blend.BlendXor
	case Copy:
		return blend.BlendSource
	case Plus:
		return blend.BlendPlus
	default:
		return blend.BlendSourceOver
	}
}
