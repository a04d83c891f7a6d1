package photoedit

import (
	"image"
	"math"

	"github.com/gogpu/photoedit/internal/filter"
	"github.com/gogpu/photoedit/render"
)

// The catalog is built once and never modified.
var catalog = [numKinds]*CatalogEntry{
	Exposure: entry(Exposure, newPtr[filter.ExposureFilter],
		floatParam("Exposure", 0, -2, 2, func(f *filter.ExposureFilter, v float32) { f.Exposure = v }),
	),
	Highlights: entry(Highlights, newPtr[filter.HighlightsFilter],
		floatParam("Highlights", 0, -1, 1, func(f *filter.HighlightsFilter, v float32) { f.Highlights = v }),
		floatParam("Shadows", 0, -1, 1, func(f *filter.HighlightsFilter, v float32) { f.Shadows = v }),
		floatParam("Clarity", 0, -1, 1, func(f *filter.HighlightsFilter, v float32) { f.Clarity = v }),
		floatParam("MaskBlurAmount", 0.25, 0, 10, func(f *filter.HighlightsFilter, v float32) { f.MaskBlurAmount = v }),
	),
	Temperature: entry(Temperature, newMatrixOp(filter.NewTemperatureFilter),
		floatParam("Temperature", 0, -1, 1, setMatrixA),
		floatParam("Tint", 0, -1, 1, setMatrixB),
	),
	Contrast: entry(Contrast, newMatrixOp(func(amount, _ float32) *filter.ColorMatrixFilter {
		return filter.NewContrastFilter(filter.ContrastFactor(amount))
	}),
		floatParam("Contrast", 0, -1, 1, setMatrixA),
	),
	Saturation: entry(Saturation, newMatrixOp(func(s, _ float32) *filter.ColorMatrixFilter {
		return filter.NewSaturationFilter(s)
	}),
		floatParam("Saturation", 0.5, 0, 2, setMatrixA),
	),
	Grayscale: entry(Grayscale, func() filter.GrayscaleFilter { return filter.GrayscaleFilter{} }),
	Sepia: entry(Sepia, newMatrixOp(func(intensity, _ float32) *filter.ColorMatrixFilter {
		return filter.NewSepiaFilter(intensity)
	}),
		floatParam("Intensity", 0.5, 0, 1, setMatrixA),
	),
	Vignette: entry(Vignette, newPtr[filter.VignetteFilter],
		floatParam("Amount", 0.1, 0, 1, func(f *filter.VignetteFilter, v float32) { f.Amount = v }),
		floatParam("Curve", 0.5, 0, 1, func(f *filter.VignetteFilter, v float32) { f.Curve = v }),
	),
	Blur: entry(Blur, newPtr[filter.BlurFilter],
		floatParam("BlurAmount", 8, 0, 100, func(f *filter.BlurFilter, v float32) { f.SetRadius(float64(v)) }),
	).with(
		constant("BorderMode", IntValue(int32(filter.BorderHard)), func(f *filter.BlurFilter) { f.Border = filter.BorderHard }),
	),
	MotionBlur: entry(MotionBlur, newPtr[filter.MotionBlurFilter],
		floatParam("BlurAmount", 8, 0, 100, func(f *filter.MotionBlurFilter, v float32) { f.Radius = float64(v) }),
		floatParam("Angle", 0, 0, math.Pi, func(f *filter.MotionBlurFilter, v float32) { f.Angle = float64(v) }),
	).with(
		constant("BorderMode", IntValue(int32(filter.BorderHard)), func(f *filter.MotionBlurFilter) { f.Border = filter.BorderHard }),
	),
	Sharpen: entry(Sharpen, newPtr[filter.SharpenFilter],
		floatParam("Amount", 0, 0, 10, func(f *filter.SharpenFilter, v float32) { f.Amount = v }),
		floatParam("Threshold", 0, 0, 1, func(f *filter.SharpenFilter, v float32) { f.Threshold = v }),
	),
	EdgeDetection: entry(EdgeDetection, newPtr[filter.EdgeFilter],
		floatParam("Amount", 0.5, 0.01, 1, func(f *filter.EdgeFilter, v float32) { f.Amount = v }),
		floatParam("BlurAmount", 0, 0, 2, func(f *filter.EdgeFilter, v float32) { f.BlurAmount = v }),
		boolParam("OverlayEdges", false, func(f *filter.EdgeFilter, v bool) { f.OverlayEdges = v }),
	),
	Emboss: entry(Emboss, newPtr[filter.EmbossFilter],
		floatParam("Amount", 1, 0, 10, func(f *filter.EmbossFilter, v float32) { f.Amount = v }),
		floatParam("Angle", 0, 0, 2*math.Pi, func(f *filter.EmbossFilter, v float32) { f.Angle = v }),
	),
	Invert: entry(Invert, func() filter.InvertFilter { return filter.InvertFilter{} }),
	Posterize: entry(Posterize, newPtr[filter.PosterizeFilter],
		intParam("RedValueCount", 4, 2, 16, func(f *filter.PosterizeFilter, v int) { f.RedLevels = v }),
		intParam("GreenValueCount", 4, 2, 16, func(f *filter.PosterizeFilter, v int) { f.GreenLevels = v }),
		intParam("BlueValueCount", 4, 2, 16, func(f *filter.PosterizeFilter, v int) { f.BlueLevels = v }),
	),
	Straighten: entry(Straighten, newPtr[filter.StraightenFilter],
		floatParam("Angle", 0, -math.Pi/16, math.Pi/16, func(f *filter.StraightenFilter, v float32) { f.Angle = v }),
	).with(
		constant("MaintainSize", BoolValue(true), func(f *filter.StraightenFilter) { f.MaintainSize = true }),
	),
	Crop: entry(Crop, newPtr[filter.CropFilter],
		rectParam("SourceRectangle", Rect{}, func(f *filter.CropFilter, r image.Rectangle) { f.Rect = r }),
	),
}

// binding is a parameter whose setter is not yet tied to a kind.
type binding = func(kind EffectKind) *Parameter

func entry[F render.Op](kind EffectKind, newOp func() F, params ...binding) *CatalogEntry {
	e := &CatalogEntry{
		Kind:  kind,
		newOp: func() render.Op { return newOp() },
	}
	for _, bind := range params {
		e.Parameters = append(e.Parameters, bind(kind))
	}
	return e
}

func (e *CatalogEntry) with(constants ...Constant) *CatalogEntry {
	e.Constants = append(e.Constants, constants...)
	return e
}

func newPtr[T any]() *T { return new(T) }

func floatParam[F render.Op](name string, def, lo, hi float32, set func(F, float32)) binding {
	return func(kind EffectKind) *Parameter {
		return &Parameter{
			Name: name, Type: ValueFloat, Min: lo, Max: hi, Default: FloatValue(def), kind: kind,
			set: func(op render.Op, v Value) { set(op.(F), v.Float()) },
		}
	}
}

func intParam[F render.Op](name string, def, lo, hi int32, set func(F, int)) binding {
	return func(kind EffectKind) *Parameter {
		return &Parameter{
			Name: name, Type: ValueInt, Min: float32(lo), Max: float32(hi), Default: IntValue(def), kind: kind,
			set: func(op render.Op, v Value) { set(op.(F), int(v.Int())) },
		}
	}
}

func boolParam[F render.Op](name string, def bool, set func(F, bool)) binding {
	return func(kind EffectKind) *Parameter {
		return &Parameter{
			Name: name, Type: ValueBool, Default: BoolValue(def), kind: kind,
			set: func(op render.Op, v Value) { set(op.(F), v.Bool()) },
		}
	}
}

func rectParam[F render.Op](name string, def Rect, set func(F, image.Rectangle)) binding {
	return func(kind EffectKind) *Parameter {
		return &Parameter{
			Name: name, Type: ValueRect, Default: RectValue(def), kind: kind,
			set: func(op render.Op, v Value) { set(op.(F), v.Rect().Image()) },
		}
	}
}

func constant[F render.Op](name string, v Value, set func(F)) Constant {
	return Constant{
		Name:  name,
		Value: v,
		set:   func(op render.Op) { set(op.(F)) },
	}
}

// matrixOp collects up to two parameters and builds its color matrix when
// applied.
type matrixOp struct {
	a, b  float32
	build func(a, b float32) *filter.ColorMatrixFilter
}

func newMatrixOp(build func(a, b float32) *filter.ColorMatrixFilter) func() *matrixOp {
	return func() *matrixOp { return &matrixOp{build: build} }
}

func setMatrixA(m *matrixOp, v float32) { m.a = v }
func setMatrixB(m *matrixOp, v float32) { m.b = v }

func (m *matrixOp) Bounds(src image.Rectangle) image.Rectangle { return src }

func (m *matrixOp) Apply(src, dst *image.RGBA) { m.build(m.a, m.b).Apply(src, dst) }
