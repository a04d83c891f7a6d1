package photoedit

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/photoedit/render"
)

// EffectKind identifies an entry of the effect catalog. Values are stable
// and written to saved state.
type EffectKind int32

const (
	Exposure EffectKind = iota
	Highlights
	Temperature
	Contrast
	Saturation
	Grayscale
	Sepia
	Vignette
	Blur
	MotionBlur
	Sharpen
	EdgeDetection
	Emboss
	Invert
	Posterize
	Straighten
	Crop

	numKinds
)

var kindNames = [numKinds]string{
	Exposure:      "Exposure",
	Highlights:    "Highlights",
	Temperature:   "Temperature",
	Contrast:      "Contrast",
	Saturation:    "Saturation",
	Grayscale:     "Grayscale",
	Sepia:         "Sepia",
	Vignette:      "Vignette",
	Blur:          "Blur",
	MotionBlur:    "MotionBlur",
	Sharpen:       "Sharpen",
	EdgeDetection: "EdgeDetection",
	Emboss:        "Emboss",
	Invert:        "Invert",
	Posterize:     "Posterize",
	Straighten:    "Straighten",
	Crop:          "Crop",
}

// String returns the kind identifier.
func (k EffectKind) String() string {
	if k.valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("EffectKind(%d)", int32(k))
}

// DisplayName returns a human readable name, "Edge Detection" for
// EdgeDetection.
func (k EffectKind) DisplayName() string { return displayName(k.String()) }

func (k EffectKind) valid() bool { return k >= 0 && k < numKinds }

// Kinds returns every effect kind in catalog order.
func Kinds() []EffectKind {
	kinds := make([]EffectKind, numKinds)
	for i := range kinds {
		kinds[i] = EffectKind(i)
	}
	return kinds
}

// ParseEffectKind finds a kind by identifier, ignoring case.
func ParseEffectKind(name string) (EffectKind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return EffectKind(k), nil
		}
	}
	return 0, fmt.Errorf("photoedit: %w: %q", ErrUnknownKind, name)
}

// Parameter describes one user-editable property of an effect kind.
type Parameter struct {
	// Name is the property identifier, unique within its kind.
	Name string

	Type ValueKind

	// Min and Max bound Float and Int values.
	Min, Max float32

	Default Value

	kind EffectKind
	set  func(op render.Op, v Value)
}

// Kind returns the effect kind the parameter belongs to.
func (p *Parameter) Kind() EffectKind { return p.kind }

// Key returns the qualified name "Kind.Name" used for notifications and
// saved state.
func (p *Parameter) Key() string { return p.kind.String() + "." + p.Name }

// DisplayName returns a human readable name, "Mask Blur Amount" for
// MaskBlurAmount.
func (p *Parameter) DisplayName() string { return displayName(p.Name) }

// Clamp converts v to the parameter type and limits numbers to
// [Min, Max]. The second result is false when v had to be changed.
func (p *Parameter) Clamp(v Value) (Value, bool) {
	out, ok := v.convert(p.Type)
	switch p.Type {
	case ValueFloat:
		if f := min(max(out.f, p.Min), p.Max); f != out.f {
			out.f, ok = f, false
		}
	case ValueInt:
		if i := min(max(out.i, int32(p.Min)), int32(p.Max)); i != out.i {
			out.i, ok = i, false
		}
	}
	return out, ok
}

// Constant is a property an effect kind always sets to a fixed value.
type Constant struct {
	Name  string
	Value Value

	set func(op render.Op)
}

// CatalogEntry binds an effect kind to its filter and parameter schema.
type CatalogEntry struct {
	Kind       EffectKind
	Parameters []*Parameter
	Constants  []Constant

	newOp func() render.Op
}

// Parameter returns the parameter with the given name, ignoring case.
func (e *CatalogEntry) Parameter(name string) (*Parameter, bool) {
	for _, p := range e.Parameters {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// build creates a filter with every parameter taken from get and every
// constant applied.
func (e *CatalogEntry) build(get func(*Parameter) Value) render.Op {
	op := e.newOp()
	for _, p := range e.Parameters {
		p.set(op, get(p))
	}
	for _, c := range e.Constants {
		c.set(op)
	}
	return op
}

// Catalog returns the entry for kind.
func Catalog(kind EffectKind) (*CatalogEntry, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("photoedit: %w: %d", ErrUnknownKind, int32(kind))
	}
	return catalog[kind], nil
}

// displayName splits a CamelCase identifier into title-cased words.
func displayName(ident string) string {
	var b strings.Builder
	runes := []rune(ident)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) ||
			i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.English).String(b.String())
}
