package photoedit

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// ValueKind is the type of a parameter value.
type ValueKind uint8

const (
	ValueFloat ValueKind = iota
	ValueInt
	ValueBool
	ValueColor
	ValueRect
)

// String returns the kind name as written in saved state.
func (k ValueKind) String() string {
	switch k {
	case ValueFloat:
		return "Single"
	case ValueInt:
		return "Int32"
	case ValueBool:
		return "Boolean"
	case ValueColor:
		return "Color"
	case ValueRect:
		return "Rect"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

func parseValueKind(tag string) (ValueKind, bool) {
	for k := ValueFloat; k <= ValueRect; k++ {
		if k.String() == tag {
			return k, true
		}
	}
	return 0, false
}

// Rect is a rectangle in image pixels. The zero Rect means "no rectangle".
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Image returns the smallest pixel rectangle covering r.
func (r Rect) Image() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
}

// Value is a tagged parameter value.
type Value struct {
	kind ValueKind
	f    float32
	i    int32
	b    bool
	c    color.RGBA
	r    Rect
}

// FloatValue returns a Float value.
func FloatValue(v float32) Value { return Value{kind: ValueFloat, f: v} }

// IntValue returns an Int value.
func IntValue(v int32) Value { return Value{kind: ValueInt, i: v} }

// BoolValue returns a Bool value.
func BoolValue(v bool) Value { return Value{kind: ValueBool, b: v} }

// ColorValue returns a Color value.
func ColorValue(c color.RGBA) Value { return Value{kind: ValueColor, c: c} }

// RectValue returns a Rect value.
func RectValue(r Rect) Value { return Value{kind: ValueRect, r: r} }

// Kind returns the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns v as a float. Ints convert, bools are 0 or 1.
func (v Value) Float() float32 {
	switch v.kind {
	case ValueFloat:
		return v.f
	case ValueInt:
		return float32(v.i)
	case ValueBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Int returns v as an int, rounding floats to the nearest integer.
func (v Value) Int() int32 {
	switch v.kind {
	case ValueInt:
		return v.i
	case ValueFloat:
		return int32(math.Round(float64(v.f)))
	case ValueBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Bool returns v as a bool. Numbers are true when non-zero.
func (v Value) Bool() bool {
	switch v.kind {
	case ValueBool:
		return v.b
	case ValueFloat:
		return v.f != 0
	case ValueInt:
		return v.i != 0
	}
	return false
}

// Color returns the color of a Color value.
func (v Value) Color() color.RGBA { return v.c }

// Rect returns the rectangle of a Rect value.
func (v Value) Rect() Rect { return v.r }

// Equal reports whether v and w have the same kind and value.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case ValueFloat:
		return v.f == w.f
	case ValueInt:
		return v.i == w.i
	case ValueBool:
		return v.b == w.b
	case ValueColor:
		return v.c == w.c
	case ValueRect:
		return v.r == w.r
	}
	return false
}

// String formats the value for logs and the CLI.
func (v Value) String() string {
	switch v.kind {
	case ValueFloat:
		return fmt.Sprintf("%g", v.f)
	case ValueInt:
		return fmt.Sprintf("%d", v.i)
	case ValueBool:
		return fmt.Sprintf("%t", v.b)
	case ValueColor:
		return fmt.Sprintf("#%02x%02x%02x%02x", v.c.R, v.c.G, v.c.B, v.c.A)
	case ValueRect:
		return fmt.Sprintf("(%g,%g %gx%g)", v.r.X, v.r.Y, v.r.W, v.r.H)
	}
	return "?"
}

// convert returns v as kind. Numbers and bools convert between each other;
// colors and rectangles only convert to themselves, anything else yields
// the zero value of kind. ok is false when information was lost.
func (v Value) convert(kind ValueKind) (out Value, ok bool) {
	if v.kind == kind {
		return v, true
	}
	numeric := v.kind <= ValueBool
	switch kind {
	case ValueFloat:
		return FloatValue(v.Float()), numeric
	case ValueInt:
		return IntValue(v.Int()), numeric && v.kind != ValueFloat
	case ValueBool:
		return BoolValue(v.Bool()), numeric
	default:
		return Value{kind: kind}, false
	}
}
