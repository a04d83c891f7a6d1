package photoedit

import (
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gogpu/photoedit/render"
)

// paramKey identifies a stored parameter value. Values for other kinds are
// kept when the effect kind changes, so switching back restores them.
type paramKey struct {
	kind EffectKind
	name string
}

func (k paramKey) String() string { return k.kind.String() + "." + k.name }

// Effect is one configured instance of a catalog entry. Only values that
// differ from the catalog default are stored.
type Effect struct {
	id      uuid.UUID
	group   *EditGroup
	kind    EffectKind
	enabled bool
	values  map[paramKey]Value
}

// NewEffect creates an enabled effect that belongs to no group. Add it to
// a group with EditGroup.AppendEffect.
func NewEffect(kind EffectKind) *Effect {
	return &Effect{
		id:      uuid.New(),
		kind:    kind,
		enabled: true,
		values:  make(map[paramKey]Value),
	}
}

// ID returns a unique identifier for the effect.
func (e *Effect) ID() uuid.UUID { return e.id }

// Group returns the owning group, or nil.
func (e *Effect) Group() *EditGroup { return e.group }

// Kind returns the effect kind.
func (e *Effect) Kind() EffectKind { return e.kind }

// SetKind changes the effect kind. Parameter values of the previous kind
// are kept but no longer visible.
func (e *Effect) SetKind(kind EffectKind) error {
	if _, err := Catalog(kind); err != nil {
		return err
	}
	if kind == e.kind {
		return nil
	}
	e.kind = kind
	e.notify("Kind")
	return nil
}

// Enabled reports whether the effect is applied.
func (e *Effect) Enabled() bool { return e.enabled }

// SetEnabled enables or disables the effect.
func (e *Effect) SetEnabled(enabled bool) {
	if enabled == e.enabled {
		return
	}
	e.enabled = enabled
	e.notify("Enabled")
}

// Entry returns the catalog entry of the current kind.
func (e *Effect) Entry() *CatalogEntry {
	entry, _ := Catalog(e.kind)
	return entry
}

// Parameter returns the stored value of p, or p.Default. Values are keyed
// by the kind p belongs to, which need not be the current kind.
func (e *Effect) Parameter(p *Parameter) Value {
	if v, ok := e.values[paramKey{p.kind, p.Name}]; ok {
		return v
	}
	return p.Default
}

// SetParameter stores v for p under the kind p belongs to. The value is
// converted to p.Type and, unless the photo disables it, clamped to
// [p.Min, p.Max]. Storing the default removes the entry.
func (e *Effect) SetParameter(p *Parameter, v Value) {
	key := paramKey{p.kind, p.Name}

	var stored Value
	var exact bool
	if e.clamps() {
		stored, exact = p.Clamp(v)
	} else {
		stored, exact = v.convert(p.Type)
	}
	if !exact {
		e.logger().Warn("photoedit: parameter value coerced", "param", key.String(), "value", v, "stored", stored)
	}

	if stored.Equal(p.Default) {
		delete(e.values, key)
	} else {
		e.values[key] = stored
	}
	e.notify(key.String())
}

// Apply returns src processed by the effect. A disabled effect returns src.
func (e *Effect) Apply(src render.Image) render.Image {
	img, _, _ := e.apply(src)
	return img
}

// apply also reports the crop rectangle of an enabled Crop effect.
func (e *Effect) apply(src render.Image) (out render.Image, crop image.Rectangle, cropped bool) {
	if !e.enabled {
		return src, image.Rectangle{}, false
	}
	entry := e.Entry()
	if entry == nil {
		return src, image.Rectangle{}, false
	}
	op := entry.build(e.Parameter)

	if e.kind == Crop {
		crop = e.Parameter(entry.Parameters[0]).Rect().Image()
		cropped = !crop.Empty()
	}
	e.logger().Debug("photoedit: effect node", "kind", e.kind)
	return render.Filter(src, op), crop, cropped
}

// Dispose removes the effect from its group. Calling it again, or on an
// effect without a group, does nothing.
func (e *Effect) Dispose() {
	if e.group == nil {
		return
	}
	e.group.removeEffect(e)
}

func (e *Effect) clamps() bool {
	if p := e.photo(); p != nil {
		return p.opts.clamp
	}
	return true
}

func (e *Effect) photo() *Photo {
	if e.group == nil {
		return nil
	}
	return e.group.photo
}

func (e *Effect) logger() *slog.Logger {
	if p := e.photo(); p != nil {
		return p.logger()
	}
	return Logger()
}

func (e *Effect) notify(property string) {
	if p := e.photo(); p != nil {
		p.emit(Change{Source: e, Property: property, Op: PropertyChanged})
	}
}
