package recipe

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/photoedit"
)

// Apply replaces the groups of p with those of the recipe. Selections are
// committed against the loaded image, so p must have one. The recipe is
// checked completely before p is changed; a device error while drawing
// selections can still leave p partly rebuilt.
func (rc *Recipe) Apply(p *photoedit.Photo) error {
	if !p.Loaded() {
		return photoedit.ErrNoImage
	}
	plans := make([]groupPlan, len(rc.Groups))
	for i, g := range rc.Groups {
		plan, err := planGroup(g)
		if err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		plans[i] = plan
	}

	for _, g := range p.Groups() {
		g.Dispose()
	}
	for i, plan := range plans {
		if err := plan.build(p.AddGroup()); err != nil {
			return fmt.Errorf("recipe: group %d: %w", i, err)
		}
	}
	return nil
}

type groupPlan struct {
	enabled    bool
	expand     int
	feather    float32
	selections []selectionPlan
	effects    []effectPlan
}

type selectionPlan struct {
	mode   photoedit.SelectionMode
	op     photoedit.SelectionOperation
	points []r2.Vec
	zoom   float64
}

type effectPlan struct {
	kind    photoedit.EffectKind
	enabled bool
	values  []paramValue
}

type paramValue struct {
	param *photoedit.Parameter
	value photoedit.Value
}

func planGroup(g Group) (groupPlan, error) {
	plan := groupPlan{enabled: enabled(g.Enabled)}
	if r := g.Region; r != nil {
		plan.expand, plan.feather = r.Expand, r.Feather
		for i, s := range r.Selections {
			sp, err := planSelection(s)
			if err != nil {
				return plan, fmt.Errorf("selection %d: %w", i, err)
			}
			plan.selections = append(plan.selections, sp)
		}
	}
	for i, e := range g.Effects {
		ep, err := planEffect(e)
		if err != nil {
			return plan, fmt.Errorf("effect %d: %w", i, err)
		}
		plan.effects = append(plan.effects, ep)
	}
	return plan, nil
}

func (plan groupPlan) build(g *photoedit.EditGroup) error {
	g.SetEnabled(plan.enabled)
	r := g.Region()
	r.SetExpand(plan.expand)
	r.SetFeather(plan.feather)
	for _, s := range plan.selections {
		r.SetMode(s.mode)
		r.BeginEdit(s.points[0])
		r.AddPoints(s.points[1:]...)
		if err := r.Commit(s.op, s.zoom); err != nil {
			return err
		}
	}
	for _, ep := range plan.effects {
		e := g.AddEffect(ep.kind)
		e.SetEnabled(ep.enabled)
		for _, pv := range ep.values {
			e.SetParameter(pv.param, pv.value)
		}
	}
	return nil
}

var modes = map[string]photoedit.SelectionMode{
	"rectangle": photoedit.ModeRectangle,
	"ellipse":   photoedit.ModeEllipse,
	"freehand":  photoedit.ModeFreehand,
	"magicwand": photoedit.ModeMagicWand,
}

var operations = map[string]photoedit.SelectionOperation{
	"":         photoedit.SelectionReplace,
	"replace":  photoedit.SelectionReplace,
	"add":      photoedit.SelectionAdd,
	"subtract": photoedit.SelectionSubtract,
	"invert":   photoedit.SelectionInvert,
}

func planSelection(s Selection) (selectionPlan, error) {
	mode, ok := modes[normalize(s.Mode)]
	if !ok {
		return selectionPlan{}, invalid("selection mode %q", s.Mode)
	}
	op, ok := operations[normalize(s.Operation)]
	if !ok {
		return selectionPlan{}, invalid("selection operation %q", s.Operation)
	}
	if len(s.Points) == 0 {
		return selectionPlan{}, invalid("selection without points")
	}
	sp := selectionPlan{mode: mode, op: op, zoom: s.Zoom}
	if sp.zoom <= 0 {
		sp.zoom = 1
	}
	for _, pt := range s.Points {
		sp.points = append(sp.points, r2.Vec{X: pt[0], Y: pt[1]})
	}
	return sp, nil
}

func planEffect(e Effect) (effectPlan, error) {
	kind, err := photoedit.ParseEffectKind(e.Kind)
	if err != nil {
		return effectPlan{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	entry, _ := photoedit.Catalog(kind)
	ep := effectPlan{kind: kind, enabled: enabled(e.Enabled)}
	for name, raw := range e.Params {
		p, ok := entry.Parameter(name)
		if !ok {
			return ep, invalid("%v has no parameter %q", kind, name)
		}
		v, err := toValue(p.Type, raw)
		if err != nil {
			return ep, fmt.Errorf("%s: %w", p.Key(), err)
		}
		ep.values = append(ep.values, paramValue{p, v})
	}
	return ep, nil
}

// toValue converts a decoded YAML scalar or sequence to a value of kind.
func toValue(kind photoedit.ValueKind, raw any) (photoedit.Value, error) {
	switch kind {
	case photoedit.ValueFloat:
		if f, ok := number(raw); ok {
			return photoedit.FloatValue(float32(f)), nil
		}
	case photoedit.ValueInt:
		if f, ok := number(raw); ok && f == math.Trunc(f) {
			return photoedit.IntValue(int32(f)), nil
		}
	case photoedit.ValueBool:
		if b, ok := raw.(bool); ok {
			return photoedit.BoolValue(b), nil
		}
	case photoedit.ValueColor:
		if s, ok := raw.(string); ok {
			return parseColor(s)
		}
	case photoedit.ValueRect:
		if seq, ok := raw.([]any); ok && len(seq) == 4 {
			var v [4]float64
			for i, x := range seq {
				f, ok := number(x)
				if !ok {
					return photoedit.Value{}, invalid("rectangle component %v", x)
				}
				v[i] = f
			}
			return photoedit.RectValue(photoedit.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}), nil
		}
	}
	return photoedit.Value{}, invalid("%v is not a %v", raw, kind)
}

func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// parseColor reads "#rrggbb" or "#rrggbbaa". Alpha defaults to opaque and
// the result is premultiplied.
func parseColor(s string) (photoedit.Value, error) {
	alpha := uint8(255)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(strings.ToLower(s[7:]), "%02x", &a); err != nil {
			return photoedit.Value{}, invalid("color %q", s)
		}
		alpha, s = a, s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return photoedit.Value{}, invalid("color %q", s)
	}
	r, g, b := c.RGB255()
	return photoedit.ColorValue(color.RGBA{
		R: premul(r, alpha), G: premul(g, alpha), B: premul(b, alpha), A: alpha,
	}), nil
}

func premul(c, a uint8) uint8 { return uint8((uint32(c)*uint32(a) + 127) / 255) }

// formatColor is the inverse of parseColor.
func formatColor(c color.RGBA) string {
	if c.A == 0 {
		return "#00000000"
	}
	straight := colorful.Color{
		R: float64(c.R) / float64(c.A),
		G: float64(c.G) / float64(c.A),
		B: float64(c.B) / float64(c.A),
	}.Clamped()
	if c.A == 255 {
		return straight.Hex()
	}
	return fmt.Sprintf("%s%02x", straight.Hex(), c.A)
}
