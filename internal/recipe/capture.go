package recipe

import (
	"strings"

	"github.com/gogpu/photoedit"
)

// Capture describes the groups of p as a recipe. Region expansion and
// feathering are kept, but mask pixels cannot be expressed as gestures
// and are dropped; use saved state to keep them.
func Capture(p *photoedit.Photo) *Recipe {
	rc := &Recipe{}
	for _, g := range p.Groups() {
		out := Group{Enabled: boolPtr(g.Enabled())}
		if r := g.Region(); r.Expand() != 0 || r.Feather() != 0 {
			out.Region = &Region{Expand: r.Expand(), Feather: r.Feather()}
		}
		for _, e := range g.Effects() {
			out.Effects = append(out.Effects, captureEffect(e))
		}
		rc.Groups = append(rc.Groups, out)
	}
	return rc
}

func captureEffect(e *photoedit.Effect) Effect {
	out := Effect{Kind: e.Kind().String(), Enabled: boolPtr(e.Enabled())}
	for _, p := range e.Entry().Parameters {
		v := e.Parameter(p)
		if v.Equal(p.Default) {
			continue
		}
		if out.Params == nil {
			out.Params = make(map[string]any)
		}
		out.Params[p.Name] = fromValue(v)
	}
	return out
}

func fromValue(v photoedit.Value) any {
	switch v.Kind() {
	case photoedit.ValueFloat:
		return float64(v.Float())
	case photoedit.ValueInt:
		return int(v.Int())
	case photoedit.ValueBool:
		return v.Bool()
	case photoedit.ValueColor:
		return strings.ToLower(formatColor(v.Color()))
	default:
		r := v.Rect()
		return []any{r.X, r.Y, r.W, r.H}
	}
}
