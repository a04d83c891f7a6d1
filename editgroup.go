package photoedit

import (
	"fmt"
	"image"
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/photoedit/render"
)

// EditGroup is an ordered chain of effects, optionally limited to the
// selection of its region.
type EditGroup struct {
	id      uuid.UUID
	photo   *Photo
	effects []*Effect
	region  *Region

	enabled    bool
	showRegion bool
}

func newEditGroup(p *Photo) *EditGroup {
	g := &EditGroup{
		id:         uuid.New(),
		photo:      p,
		enabled:    true,
		showRegion: true,
	}
	g.region = newRegion(g)
	return g
}

// ID returns a unique identifier for the group.
func (g *EditGroup) ID() uuid.UUID { return g.id }

// Photo returns the owning photo, or nil once the group is disposed.
func (g *EditGroup) Photo() *Photo { return g.photo }

// Region returns the group's selection.
func (g *EditGroup) Region() *Region { return g.region }

// Effects returns the effects in application order.
func (g *EditGroup) Effects() []*Effect { return slices.Clone(g.effects) }

// Enabled reports whether the group is applied.
func (g *EditGroup) Enabled() bool { return g.enabled }

// SetEnabled enables or disables the group.
func (g *EditGroup) SetEnabled(enabled bool) {
	if enabled == g.enabled {
		return
	}
	g.enabled = enabled
	g.notify("Enabled", PropertyChanged)
}

// ShowRegion reports whether the selection is displayed while editing.
func (g *EditGroup) ShowRegion() bool { return g.showRegion }

// SetShowRegion shows or hides the selection display.
func (g *EditGroup) SetShowRegion(show bool) {
	if show == g.showRegion {
		return
	}
	g.showRegion = show
	g.notify("ShowRegion", PropertyChanged)
}

// IsEditingRegion reports whether this is the photo's active group.
func (g *EditGroup) IsEditingRegion() bool {
	return g.photo != nil && g.photo.ActiveGroup() == g
}

// SetEditingRegion makes this the photo's active group, or clears the
// active group if this one is active.
func (g *EditGroup) SetEditingRegion(editing bool) {
	if g.photo == nil {
		return
	}
	switch {
	case editing:
		g.photo.SetActiveGroup(g)
	case g.IsEditingRegion():
		g.photo.SetActiveGroup(nil)
	}
}

// AddEffect appends a new effect of kind.
func (g *EditGroup) AddEffect(kind EffectKind) *Effect {
	e := NewEffect(kind)
	g.AppendEffect(e)
	return e
}

// AppendEffect moves e to the end of this group, removing it from its
// previous group.
func (g *EditGroup) AppendEffect(e *Effect) {
	if e.group != nil {
		e.group.removeEffect(e)
	}
	e.group = g
	g.effects = append(g.effects, e)
	g.notify("Effects", Inserted)
}

// InsertEffect inserts a new effect of kind at index i.
func (g *EditGroup) InsertEffect(i int, kind EffectKind) (*Effect, error) {
	if i < 0 || i > len(g.effects) {
		return nil, fmt.Errorf("photoedit: insert effect: index %d out of range [0, %d]", i, len(g.effects))
	}
	e := NewEffect(kind)
	e.group = g
	g.effects = slices.Insert(g.effects, i, e)
	g.notify("Effects", Inserted)
	return e, nil
}

// MoveEffect moves the effect at index from to index to.
func (g *EditGroup) MoveEffect(from, to int) error {
	n := len(g.effects)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("photoedit: move effect: index out of range [0, %d)", n)
	}
	if from == to {
		return nil
	}
	e := g.effects[from]
	g.effects = slices.Delete(g.effects, from, from+1)
	g.effects = slices.Insert(g.effects, to, e)
	g.notify("Effects", Moved)
	return nil
}

func (g *EditGroup) removeEffect(e *Effect) {
	i := slices.Index(g.effects, e)
	if i < 0 {
		return
	}
	g.effects = slices.Delete(g.effects, i, i+1)
	e.group = nil
	if p := g.photo; p != nil && p.selected == e {
		p.SetSelectedEffect(nil)
	}
	g.notify("Effects", Removed)
}

// Apply returns src processed by every effect in order. With a selection,
// processed pixels are kept only inside the mask and drawn over src, so
// pixels outside the mask are exactly those of src. A disabled group
// returns src.
func (g *EditGroup) Apply(src render.Image) render.Image {
	if !g.enabled {
		return src
	}
	img := src
	var bounds image.Rectangle
	cropped := false
	for _, e := range g.effects {
		var crop image.Rectangle
		var ok bool
		img, crop, ok = e.apply(img)
		if !ok {
			continue
		}
		if cropped {
			bounds = bounds.Intersect(crop)
		} else {
			bounds, cropped = crop, true
		}
	}

	mask := g.region.EffectiveMask()
	if mask == nil {
		return img
	}
	selected := render.Composite(render.DestinationIn, img, mask)
	img = render.Composite(render.SourceOver, src, selected)
	if cropped {
		img = render.Crop(img, bounds)
	}
	return img
}

// RegionDisplay returns the selection display for the group: the
// gray-out overlay and the border, or the border alone while a gesture is
// in progress. It returns nil when the group is disabled or not active,
// ShowRegion is off, there is no selection, or a replacing gesture is in
// progress.
func (g *EditGroup) RegionDisplay(zoom float64, editInProgress bool) render.Image {
	r := g.region
	if !g.enabled || !g.IsEditingRegion() || !g.showRegion || !r.HasMask() {
		return nil
	}
	if editInProgress && r.Operation() == SelectionReplace {
		return nil
	}
	border := r.Border(zoom)
	if editInProgress {
		return border
	}
	return render.Composite(render.SourceOver, r.Overlay(), border)
}

// Dispose removes the group from its photo together with its effects and
// region. Calling it again does nothing.
func (g *EditGroup) Dispose() {
	if g.photo == nil {
		return
	}
	g.photo.removeGroup(g)
}

func (g *EditGroup) notify(property string, op ChangeOp) {
	if g.photo != nil {
		g.photo.emit(Change{Source: g, Property: property, Op: op})
	}
}
