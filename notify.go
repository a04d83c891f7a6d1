package photoedit

import "slices"

// ChangeOp classifies a change notification.
type ChangeOp uint8

const (
	// PropertyChanged reports a new value for Change.Property.
	PropertyChanged ChangeOp = iota

	// Inserted reports an element added to the collection named by
	// Change.Property.
	Inserted

	// Removed reports an element removed from a collection.
	Removed

	// Moved reports an element moved within a collection.
	Moved

	// Reset reports that a collection was replaced wholesale.
	Reset
)

// String returns the operation name.
func (op ChangeOp) String() string {
	switch op {
	case PropertyChanged:
		return "PropertyChanged"
	case Inserted:
		return "Inserted"
	case Removed:
		return "Removed"
	case Moved:
		return "Moved"
	case Reset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// Change describes a mutation anywhere in a photo.
//
// Source is the *Photo, *EditGroup, *Effect or *Region that changed.
// Property is the property or collection name. Effect parameters use their
// qualified name, for example "Contrast.Contrast". Collections are
// "Groups" and "Effects".
type Change struct {
	Source   any
	Property string
	Op       ChangeOp
}

type observer struct {
	id int
	fn func(Change)
}

// observers is the single notification sink of a photo. Every emitted
// change also bumps the revision.
type observers struct {
	list     []observer
	nextID   int
	revision uint64
}

func (o *observers) add(fn func(Change)) (cancel func()) {
	id := o.nextID
	o.nextID++
	o.list = append(o.list, observer{id: id, fn: fn})
	return func() {
		o.list = slices.DeleteFunc(o.list, func(ob observer) bool { return ob.id == id })
	}
}

func (o *observers) emit(c Change) {
	o.revision++
	// Observers may cancel themselves while being notified.
	for _, ob := range slices.Clone(o.list) {
		ob.fn(c)
	}
}
