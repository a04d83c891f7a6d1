// Package recipe reads and writes edit stacks as YAML.
//
// A recipe lists edit groups in order. Each group has its effects with the
// parameter values that differ from the defaults, and optionally a region
// described by selection gestures:
//
//	groups:
//	  - effects:
//	      - kind: Exposure
//	        params: {Exposure: 0.5}
//	  - region:
//	      feather: 2
//	      selections:
//	        - {mode: rectangle, points: [[10, 10], [200, 120]]}
//	    effects:
//	      - kind: Grayscale
package recipe

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for recipes that cannot be applied.
var ErrInvalid = errors.New("recipe: invalid")

// Recipe is an ordered list of edit groups.
type Recipe struct {
	Groups []Group `yaml:"groups"`
}

// Group is one edit group. A missing Enabled means enabled.
type Group struct {
	Enabled *bool    `yaml:"enabled,omitempty"`
	Region  *Region  `yaml:"region,omitempty"`
	Effects []Effect `yaml:"effects,omitempty"`
}

// Region describes a selection by the gestures that draw it.
type Region struct {
	Expand     int         `yaml:"expand,omitempty"`
	Feather    float32     `yaml:"feather,omitempty"`
	Selections []Selection `yaml:"selections,omitempty"`
}

// Selection is one committed gesture. Points are in image pixels.
type Selection struct {
	Mode      string       `yaml:"mode"`
	Operation string       `yaml:"operation,omitempty"`
	Points    [][2]float64 `yaml:"points,flow"`
	Zoom      float64      `yaml:"zoom,omitempty"`
}

// Effect is one effect with its non-default parameter values, keyed by
// parameter name. Values are numbers, booleans, "#rrggbb[aa]" colors and
// [x, y, w, h] rectangles.
type Effect struct {
	Kind    string         `yaml:"kind"`
	Enabled *bool          `yaml:"enabled,omitempty"`
	Params  map[string]any `yaml:"params,omitempty,flow"`
}

// Decode reads a recipe. Unknown fields are rejected.
func Decode(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rc Recipe
	if err := dec.Decode(&rc); err != nil {
		if errors.Is(err, io.EOF) {
			return &rc, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &rc, nil
}

// Encode writes rc as YAML.
func (rc *Recipe) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rc); err != nil {
		return fmt.Errorf("recipe: encode: %w", err)
	}
	return enc.Close()
}

func enabled(b *bool) bool { return b == nil || *b }

func boolPtr(b bool) *bool {
	if b {
		return nil
	}
	return &b
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func normalize(s string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
}
