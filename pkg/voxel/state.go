package voxel

import "maps"

// BlockAir is the block name of an empty voxel. The zero State is also empty.
const BlockAir = "air"

// State is the full state of one voxel as stored by the world.
type State struct {
	Block string `json:"block"`
	// Radius is the branch thickness, 1..8 for branch blocks.
	Radius int `json:"radius,omitempty"`
	// Hydro is the leaf cell value for leaf blocks.
	Hydro int               `json:"hydro,omitempty"`
	Props map[string]string `json:"props,omitempty"`
}

// Air is the empty state.
var Air = State{}

// IsAir reports whether the state occupies no space.
func (s State) IsAir() bool {
	return s.Block == "" || s.Block == BlockAir
}

// Prop returns a block property, or "" when unset.
func (s State) Prop(key string) string {
	return s.Props[key]
}

// WithProp returns a copy of s with the property set. s is not modified.
func (s State) WithProp(key, value string) State {
	props := make(map[string]string, len(s.Props)+1)
	maps.Copy(props, s.Props)
	props[key] = value
	s.Props = props
	return s
}

func (s State) WithRadius(r int) State {
	s.Radius = r
	return s
}

func (s State) WithHydro(h int) State {
	s.Hydro = h
	return s
}

// Equal reports whether two states describe the same voxel contents.
func (s State) Equal(o State) bool {
	if s.IsAir() && o.IsAir() {
		return true
	}
	return s.Block == o.Block && s.Radius == o.Radius && s.Hydro == o.Hydro &&
		maps.Equal(s.Props, o.Props)
}
