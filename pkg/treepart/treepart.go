// Package treepart classifies voxels by the role they play in a tree.
//
// Every block the engine cares about maps to a [Part] through a [Registry].
// Call sites switch on [Part.Kind] and type-assert to the concrete variant
// when they need variant behaviour (a branch's connection rule, a root's
// species, a leaf's cell kit). Blocks that are not registered classify as
// [None].
package treepart

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// Kind is the role of a voxel in a branch network.
type Kind int

const (
	KindNone Kind = iota
	KindBranch
	KindRoot
	KindLeaves
)

func (k Kind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindRoot:
		return "root"
	case KindLeaves:
		return "leaves"
	default:
		return "none"
	}
}

// Part is the behaviour shared by every voxel role.
type Part interface {
	Kind() Kind
	// Family is the tree family the part belongs to, or "".
	Family() string
	// Radius is the connection radius the voxel presents; 0 means it does
	// not carry branch thickness.
	Radius(s voxel.State) int
}

// PropSpecies is the state property a root uses to declare its species.
const PropSpecies = "species"

// Branch is a trunk or limb voxel.
type Branch struct {
	FamilyName string
	MaxRadius  int
}

func (b Branch) Kind() Kind     { return KindBranch }
func (b Branch) Family() string { return b.FamilyName }

// Radius clamps the stored radius into [1, MaxRadius].
func (b Branch) Radius(s voxel.State) int {
	r := max(s.Radius, 1)
	if b.MaxRadius > 0 {
		r = min(r, b.MaxRadius)
	}
	return r
}

// Connects reports whether a signal may pass from b into other. Branches
// join roots of any family and branches of their own family.
func (b Branch) Connects(other Part) bool {
	switch o := other.(type) {
	case Root:
		return true
	case Branch:
		return b.FamilyName == "" || o.FamilyName == "" || b.FamilyName == o.FamilyName
	default:
		return false
	}
}

// Root is the soil block a network grows from. It ends every inward search.
type Root struct {
	FamilyName string
}

func (r Root) Kind() Kind             { return KindRoot }
func (r Root) Family() string         { return r.FamilyName }
func (r Root) Radius(voxel.State) int { return 0 }

// Species returns the species name declared on the root state, or "".
func (r Root) Species(s voxel.State) string {
	return s.Prop(PropSpecies)
}

// Leaves is a leaf voxel. Its cell value lives in the state's Hydro.
type Leaves struct {
	FamilyName string
	// Kit names the cell kit that drives this leaf's automaton rules.
	Kit string
}

func (l Leaves) Kind() Kind             { return KindLeaves }
func (l Leaves) Family() string         { return l.FamilyName }
func (l Leaves) Radius(voxel.State) int { return 0 }

// Hydro returns the leaf cell value.
func (l Leaves) Hydro(s voxel.State) int { return max(s.Hydro, 0) }

// None is the part of air and of blocks that play no role in a tree.
type None struct{}

func (None) Kind() Kind             { return KindNone }
func (None) Family() string         { return "" }
func (None) Radius(voxel.State) int { return 0 }

// Registry maps block names to parts.
type Registry struct {
	parts map[string]Part
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parts: make(map[string]Part)}
}

// Register binds block to p. Each block may be registered once.
func (r *Registry) Register(block string, p Part) error {
	if block == "" || block == voxel.BlockAir {
		return errors.New(errors.ErrCodeInvalidConfig, "cannot register tree part for %q", block)
	}
	if p == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "nil tree part for %q", block)
	}
	if prev, ok := r.parts[block]; ok {
		return errors.New(errors.ErrCodeInvalidConfig, "block %q already registered as %s", block, prev.Kind())
	}
	r.parts[block] = p
	return nil
}

// MustRegister is Register for static setup; it panics on error.
func (r *Registry) MustRegister(block string, p Part) {
	if err := r.Register(block, p); err != nil {
		panic(fmt.Sprintf("treepart: %v", err))
	}
}

// Lookup returns the part registered for block.
func (r *Registry) Lookup(block string) (Part, bool) {
	p, ok := r.parts[block]
	return p, ok
}

// Classify returns the part for a voxel state. It never returns nil.
func (r *Registry) Classify(s voxel.State) Part {
	if s.IsAir() {
		return None{}
	}
	if p, ok := r.parts[s.Block]; ok {
		return p
	}
	return None{}
}

// Blocks returns the registered block names, sorted.
func (r *Registry) Blocks() []string {
	return slices.Sorted(maps.Keys(r.parts))
}
