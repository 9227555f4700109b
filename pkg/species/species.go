// Package species holds tree families and species.
//
// A [Family] groups the blocks of one kind of tree (its branch and leaves)
// and knows which species grows where. A [Species] carries the growth rules
// for one variety: its leaf cell kit and its growth features.
//
// Species are resolved from a network's root. A root may declare its
// species outright. Otherwise its family is asked: each location override
// is consulted in registration order, the first non-nil answer wins, and
// the family's common species is the fallback. [Null] and [NullFamily] stand
// in when nothing resolves.
package species

import (
	"maps"
	"slices"
	"strings"

	"github.com/ferreusveritas/dynamictrees/pkg/cell"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/genfeature"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// DefaultNamespace is stripped from names on registration and lookup, so
// "dynamictrees:oak" and "oak" name the same species.
const DefaultNamespace = "dynamictrees"

// Species is one growable variety of a family.
type Species struct {
	Name   string
	Family *Family
	// CellKit overrides the family's kit when set.
	CellKit  string
	Features []genfeature.Feature
}

// NullFamily is the family of nothing.
var NullFamily = &Family{Name: "null"}

// Null is the species of nothing. Its family is [NullFamily].
var Null = &Species{Name: "null", Family: NullFamily}

// New returns a species of fam.
func New(name string, fam *Family) *Species {
	if fam == nil {
		fam = NullFamily
	}
	return &Species{Name: normalize(name), Family: fam}
}

// IsNull reports whether s is nil or [Null].
func (s *Species) IsNull() bool { return s == nil || s == Null }

// Kit returns the cell kit name the species' leaves use.
func (s *Species) Kit() string {
	if s.CellKit != "" {
		return s.CellKit
	}
	return s.Family.Kit
}

// Foliage returns the leaf rules a tick applies to a tree of s: leaves of
// its family use [Species.Kit] and the family's connectable plain leaves
// may be grown over. It returns nil for [Null].
func (s *Species) Foliage(parts *treepart.Registry) cell.Foliage {
	if s.IsNull() {
		return nil
	}
	return foliage{sp: s, parts: parts}
}

type foliage struct {
	sp    *Species
	parts *treepart.Registry
}

func (f foliage) LeafKit() string { return f.sp.Kit() }

func (f foliage) Dynamic(s voxel.State) bool {
	return f.sp.Family.IsCompatibleDynamicLeaves(f.parts, s)
}

func (f foliage) Compatible(s voxel.State) bool {
	return f.sp.Family.IsCompatibleGenericLeaves(f.parts, s)
}

// AddFeature appends a growth feature.
func (s *Species) AddFeature(f genfeature.Feature) {
	if s.IsNull() || f == nil {
		return
	}
	s.Features = append(s.Features, f)
}

// GenerateFeatures runs every feature in order against the grid.
func (s *Species) GenerateFeatures(g voxel.Grid, rng voxel.Rand, trunk voxel.Coord, ends []voxel.Coord) genfeature.Result {
	var total genfeature.Result
	if s.IsNull() {
		return total
	}
	for _, f := range s.Features {
		total = total.Add(f.Generate(g, rng, trunk, ends))
	}
	return total
}

func (s *Species) String() string { return s.Name }

// LocationOverride picks a species for a trunk position, or returns nil to
// defer to the next override.
type LocationOverride interface {
	SpeciesForLocation(r voxel.Reader, trunk voxel.Coord) *Species
}

// LocationOverrideFunc adapts a function to [LocationOverride].
type LocationOverrideFunc func(r voxel.Reader, trunk voxel.Coord) *Species

func (f LocationOverrideFunc) SpeciesForLocation(r voxel.Reader, trunk voxel.Coord) *Species {
	return f(r, trunk)
}

// SoilOverride selects Species when the block beneath the root is Soil.
// trunk is the first branch voxel, so the soil is two voxels below it.
type SoilOverride struct {
	Soil    string
	Species *Species
}

func (o SoilOverride) SpeciesForLocation(r voxel.Reader, trunk voxel.Coord) *Species {
	if r.State(trunk.Down().Down()).Block == o.Soil {
		return o.Species
	}
	return nil
}

// Family is a kind of tree.
type Family struct {
	Name        string
	BranchBlock string
	LeavesBlock string
	Kit         string

	common       *Species
	overrides    []LocationOverride
	connectables map[string]struct{}
}

// NewFamily returns a family with no species yet.
func NewFamily(name, branchBlock, leavesBlock, kit string) *Family {
	return &Family{
		Name:         normalize(name),
		BranchBlock:  branchBlock,
		LeavesBlock:  leavesBlock,
		Kit:          kit,
		connectables: make(map[string]struct{}),
	}
}

// IsNull reports whether f is nil or [NullFamily].
func (f *Family) IsNull() bool { return f == nil || f == NullFamily }

// CommonSpecies returns the default species, or [Null].
func (f *Family) CommonSpecies() *Species {
	if f.IsNull() || f.common == nil {
		return Null
	}
	return f.common
}

// SetCommonSpecies sets the fallback species. It is ignored on [NullFamily].
func (f *Family) SetCommonSpecies(s *Species) {
	if f.IsNull() {
		return
	}
	f.common = s
}

// AddSpeciesLocationOverride appends an override; earlier ones win.
func (f *Family) AddSpeciesLocationOverride(o LocationOverride) {
	if f.IsNull() || o == nil {
		return
	}
	f.overrides = append(f.overrides, o)
}

// SpeciesForLocation resolves the species for a tree whose trunk starts at
// trunk.
func (f *Family) SpeciesForLocation(r voxel.Reader, trunk voxel.Coord) *Species {
	if f.IsNull() {
		return Null
	}
	for _, o := range f.overrides {
		if s := o.SpeciesForLocation(r, trunk); s != nil {
			return s
		}
	}
	return f.CommonSpecies()
}

// AddConnectableVanillaLeaves lets plain (non-automaton) leaf blocks count
// as this family's foliage.
func (f *Family) AddConnectableVanillaLeaves(blocks ...string) {
	if f.IsNull() {
		return
	}
	if f.connectables == nil {
		f.connectables = make(map[string]struct{})
	}
	for _, b := range blocks {
		f.connectables[b] = struct{}{}
	}
}

// IsCompatibleDynamicLeaves reports whether s is an automaton leaf of this
// family.
func (f *Family) IsCompatibleDynamicLeaves(parts *treepart.Registry, s voxel.State) bool {
	p, ok := parts.Classify(s).(treepart.Leaves)
	return ok && !f.IsNull() && p.Family() == f.Name
}

// IsCompatibleVanillaLeaves reports whether s is a registered connectable
// plain leaf block.
func (f *Family) IsCompatibleVanillaLeaves(s voxel.State) bool {
	_, ok := f.connectables[s.Block]
	return ok
}

// IsCompatibleGenericLeaves accepts either kind of leaf.
func (f *Family) IsCompatibleGenericLeaves(parts *treepart.Registry, s voxel.State) bool {
	return f.IsCompatibleDynamicLeaves(parts, s) || f.IsCompatibleVanillaLeaves(s)
}

func (f *Family) String() string { return f.Name }

// Registry holds every family and species known to the engine.
type Registry struct {
	families map[string]*Family
	species  map[string]*Species
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]*Family),
		species:  make(map[string]*Species),
	}
}

// AddFamily registers f under its name.
func (r *Registry) AddFamily(f *Family) error {
	if f.IsNull() {
		return errors.New(errors.ErrCodeInvalidConfig, "cannot register the null family")
	}
	if err := errors.ValidateName("family", f.Name); err != nil {
		return err
	}
	if _, ok := r.families[f.Name]; ok {
		return errors.New(errors.ErrCodeInvalidConfig, "family %q already registered", f.Name)
	}
	r.families[f.Name] = f
	return nil
}

// AddSpecies registers s. Its family must already be registered.
func (r *Registry) AddSpecies(s *Species) error {
	if s.IsNull() {
		return errors.New(errors.ErrCodeInvalidConfig, "cannot register the null species")
	}
	if err := errors.ValidateName("species", s.Name); err != nil {
		return err
	}
	if s.Family.IsNull() || r.families[s.Family.Name] != s.Family {
		return errors.New(errors.ErrCodeInvalidConfig, "species %q: family not registered", s.Name)
	}
	if _, ok := r.species[s.Name]; ok {
		return errors.New(errors.ErrCodeInvalidConfig, "species %q already registered", s.Name)
	}
	r.species[s.Name] = s
	return nil
}

// LookupFamily returns the named family.
func (r *Registry) LookupFamily(name string) (*Family, bool) {
	f, ok := r.families[normalize(name)]
	return f, ok
}

// LookupSpecies returns the named species.
func (r *Registry) LookupSpecies(name string) (*Species, bool) {
	s, ok := r.species[normalize(name)]
	return s, ok
}

// Family returns the named family or [NullFamily].
func (r *Registry) Family(name string) *Family {
	if f, ok := r.LookupFamily(name); ok {
		return f
	}
	return NullFamily
}

// Species returns the named species or [Null].
func (r *Registry) Species(name string) *Species {
	if s, ok := r.LookupSpecies(name); ok {
		return s
	}
	return Null
}

// FamilyNames returns the registered family names, sorted.
func (r *Registry) FamilyNames() []string {
	return slices.Sorted(maps.Keys(r.families))
}

// SpeciesNames returns the registered species names, sorted.
func (r *Registry) SpeciesNames() []string {
	return slices.Sorted(maps.Keys(r.species))
}

func normalize(name string) string {
	return strings.TrimPrefix(name, DefaultNamespace+":")
}
