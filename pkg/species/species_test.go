package species

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/genfeature"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

func oakRegistry(t *testing.T) (*Registry, *Family) {
	t.Helper()
	r := NewRegistry()
	oak := NewFamily("oak", "oak_branch", "oak_leaves", "deciduous")
	if err := r.AddFamily(oak); err != nil {
		t.Fatal(err)
	}
	common := New("oak", oak)
	swamp := New("dynamictrees:swamp_oak", oak)
	for _, s := range []*Species{common, swamp} {
		if err := r.AddSpecies(s); err != nil {
			t.Fatal(err)
		}
	}
	oak.SetCommonSpecies(common)
	oak.AddSpeciesLocationOverride(SoilOverride{Soil: "water", Species: swamp})
	return r, oak
}

func TestSpeciesForLocation(t *testing.T) {
	r, oak := oakRegistry(t)
	g := voxel.NewMemGrid()
	trunk := voxel.Coord{Y: 1}

	if got := oak.SpeciesForLocation(g, trunk); got != r.Species("oak") {
		t.Errorf("SpeciesForLocation(dry) = %v, want oak", got)
	}

	g.SetState(voxel.Coord{Y: -1}, voxel.State{Block: "water"})
	if got := oak.SpeciesForLocation(g, trunk); got.Name != "swamp_oak" {
		t.Errorf("SpeciesForLocation(wet) = %v, want swamp_oak", got)
	}
}

func TestOverridesFirstNonNilWins(t *testing.T) {
	fam := NewFamily("birch", "birch_branch", "birch_leaves", "deciduous")
	a, b := New("a", fam), New("b", fam)
	var calls []string
	fam.AddSpeciesLocationOverride(LocationOverrideFunc(func(voxel.Reader, voxel.Coord) *Species {
		calls = append(calls, "nil")
		return nil
	}))
	fam.AddSpeciesLocationOverride(LocationOverrideFunc(func(voxel.Reader, voxel.Coord) *Species {
		calls = append(calls, "a")
		return a
	}))
	fam.AddSpeciesLocationOverride(LocationOverrideFunc(func(voxel.Reader, voxel.Coord) *Species {
		calls = append(calls, "b")
		return b
	}))

	if got := fam.SpeciesForLocation(voxel.NewMemGrid(), voxel.Coord{}); got != a {
		t.Errorf("SpeciesForLocation() = %v, want a", got)
	}
	if diff := cmp.Diff([]string{"nil", "a"}, calls); diff != "" {
		t.Errorf("override calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNullObjects(t *testing.T) {
	if !Null.IsNull() || !NullFamily.IsNull() {
		t.Fatal("null objects must report IsNull")
	}
	NullFamily.SetCommonSpecies(New("x", NullFamily))
	if NullFamily.CommonSpecies() != Null {
		t.Error("SetCommonSpecies changed the null family")
	}
	if got := NullFamily.SpeciesForLocation(voxel.NewMemGrid(), voxel.Coord{}); got != Null {
		t.Errorf("NullFamily.SpeciesForLocation() = %v, want Null", got)
	}
	if res := Null.GenerateFeatures(voxel.NewMemGrid(), nil, voxel.Coord{}, []voxel.Coord{{}}); res != (genfeature.Result{}) {
		t.Errorf("Null.GenerateFeatures() = %+v", res)
	}
	if NewFamily("fir", "", "", "conifer").CommonSpecies() != Null {
		t.Error("family without common species should return Null")
	}
}

func TestRegistryLookups(t *testing.T) {
	r, _ := oakRegistry(t)

	if _, ok := r.LookupSpecies("dynamictrees:oak"); !ok {
		t.Error("namespaced lookup failed")
	}
	if r.Species("maple") != Null {
		t.Error("unknown species should be Null")
	}
	if r.Family("maple") != NullFamily {
		t.Error("unknown family should be NullFamily")
	}
	if diff := cmp.Diff([]string{"oak", "swamp_oak"}, r.SpeciesNames()); diff != "" {
		t.Errorf("SpeciesNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejects(t *testing.T) {
	r, oak := oakRegistry(t)
	tests := []struct {
		name string
		err  error
	}{
		{"duplicate family", r.AddFamily(NewFamily("oak", "", "", ""))},
		{"duplicate species", r.AddSpecies(New("oak", oak))},
		{"unregistered family", r.AddSpecies(New("fir", NewFamily("spruce", "", "", "")))},
		{"null species", r.AddSpecies(Null)},
		{"bad name", r.AddSpecies(New("Big Oak", oak))},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%s: error = %v, want INVALID_CONFIG", tt.name, tt.err)
		}
	}
}

func TestLeafCompatibility(t *testing.T) {
	parts := treepart.NewRegistry()
	parts.MustRegister("oak_leaves", treepart.Leaves{FamilyName: "oak", Kit: "deciduous"})
	parts.MustRegister("birch_leaves", treepart.Leaves{FamilyName: "birch", Kit: "deciduous"})
	oak := NewFamily("oak", "oak_branch", "oak_leaves", "deciduous")
	oak.AddConnectableVanillaLeaves("leaves")

	tests := []struct {
		block            string
		dynamic, generic bool
	}{
		{"oak_leaves", true, true},
		{"birch_leaves", false, false},
		{"leaves", false, true},
		{"stone", false, false},
	}
	for _, tt := range tests {
		s := voxel.State{Block: tt.block}
		if got := oak.IsCompatibleDynamicLeaves(parts, s); got != tt.dynamic {
			t.Errorf("IsCompatibleDynamicLeaves(%s) = %v, want %v", tt.block, got, tt.dynamic)
		}
		if got := oak.IsCompatibleGenericLeaves(parts, s); got != tt.generic {
			t.Errorf("IsCompatibleGenericLeaves(%s) = %v, want %v", tt.block, got, tt.generic)
		}
	}
}

func TestSpeciesKit(t *testing.T) {
	fam := NewFamily("acacia", "acacia_branch", "acacia_leaves", "acacia")
	s := New("acacia", fam)
	if s.Kit() != "acacia" {
		t.Errorf("Kit() = %q, want family kit", s.Kit())
	}
	s.CellKit = "deciduous"
	if s.Kit() != "deciduous" {
		t.Errorf("Kit() = %q, want override", s.Kit())
	}
}

func TestSpeciesFoliage(t *testing.T) {
	parts := treepart.NewRegistry()
	parts.MustRegister("oak_leaves", treepart.Leaves{FamilyName: "oak", Kit: "deciduous"})
	parts.MustRegister("birch_leaves", treepart.Leaves{FamilyName: "birch", Kit: "deciduous"})

	_, oak := oakRegistry(t)
	oak.AddConnectableVanillaLeaves("oak_vanilla_leaves")
	sp := New("oak", oak)
	sp.CellKit = "acacia"

	f := sp.Foliage(parts)
	if f.LeafKit() != "acacia" {
		t.Errorf("LeafKit() = %q, want acacia", f.LeafKit())
	}
	tests := []struct {
		block               string
		dynamic, compatible bool
	}{
		{"oak_leaves", true, true},
		{"birch_leaves", false, false},
		{"oak_vanilla_leaves", false, true},
		{"stone", false, false},
	}
	for _, tt := range tests {
		s := voxel.State{Block: tt.block}
		if got := f.Dynamic(s); got != tt.dynamic {
			t.Errorf("Dynamic(%s) = %v, want %v", tt.block, got, tt.dynamic)
		}
		if got := f.Compatible(s); got != tt.compatible {
			t.Errorf("Compatible(%s) = %v, want %v", tt.block, got, tt.compatible)
		}
	}

	if Null.Foliage(parts) != nil {
		t.Error("Null.Foliage() != nil")
	}
}
