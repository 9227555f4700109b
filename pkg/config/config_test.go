package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/genfeature"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

func TestDefaultBuilds(t *testing.T) {
	cfg := Default()
	if cfg.MaxDepth != 512 || cfg.Seed != 1 {
		t.Errorf("Default() max_depth=%d seed=%d", cfg.MaxDepth, cfg.Seed)
	}
	reg, err := cfg.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantSpecies := []string{"acacia", "oak", "spruce", "swamp_oak"}
	if diff := cmp.Diff(wantSpecies, reg.Species.SpeciesNames()); diff != "" {
		t.Errorf("species mismatch (-want +got):\n%s", diff)
	}
	if !reg.Kits.Has("palm") {
		t.Error("custom kit palm not registered")
	}

	p, ok := reg.Parts.Lookup("oak_branch")
	if !ok || p.Kind() != treepart.KindBranch || p.Family() != "oak" {
		t.Errorf("oak_branch = %v, %v", p, ok)
	}
	root, ok := reg.Parts.Lookup("rooty_dirt")
	if !ok || root.Kind() != treepart.KindRoot || root.Family() != "" {
		t.Errorf("shared rooty_dirt = %#v, %v; want a familyless root", root, ok)
	}

	oak := reg.Species.Family("oak")
	if got := oak.CommonSpecies().Name; got != "oak" {
		t.Errorf("oak common species = %q", got)
	}
	if got := reg.Species.Family("spruce").CommonSpecies().Name; got != "spruce" {
		t.Errorf("spruce common species = %q", got)
	}
	if !oak.IsCompatibleVanillaLeaves(voxel.State{Block: "oak_vanilla_leaves"}) {
		t.Error("oak_vanilla_leaves not connectable")
	}

	swamp := reg.Species.Species("swamp_oak")
	if len(swamp.Features) != 1 {
		t.Fatalf("swamp_oak features = %d, want 1", len(swamp.Features))
	}
	if v, ok := swamp.Features[0].(*genfeature.Vines); !ok || v.Quantity != 4 || v.MaxLength != 8 {
		t.Errorf("swamp_oak vines = %#v", swamp.Features[0])
	}

	g := voxel.NewMemGrid()
	g.SetState(voxel.Coord{Y: -1}, voxel.State{Block: "water"})
	if got := oak.SpeciesForLocation(g, voxel.Coord{Y: 1}); got != swamp {
		t.Errorf("SpeciesForLocation(wet) = %v, want swamp_oak", got)
	}
}

const yamlConfig = `
max_depth: 64
seed: 9
families:
  - name: birch
    branch: birch_branch
    leaves: birch_leaves
    root: birch_roots
    max_radius: 4
species:
  - name: silver_birch
    family: birch
    kit: conifer
    features:
      - name: vines
        quantity: 2
        block: ivy
`

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(yamlConfig), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := &Config{
		MaxDepth: 64,
		Seed:     9,
		Families: []Family{{
			Name: "birch", Branch: "birch_branch", Leaves: "birch_leaves",
			Root: "birch_roots", MaxRadius: 4, Kit: "deciduous",
		}},
		Species: []Species{{
			Name: "silver_birch", Family: "birch", Kit: "conifer",
			Features: []Feature{{
				Name:   "vines",
				Path:   "species[0].features[0]",
				Params: map[string]any{"quantity": 2, "block": "ivy"},
			}},
		}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	reg, err := cfg.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	birch := reg.Species.Species("silver_birch")
	if birch.Kit() != "conifer" || birch.Family.CommonSpecies() != birch {
		t.Errorf("silver_birch kit=%q common=%v", birch.Kit(), birch.Family.CommonSpecies())
	}
	root, _ := reg.Parts.Lookup("birch_roots")
	if root.Family() != "birch" {
		t.Errorf("unshared root family = %q, want birch", root.Family())
	}
	if v := birch.Features[0].(*genfeature.Vines); v.Block != "ivy" || v.Quantity != 2 {
		t.Errorf("vines = %#v", v)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		code    errors.Code
		message string
	}{
		{
			name:    "wrong type",
			toml:    "[[families]]\nname = \"oak\"\nbranch = \"b\"\nleaves = \"l\"\nmax_radius = \"big\"\n",
			code:    errors.ErrCodeInvalidConfig,
			message: "families[0].max_radius: expected int, got string",
		},
		{
			name:    "missing field",
			toml:    "[[species]]\nname = \"oak\"\n",
			code:    errors.ErrCodeInvalidConfig,
			message: "species[0].family: missing required field",
		},
		{
			name:    "unknown kit",
			toml:    "[[families]]\nname = \"oak\"\nbranch = \"b\"\nleaves = \"l\"\nkit = \"tropical\"\n",
			code:    errors.ErrCodeInvalidConfig,
			message: `unknown cell kit "tropical"`,
		},
		{
			name:    "unknown family",
			toml:    "[[species]]\nname = \"oak\"\nfamily = \"elm\"\n",
			code:    errors.ErrCodeInvalidConfig,
			message: `unknown family "elm"`,
		},
		{
			name: "bad feature parameter",
			toml: "[[families]]\nname = \"oak\"\nbranch = \"b\"\nleaves = \"l\"\n" +
				"[[species]]\nname = \"oak\"\nfamily = \"oak\"\n" +
				"[[species.features]]\nname = \"vines\"\nmax_length = \"long\"\n",
			code:    errors.ErrCodeInvalidConfig,
			message: "species[0].features[0].max_length: expected int",
		},
		{
			name: "unknown override species",
			toml: "[[families]]\nname = \"oak\"\nbranch = \"b\"\nleaves = \"l\"\n" +
				"[[overrides]]\nfamily = \"oak\"\nsoil = \"mud\"\nspecies = \"mangrove\"\n",
			code:    errors.ErrCodeSpeciesNotFound,
			message: `unknown species "mangrove"`,
		},
		{
			name:    "negative depth",
			toml:    "max_depth = -1\n",
			code:    errors.ErrCodeInvalidConfig,
			message: "max_depth must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.toml), FormatTOML)
			if err == nil {
				_, err = cfg.Build(nil)
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %q, want it to contain %q", err, tt.message)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trees.yml")
	if err := os.WriteFile(path, []byte(yamlConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxDepth != 64 {
		t.Errorf("MaxDepth = %d, want 64", cfg.MaxDepth)
	}

	if _, err := Load(filepath.Join(dir, "trees.json")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(.json) error = %v, want INVALID_FORMAT", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
