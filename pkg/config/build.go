package config

import (
	"github.com/ferreusveritas/dynamictrees/pkg/cell"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/genfeature"
	"github.com/ferreusveritas/dynamictrees/pkg/getters"
	"github.com/ferreusveritas/dynamictrees/pkg/species"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
)

// Registries are the explicit registries built from a configuration.
type Registries struct {
	Parts    *treepart.Registry
	Kits     *cell.Kits
	Species  *species.Registry
	Features *genfeature.Registry
	MaxDepth int
	Seed     uint64
}

// Build validates the configuration and constructs its registries.
// Feature factories are taken from features, or the built-ins when nil.
func (c *Config) Build(features *genfeature.Registry) (*Registries, error) {
	if features == nil {
		features = genfeature.NewRegistry()
	}
	r := &Registries{
		Parts:    treepart.NewRegistry(),
		Kits:     cell.NewKits(),
		Species:  species.NewRegistry(),
		Features: features,
		MaxDepth: c.MaxDepth,
		Seed:     c.Seed,
	}
	if err := c.buildKits(r); err != nil {
		return nil, err
	}
	if err := c.buildFamilies(r); err != nil {
		return nil, err
	}

	g := getters.NewRegistry()
	getters.Register(g, getters.Entry(r.Species.LookupFamily, "family"))
	getters.Register(g, getters.Entry(r.Species.LookupSpecies, "species"))

	if err := c.buildSpecies(r, g); err != nil {
		return nil, err
	}
	if err := c.buildOverrides(r, g); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Config) buildKits(r *Registries) error {
	for _, k := range c.Kits {
		shape, err := cell.ParseShape(k.Shape)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "kit %q", k.Name)
		}
		kit, err := cell.NewKit(k.Name, shape, k.MaxValue, k.Decay, k.TwigRadius)
		if err != nil {
			return err
		}
		if err := r.Kits.Register(kit); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) buildFamilies(r *Registries) error {
	// A root block shared by several families belongs to none of them.
	rootUsers := make(map[string]int)
	for _, f := range c.Families {
		rootUsers[f.Root]++
	}

	for _, f := range c.Families {
		if !r.Kits.Has(f.Kit) {
			return errors.New(errors.ErrCodeInvalidConfig, "family %q: unknown cell kit %q", f.Name, f.Kit)
		}
		if err := errors.ValidateRange("family "+f.Name+" max_radius", f.MaxRadius, 1, 24); err != nil {
			return err
		}
		fam := species.NewFamily(f.Name, f.Branch, f.Leaves, f.Kit)
		fam.AddConnectableVanillaLeaves(f.ConnectableLeaves...)
		if err := r.Species.AddFamily(fam); err != nil {
			return err
		}
		if err := r.Parts.Register(f.Branch, treepart.Branch{FamilyName: fam.Name, MaxRadius: f.MaxRadius}); err != nil {
			return err
		}
		if err := r.Parts.Register(f.Leaves, treepart.Leaves{FamilyName: fam.Name, Kit: f.Kit}); err != nil {
			return err
		}
		if _, ok := r.Parts.Lookup(f.Root); ok {
			continue
		}
		root := treepart.Root{}
		if rootUsers[f.Root] == 1 {
			root.FamilyName = fam.Name
		}
		if err := r.Parts.Register(f.Root, root); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) buildSpecies(r *Registries, g *getters.Registry) error {
	first := make(map[*species.Family]*species.Species)
	for _, s := range c.Species {
		fam, ok := getters.Get[*species.Family](g, s.Family).Get()
		if !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "species %q: unknown family %q", s.Name, s.Family)
		}
		sp := species.New(s.Name, fam)
		if s.Kit != "" {
			if !r.Kits.Has(s.Kit) {
				return errors.New(errors.ErrCodeInvalidConfig, "species %q: unknown cell kit %q", s.Name, s.Kit)
			}
			sp.CellKit = s.Kit
		}
		for _, ft := range s.Features {
			feat, err := r.Features.Build(ft.Name, params{reg: g, path: ft.Path, obj: ft.Params})
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "species %q", s.Name)
			}
			sp.AddFeature(feat)
		}
		if err := r.Species.AddSpecies(sp); err != nil {
			return err
		}
		if first[fam] == nil {
			first[fam] = sp
		}
	}

	for _, f := range c.Families {
		fam := r.Species.Family(f.Name)
		name := f.Common
		if name == "" {
			name = f.Name
		}
		switch sp, ok := r.Species.LookupSpecies(name); {
		case ok && sp.Family == fam:
			fam.SetCommonSpecies(sp)
		case f.Common != "":
			return errors.New(errors.ErrCodeInvalidConfig, "family %q: common species %q is not one of its species", f.Name, f.Common)
		case first[fam] != nil:
			fam.SetCommonSpecies(first[fam])
		}
	}
	return nil
}

func (c *Config) buildOverrides(r *Registries, g *getters.Registry) error {
	for i, o := range c.Overrides {
		fam, ok := getters.Get[*species.Family](g, o.Family).Get()
		if !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "overrides[%d]: unknown family %q", i, o.Family)
		}
		sp, ok := getters.Get[*species.Species](g, o.Species).Get()
		if !ok {
			return errors.New(errors.ErrCodeSpeciesNotFound, "overrides[%d]: unknown species %q", i, o.Species)
		}
		if sp.Family != fam {
			return errors.New(errors.ErrCodeInvalidConfig, "overrides[%d]: species %q is not of family %q", i, sp.Name, fam.Name)
		}
		fam.AddSpeciesLocationOverride(species.SoilOverride{Soil: o.Soil, Species: sp})
	}
	return nil
}

// params reads feature parameters through the getter registry.
type params struct {
	reg  *getters.Registry
	path string
	obj  getters.Object
}

func (p params) Int(key string, def int) (int, error)           { return param(p, key, def) }
func (p params) Float(key string, def float64) (float64, error) { return param(p, key, def) }
func (p params) String(key string, def string) (string, error)  { return param(p, key, def) }

func param[T any](p params, key string, def T) (T, error) {
	f := p.reg.Fields(p.path, p.obj)
	v := getters.Optional(f, key, def)
	return v, f.Err()
}
