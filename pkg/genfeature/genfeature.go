// Package genfeature places secondary structures on grown trees.
//
// A [Feature] runs after a growth cycle has mapped a tree's branch
// endpoints. [Vines] shoots jittered rays outward from the endpoints and
// hangs vines on the lateral faces the rays strike. Features never replace
// non-empty voxels.
package genfeature

import (
	"maps"
	"slices"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// Feature is a generator run against a mapped tree.
type Feature interface {
	Name() string
	// Generate places the feature. trunk is the tree's first branch voxel
	// above the root; ends are its branch endpoints. An empty ends is a no-op.
	Generate(g voxel.Grid, rng voxel.Rand, trunk voxel.Coord, ends []voxel.Coord) Result
}

// Result counts what one or more Generate calls did.
type Result struct {
	Attempts    int
	Misses      int
	Unsupported int
	// Features is the number of structures started, Placed the voxels written.
	Features int
	Placed   int
}

// Add sums two results.
func (r Result) Add(o Result) Result {
	return Result{
		Attempts:    r.Attempts + o.Attempts,
		Misses:      r.Misses + o.Misses,
		Unsupported: r.Unsupported + o.Unsupported,
		Features:    r.Features + o.Features,
		Placed:      r.Placed + o.Placed,
	}
}

// CoordHash is a cheap positional hash in [0, 0xFFFF], used to vary
// generation per tree deterministically.
func CoordHash(c voxel.Coord) int {
	return ((c.X*4111 ^ c.Y*271 ^ c.Z*3067) >> 1) & 0xFFFF
}

// Params supplies named feature parameters with defaults.
type Params interface {
	Int(key string, def int) (int, error)
	Float(key string, def float64) (float64, error)
	String(key string, def string) (string, error)
}

// Factory builds a feature from parameters.
type Factory func(p Params) (Feature, error)

// Registry maps feature names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in features.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.factories[FeatureVines] = VinesFactory
	return r
}

// Register adds a factory. Names must be unique.
func (r *Registry) Register(name string, f Factory) error {
	if err := errors.ValidateName("feature", name); err != nil {
		return err
	}
	if _, ok := r.factories[name]; ok {
		return errors.New(errors.ErrCodeInvalidConfig, "feature %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Build constructs the named feature.
func (r *Registry) Build(name string, p Params) (Feature, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown feature %q", name)
	}
	return f(p)
}

// Names returns the registered feature names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.factories))
}
