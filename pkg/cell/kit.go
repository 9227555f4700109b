package cell

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
)

// Defaults shared by the built-in kits.
const (
	DefaultMaxValue   = 4
	DefaultDecay      = 1
	DefaultTwigRadius = 1
)

// Built-in kit names.
const (
	KitDeciduous = "deciduous"
	KitConifer   = "conifer"
	KitAcacia    = "acacia"
)

// Kit turns voxel contents into cells for one family of leaf rules.
type Kit interface {
	Name() string
	MaxValue() int
	Decay() int
	// LeafCell returns the cell of a leaf with the given stored value.
	LeafCell(value int) Cell
	// BranchCell returns the cell a branch of the given radius presents
	// to leaves using this kit.
	BranchCell(radius int) Cell
}

// Shape selects the leaf cell variant of a [BasicKit].
type Shape int

const (
	ShapeNormal Shape = iota
	ShapeCanopy
	ShapeConifer
)

var shapeNames = map[string]Shape{"normal": ShapeNormal, "canopy": ShapeCanopy, "conifer": ShapeConifer}

// ParseShape resolves "normal", "canopy" or "conifer".
func ParseShape(s string) (Shape, error) {
	if sh, ok := shapeNames[s]; ok {
		return sh, nil
	}
	return 0, fmt.Errorf("unknown leaf shape %q", s)
}

// BasicKit is a kit parameterised by shape, maximum, decay and twig radius.
type BasicKit struct {
	name       string
	shape      Shape
	maxValue   int
	decay      int
	twigRadius int
}

// NewKit validates and builds a kit.
func NewKit(name string, shape Shape, maxValue, decay, twigRadius int) (*BasicKit, error) {
	if err := errors.ValidateName("cell kit", name); err != nil {
		return nil, err
	}
	if err := errors.ValidateRange("max_value", maxValue, 1, 15); err != nil {
		return nil, err
	}
	if err := errors.ValidateRange("decay", decay, 1, maxValue); err != nil {
		return nil, err
	}
	if err := errors.ValidateRange("twig_radius", twigRadius, 1, 8); err != nil {
		return nil, err
	}
	return &BasicKit{name: name, shape: shape, maxValue: maxValue, decay: decay, twigRadius: twigRadius}, nil
}

func mustKit(name string, shape Shape) *BasicKit {
	k, err := NewKit(name, shape, DefaultMaxValue, DefaultDecay, DefaultTwigRadius)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *BasicKit) Name() string  { return k.name }
func (k *BasicKit) MaxValue() int { return k.maxValue }
func (k *BasicKit) Decay() int    { return k.decay }

func (k *BasicKit) LeafCell(value int) Cell {
	v := clamp(value, 0, k.maxValue)
	switch k.shape {
	case ShapeCanopy:
		return Canopy{V: v}
	case ShapeConifer:
		return Conifer{V: v}
	default:
		return Normal{V: v}
	}
}

// BranchCell seeds adjacent leaves with the full maximum: a twig's value is
// one decay step above the leaf maximum.
func (k *BasicKit) BranchCell(radius int) Cell {
	if radius > k.twigRadius {
		return Null{}
	}
	return Source{V: k.maxValue + k.decay}
}

// Solve computes a leaf's next value from the values its six neighbours
// offer toward it.
func Solve(k Kit, sides [6]int) int {
	best := 0
	for _, v := range sides {
		best = max(best, v)
	}
	return clamp(best-k.Decay(), 0, k.MaxValue())
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Kits is the registry of cell kits. Lookups of unknown names fall back to
// the deciduous kit.
type Kits struct {
	kits     map[string]Kit
	fallback Kit
}

// NewKits returns a registry holding the built-in kits.
func NewKits() *Kits {
	deciduous := mustKit(KitDeciduous, ShapeNormal)
	return &Kits{
		kits: map[string]Kit{
			KitDeciduous: deciduous,
			KitConifer:   mustKit(KitConifer, ShapeConifer),
			KitAcacia:    mustKit(KitAcacia, ShapeCanopy),
		},
		fallback: deciduous,
	}
}

// Register adds or replaces a kit.
func (r *Kits) Register(k Kit) error {
	if k == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "nil cell kit")
	}
	r.kits[k.Name()] = k
	if k.Name() == KitDeciduous {
		r.fallback = k
	}
	return nil
}

// Lookup returns the named kit, or the deciduous kit.
func (r *Kits) Lookup(name string) Kit {
	if k, ok := r.kits[name]; ok {
		return k
	}
	return r.fallback
}

// Has reports whether a kit with that name is registered.
func (r *Kits) Has(name string) bool {
	_, ok := r.kits[name]
	return ok
}

// Names returns the registered kit names, sorted.
func (r *Kits) Names() []string {
	return slices.Sorted(maps.Keys(r.kits))
}
