package genfeature

import (
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// FeatureVines is the registry name of [Vines].
const FeatureVines = "vines"

// PropSide is the vine state property naming the face of the vine block
// that touches its support.
const PropSide = "side"

// Vines hangs vines from whatever a jittered ray from an endpoint strikes.
type Vines struct {
	Quantity  int
	MaxLength int
	// SpreadH and SpreadV bound the ray jitter in degrees; Distance bounds
	// the ray length in blocks.
	SpreadH  float64
	SpreadV  float64
	Distance float64
	Block    string
}

// VinesOption configures [NewVines].
type VinesOption func(*Vines)

func WithQuantity(n int) VinesOption    { return func(v *Vines) { v.Quantity = n } }
func WithMaxLength(n int) VinesOption   { return func(v *Vines) { v.MaxLength = n } }
func WithBlock(name string) VinesOption { return func(v *Vines) { v.Block = name } }

// WithSpread sets the horizontal and vertical jitter and the ray length.
func WithSpread(h, v, dist float64) VinesOption {
	return func(vi *Vines) { vi.SpreadH, vi.SpreadV, vi.Distance = h, v, dist }
}

// NewVines returns vines with 4 attempts of up to 8 blocks, jittered 90°
// horizontally and 40° downward over 5 blocks.
func NewVines(opts ...VinesOption) (*Vines, error) {
	v := &Vines{Quantity: 4, MaxLength: 8, SpreadH: 90, SpreadV: 40, Distance: 5, Block: "vine"}
	for _, opt := range opts {
		opt(v)
	}
	if err := errors.ValidateRange("quantity", v.Quantity, 0, 64); err != nil {
		return nil, err
	}
	if err := errors.ValidateRange("max_length", v.MaxLength, 3, 256); err != nil {
		return nil, err
	}
	if v.Distance <= 0 || v.SpreadH < 0 || v.SpreadV < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "vines: spread and distance must be positive")
	}
	if v.Block == "" || v.Block == voxel.BlockAir {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "vines: block name required")
	}
	return v, nil
}

// VinesFactory builds [Vines] from parameters.
func VinesFactory(p Params) (Feature, error) {
	qty, err := p.Int("quantity", 4)
	if err != nil {
		return nil, err
	}
	maxLen, err := p.Int("max_length", 8)
	if err != nil {
		return nil, err
	}
	h, err := p.Float("spread_horizontal", 90)
	if err != nil {
		return nil, err
	}
	vert, err := p.Float("spread_vertical", 40)
	if err != nil {
		return nil, err
	}
	dist, err := p.Float("distance", 5)
	if err != nil {
		return nil, err
	}
	block, err := p.String("block", "vine")
	if err != nil {
		return nil, err
	}
	return NewVines(WithQuantity(qty), WithMaxLength(maxLen), WithSpread(h, vert, dist), WithBlock(block))
}

func (v *Vines) Name() string { return FeatureVines }

// Generate makes Quantity attempts, each at a uniformly chosen endpoint.
func (v *Vines) Generate(g voxel.Grid, rng voxel.Rand, trunk voxel.Coord, ends []voxel.Coord) Result {
	var res Result
	if len(ends) == 0 {
		return res
	}
	for range v.Quantity {
		res.Attempts++
		v.addVine(g, rng, trunk, ends[rng.IntN(len(ends))], &res)
	}
	return res
}

func (v *Vines) addVine(g voxel.Grid, rng voxel.Rand, trunk, end voxel.Coord, res *Result) {
	hit, ok := voxel.RayCast(g, rng, trunk, end, v.SpreadH, v.SpreadV, v.Distance)
	if !ok {
		res.Misses++
		return
	}
	// Vines cling to walls only.
	side := hit.Face.Opposite()
	if !side.IsHorizontal() {
		res.Unsupported++
		return
	}

	pos := hit.Coord.Offset(hit.Face)
	state := voxel.State{Block: v.Block}.WithProp(PropSide, side.String())
	length := max(3, min(rng.IntN(v.MaxLength)+3, v.MaxLength))

	placed := 0
	for range length {
		if !g.IsEmpty(pos) {
			break
		}
		g.SetState(pos, state)
		placed++
		pos = pos.Down()
	}
	if placed > 0 {
		res.Features++
		res.Placed += placed
	}
}
