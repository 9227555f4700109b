package cell

import (
	"maps"
	"slices"

	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// DeathPolicy decides what happens to a leaf whose value fell to zero.
// It returns the replacement state, or false to leave the voxel untouched.
type DeathPolicy interface {
	Starved(c voxel.Coord, s voxel.State) (voxel.State, bool)
}

// DeathPolicyFunc adapts a function to [DeathPolicy].
type DeathPolicyFunc func(c voxel.Coord, s voxel.State) (voxel.State, bool)

func (f DeathPolicyFunc) Starved(c voxel.Coord, s voxel.State) (voxel.State, bool) {
	return f(c, s)
}

// RemoveLeaves replaces starved leaves with air.
var RemoveLeaves DeathPolicy = DeathPolicyFunc(func(voxel.Coord, voxel.State) (voxel.State, bool) {
	return voxel.Air, true
})

// KeepLeaves stores the zero value and leaves the block in place.
var KeepLeaves DeathPolicy = DeathPolicyFunc(func(_ voxel.Coord, s voxel.State) (voxel.State, bool) {
	return s.WithHydro(0), true
})

// ChangeKind classifies one write of a tick.
type ChangeKind int

const (
	ChangeUpdated ChangeKind = iota
	ChangeRemoved
	ChangeGrown
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeRemoved:
		return "removed"
	case ChangeGrown:
		return "grown"
	default:
		return "updated"
	}
}

// Change records one voxel written by a tick.
type Change struct {
	Coord    voxel.Coord
	Kind     ChangeKind
	From, To int
}

// Result summarises a tick.
type Result struct {
	Updated int
	Removed int
	Grown   int
	Changes []Change
}

// Foliage describes the tree whose leaves a tick advances.
type Foliage interface {
	// LeafKit names the kit the tree's leaves use, or "" to keep the kit
	// each leaf block declares.
	LeafKit() string
	// Dynamic reports whether s is an automaton leaf of the tree.
	Dynamic(s voxel.State) bool
	// Compatible reports whether s is foliage of the tree, automaton or plain.
	Compatible(s voxel.State) bool
}

// Automaton runs leaf-cluster ticks against a grid.
type Automaton struct {
	grid   voxel.ReadWriter
	parts  *treepart.Registry
	kits   *Kits
	spread bool
	policy DeathPolicy
}

// AutomatonOption configures an [Automaton].
type AutomatonOption func(*Automaton)

// WithSpread lets leaves grow into empty neighbours.
func WithSpread(on bool) AutomatonOption {
	return func(a *Automaton) { a.spread = on }
}

// WithDeathPolicy replaces [RemoveLeaves].
func WithDeathPolicy(p DeathPolicy) AutomatonOption {
	return func(a *Automaton) {
		if p != nil {
			a.policy = p
		}
	}
}

// NewAutomaton returns an automaton over grid. A nil kits uses [NewKits].
func NewAutomaton(grid voxel.ReadWriter, parts *treepart.Registry, kits *Kits, opts ...AutomatonOption) *Automaton {
	if kits == nil {
		kits = NewKits()
	}
	a := &Automaton{grid: grid, parts: parts, kits: kits, policy: RemoveLeaves}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CellAt returns the cell a voxel presents to a leaf that uses kit. Leaves
// answer with their own kit; branches answer with the asking leaf's kit.
func (a *Automaton) CellAt(c voxel.Coord, kit Kit) Cell {
	return a.cellAt(c, kit, nil)
}

func (a *Automaton) cellAt(c voxel.Coord, kit Kit, tree Foliage) Cell {
	s := a.grid.State(c)
	switch p := a.parts.Classify(s).(type) {
	case treepart.Leaves:
		return a.kitFor(s, p, tree).LeafCell(p.Hydro(s))
	case treepart.Branch:
		return kit.BranchCell(p.Radius(s))
	default:
		return Null{}
	}
}

// Next computes the value a voxel would take on the next tick if it were a
// leaf of kit, reading only the current grid.
func (a *Automaton) Next(c voxel.Coord, kit Kit) int {
	return a.next(c, kit, nil)
}

func (a *Automaton) next(c voxel.Coord, kit Kit, tree Foliage) int {
	var sides [6]int
	for i, f := range voxel.Faces {
		sides[i] = a.cellAt(c.Offset(f), kit, tree).ValueFromSide(f.Opposite())
	}
	return Solve(kit, sides)
}

// kitFor returns the kit driving leaf l in state s. Leaves of tree use the
// tree's kit when it names one.
func (a *Automaton) kitFor(s voxel.State, l treepart.Leaves, tree Foliage) Kit {
	if tree != nil && tree.Dynamic(s) {
		if name := tree.LeafKit(); name != "" {
			return a.kits.Lookup(name)
		}
	}
	return a.kits.Lookup(l.Kit)
}

type step struct {
	coord voxel.Coord
	kind  ChangeKind
	from  int
	to    int
	state voxel.State
}

// Tick advances the leaves at targets by one step. Non-leaf targets are
// ignored. All values are computed before any voxel is written.
func (a *Automaton) Tick(targets []voxel.Coord) Result {
	return a.TickTree(targets, nil)
}

// TickTree is [Automaton.Tick] for the leaves of one tree, which use the
// tree's kit. Spread grows only from them and may take over the plain leaf
// blocks the tree counts as foliage. A nil tree behaves as Tick.
func (a *Automaton) TickTree(targets []voxel.Coord, tree Foliage) Result {
	steps := a.plan(targets, tree)

	var res Result
	for _, s := range steps {
		a.grid.SetState(s.coord, s.state)
		switch s.kind {
		case ChangeUpdated:
			res.Updated++
		case ChangeRemoved:
			res.Removed++
		case ChangeGrown:
			res.Grown++
		}
		res.Changes = append(res.Changes, Change{Coord: s.coord, Kind: s.kind, From: s.from, To: s.to})
	}
	return res
}

// plan is the read phase of a tick.
func (a *Automaton) plan(targets []voxel.Coord, tree Foliage) []step {
	leaves := make(map[voxel.Coord]struct{}, len(targets))
	for _, c := range targets {
		leaves[c] = struct{}{}
	}

	var steps []step
	fringe := make(map[voxel.Coord]struct{})
	for _, c := range slices.SortedFunc(maps.Keys(leaves), voxel.Coord.Compare) {
		s := a.grid.State(c)
		l, ok := a.parts.Classify(s).(treepart.Leaves)
		if !ok {
			continue
		}
		kit := a.kitFor(s, l, tree)
		from := l.Hydro(s)
		to := a.next(c, kit, tree)

		switch {
		case to == 0:
			if next, write := a.policy.Starved(c, s); write && !next.Equal(s) {
				kind := ChangeUpdated
				if next.IsAir() {
					kind = ChangeRemoved
				}
				steps = append(steps, step{coord: c, kind: kind, from: from, to: 0, state: next})
			}
		case to != from:
			steps = append(steps, step{coord: c, kind: ChangeUpdated, from: from, to: to, state: s.WithHydro(to)})
		}

		if a.spread {
			for _, f := range voxel.Faces {
				if n := c.Offset(f); a.replaceable(n, tree) {
					fringe[n] = struct{}{}
				}
			}
		}
	}

	for _, c := range slices.SortedFunc(maps.Keys(fringe), voxel.Coord.Compare) {
		block, kit, ok := a.strongestNeighbour(c, tree)
		if !ok {
			continue
		}
		if to := a.next(c, kit, tree); to > 0 {
			steps = append(steps, step{coord: c, kind: ChangeGrown, to: to, state: voxel.State{Block: block, Hydro: to}})
		}
	}
	return steps
}

// replaceable reports whether spread may grow a leaf into c: an empty voxel,
// or a plain leaf block that tree counts as its own.
func (a *Automaton) replaceable(c voxel.Coord, tree Foliage) bool {
	if a.grid.IsEmpty(c) {
		return true
	}
	if tree == nil {
		return false
	}
	s := a.grid.State(c)
	return tree.Compatible(s) && !tree.Dynamic(s)
}

// strongestNeighbour finds the adjacent leaf with the highest value. Ties go
// to the first face in visitation order. With a tree, only its leaves count.
func (a *Automaton) strongestNeighbour(c voxel.Coord, tree Foliage) (string, Kit, bool) {
	var (
		block string
		kit   Kit
		best  = -1
	)
	for _, f := range voxel.Faces {
		s := a.grid.State(c.Offset(f))
		l, ok := a.parts.Classify(s).(treepart.Leaves)
		if !ok || l.Hydro(s) <= best || (tree != nil && !tree.Dynamic(s)) {
			continue
		}
		best = l.Hydro(s)
		block = s.Block
		kit = a.kitFor(s, l, tree)
	}
	return block, kit, best >= 0
}

// LeavesAround returns every leaf voxel within radius (Chebyshev distance)
// of any centre, in [voxel.Coord.Compare] order.
func LeavesAround(r voxel.Reader, parts *treepart.Registry, centres []voxel.Coord, radius int) []voxel.Coord {
	found := make(map[voxel.Coord]struct{})
	for _, c := range centres {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				for dx := -radius; dx <= radius; dx++ {
					n := c.Add(dx, dy, dz)
					if _, ok := found[n]; ok {
						continue
					}
					if parts.Classify(r.State(n)).Kind() == treepart.KindLeaves {
						found[n] = struct{}{}
					}
				}
			}
		}
	}
	return slices.SortedFunc(maps.Keys(found), voxel.Coord.Compare)
}
