package network

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/ferreusveritas/dynamictrees/pkg/dag"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/species"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// Analyzer answers questions about the networks in a grid. It holds no
// per-network state; every call walks the grid afresh.
type Analyzer struct {
	grid     voxel.Reader
	parts    *treepart.Registry
	species  *species.Registry
	maxDepth int
	logger   *log.Logger
}

// Option configures an [Analyzer].
type Option func(*Analyzer)

// WithSpecies enables species resolution.
func WithSpecies(r *species.Registry) Option {
	return func(a *Analyzer) { a.species = r }
}

// WithMaxDepth bounds walk length. Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(a *Analyzer) { a.maxDepth = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer returns an analyzer over grid.
func NewAnalyzer(grid voxel.Reader, parts *treepart.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		grid:     grid,
		parts:    parts,
		species:  species.NewRegistry(),
		maxDepth: DefaultMaxDepth,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Signal returns a fresh signal with the analyzer's depth bound.
func (a *Analyzer) Signal(inspectors ...Inspector) *Signal {
	return NewSignal(a.maxDepth, inspectors...)
}

// FindRoot returns the root of the network containing start. A root start
// is its own root; a start that is neither root nor branch has none.
func (a *Analyzer) FindRoot(start voxel.Coord) (voxel.Coord, bool) {
	sig := a.Analyse(start, a.Signal())
	return sig.Root, sig.Found
}

// Analyse runs an inward walk from start using sig and returns sig.
func (a *Analyzer) Analyse(start voxel.Coord, sig *Signal) *Signal {
	sig.inward = true
	s := a.grid.State(start)
	switch p := a.parts.Classify(s).(type) {
	case treepart.Root:
		sig.push(start, p.Radius(s))
		sig.found(start)
	case treepart.Branch:
		a.walk(start, nil, treepart.KindBranch, sig)
		a.report(start, sig)
	}
	return sig
}

// Map walks outward from start, which is normally a root, feeding every
// voxel of the network to the inspectors. Roots other than start are
// entered but not walked through.
func (a *Analyzer) Map(start voxel.Coord, inspectors ...Inspector) *Signal {
	sig := a.Signal(inspectors...)
	kind := a.parts.Classify(a.grid.State(start)).Kind()
	if kind == treepart.KindRoot || kind == treepart.KindBranch {
		a.walk(start, nil, kind, sig)
		a.report(start, sig)
	}
	return sig
}

func (a *Analyzer) report(start voxel.Coord, sig *Signal) {
	switch {
	case sig.Aborted:
		a.logger.Debug("walk aborted", "start", start, "path", len(sig.Path),
			"code", errors.ErrCodeInvalidCoordinateState)
	case sig.DepthLimited && !sig.Found:
		a.logger.Debug("walk hit depth bound", "start", start, "max_depth", sig.MaxDepth)
	}
}

// walk enters c, which was seen as expect when its neighbour chose it.
func (a *Analyzer) walk(c voxel.Coord, parent *voxel.Coord, expect treepart.Kind, sig *Signal) {
	if sig.done() {
		return
	}
	if len(sig.Path) >= sig.MaxDepth {
		sig.DepthLimited = true
		return
	}

	s := a.grid.State(c)
	part := a.parts.Classify(s)
	if part.Kind() != expect {
		sig.Aborted = true
		return
	}

	node := Node{Coord: c, State: s, Part: part, Depth: len(sig.Path)}
	if parent != nil {
		node.Parent, node.HasParent = *parent, true
	}
	sig.push(c, part.Radius(s))
	for _, in := range sig.inspectors {
		in.Run(node)
	}

	if part.Kind() == treepart.KindRoot && node.HasParent {
		if sig.inward {
			sig.found(c)
			return
		}
		// A second root bounds an outward walk.
	} else {
		for _, f := range voxel.Faces {
			n := c.Offset(f)
			if sig.Visited(n) {
				continue
			}
			np := a.parts.Classify(a.grid.State(n))
			if !connects(part, np) {
				continue
			}
			node.Children++
			a.walk(n, &c, np.Kind(), sig)
			if sig.done() {
				return
			}
		}
	}

	for _, in := range sig.inspectors {
		in.Returning(node)
	}
	sig.pop()
}

// connects reports whether a walk may step from a voxel of part from into
// one of part to.
func connects(from, to treepart.Part) bool {
	switch f := from.(type) {
	case treepart.Branch:
		return f.Connects(to)
	case treepart.Root:
		return to.Kind() == treepart.KindBranch
	default:
		return false
	}
}

// Trunk returns the first branch voxel of the tree growing from root:
// the voxel above when it is a branch, otherwise the first branch
// neighbour in visitation order.
func (a *Analyzer) Trunk(root voxel.Coord) (voxel.Coord, bool) {
	if a.isBranch(root.Up()) {
		return root.Up(), true
	}
	for _, f := range voxel.Faces {
		if n := root.Offset(f); a.isBranch(n) {
			return n, true
		}
	}
	return root.Up(), false
}

func (a *Analyzer) isBranch(c voxel.Coord) bool {
	return a.parts.Classify(a.grid.State(c)).Kind() == treepart.KindBranch
}

// RadiusForBranch returns the local radius at c. Each branch voxel reports
// its own radius regardless of its neighbours. A root reports the radius of
// its trunk voxel. Anything else is 0.
func (a *Analyzer) RadiusForBranch(c voxel.Coord) int {
	s := a.grid.State(c)
	switch p := a.parts.Classify(s).(type) {
	case treepart.Branch:
		return p.Radius(s)
	case treepart.Root:
		if t, ok := a.Trunk(c); ok {
			return a.RadiusForBranch(t)
		}
	}
	return 0
}

// TrunkRadius returns the radius the root of c's network declares through
// its trunk, or 0 when there is no root.
func (a *Analyzer) TrunkRadius(c voxel.Coord) int {
	root, ok := a.FindRoot(c)
	if !ok {
		return 0
	}
	return a.RadiusForBranch(root)
}

// DistanceToRoot returns the number of steps the inward walk took from c
// to its root.
func (a *Analyzer) DistanceToRoot(c voxel.Coord) (int, bool) {
	sig := a.Analyse(c, a.Signal())
	if !sig.Found {
		return 0, false
	}
	return len(sig.Path) - 1, true
}

// ExactSpecies returns the species the root of c's network declares, or
// [species.Null].
func (a *Analyzer) ExactSpecies(c voxel.Coord) *species.Species {
	root, ok := a.FindRoot(c)
	if !ok {
		return species.Null
	}
	s := a.grid.State(root)
	rp, _ := a.parts.Classify(s).(treepart.Root)
	if sp, ok := a.species.LookupSpecies(rp.Species(s)); ok {
		return sp
	}
	return species.Null
}

// SpeciesForLocation resolves the species governing c: the root's declared
// species, else the family's choice for the trunk position.
func (a *Analyzer) SpeciesForLocation(c voxel.Coord) *species.Species {
	root, ok := a.FindRoot(c)
	if !ok {
		return species.Null
	}
	if sp := a.ExactSpecies(root); !sp.IsNull() {
		return sp
	}
	trunk, _ := a.Trunk(root)
	return a.Family(root).SpeciesForLocation(a.grid, trunk)
}

// Family returns the family owning the root at root: the root's own family
// if it names one, else the family of its trunk branch.
func (a *Analyzer) Family(root voxel.Coord) *species.Family {
	if name := a.parts.Classify(a.grid.State(root)).Family(); name != "" {
		return a.species.Family(name)
	}
	if t, ok := a.Trunk(root); ok {
		return a.species.Family(a.parts.Classify(a.grid.State(t)).Family())
	}
	return species.NullFamily
}

// MapEndpoints returns the branch endpoints of the network grown from root
// in the order the walk finished them.
func (a *Analyzer) MapEndpoints(root voxel.Coord) []voxel.Coord {
	ends := &EndFinder{}
	a.Map(root, ends)
	return ends.Ends
}

// Volume returns the summed squared radius of the network grown from root.
func (a *Analyzer) Volume(root voxel.Coord) int {
	v := &NetVolume{}
	a.Map(root, v)
	return v.Volume
}

// Graph maps the network grown from root into a layered graph.
func (a *Analyzer) Graph(root voxel.Coord) (*dag.DAG, error) {
	vol := &NetVolume{}
	b := NewGraphBuilder(dag.Metadata{"root": root.String()})
	sig := a.Map(root, b, vol)
	g, err := b.Graph()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build network graph")
	}
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeRootNotFound, "no network at %s", root)
	}
	if sig.Aborted {
		return nil, errors.New(errors.ErrCodeInvalidCoordinateState, "network at %s changed while mapping", root)
	}
	g.Meta()["volume"] = vol.Volume
	if sp := a.SpeciesForLocation(root); !sp.IsNull() {
		g.Meta()["species"] = sp.Name
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "network graph")
	}
	return g, nil
}
