// Package grow runs growth cycles over the trees of a grid.
//
// A cycle finds the tree's root, resolves its species, maps its endpoints,
// ticks the leaf automaton around them and finally lets the species place
// its growth features. Each cycle returns a [Report]; a start that belongs
// to no tree yields a report with Found unset rather than an error.
package grow

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ferreusveritas/dynamictrees/pkg/cell"
	"github.com/ferreusveritas/dynamictrees/pkg/config"
	"github.com/ferreusveritas/dynamictrees/pkg/genfeature"
	"github.com/ferreusveritas/dynamictrees/pkg/network"
	"github.com/ferreusveritas/dynamictrees/pkg/observability"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// DefaultLeafRadius is how far around each endpoint leaves are ticked.
const DefaultLeafRadius = 2

// Report describes one growth cycle of one tree.
type Report struct {
	ID        uuid.UUID
	Start     voxel.Coord
	Root      voxel.Coord
	Found     bool
	Species   string
	Endpoints []voxel.Coord
	Volume    int
	Tick      cell.Result
	Features  genfeature.Result
	Duration  time.Duration
}

// Runner drives growth cycles. It carries no per-tree state, so one runner
// serves every tree of its grid; it is not safe for concurrent use.
type Runner struct {
	Analyzer   *network.Analyzer
	Automaton  *cell.Automaton
	Parts      *treepart.Registry
	Grid       voxel.Grid
	Logger     *log.Logger
	Seed       uint64
	LeafRadius int

	round uint64
}

// Option configures a [Runner].
type Option func(*Runner)

// WithLogger sets the logger for cycle progress.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.Logger = l
		}
	}
}

// WithSeed overrides the configured seed.
func WithSeed(seed uint64) Option {
	return func(r *Runner) { r.Seed = seed }
}

// WithLeafRadius sets how far around endpoints leaves are ticked.
func WithLeafRadius(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.LeafRadius = n
		}
	}
}

// NewRunner wires an analyzer and automaton over grid from the registries.
func NewRunner(grid voxel.Grid, reg *config.Registries, opts ...Option) *Runner {
	r := &Runner{
		Parts:      reg.Parts,
		Grid:       grid,
		Logger:     log.New(io.Discard),
		Seed:       reg.Seed,
		LeafRadius: DefaultLeafRadius,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Analyzer = network.NewAnalyzer(grid, reg.Parts,
		network.WithSpecies(reg.Species),
		network.WithMaxDepth(reg.MaxDepth),
		network.WithLogger(r.Logger))
	r.Automaton = cell.NewAutomaton(grid, reg.Parts, reg.Kits, cell.WithSpread(true))
	return r
}

// Cycle runs one growth cycle for the tree containing start.
func (r *Runner) Cycle(ctx context.Context, start voxel.Coord) (rep *Report, err error) {
	t0 := time.Now()
	rep = &Report{ID: uuid.New(), Start: start}
	observability.Cycle().OnCycleStart(ctx, start.String())
	defer func() {
		rep.Duration = time.Since(t0)
		root := ""
		if rep.Found {
			root = rep.Root.String()
		}
		observability.Cycle().OnCycleComplete(ctx, root, rep.Found, rep.Duration, err)
	}()

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	step := time.Now()
	sig := r.Analyzer.Analyse(start, r.Analyzer.Signal())
	observability.Analyzer().OnTraversal(ctx, "find_root", sig.Visits, sig.Found, time.Since(step))
	if !sig.Found {
		r.Logger.Debug("no root", "start", start, "visits", sig.Visits,
			"aborted", sig.Aborted, "depth_limited", sig.DepthLimited)
		return rep, nil
	}
	rep.Found, rep.Root = true, sig.Root

	sp := r.Analyzer.SpeciesForLocation(rep.Root)
	rep.Species = sp.Name

	step = time.Now()
	ends, vol := &network.EndFinder{}, &network.NetVolume{}
	msig := r.Analyzer.Map(rep.Root, ends, vol)
	observability.Analyzer().OnTraversal(ctx, "map", msig.Visits, msig.Found, time.Since(step))
	rep.Endpoints, rep.Volume = ends.Ends, vol.Volume

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	step = time.Now()
	targets := cell.LeavesAround(r.Grid, r.Parts, rep.Endpoints, r.LeafRadius)
	rep.Tick = r.Automaton.TickTree(targets, sp.Foliage(r.Parts))
	observability.Automaton().OnTick(ctx, len(targets), rep.Tick.Updated, rep.Tick.Removed, rep.Tick.Grown, time.Since(step))

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	trunk, _ := r.Analyzer.Trunk(rep.Root)
	rep.Features = sp.GenerateFeatures(r.Grid, r.rand(rep.Root), trunk, rep.Endpoints)
	observability.Feature().OnFeature(ctx, sp.Name, rep.Features.Attempts, rep.Features.Placed)

	r.Logger.Debug("cycle complete", "root", rep.Root, "species", rep.Species,
		"ends", len(rep.Endpoints), "leaves", len(targets), "placed", rep.Features.Placed)
	return rep, nil
}

// rand returns the generator for one tree in the current round. Streams
// differ per tree through the root's coordinate hash and per round through
// the round count, never through the order trees are visited in.
func (r *Runner) rand(root voxel.Coord) *rand.Rand {
	return rand.New(rand.NewPCG(r.Seed+r.round, uint64(genfeature.CoordHash(root))))
}

// Round returns the number of rounds [Runner.Run] has started.
func (r *Runner) Round() uint64 { return r.round }

// Run performs cycles rounds over every start. Starts belonging to the
// same tree are grown once per round. Cycles outside Run reuse the seed of
// the latest round.
func (r *Runner) Run(ctx context.Context, starts []voxel.Coord, cycles int) ([]*Report, error) {
	var reports []*Report
	for range cycles {
		t0 := time.Now()
		r.round++
		grown := make(map[voxel.Coord]bool)
		found := 0
		for _, s := range starts {
			if root, ok := r.Analyzer.FindRoot(s); ok && grown[root] {
				continue
			}
			rep, err := r.Cycle(ctx, s)
			if rep != nil {
				reports = append(reports, rep)
			}
			if err != nil {
				return reports, err
			}
			if rep.Found {
				grown[rep.Root] = true
				found++
			}
		}
		r.Logger.Info("round complete", "round", r.round, "trees", found, "duration", time.Since(t0))
	}
	return reports, nil
}
