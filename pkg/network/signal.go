package network

import (
	"slices"

	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// DefaultMaxDepth bounds the path length of a walk.
const DefaultMaxDepth = 512

// Signal is the state of one walk. Signals are single use.
type Signal struct {
	// Root is the root reached by an inward walk; valid when Found.
	Root  voxel.Coord
	Found bool
	// Aborted is set when a voxel no longer had the role it was entered
	// for, which happens when the world changes between reads.
	Aborted bool
	// DepthLimited is set when the path reached MaxDepth.
	DepthLimited bool
	// Path is the walk from the start. After a successful inward walk it
	// runs from the start voxel to the root inclusive.
	Path []voxel.Coord
	// MaxRadius is the largest branch radius on the found path.
	MaxRadius int
	MaxDepth  int
	// Visits counts voxels entered.
	Visits int

	inward     bool
	radii      []int
	visited    map[voxel.Coord]struct{}
	inspectors []Inspector
}

// NewSignal returns a signal bounded by maxDepth (DefaultMaxDepth if <= 0).
func NewSignal(maxDepth int, inspectors ...Inspector) *Signal {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Signal{
		MaxDepth:   maxDepth,
		visited:    make(map[voxel.Coord]struct{}),
		inspectors: inspectors,
	}
}

// Visited reports whether the walk has entered c.
func (s *Signal) Visited(c voxel.Coord) bool {
	_, ok := s.visited[c]
	return ok
}

// VisitedCount returns the size of the visited set.
func (s *Signal) VisitedCount() int { return len(s.visited) }

func (s *Signal) done() bool { return s.Found || s.Aborted }

func (s *Signal) push(c voxel.Coord, radius int) {
	s.visited[c] = struct{}{}
	s.Visits++
	s.Path = append(s.Path, c)
	s.radii = append(s.radii, radius)
}

func (s *Signal) pop() {
	s.Path = s.Path[:len(s.Path)-1]
	s.radii = s.radii[:len(s.radii)-1]
}

func (s *Signal) found(root voxel.Coord) {
	s.Found = true
	s.Root = root
	s.MaxRadius = slices.Max(s.radii)
}

// Node is what an inspector sees of one voxel.
type Node struct {
	Coord voxel.Coord
	State voxel.State
	Part  treepart.Part
	// Depth is the distance from the walk's start along the path.
	Depth     int
	Parent    voxel.Coord
	HasParent bool
	// Children is the number of neighbours walked into from this voxel.
	// It is only meaningful in Returning.
	Children int
}

// Inspector observes a walk. Run is called on entering a voxel, Returning
// after all of its neighbours have been walked.
type Inspector interface {
	Run(n Node)
	Returning(n Node)
}
