package voxel

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// MemGrid is a sparse in-memory [Grid]. Absent coordinates are air.
// The zero value is not usable; call [NewMemGrid].
type MemGrid struct {
	cells  map[Coord]State
	writes int
}

// NewMemGrid returns an empty grid.
func NewMemGrid() *MemGrid {
	return &MemGrid{cells: make(map[Coord]State)}
}

func (g *MemGrid) State(c Coord) State {
	return g.cells[c]
}

func (g *MemGrid) IsEmpty(c Coord) bool {
	return g.cells[c].IsAir()
}

// SetState stores s at c. Setting air removes the entry.
func (g *MemGrid) SetState(c Coord, s State) {
	g.writes++
	if s.IsAir() {
		delete(g.cells, c)
		return
	}
	g.cells[c] = s
}

// TraceBlocks implements [Tracer] over the grid contents.
func (g *MemGrid) TraceBlocks(start, end r3.Vec) (Hit, bool) {
	return TraceBlocks(g, start, end)
}

// Len returns the number of non-empty voxels.
func (g *MemGrid) Len() int { return len(g.cells) }

// Writes returns the number of SetState calls made so far.
func (g *MemGrid) Writes() int { return g.writes }

// Coords returns every non-empty coordinate in [Coord.Compare] order.
func (g *MemGrid) Coords() []Coord {
	return slices.SortedFunc(maps.Keys(g.cells), Coord.Compare)
}

// Bounds returns the inclusive bounding box of the non-empty voxels.
// ok is false for an empty grid.
func (g *MemGrid) Bounds() (lo, hi Coord, ok bool) {
	for c := range g.cells {
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo = Coord{min(lo.X, c.X), min(lo.Y, c.Y), min(lo.Z, c.Z)}
		hi = Coord{max(hi.X, c.X), max(hi.Y, c.Y), max(hi.Z, c.Z)}
	}
	return lo, hi, ok
}

// Clone returns an independent copy with a zero write counter.
func (g *MemGrid) Clone() *MemGrid {
	return &MemGrid{cells: maps.Clone(g.cells)}
}
