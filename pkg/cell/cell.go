// Package cell implements the leaf-cluster cellular automaton.
//
// Each leaf voxel carries a small integer (its "hydro" value). On every tick
// a leaf takes the strongest value its six neighbours offer toward it, minus
// the kit's decay, clamped to [0, max]. Twig branches act as sources, so
// leaves stay alive only within a few blocks of a twig. A leaf that reaches
// zero is handed to a [DeathPolicy].
//
// A [Cell] reports its raw value and, separately, the value it offers across
// each face. Variants override the two independently to shape clusters: a
// [Canopy] cell never feeds the voxel below it, a [Conifer] cell never feeds
// the voxel above it.
//
// Ticks are computed from a snapshot: every neighbour read for every
// candidate happens before the first write.
package cell

import "github.com/ferreusveritas/dynamictrees/pkg/voxel"

// Cell is one unit of the automaton.
type Cell interface {
	Value() int
	// ValueFromSide is the value offered to the neighbour in direction f.
	ValueFromSide(f voxel.Face) int
}

// Null is the cell of anything that does not take part: air, stone, roots,
// thick branches.
type Null struct{}

func (Null) Value() int                   { return 0 }
func (Null) ValueFromSide(voxel.Face) int { return 0 }

// Normal offers its value on every face.
type Normal struct{ V int }

func (c Normal) Value() int                   { return c.V }
func (c Normal) ValueFromSide(voxel.Face) int { return c.V }

// Canopy does not propagate downward, giving flat-bottomed crowns.
type Canopy struct{ V int }

func (c Canopy) Value() int { return c.V }

func (c Canopy) ValueFromSide(f voxel.Face) int {
	if f == voxel.Down {
		return 0
	}
	return c.V
}

// Conifer does not propagate upward, giving clusters that hang below twigs.
type Conifer struct{ V int }

func (c Conifer) Value() int { return c.V }

func (c Conifer) ValueFromSide(f voxel.Face) int {
	if f == voxel.Up {
		return 0
	}
	return c.V
}

// Source is the cell of a twig branch. It seeds adjacent leaves.
type Source struct{ V int }

func (c Source) Value() int                   { return c.V }
func (c Source) ValueFromSide(voxel.Face) int { return c.V }
