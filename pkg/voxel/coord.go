package voxel

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Coord is a voxel position.
type Coord struct {
	X, Y, Z int
}

// Add returns c translated by (dx, dy, dz).
func (c Coord) Add(dx, dy, dz int) Coord {
	return Coord{c.X + dx, c.Y + dy, c.Z + dz}
}

// Offset returns the neighbour of c across face f.
func (c Coord) Offset(f Face) Coord {
	dx, dy, dz := f.Offset()
	return c.Add(dx, dy, dz)
}

func (c Coord) Up() Coord   { return c.Add(0, 1, 0) }
func (c Coord) Down() Coord { return c.Add(0, -1, 0) }

// Center returns the centre point of the voxel in world space.
func (c Coord) Center() r3.Vec {
	return r3.Vec{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5, Z: float64(c.Z) + 0.5}
}

// Compare orders coordinates by Y, then Z, then X.
func (c Coord) Compare(o Coord) int {
	if v := cmp.Compare(c.Y, o.Y); v != 0 {
		return v
	}
	if v := cmp.Compare(c.Z, o.Z); v != 0 {
		return v
	}
	return cmp.Compare(c.X, o.X)
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z)
}

// ParseCoord parses the "x,y,z" form produced by [Coord.String].
func ParseCoord(s string) (Coord, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Coord{}, fmt.Errorf("coordinate %q: want x,y,z", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
		}
		v[i] = n
	}
	return Coord{v[0], v[1], v[2]}, nil
}
