package voxel

import "gonum.org/v1/gonum/spatial/r3"

// Reader reads voxel state.
type Reader interface {
	State(c Coord) State
	IsEmpty(c Coord) bool
}

// Writer replaces voxel state.
type Writer interface {
	SetState(c Coord, s State)
}

// Tracer finds the first non-empty voxel on the segment from start to end,
// excluding the voxel containing start.
type Tracer interface {
	TraceBlocks(start, end r3.Vec) (Hit, bool)
}

// Grid is the full world access the growth components need.
type Grid interface {
	Reader
	Writer
	Tracer
}

// Hit is the result of a successful trace.
type Hit struct {
	// Coord is the struck voxel.
	Coord Coord
	// Face is the face of the struck voxel the segment entered through.
	Face Face
	// Point is where the segment crossed into the struck voxel.
	Point r3.Vec
}

// Rand is the random source injected into randomized operations.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// ReadWriter is a grid that does not need ray tracing.
type ReadWriter interface {
	Reader
	Writer
}
