package voxel

import "fmt"

// Face identifies one of the six axis-aligned faces of a voxel.
type Face int

const (
	Down Face = iota
	Up
	North
	South
	West
	East
)

// Faces is the fixed neighbour visitation order.
var Faces = [6]Face{Down, Up, North, South, West, East}

// HorizontalFaces are the four lateral faces.
var HorizontalFaces = [4]Face{North, South, West, East}

var faceNames = [6]string{"down", "up", "north", "south", "west", "east"}

var faceOffsets = [6][3]int{
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
	{-1, 0, 0},
	{1, 0, 0},
}

// Offset returns the unit step across the face.
func (f Face) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Opposite returns the face pointing the other way.
func (f Face) Opposite() Face {
	return f ^ 1
}

// IsHorizontal reports whether f is one of the four lateral faces.
func (f Face) IsHorizontal() bool {
	return f >= North && f <= East
}

// Valid reports whether f is one of the six defined faces.
func (f Face) Valid() bool {
	return f >= Down && f <= East
}

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// ParseFace resolves a lower-case face name.
func ParseFace(s string) (Face, error) {
	for i, n := range faceNames {
		if n == s {
			return Face(i), nil
		}
	}
	return 0, fmt.Errorf("unknown face %q", s)
}
