package voxel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// TraceBlocks walks the voxels crossed by the segment start→end in order and
// returns the first one r reports as non-empty. The voxel containing start
// is never reported.
func TraceBlocks(r Reader, start, end r3.Vec) (Hit, bool) {
	d := r3.Sub(end, start)
	cur := Coord{floor(start.X), floor(start.Y), floor(start.Z)}
	last := Coord{floor(end.X), floor(end.Y), floor(end.Z)}

	stepX, tMaxX, tDeltaX := axisStep(start.X, d.X)
	stepY, tMaxY, tDeltaY := axisStep(start.Y, d.Y)
	stepZ, tMaxZ, tDeltaZ := axisStep(start.Z, d.Z)

	// Each step crosses one voxel boundary; float drift must not loop forever.
	limit := abs(last.X-cur.X) + abs(last.Y-cur.Y) + abs(last.Z-cur.Z) + 3
	for range limit {
		var t float64
		var face Face
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			t = tMaxX
			cur.X += stepX
			tMaxX += tDeltaX
			face = entryFace(stepX, West, East)
		case tMaxY <= tMaxZ:
			t = tMaxY
			cur.Y += stepY
			tMaxY += tDeltaY
			face = entryFace(stepY, Down, Up)
		default:
			t = tMaxZ
			cur.Z += stepZ
			tMaxZ += tDeltaZ
			face = entryFace(stepZ, North, South)
		}
		if t > 1 {
			break
		}
		if !r.IsEmpty(cur) {
			return Hit{Coord: cur, Face: face, Point: r3.Add(start, r3.Scale(t, d))}, true
		}
		if cur == last {
			break
		}
	}
	return Hit{}, false
}

// axisStep returns the step direction along one axis, the segment parameter
// of the first boundary crossing and the parameter distance between crossings.
func axisStep(p, d float64) (step int, tMax, tDelta float64) {
	switch {
	case d > 0:
		return 1, (math.Floor(p) + 1 - p) / d, 1 / d
	case d < 0:
		return -1, (p - math.Floor(p)) / -d, -1 / d
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

// entryFace names the face crossed when stepping along an axis: moving in the
// positive direction enters the next voxel through its negative face.
func entryFace(step int, neg, pos Face) Face {
	if step > 0 {
		return neg
	}
	return pos
}

func floor(v float64) int { return int(math.Floor(v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
