package voxel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RayCast shoots a ray outward from target, away from the trunk at origin,
// and returns the first voxel it strikes within distance.
//
// The horizontal direction is target minus origin with the origin levelled to
// the target's height. It is jittered by a random yaw in ±spreadH/2 degrees
// and pitched downward by up to spreadV degrees. When target sits directly
// above or below origin the direction defaults to +X and the yaw spread
// widens to a full 180 degrees. rng is consumed exactly twice: yaw, then pitch.
func RayCast(t Tracer, rng Rand, origin, target Coord, spreadH, spreadV, distance float64) (Hit, bool) {
	out := r3.Vec{X: float64(target.X - origin.X), Z: float64(target.Z - origin.Z)}
	if out.X == 0 && out.Z == 0 {
		out = r3.Vec{X: 1}
		spreadH = 180
	}

	yaw := spreadH*rng.Float64() - spreadH/2
	pitch := -spreadV * rng.Float64()

	out = r3.Unit(out)
	out.Y += math.Tan(radians(pitch))
	out = r3.Unit(out)
	out = r3.NewRotation(radians(yaw), r3.Vec{Y: 1}).Rotate(out)
	out = r3.Scale(distance, out)

	start := target.Center()
	return t.TraceBlocks(start, r3.Add(start, out))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
