// Package voxel is the boundary between the tree engine and the block world.
//
// The engine never owns world data. Everything it knows about a voxel is read
// through a [Reader] and every change goes back through a [Writer]. A [Tracer]
// answers "which solid voxel does this segment hit first, and on which face".
// [Grid] bundles the three and is what the growth components are handed.
//
// # Coordinates and Faces
//
// [Coord] is an integer (x, y, z) position. [Face] names the six axis-aligned
// faces of a voxel using the block-game convention:
//
//	Down=0 (-Y)  Up=1 (+Y)  North=2 (-Z)  South=3 (+Z)  West=4 (-X)  East=5 (+X)
//
// [Faces] lists them in that order, which is also the neighbour visitation
// order used by network traversal. Searching downward first reaches roots
// sooner because roots sit below the branches they feed.
//
// # In-memory Grid
//
// [MemGrid] is a sparse map-backed [Grid] used by the CLI and tests. Its
// [MemGrid.TraceBlocks] walks the segment voxel by voxel (Amanatides and Woo)
// and reports the entry face of the first non-empty voxel.
//
// # Ray Casting
//
// [RayCast] is the jittered "branch ray trace" used by growth features: it
// starts at a branch endpoint and shoots away from the trunk with bounded
// random yaw and downward pitch.
package voxel
