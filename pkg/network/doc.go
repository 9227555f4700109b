// Package network traverses branch networks in a voxel grid.
//
// A branch network is never stored. It is the implicit graph of branch
// voxels joined across faces, rediscovered on every query by walking the
// grid. Each walk carries a [Signal]: the current path, a visited set that
// only grows, and the outcome. The visited set and the signal's depth bound
// together guarantee termination on looped or malformed networks.
//
// [Analyzer.FindRoot] walks inward from any branch voxel until it reaches a
// root. Neighbours are tried in [voxel.Faces] order, downward first.
// [Analyzer.Map] walks outward from a root and feeds every voxel to the
// signal's [Inspector]s; [EndFinder], [NetVolume] and [GraphBuilder] are
// built on it.
//
// Failures are outcomes, not errors. An unreachable root, an exhausted depth
// bound and a voxel that changed role mid-walk all leave the signal not found.
package network
