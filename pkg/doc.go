// Package pkg provides the libraries behind dyntrees, a branch-network
// engine for voxel trees.
//
// # Overview
//
// A tree lives in a voxel grid as a root block, a connected set of branch
// voxels each carrying a radius, and clusters of leaf voxels. Nothing stores
// the tree as a whole: every question about it is answered by walking the
// grid from a voxel. The pkg directory is organized into three areas:
//
//  1. Grid model - [voxel], [treepart]
//  2. Growth logic - [network], [cell], [genfeature], [species], [grow]
//  3. Support - [config], [getters], [io], [dag], [render], [cache],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow of one growth cycle:
//
//	Scene file (JSON, optionally zstd)
//	         ↓
//	    [io] package (validate + load into a voxel.MemGrid)
//	         ↓
//	    [network] package (find root, map endpoints and volume)
//	         ↓
//	    [cell] package (tick the leaves around each endpoint)
//	         ↓
//	    [species] + [genfeature] packages (place features such as vines)
//	         ↓
//	    Grown scene, or a [dag] network exported by [render]/nodelink
//
// # Quick Start
//
// Load a scene and grow every tree once:
//
//	import (
//	    "context"
//	    "github.com/ferreusveritas/dynamictrees/pkg/config"
//	    "github.com/ferreusveritas/dynamictrees/pkg/grow"
//	    "github.com/ferreusveritas/dynamictrees/pkg/io"
//	)
//
//	reg, _ := config.Default().Build(nil)
//	scene, _ := io.ImportScene("forest.json.zst")
//	grid := scene.Grid()
//
//	r := grow.NewRunner(grid, reg)
//	reports, _ := r.Run(context.Background(), scene.TreeCoords(), 1)
//
//	_ = io.ExportScene(io.FromGrid(grid, scene.TreeCoords()), "grown.json.zst")
//
// # Main Packages
//
// [voxel] - Coordinates, faces, voxel states, the grid interfaces, an
// in-memory grid and jittered ray casting.
//
// [treepart] - Classifies voxel states as root, branch or leaves through a
// block registry.
//
// [network] - Depth-first signals over the branch network: root finding,
// mapping with inspectors, radius, species and graph export.
//
// [cell] - Leaf cell kits and the snapshot automaton that updates leaf
// clusters.
//
// [genfeature] - Growth features and their factory registry.
//
// [species] - Families, species and location overrides.
//
// [grow] - Runs growth cycles and reports what each did.
//
// [config] - TOML and YAML tree configuration built into registries.
//
// # Concurrency
//
// Grids, analyzers and automatons are not safe for concurrent use. The
// registries are read-only after configuration and may be shared.
package pkg
