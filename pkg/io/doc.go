// Package io reads and writes scene files and exports mapped networks.
//
// # Scene Format
//
// A scene is a sparse voxel world plus the positions of its trees:
//
//	{
//	  "version": 1,
//	  "voxels": [
//	    {"pos": [0, 0, 0], "block": "rooty_dirt", "props": {"species": "oak"}},
//	    {"pos": [0, 1, 0], "block": "oak_branch", "radius": 3},
//	    {"pos": [0, 2, 0], "block": "oak_leaves", "hydro": 4}
//	  ],
//	  "trees": [[0, 0, 0]]
//	}
//
// Voxels not listed are air. [ReadScene] validates the document against an
// embedded JSON schema before decoding it, so malformed scenes fail with an
// INVALID_SCENE error naming the offending location.
//
// [ImportScene] and [ExportScene] work on files; a ".zst" suffix selects
// zstd compression, which suits large worlds.
//
// # Network Format
//
// [WriteNetwork] exports the layered graph the analyzer builds from a root:
//
//	{
//	  "meta": {"root": "0,0,0", "species": "oak", "volume": 9},
//	  "rows": 2,
//	  "nodes": [
//	    {"id": "0,0,0", "row": 0, "kind": "root"},
//	    {"id": "0,1,0", "row": 1, "kind": "endpoint", "meta": {"radius": 3}}
//	  ],
//	  "edges": [{"from": "0,0,0", "to": "0,1,0"}]
//	}
//
// [ReadNetwork] reads it back for round-trip processing.
package io
