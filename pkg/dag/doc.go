// Package dag provides the layered graph used to export and render a mapped
// branch network.
//
// # Overview
//
// A live branch network is an implicit graph over the voxel grid and may
// contain loops. Mapping it from its root with a depth-first signal yields a
// spanning tree: every voxel is reached once, from exactly one parent. This
// package stores that tree as a DAG whose rows are distances from the root,
// so every edge joins row r to row r+1.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "0,0,0", Row: 0, Kind: dag.NodeKindRoot})
//	g.AddNode(dag.Node{ID: "0,1,0", Row: 1})
//	g.AddEdge(dag.Edge{From: "0,0,0", To: "0,1,0"})
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.NodesInRow]
// and [DAG.Sinks]. [DAG.Validate] checks the row and cycle constraints.
//
// # Node Kinds
//
//   - [NodeKindRoot]: the mapped root at row 0, and any neighbouring root
//     the walk reached and stopped at
//   - [NodeKindBranch]: interior branch voxels
//   - [NodeKindEndpoint]: branch voxels with no outward continuation
//
// # Metadata
//
// Nodes carry the voxel's block name and radius in [Metadata]; the graph
// carries the species and the network volume.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
