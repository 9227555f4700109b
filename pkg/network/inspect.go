package network

import (
	"github.com/ferreusveritas/dynamictrees/pkg/dag"
	"github.com/ferreusveritas/dynamictrees/pkg/treepart"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// EndFinder collects branch voxels with no outward continuation.
type EndFinder struct {
	Ends []voxel.Coord
}

func (e *EndFinder) Run(Node) {}

func (e *EndFinder) Returning(n Node) {
	if n.Part.Kind() == treepart.KindBranch && n.Children == 0 {
		e.Ends = append(e.Ends, n.Coord)
	}
}

// NetVolume sums radius squared over every branch voxel.
type NetVolume struct {
	Volume int
}

func (v *NetVolume) Run(n Node) {
	if n.Part.Kind() == treepart.KindBranch {
		r := n.Part.Radius(n.State)
		v.Volume += r * r
	}
}

func (v *NetVolume) Returning(Node) {}

// GraphBuilder records the walk as a layered graph: one node per voxel at
// row Depth, one edge from each voxel to every neighbour walked into.
type GraphBuilder struct {
	g   *dag.DAG
	err error
}

// NewGraphBuilder returns a builder with graph-level metadata meta.
func NewGraphBuilder(meta dag.Metadata) *GraphBuilder {
	return &GraphBuilder{g: dag.New(meta)}
}

func (b *GraphBuilder) Run(n Node) {
	if b.err != nil {
		return
	}
	// A root reached from a branch is a neighbouring tree's root; it bounds
	// the walk and is still a root.
	kind := dag.NodeKindBranch
	if n.Part.Kind() == treepart.KindRoot {
		kind = dag.NodeKindRoot
	}
	meta := dag.Metadata{"block": n.State.Block, "part": n.Part.Kind().String()}
	if r := n.Part.Radius(n.State); r > 0 {
		meta["radius"] = r
	}
	if err := b.g.AddNode(dag.Node{ID: n.Coord.String(), Row: n.Depth, Kind: kind, Meta: meta}); err != nil {
		b.err = err
		return
	}
	if n.HasParent {
		b.err = b.g.AddEdge(dag.Edge{From: n.Parent.String(), To: n.Coord.String()})
	}
}

func (b *GraphBuilder) Returning(n Node) {
	if b.err != nil || n.Part.Kind() != treepart.KindBranch || n.Children > 0 {
		return
	}
	if node, ok := b.g.Node(n.Coord.String()); ok {
		node.Kind = dag.NodeKindEndpoint
	}
}

// Graph returns the built graph and the first error met while building.
func (b *GraphBuilder) Graph() (*dag.DAG, error) {
	return b.g, b.err
}
