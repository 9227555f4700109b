package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ferreusveritas/dynamictrees/pkg/dag"
)

var kindToString = map[dag.NodeKind]string{
	dag.NodeKindBranch:   "branch",
	dag.NodeKindRoot:     "root",
	dag.NodeKindEndpoint: "endpoint",
}

var kindFromString = map[string]dag.NodeKind{
	"branch":   dag.NodeKindBranch,
	"root":     dag.NodeKindRoot,
	"endpoint": dag.NodeKindEndpoint,
}

type network struct {
	Meta  dag.Metadata `json:"meta,omitempty"`
	Rows  int          `json:"rows"`
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Row  int          `json:"row"`
	Kind string       `json:"kind"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteNetwork encodes a mapped network graph as JSON. Nodes are written
// by row, then ID; edges in the order the walk took them.
func WriteNetwork(g *dag.DAG, w io.Writer) error {
	nodes, edges := g.Nodes(), g.Edges()
	out := network{
		Meta:  g.Meta(),
		Rows:  g.RowCount(),
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = node{ID: n.ID, Row: n.Row, Kind: kindToString[n.Kind], Meta: n.Meta}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportNetwork writes a network graph to a JSON file at path.
func ExportNetwork(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteNetwork(g, f)
}

// ReadNetwork decodes a network graph written by [WriteNetwork] and
// validates it.
func ReadNetwork(r io.Reader) (*dag.DAG, error) {
	var data network
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(data.Meta)
	for _, n := range data.Nodes {
		kind, ok := kindFromString[n.Kind]
		if !ok {
			return nil, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
		}
		if err := g.AddNode(dag.Node{ID: n.ID, Row: n.Row, Kind: kind, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	return g, nil
}
