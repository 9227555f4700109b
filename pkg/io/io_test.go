package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ferreusveritas/dynamictrees/pkg/dag"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

const sampleScene = `{
  "version": 1,
  "voxels": [
    {"pos": [0, 0, 0], "block": "rooty_dirt", "props": {"species": "oak"}},
    {"pos": [0, 1, 0], "block": "oak_branch", "radius": 3},
    {"pos": [0, 2, 0], "block": "oak_leaves", "hydro": 4}
  ],
  "trees": [[0, 0, 0]]
}`

func TestReadScene(t *testing.T) {
	s, err := ReadScene(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("ReadScene() error = %v", err)
	}
	g := s.Grid()
	if g.Len() != 3 {
		t.Fatalf("Grid().Len() = %d, want 3", g.Len())
	}
	if got := g.State(voxel.Coord{Y: 1}); got.Block != "oak_branch" || got.Radius != 3 {
		t.Errorf("state at 0,1,0 = %+v", got)
	}
	if got := g.State(voxel.Coord{}).Prop("species"); got != "oak" {
		t.Errorf("root species prop = %q", got)
	}
	if diff := cmp.Diff([]voxel.Coord{{}}, s.TreeCoords()); diff != "" {
		t.Errorf("TreeCoords() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSceneRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"version": 1,`},
		{"wrong version", `{"version": 2, "voxels": []}`},
		{"missing voxels", `{"version": 1}`},
		{"short pos", `{"version": 1, "voxels": [{"pos": [0, 1], "block": "stone"}]}`},
		{"fractional pos", `{"version": 1, "voxels": [{"pos": [0, 1.5, 0], "block": "stone"}]}`},
		{"missing block", `{"version": 1, "voxels": [{"pos": [0, 1, 0]}]}`},
		{"unknown field", `{"version": 1, "voxels": [{"pos": [0, 1, 0], "block": "stone", "colour": "red"}]}`},
		{"radius too large", `{"version": 1, "voxels": [{"pos": [0, 1, 0], "block": "oak_branch", "radius": 99}]}`},
		{"duplicate", `{"version": 1, "voxels": [{"pos": [0, 1, 0], "block": "a"}, {"pos": [0, 1, 0], "block": "b"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadScene(strings.NewReader(tt.json))
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("ReadScene() error = %v, want INVALID_SCENE", err)
			}
		})
	}
}

func TestExportImportScene(t *testing.T) {
	g := voxel.NewMemGrid()
	g.SetState(voxel.Coord{}, voxel.State{Block: "rooty_dirt"})
	g.SetState(voxel.Coord{Y: 1}, voxel.State{Block: "oak_branch", Radius: 2})
	g.SetState(voxel.Coord{X: 1, Y: 1}, voxel.State{Block: "vine", Props: map[string]string{"side": "west"}})
	want := FromGrid(g, []voxel.Coord{{}})

	dir := t.TempDir()
	for _, name := range []string{"scene.json", "nested/scene.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := ExportScene(want, path); err != nil {
				t.Fatalf("ExportScene() error = %v", err)
			}
			got, err := ImportScene(path)
			if err != nil {
				t.Fatalf("ImportScene() error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := ImportScene(filepath.Join(dir, "absent.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportScene(absent) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFromGridOrder(t *testing.T) {
	g := voxel.NewMemGrid()
	g.SetState(voxel.Coord{Y: 2}, voxel.State{Block: "a"})
	g.SetState(voxel.Coord{X: 5}, voxel.State{Block: "b"})
	g.SetState(voxel.Coord{X: -5}, voxel.State{Block: "c"})

	var got []string
	for _, v := range FromGrid(g, nil).Voxels {
		got = append(got, v.Block)
	}
	if diff := cmp.Diff([]string{"c", "b", "a"}, got); diff != "" {
		t.Errorf("voxel order mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkRoundTrip(t *testing.T) {
	g := dag.New(dag.Metadata{"root": "0,0,0"})
	_ = g.AddNode(dag.Node{ID: "0,0,0", Row: 0, Kind: dag.NodeKindRoot})
	_ = g.AddNode(dag.Node{ID: "0,1,0", Row: 1, Meta: dag.Metadata{"radius": 3}})
	_ = g.AddNode(dag.Node{ID: "0,2,0", Row: 2, Kind: dag.NodeKindEndpoint})
	_ = g.AddEdge(dag.Edge{From: "0,0,0", To: "0,1,0"})
	_ = g.AddEdge(dag.Edge{From: "0,1,0", To: "0,2,0"})

	var buf bytes.Buffer
	if err := WriteNetwork(g, &buf); err != nil {
		t.Fatalf("WriteNetwork() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"kind": "endpoint"`) {
		t.Errorf("output missing endpoint kind:\n%s", buf.String())
	}

	back, err := ReadNetwork(&buf)
	if err != nil {
		t.Fatalf("ReadNetwork() error = %v", err)
	}
	if back.NodeCount() != 3 || back.EdgeCount() != 2 || back.RowCount() != 3 {
		t.Errorf("ReadNetwork() = %d nodes, %d edges, %d rows", back.NodeCount(), back.EdgeCount(), back.RowCount())
	}
	if n, _ := back.Node("0,0,0"); !n.IsRoot() {
		t.Errorf("root kind = %v", n.Kind)
	}
	if back.Meta()["root"] != "0,0,0" {
		t.Errorf("meta = %v", back.Meta())
	}
}

func TestReadNetworkRejectsBadRows(t *testing.T) {
	in := `{"rows": 2, "nodes": [{"id": "a", "row": 0, "kind": "root"}, {"id": "b", "row": 2, "kind": "branch"}],
	        "edges": [{"from": "a", "to": "b"}]}`
	if _, err := ReadNetwork(strings.NewReader(in)); err == nil {
		t.Error("ReadNetwork() accepted an edge skipping a row")
	}
}
