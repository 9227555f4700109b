package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/ferreusveritas/dynamictrees/pkg/cache"
	"github.com/ferreusveritas/dynamictrees/pkg/dag"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/grow"
	dtio "github.com/ferreusveritas/dynamictrees/pkg/io"
	"github.com/ferreusveritas/dynamictrees/pkg/network"
	"github.com/ferreusveritas/dynamictrees/pkg/render"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{"analyze", "cache", "completion", "grow", "network", "view"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
}

func TestParseCoords(t *testing.T) {
	got, err := parseCoords([]string{"0,0,0", "1, -2, 3"})
	if err != nil {
		t.Fatalf("parseCoords() error = %v", err)
	}
	want := []voxel.Coord{{}, {X: 1, Y: -2, Z: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseCoords() mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"1,2", "a,b,c", ""} {
		if _, err := parseCoords([]string{bad}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseCoords(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestStartsFor(t *testing.T) {
	scene := &dtio.Scene{Trees: []dtio.Pos{{0, 1, 0}}}
	got, err := startsFor(scene, nil)
	if err != nil || len(got) != 1 || got[0] != (voxel.Coord{Y: 1}) {
		t.Errorf("startsFor(trees) = %v, %v", got, err)
	}
	got, err = startsFor(scene, []string{"2,2,2"})
	if err != nil || len(got) != 1 || got[0] != (voxel.Coord{X: 2, Y: 2, Z: 2}) {
		t.Errorf("startsFor(args) = %v, %v", got, err)
	}
	if _, err := startsFor(&dtio.Scene{}, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("startsFor(empty) error = %v, want INVALID_INPUT", err)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats(parseFormats("")); err != nil {
		t.Errorf("default formats rejected: %v", err)
	}
	if err := validateFormats(parseFormats("dot,json,png")); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := validateFormats([]string{"gif"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("validateFormats(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		scene, output, format string
		count                 int
		want                  string
	}{
		{"forest.json", "", "svg", 1, "forest-network.svg"},
		{"dir/forest.json.zst", "", "dot", 2, "forest-network.dot"},
		{"forest.json", "out.svg", "svg", 1, "out.svg"},
		{"forest.json", "out/tree", "png", 2, "out/tree.png"},
		{"forest.json", "out/tree.svg", "json", 2, "out/tree.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.scene, tt.output, tt.format, tt.count); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q",
				tt.scene, tt.output, tt.format, tt.count, got, tt.want)
		}
	}
}

func TestRegistriesFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.yaml")
	cfg := `
max_depth: 64
families:
  - name: birch
    branch: birch_branch
    leaves: birch_leaves
species:
  - name: birch
    family: birch
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.configPath = path
	reg, err := c.registries()
	if err != nil {
		t.Fatalf("registries() error = %v", err)
	}
	if reg.MaxDepth != 64 {
		t.Errorf("MaxDepth = %d, want 64", reg.MaxDepth)
	}
	if _, ok := reg.Species.LookupSpecies("birch"); !ok {
		t.Error("species birch not registered")
	}

	c.configPath = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := c.registries(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("registries(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

// memCache is a map-backed cache for exercising the renderer.
type memCache struct {
	data map[string][]byte
	sets int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func treeScene() *dtio.Scene {
	g := voxel.NewMemGrid()
	g.SetState(voxel.Coord{}, voxel.State{Block: "rooty_dirt"})
	g.SetState(voxel.Coord{Y: 1}, voxel.State{Block: "oak_branch", Radius: 2})
	g.SetState(voxel.Coord{Y: 2}, voxel.State{Block: "oak_branch", Radius: 1})
	g.SetState(voxel.Coord{Y: 3}, voxel.State{Block: "oak_leaves", Hydro: 3})
	return dtio.FromGrid(g, []voxel.Coord{{}})
}

func TestNetworkRenderer(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	reg, err := c.registries()
	if err != nil {
		t.Fatal(err)
	}
	scene := treeScene()
	g, err := network.NewAnalyzer(scene.Grid(), reg.Parts, network.WithSpecies(reg.Species)).Graph(voxel.Coord{})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	hash, err := hashScene(scene)
	if err != nil {
		t.Fatal(err)
	}

	store := &memCache{data: map[string][]byte{}}
	r := &networkRenderer{cache: store, keyer: cache.NewDefaultKeyer(), sceneHash: hash, root: "0,0,0"}

	dot, cached, err := r.render(context.Background(), g, formatDOT)
	if err != nil || cached {
		t.Fatalf("render(dot) cached=%v err=%v", cached, err)
	}
	if !strings.Contains(string(dot), `"0,2,0"`) {
		t.Errorf("render(dot) missing endpoint node:\n%s", dot)
	}

	js, _, err := r.render(context.Background(), g, formatJSON)
	if err != nil {
		t.Fatalf("render(json) error = %v", err)
	}
	back, err := dtio.ReadNetwork(bytes.NewReader(js))
	if err != nil || back.NodeCount() != g.NodeCount() {
		t.Errorf("render(json) round trip = %v, %v", back, err)
	}

	key := r.keyer.NetworkKey(hash, "0,0,0", cache.NetworkKeyOpts{Format: formatSVG})
	store.data[key] = []byte("<svg/>")
	svg, cached, err := r.render(context.Background(), g, formatSVG)
	if err != nil || !cached || string(svg) != "<svg/>" {
		t.Errorf("render(svg) = %q, cached=%v, err=%v; want cache hit", svg, cached, err)
	}
	if store.sets != 0 {
		t.Errorf("cache written %d times for dot, json and a hit", store.sets)
	}
}

func TestNetworkRendererErrors(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "0,0,0", Kind: dag.NodeKindRoot})
	r := &networkRenderer{cache: &memCache{data: map[string][]byte{}}, keyer: cache.NewDefaultKeyer(), root: "0,0,0"}

	if _, _, err := r.render(context.Background(), g, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render(gif) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if render.Available() {
		t.Skip("rsvg-convert installed; pdf export succeeds")
	}
	if _, _, err := r.render(context.Background(), g, formatPDF); !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("render(pdf) error = %v, want %s", err, errors.ErrCodeRenderFailed)
	}
}

func TestHashSceneStable(t *testing.T) {
	a, err := hashScene(treeScene())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := hashScene(treeScene())
	if a != b {
		t.Errorf("hashScene() differs for equal scenes: %s vs %s", a, b)
	}
	other := treeScene()
	other.Voxels = other.Voxels[:2]
	if c, _ := hashScene(other); c == a {
		t.Error("hashScene() equal for different scenes")
	}
}

func TestLayerModel(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	reg, err := c.registries()
	if err != nil {
		t.Fatal(err)
	}
	m := NewLayerModel(treeScene().Grid(), reg.Parts, "tree")
	if m.Y != 0 {
		t.Fatalf("NewLayerModel() Y = %d, want lowest layer 0", m.Y)
	}
	if got := m.glyph(voxel.Coord{}); !strings.Contains(got, "R") {
		t.Errorf("glyph(root) = %q, want R", got)
	}
	if got := m.glyph(voxel.Coord{Y: 3}); !strings.Contains(got, "*") {
		t.Errorf("glyph(leaves) = %q, want *", got)
	}

	up := tea.KeyMsg{Type: tea.KeyUp}
	next, _ := m.Update(up)
	m = next.(LayerModel)
	if m.Y != 1 || !strings.Contains(m.View(), m.glyph(voxel.Coord{Y: 1})) {
		t.Errorf("after up: Y = %d, view:\n%s", m.Y, m.View())
	}

	for range 10 {
		next, _ = m.Update(up)
		m = next.(LayerModel)
	}
	if m.Y != 3 {
		t.Errorf("Y = %d, want clamped to top layer 3", m.Y)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestLayerModelGrow(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	reg, err := c.registries()
	if err != nil {
		t.Fatal(err)
	}
	scene := treeScene()
	grid := scene.Grid()
	m := NewLayerModel(grid, reg.Parts, "tree")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if got := next.(LayerModel).status; got != "no trees to grow" {
		t.Errorf("status without runner = %q", got)
	}

	m.Runner = grow.NewRunner(grid, reg)
	m.Trees = scene.TreeCoords()
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m = next.(LayerModel)
	if !strings.HasPrefix(m.status, "cycle 1:") {
		t.Errorf("status after grow = %q, want cycle 1", m.status)
	}
	if !strings.Contains(m.View(), "cycle 1:") {
		t.Error("View() should show the growth status")
	}
}
