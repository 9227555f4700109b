package io

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// SceneVersion is the scene format version written by [WriteScene].
const SceneVersion = 1

//go:embed scene.schema.json
var sceneSchema string

var compileSchema = sync.OnceValue(func() *jsonschema.Schema {
	return jsonschema.MustCompileString("scene.schema.json", sceneSchema)
})

// Pos is a voxel position written as [x, y, z].
type Pos [3]int

// PosOf returns the position of c.
func PosOf(c voxel.Coord) Pos { return Pos{c.X, c.Y, c.Z} }

// Coord returns the position as a coordinate.
func (p Pos) Coord() voxel.Coord { return voxel.Coord{X: p[0], Y: p[1], Z: p[2]} }

// Voxel is one occupied voxel of a scene.
type Voxel struct {
	Pos Pos `json:"pos"`
	voxel.State
}

// Scene is a sparse voxel world and the positions of its trees.
type Scene struct {
	Version int     `json:"version"`
	Voxels  []Voxel `json:"voxels"`
	// Trees are growth starting points, usually roots or trunk voxels.
	Trees []Pos `json:"trees,omitempty"`
}

// Grid returns a grid holding the scene's voxels.
func (s *Scene) Grid() *voxel.MemGrid {
	g := voxel.NewMemGrid()
	for _, v := range s.Voxels {
		g.SetState(v.Pos.Coord(), v.State)
	}
	return g
}

// TreeCoords returns the tree positions as coordinates.
func (s *Scene) TreeCoords() []voxel.Coord {
	out := make([]voxel.Coord, len(s.Trees))
	for i, p := range s.Trees {
		out[i] = p.Coord()
	}
	return out
}

// FromGrid captures every occupied voxel of g, in coordinate order.
func FromGrid(g *voxel.MemGrid, trees []voxel.Coord) *Scene {
	s := &Scene{Version: SceneVersion}
	for _, c := range g.Coords() {
		s.Voxels = append(s.Voxels, Voxel{Pos: PosOf(c), State: g.State(c)})
	}
	for _, t := range trees {
		s.Trees = append(s.Trees, PosOf(t))
	}
	return s
}

// ReadScene validates a JSON scene against the scene schema and decodes it.
// Duplicate voxel positions are rejected.
func ReadScene(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read scene")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	if err := compileSchema().Validate(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "scene schema")
	}

	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	seen := make(map[Pos]struct{}, len(s.Voxels))
	for _, v := range s.Voxels {
		if _, dup := seen[v.Pos]; dup {
			return nil, errors.New(errors.ErrCodeInvalidScene, "duplicate voxel at %s", v.Pos.Coord())
		}
		seen[v.Pos] = struct{}{}
	}
	return &s, nil
}

// WriteScene encodes s as indented JSON.
func WriteScene(s *Scene, w io.Writer) error {
	if s.Version == 0 {
		s.Version = SceneVersion
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// IsCompressed reports whether path names a zstd-compressed scene.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// ImportScene reads a scene file. Files ending in .zst are decompressed.
func ImportScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "scene file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if !IsCompressed(path) {
		return ReadScene(bufio.NewReader(f))
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "open compressed scene")
	}
	defer dec.Close()
	return ReadScene(dec)
}

// ExportScene writes a scene file, compressing when path ends in .zst.
func ExportScene(s *Scene, path string) error {
	var buf bytes.Buffer
	if err := WriteScene(s, &buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if !IsCompressed(path) {
		_, err = f.Write(buf.Bytes())
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(buf.Bytes()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
