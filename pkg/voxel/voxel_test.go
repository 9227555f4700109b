package voxel

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// seqRand replays fixed deviates.
type seqRand struct {
	floats []float64
	i      int
}

func (r *seqRand) Float64() float64 {
	v := r.floats[r.i%len(r.floats)]
	r.i++
	return v
}

func (r *seqRand) IntN(n int) int { return int(r.Float64() * float64(n)) }

func TestFaceOpposite(t *testing.T) {
	want := map[Face]Face{Down: Up, Up: Down, North: South, South: North, West: East, East: West}
	for f, o := range want {
		if got := f.Opposite(); got != o {
			t.Errorf("%v.Opposite() = %v, want %v", f, got, o)
		}
	}
}

func TestFaceOffsetRoundTrip(t *testing.T) {
	c := Coord{3, -2, 7}
	for _, f := range Faces {
		if got := c.Offset(f).Offset(f.Opposite()); got != c {
			t.Errorf("offset %v and back = %v, want %v", f, got, c)
		}
	}
}

func TestFaceIsHorizontal(t *testing.T) {
	for _, f := range Faces {
		want := f != Up && f != Down
		if got := f.IsHorizontal(); got != want {
			t.Errorf("%v.IsHorizontal() = %v, want %v", f, got, want)
		}
	}
}

func TestParseFace(t *testing.T) {
	for _, f := range Faces {
		got, err := ParseFace(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFace(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFace("sideways"); err == nil {
		t.Error("ParseFace(sideways) should fail")
	}
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		in      string
		want    Coord
		wantErr bool
	}{
		{"1,2,3", Coord{1, 2, 3}, false},
		{" -4, 0 ,12", Coord{-4, 0, 12}, false},
		{"1,2", Coord{}, true},
		{"a,b,c", Coord{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoord(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCoord() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateWithPropCopies(t *testing.T) {
	a := State{Block: "rooty_dirt"}.WithProp("species", "oak")
	b := a.WithProp("species", "birch")
	if a.Prop("species") != "oak" {
		t.Errorf("original state modified: %q", a.Prop("species"))
	}
	if b.Prop("species") != "birch" {
		t.Errorf("WithProp() = %q, want birch", b.Prop("species"))
	}
}

func TestMemGridSetAir(t *testing.T) {
	g := NewMemGrid()
	c := Coord{1, 1, 1}
	g.SetState(c, State{Block: "stone"})
	if g.IsEmpty(c) || g.Len() != 1 {
		t.Fatalf("stone not stored")
	}
	g.SetState(c, Air)
	if !g.IsEmpty(c) || g.Len() != 0 {
		t.Errorf("air did not clear voxel")
	}
	if g.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", g.Writes())
	}
}

func TestMemGridBounds(t *testing.T) {
	g := NewMemGrid()
	if _, _, ok := g.Bounds(); ok {
		t.Error("empty grid reported bounds")
	}
	g.SetState(Coord{-1, 4, 2}, State{Block: "stone"})
	g.SetState(Coord{3, 0, -5}, State{Block: "stone"})
	lo, hi, _ := g.Bounds()
	if lo != (Coord{-1, 0, -5}) || hi != (Coord{3, 4, 2}) {
		t.Errorf("Bounds() = %v..%v", lo, hi)
	}
}

func TestTraceBlocksEntryFace(t *testing.T) {
	tests := []struct {
		name  string
		block Coord
		end   r3.Vec
		face  Face
	}{
		{"east", Coord{3, 0, 0}, r3.Vec{X: 6.5, Y: 0.5, Z: 0.5}, West},
		{"west", Coord{-3, 0, 0}, r3.Vec{X: -5.5, Y: 0.5, Z: 0.5}, East},
		{"south", Coord{0, 0, 2}, r3.Vec{X: 0.5, Y: 0.5, Z: 4.5}, North},
		{"north", Coord{0, 0, -2}, r3.Vec{X: 0.5, Y: 0.5, Z: -4.5}, South},
		{"below", Coord{0, -2, 0}, r3.Vec{X: 0.5, Y: -4.5, Z: 0.5}, Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMemGrid()
			g.SetState(tt.block, State{Block: "stone"})
			hit, ok := g.TraceBlocks(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, tt.end)
			if !ok {
				t.Fatal("TraceBlocks() missed")
			}
			if hit.Coord != tt.block || hit.Face != tt.face {
				t.Errorf("TraceBlocks() = %v/%v, want %v/%v", hit.Coord, hit.Face, tt.block, tt.face)
			}
		})
	}
}

func TestTraceBlocksSkipsStartAndStopsAtEnd(t *testing.T) {
	g := NewMemGrid()
	g.SetState(Coord{0, 0, 0}, State{Block: "stone"})
	g.SetState(Coord{5, 0, 0}, State{Block: "stone"})
	if hit, ok := g.TraceBlocks(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vec{X: 3.5, Y: 0.5, Z: 0.5}); ok {
		t.Errorf("TraceBlocks() hit %v, want miss", hit.Coord)
	}
}

func TestTraceBlocksDiagonal(t *testing.T) {
	g := NewMemGrid()
	g.SetState(Coord{2, 0, 2}, State{Block: "stone"})
	hit, ok := g.TraceBlocks(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vec{X: 4.6, Y: 0.5, Z: 4.4})
	if !ok || hit.Coord != (Coord{2, 0, 2}) {
		t.Fatalf("TraceBlocks() = %v, %v", hit, ok)
	}
}

func TestRayCastStraight(t *testing.T) {
	g := NewMemGrid()
	wall := Coord{4, 0, 0}
	g.SetState(wall, State{Block: "stone"})

	// yaw = 90*0.5-45 = 0, pitch = 0
	rng := &seqRand{floats: []float64{0.5, 0}}
	hit, ok := RayCast(g, rng, Coord{0, -3, 0}, Coord{1, 0, 0}, 90, 40, 5)
	if !ok {
		t.Fatal("RayCast() missed")
	}
	if hit.Coord != wall || hit.Face != West {
		t.Errorf("RayCast() = %v/%v, want %v/west", hit.Coord, hit.Face, wall)
	}
	if rng.i != 2 {
		t.Errorf("RayCast() drew %d deviates, want 2", rng.i)
	}
}

func TestRayCastPitchesDown(t *testing.T) {
	g := NewMemGrid()
	floor := Coord{3, -2, 0}
	g.SetState(floor, State{Block: "stone"})
	// pitch = -40: the ray drops about 0.84 per block travelled.
	hit, ok := RayCast(g, &seqRand{floats: []float64{0.5, 1}}, Coord{}, Coord{1, 0, 0}, 90, 40, 5)
	if !ok || hit.Coord != floor {
		t.Fatalf("RayCast() = %v, %v; want hit at %v", hit.Coord, ok, floor)
	}
}

func TestRayCastDeterministic(t *testing.T) {
	g := NewMemGrid()
	for x := -6; x <= 6; x++ {
		for z := -6; z <= 6; z++ {
			g.SetState(Coord{x, -3, z}, State{Block: "dirt"})
		}
	}
	run := func() []Hit {
		rng := rand.New(rand.NewPCG(7, 7))
		var hits []Hit
		for range 20 {
			if h, ok := RayCast(g, rng, Coord{}, Coord{2, 0, 1}, 90, 40, 5); ok {
				hits = append(hits, h)
			}
		}
		return hits
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("hit counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Coord != b[i].Coord || a[i].Face != b[i].Face {
			t.Errorf("hit %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
