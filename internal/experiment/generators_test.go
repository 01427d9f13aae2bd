package experiment

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

var center = r2.Vec{X: 600, Y: 400}

func newRand(seed uint64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func TestGenerators_Deterministic(t *testing.T) {
	init := config.DefaultConfig().InitState
	init.NumBodies = 50

	for name, gen := range map[string]Generator{"disk": Disk, "ring": Ring, "cluster": Cluster, "binary": Binary} {
		t.Run(name, func(t *testing.T) {
			a, err := gen(init, center, newRand(42))
			if err != nil {
				t.Fatal(err)
			}
			b, err := gen(init, center, newRand(42))
			if err != nil {
				t.Fatal(err)
			}
			for i := range a.Mass {
				if a.Pos[i] != b.Pos[i] || a.Vel[i] != b.Vel[i] || a.Mass[i] != b.Mass[i] || a.Color[i] != b.Color[i] {
					t.Fatalf("body %d differs between runs with the same seed", i)
				}
			}
			for i, m := range a.Mass {
				if m <= 0 {
					t.Errorf("body %d generated dead (mass %g)", i, m)
				}
			}
		})
	}
}

func TestDisk(t *testing.T) {
	init := config.InitStateConfig{NumBodies: 100, Radius: 200, CentralMass: 1000, MeanMass: 1, MassSpread: 0.3, Speed: 1}
	b, err := Disk(init, center, newRand(1))
	if err != nil {
		t.Fatal(err)
	}

	if b.Len() != 101 {
		t.Fatalf("len = %d, want 101", b.Len())
	}
	if b.Pos[0] != center || b.Mass[0] != 1000 {
		t.Errorf("central body = %v mass %g", b.Pos[0], b.Mass[0])
	}
	for i := 1; i < b.Len(); i++ {
		off := r2.Sub(b.Pos[i], center)
		r := r2.Norm(off)
		if r < 0.15*200-1e-9 || r > 200+1e-9 {
			t.Errorf("body %d at radius %g outside the disk", i, r)
		}
		if dot := r2.Dot(off, b.Vel[i]); math.Abs(dot) > 1e-9*r {
			t.Errorf("body %d velocity not tangential, dot = %g", i, dot)
		}
		if want := math.Sqrt(1000 / r); math.Abs(r2.Norm(b.Vel[i])-want) > 1e-9 {
			t.Errorf("body %d speed %g, want %g", i, r2.Norm(b.Vel[i]), want)
		}
	}
}

func TestRing(t *testing.T) {
	init := config.InitStateConfig{NumBodies: 36, Radius: 100, MeanMass: 2}
	b, err := Ring(init, center, newRand(3))
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 36 {
		t.Fatalf("len = %d, want 36", b.Len())
	}
	for i := range b.Mass {
		if r := r2.Norm(r2.Sub(b.Pos[i], center)); math.Abs(r-100) > 15 {
			t.Errorf("body %d at radius %g", i, r)
		}
		if b.Mass[i] != 2 {
			t.Errorf("zero spread should give the mean mass, got %g", b.Mass[i])
		}
		if b.Vel[i] != (r2.Vec{}) {
			t.Errorf("ring without central mass should start at rest")
		}
	}
}

func TestCluster(t *testing.T) {
	init := config.InitStateConfig{NumBodies: 400, Radius: 100, MeanMass: 1, MassSpread: 0.5}
	b, err := Cluster(init, center, newRand(5))
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 400 {
		t.Fatalf("len = %d, want 400", b.Len())
	}
	var mean r2.Vec
	for i := range b.Pos {
		if b.Vel[i] != (r2.Vec{}) {
			t.Fatalf("body %d not at rest", i)
		}
		mean = r2.Add(mean, b.Pos[i])
	}
	mean = r2.Scale(1.0/400, mean)
	if r2.Norm(r2.Sub(mean, center)) > 15 {
		t.Errorf("cluster centered at %v, want near %v", mean, center)
	}
}

func TestBinary(t *testing.T) {
	init := config.InitStateConfig{NumBodies: 0, Radius: 50, CentralMass: 200, Speed: 1}
	b, err := Binary(init, center, newRand(9))
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if p := b.Momentum(); r2.Norm(p) > 1e-12 {
		t.Errorf("binary momentum = %v, want zero", p)
	}
	if v := r2.Norm(b.Vel[0]); math.Abs(v-1) > 1e-12 {
		t.Errorf("orbital speed = %g, want 1", v)
	}
}

func TestExplicit(t *testing.T) {
	init := config.InitStateConfig{Bodies: []config.BodyConfig{
		{Pos: config.Point{X: 1, Y: 2}, Vel: config.Point{Y: -1}, Mass: 5, Color: "#ff0000"},
		{Pos: config.Point{X: 10}, Mass: 1},
	}}
	b, err := Explicit(init, center, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 2 || b.Pos[0] != (r2.Vec{X: 1, Y: 2}) || b.Vel[0] != (r2.Vec{Y: -1}) {
		t.Errorf("bodies = %+v", b)
	}
	if c := b.Color[0]; c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("color = %v, want red", c)
	}
	if b.Color[1].A != 255 {
		t.Errorf("palette color not opaque: %v", b.Color[1])
	}
}

func TestGenerators_Errors(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
		init config.InitStateConfig
	}{
		{"disk radius", Disk, config.InitStateConfig{NumBodies: 3}},
		{"ring radius", Ring, config.InitStateConfig{NumBodies: 3, Radius: -1}},
		{"cluster radius", Cluster, config.InitStateConfig{NumBodies: 3}},
		{"binary mass", Binary, config.InitStateConfig{Radius: 10}},
		{"explicit empty", Explicit, config.InitStateConfig{}},
		{"explicit color", Explicit, config.InitStateConfig{Bodies: []config.BodyConfig{{Mass: 1, Color: "red"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.gen(tt.init, center, newRand(1)); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}

	neg := config.InitStateConfig{Bodies: []config.BodyConfig{{Mass: -1}}}
	if _, err := Explicit(neg, center, nil); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("negative mass: err = %v, want ErrInvalidState", err)
	}
}
