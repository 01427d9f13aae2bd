package collision

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func newBodies(pos, vel []r2.Vec, mass []float64) *dynamo.Bodies {
	b, err := dynamo.NewBodies(pos, vel, mass, make([]color.RGBA, len(mass)))
	if err != nil {
		panic(err)
	}
	return b
}

func TestRadius(t *testing.T) {
	if got := Radius(8); math.Abs(got-2) > 1e-15 {
		t.Errorf("Radius(8) = %g, want 2", got)
	}
	if got := Radius(0); got != 0 {
		t.Errorf("Radius(0) = %g, want 0", got)
	}
}

func TestResolve_EqualMassesJustInside(t *testing.T) {
	const m, threshold = 8.0, 1.5
	d := Radius(m)*threshold - 1e-9

	b := newBodies(
		[]r2.Vec{{X: 10, Y: 20}, {X: 10 + d, Y: 20}},
		[]r2.Vec{{X: 1, Y: 0}, {X: -1, Y: 2}},
		[]float64{m, m},
	)
	r := NewResolver(threshold)
	lock, merges := r.Resolve(b, -1)

	if lock != -1 {
		t.Errorf("lock = %d, want -1", lock)
	}
	if len(merges) != 1 || merges[0].Absorber != 0 || len(merges[0].Absorbed) != 1 || merges[0].Absorbed[0] != 1 {
		t.Fatalf("unexpected merges: %+v", merges)
	}
	if b.Mass[0] != 2*m || b.Mass[1] != 0 {
		t.Errorf("masses = %v, want [%g 0]", b.Mass, 2*m)
	}
	if math.Abs(b.Pos[0].X-(10+d/2)) > 1e-12 || b.Pos[0].Y != 20 {
		t.Errorf("merged position = %v, want midpoint", b.Pos[0])
	}
	if b.Vel[0].X != 0 || b.Vel[0].Y != 1 {
		t.Errorf("merged velocity = %v, want {0 1}", b.Vel[0])
	}
}

func TestResolve_BoundaryIsExclusive(t *testing.T) {
	b := newBodies(
		[]r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}},
		[]r2.Vec{{}, {}},
		[]float64{8, 1},
	)
	_, merges := NewResolver(1).Resolve(b, -1)

	if len(merges) != 0 {
		t.Errorf("bodies at exactly the reach distance merged: %+v", merges)
	}
}

func TestResolve_RadiusOfAbsorberDecides(t *testing.T) {
	// the light body at index 0 cannot reach the heavy one,
	// the heavy body at index 1 reaches the light one
	b := newBodies(
		[]r2.Vec{{X: 0, Y: 0}, {X: 1.5, Y: 0}},
		[]r2.Vec{{}, {}},
		[]float64{1, 8},
	)
	_, merges := NewResolver(1).Resolve(b, -1)

	if len(merges) != 1 || merges[0].Absorber != 1 {
		t.Fatalf("expected body 1 to absorb body 0, got %+v", merges)
	}
	if b.Mass[0] != 0 || b.Mass[1] != 9 {
		t.Errorf("masses = %v, want [0 9]", b.Mass)
	}
}

func TestResolve_MomentumConservation(t *testing.T) {
	b := newBodies(
		[]r2.Vec{{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 0, Y: 0.1}},
		[]r2.Vec{{X: 1, Y: 0}, {X: -2, Y: 3}, {X: 0.5, Y: -1}},
		[]float64{2, 1, 4},
	)
	p0 := b.Momentum()
	NewResolver(1).Resolve(b, -1)

	wantV := r2.Vec{X: (2*1 + 1*-2 + 4*0.5) / 7, Y: (0 + 3 + 4*-1) / 7.0}
	if r2.Norm(r2.Sub(b.Vel[0], wantV)) > 1e-15 {
		t.Errorf("merged velocity = %v, want %v", b.Vel[0], wantV)
	}
	if r2.Norm(r2.Sub(b.Momentum(), p0)) > 1e-12 {
		t.Errorf("momentum changed from %v to %v", p0, b.Momentum())
	}
	wantP := r2.Vec{X: 0.1 / 7, Y: 0.4 / 7}
	if r2.Norm(r2.Sub(b.Pos[0], wantP)) > 1e-15 {
		t.Errorf("merged position = %v, want %v", b.Pos[0], wantP)
	}
}

func TestResolve_MassConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 50
		pos := make([]r2.Vec, n)
		vel := make([]r2.Vec, n)
		mass := make([]float64, n)
		for i := 0; i < n; i++ {
			pos[i] = r2.Vec{X: rng.Float64() * 20, Y: rng.Float64() * 20}
			vel[i] = r2.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64()}
			mass[i] = 0.5 + rng.Float64()*5
		}
		b := newBodies(pos, vel, mass)
		before := b.TotalMass()
		p0 := b.Momentum()

		NewResolver(1.2).Resolve(b, -1)

		if math.Abs(b.TotalMass()-before) > 1e-9 {
			t.Fatalf("trial %d: total mass %g, want %g", trial, b.TotalMass(), before)
		}
		if r2.Norm(r2.Sub(b.Momentum(), p0)) > 1e-9 {
			t.Fatalf("trial %d: momentum %v, want %v", trial, b.Momentum(), p0)
		}
	}
}

func TestResolve_AscendingOrderSinglePass(t *testing.T) {
	// chain 0-1-2 where 0 and 2 never overlap: body 0 takes body 1 first,
	// and the merged body then sits out of reach of body 2
	b := newBodies(
		[]r2.Vec{{X: 0}, {X: 0.9}, {X: 1.7}},
		[]r2.Vec{{}, {}, {}},
		[]float64{1, 1, 1},
	)
	_, merges := NewResolver(1).Resolve(b, -1)

	if len(merges) != 1 {
		t.Fatalf("expected one merge, got %+v", merges)
	}
	if b.Mass[0] != 2 || b.Mass[1] != 0 || b.Mass[2] != 1 {
		t.Errorf("masses = %v, want [2 0 1]", b.Mass)
	}
	if math.Abs(b.Pos[0].X-0.45) > 1e-15 {
		t.Errorf("merged position = %v, want x=0.45", b.Pos[0])
	}
}

func TestResolve_DeadBodiesIgnored(t *testing.T) {
	b := newBodies(
		[]r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 1}},
		[]r2.Vec{{X: 1}, {X: 5}},
		[]float64{3, 0},
	)
	_, merges := NewResolver(1).Resolve(b, -1)

	if len(merges) != 0 {
		t.Errorf("dead body took part in a merge: %+v", merges)
	}
	if b.Mass[0] != 3 || b.Vel[0].X != 1 {
		t.Errorf("live body changed: m=%g v=%v", b.Mass[0], b.Vel[0])
	}
}

func TestResolve_NoCollisionLeavesStateUntouched(t *testing.T) {
	b := newBodies(
		[]r2.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}},
		[]r2.Vec{{X: 0.1, Y: 0.3}, {X: -0.7, Y: 0.2}},
		[]float64{3, 5},
	)
	before := b.Clone()
	lock, merges := NewResolver(2).Resolve(b, 1)

	if lock != 1 || len(merges) != 0 {
		t.Errorf("lock=%d merges=%+v", lock, merges)
	}
	for i := range b.Mass {
		if b.Pos[i] != before.Pos[i] || b.Vel[i] != before.Vel[i] || b.Mass[i] != before.Mass[i] {
			t.Errorf("body %d changed", i)
		}
	}
}

func TestResolve_LockTransfer(t *testing.T) {
	tests := []struct {
		name        string
		lock        int
		wantLock    int
		wantCompact int
	}{
		{"absorbed lock moves to absorber", 3, 1, 1},
		{"absorber keeps lock", 1, 1, 1},
		{"untouched lock before merge", 0, 0, 0},
		{"untouched lock after merge", 4, 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 1 and 3 overlap, everything else is far apart
			b := newBodies(
				[]r2.Vec{{X: -100}, {X: 0}, {X: 100}, {X: 0.5}, {X: 200}},
				make([]r2.Vec, 5),
				[]float64{1, 1, 1, 1, 1},
			)
			lock, _ := NewResolver(1).Resolve(b, tt.lock)
			if lock != tt.wantLock {
				t.Errorf("lock after resolve = %d, want %d", lock, tt.wantLock)
			}
			lock = b.Compact(lock)
			if lock != tt.wantCompact {
				t.Errorf("lock after compaction = %d, want %d", lock, tt.wantCompact)
			}
			if b.Len() != 4 {
				t.Errorf("len after compaction = %d, want 4", b.Len())
			}
		})
	}
}
