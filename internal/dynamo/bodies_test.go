package dynamo

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func testBodies(masses ...float64) *Bodies {
	n := len(masses)
	b := &Bodies{
		Pos:   make([]r2.Vec, n),
		Vel:   make([]r2.Vec, n),
		Mass:  append([]float64(nil), masses...),
		Color: make([]color.RGBA, n),
	}
	for i := range masses {
		b.Pos[i] = r2.Vec{X: float64(i), Y: float64(10 * i)}
		b.Vel[i] = r2.Vec{X: -float64(i), Y: 1}
		b.Color[i] = color.RGBA{R: uint8(i), A: 255}
	}
	return b
}

func TestNewBodies_DimensionMismatch(t *testing.T) {
	_, err := NewBodies(make([]r2.Vec, 2), make([]r2.Vec, 2), []float64{1}, make([]color.RGBA, 2))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNewBodies_NegativeMass(t *testing.T) {
	_, err := NewBodies(make([]r2.Vec, 1), make([]r2.Vec, 1), []float64{-1}, make([]color.RGBA, 1))
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestNewBodies_Copies(t *testing.T) {
	mass := []float64{1, 2}
	b, err := NewBodies(make([]r2.Vec, 2), make([]r2.Vec, 2), mass, make([]color.RGBA, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mass[0] = 99
	if b.Mass[0] != 1 {
		t.Error("NewBodies did not copy masses")
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name     string
		masses   []float64
		lock     int
		wantLen  int
		wantLock int
	}{
		{"no dead", []float64{1, 2, 3}, 1, 3, 1},
		{"dead before lock", []float64{0, 2, 0, 4}, 3, 2, 1},
		{"dead after lock", []float64{1, 2, 0, 0}, 1, 2, 1},
		{"lock dead", []float64{1, 0, 3}, 1, 2, -1},
		{"all dead", []float64{0, 0}, 0, 0, -1},
		{"no lock", []float64{1, 0, 3}, -1, 2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBodies(tt.masses...)
			lock := b.Compact(tt.lock)
			if lock != tt.wantLock {
				t.Errorf("lock = %d, want %d", lock, tt.wantLock)
			}
			if b.Len() != tt.wantLen {
				t.Errorf("len = %d, want %d", b.Len(), tt.wantLen)
			}
			if err := b.Validate(); err != nil {
				t.Errorf("sequences out of sync: %v", err)
			}
			for i, m := range b.Mass {
				if m <= 0 {
					t.Errorf("body %d survived with mass %g", i, m)
				}
			}
		})
	}
}

func TestCompact_KeepsBodiesAligned(t *testing.T) {
	b := testBodies(0, 2, 0, 4)
	b.Compact(-1)

	// survivors were originally indices 1 and 3
	if b.Pos[0].X != 1 || b.Pos[1].X != 3 {
		t.Errorf("positions misaligned: %v", b.Pos)
	}
	if b.Color[0].R != 1 || b.Color[1].R != 3 {
		t.Errorf("colors misaligned: %v", b.Color)
	}
	if b.Vel[1].X != -3 {
		t.Errorf("velocities misaligned: %v", b.Vel)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	b := testBodies(1, 2)
	pre := append([]r2.Vec(nil), b.Pos...)
	f := b.Snapshot(7, pre, 1)

	b.Pos[0].X = 100
	b.Mass[0] = 100
	pre[1].Y = 100

	if f.Post[0].X == 100 || f.Mass[0] == 100 || f.Pre[1].Y == 100 {
		t.Error("snapshot shares memory with the body set")
	}
	if f.Step != 7 || f.Lock != 1 || f.Len() != 2 {
		t.Errorf("unexpected frame header: step=%d lock=%d len=%d", f.Step, f.Lock, f.Len())
	}
}

func TestIsFinite(t *testing.T) {
	b := testBodies(1, 1)
	if !b.IsFinite() {
		t.Fatal("expected finite state")
	}
	b.Vel[1].Y = math.NaN()
	if b.IsFinite() {
		t.Error("NaN velocity not detected")
	}
	b.Vel[1].Y = 0
	b.Pos[0].X = math.Inf(1)
	if b.IsFinite() {
		t.Error("Inf position not detected")
	}
}

func TestMomentumAndMass(t *testing.T) {
	b := testBodies(1, 2, 0)
	if got := b.TotalMass(); got != 3 {
		t.Errorf("TotalMass = %g, want 3", got)
	}
	if got := b.Live(); got != 2 {
		t.Errorf("Live = %d, want 2", got)
	}
	p := b.Momentum()
	if p.X != -2 || p.Y != 3 {
		t.Errorf("Momentum = %v, want {-2 3}", p)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero time step", func(c *Config) { c.TimeStep = 0 }, false},
		{"negative time step", func(c *Config) { c.TimeStep = -0.1 }, false},
		{"zero sub steps", func(c *Config) { c.SubSteps = 0 }, false},
		{"zero threshold", func(c *Config) { c.CollisionThreshold = 0 }, false},
		{"negative min bodies", func(c *Config) { c.MinBodies = -1 }, false},
		{"negative max steps", func(c *Config) { c.MaxSteps = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Bodies: 3, Wrapped: ErrInvalidState}
	expected := "step 150 (3 bodies): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError does not unwrap")
	}
}
