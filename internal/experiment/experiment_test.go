package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.ListIntegrators() {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("GetIntegrator(%s): %v", name, err)
		}
	}
	if _, err := r.GetIntegrator("rk45"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if _, err := r.GetGenerator("spiral"); err == nil {
		t.Error("expected error for unknown generator")
	}
	if _, err := r.GetField("gravity"); err != nil {
		t.Error(err)
	}

	gens := r.ListGenerators()
	if len(gens) != 5 || gens[0] != "binary" {
		t.Errorf("generators = %v", gens)
	}
}

func TestSetup(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitState.NumBodies = 20
	cfg.MaxSteps = 3

	s, err := New(cfg, nil).Setup()
	if err != nil {
		t.Fatal(err)
	}
	if s.Bodies().Len() != 21 {
		t.Errorf("len = %d, want 21", s.Bodies().Len())
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.StepsTaken != 3 {
		t.Errorf("steps = %d, want 3", res.StepsTaken)
	}
	for _, name := range []string{"mass_drift", "energy_drift", "final_bodies"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("metric %s not recorded", name)
		}
	}
	if res.Metrics["mass_drift"] > 1e-12 {
		t.Errorf("mass drift %g", res.Metrics["mass_drift"])
	}
}

func TestSetup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"integrator", func(c *config.Config) { c.Integrator = "rk45" }, dynamo.ErrInvalidConfig},
		{"time step", func(c *config.Config) { c.TimeStep = -1 }, dynamo.ErrInvalidConfig},
		{"lock", func(c *config.Config) { c.Lock.Enabled = true; c.Lock.Index = 1000 }, dynamo.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.InitState.NumBodies = 5
			tt.mutate(cfg)
			if _, err := New(cfg, nil).Setup(); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
