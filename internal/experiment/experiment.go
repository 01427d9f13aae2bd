package experiment

import (
	"fmt"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/sim"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

// Experiment turns a configuration into a ready-to-run simulator.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Bodies generates the initial Body Set. Generated systems are centered on
// the middle of the view.
func (e *Experiment) Bodies() (*dynamo.Bodies, error) {
	gen, err := e.registry.GetGenerator(e.cfg.InitState.Generator)
	if err != nil {
		return nil, err
	}
	center := r2.Vec{X: float64(e.cfg.View.Width) / 2, Y: float64(e.cfg.View.Height) / 2}
	rng := rand.New(rand.NewSource(uint64(e.cfg.Seed)))
	return gen(e.cfg.InitState, center, rng)
}

// Setup validates the configuration, generates the bodies and wires the
// integrator and the default metrics into a simulator. opts are applied
// after the metrics.
func (e *Experiment) Setup(opts ...sim.Option) (*sim.Simulator, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	simCfg, err := e.cfg.Simulation()
	if err != nil {
		return nil, err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	field, err := e.registry.GetField("gravity")
	if err != nil {
		return nil, err
	}
	bodies, err := e.Bodies()
	if err != nil {
		return nil, err
	}

	lock := -1
	if e.cfg.Lock.Enabled {
		lock = e.cfg.Lock.Index
	}

	radius := 4 * e.cfg.InitState.Radius
	if radius <= 0 {
		radius = float64(e.cfg.View.Width)
	}
	all := make([]sim.Option, 0, len(opts)+6)
	for _, m := range e.registry.DefaultMetrics(radius) {
		all = append(all, sim.WithMetric(m))
	}
	all = append(all, opts...)

	return sim.New(simCfg, field, integ, bodies, lock, all...)
}
