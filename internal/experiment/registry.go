package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/integrators"
	"github.com/san-kum/accretion/internal/metrics"
	"github.com/san-kum/accretion/internal/physics"
)

type Registry struct {
	fields      map[string]func() dynamo.Field
	integrators map[string]func() dynamo.Integrator
	generators  map[string]Generator
}

func NewRegistry() *Registry {
	r := &Registry{
		fields:      make(map[string]func() dynamo.Field),
		integrators: make(map[string]func() dynamo.Integrator),
		generators:  make(map[string]Generator),
	}

	r.fields["gravity"] = func() dynamo.Field { return physics.NewGravity() }

	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk4-classic"] = func() dynamo.Integrator { return integrators.NewClassicRK4() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	r.generators["disk"] = Disk
	r.generators["ring"] = Ring
	r.generators["cluster"] = Cluster
	r.generators["binary"] = Binary
	r.generators["explicit"] = Explicit

	return r
}

func (r *Registry) GetField(name string) (dynamo.Field, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown force field: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetGenerator(name string) (Generator, error) {
	fn, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListGenerators() []string  { return sortedKeys(r.generators) }

// DefaultMetrics are recorded for every run. Bodies farther than radius
// from the center of mass count as escaped.
func (r *Registry) DefaultMetrics(radius float64) []dynamo.Metric {
	return metrics.Defaults(radius)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
