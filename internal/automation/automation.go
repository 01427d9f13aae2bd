package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/experiment"
	"github.com/san-kum/accretion/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a list of runs executed one after another.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Runs        []Run  `yaml:"runs"`
}

// Run starts from a preset ("generator/name"), a config file or the
// defaults, in that order of preference, and applies Overrides on top.
// Repeat runs the same configuration with consecutive seeds.
type Run struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Config    string    `yaml:"config"`
	Overrides yaml.Node `yaml:"overrides"`
	Repeat    int       `yaml:"repeat"`
}

// Outcome is the stored result of one executed run.
type Outcome struct {
	Name   string
	RunID  string
	Seed   int64
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no runs", dynamo.ErrInvalidConfig, path)
	}
	return &scenario, nil
}

// Resolve builds the configuration of r.
func (r *Run) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case r.Preset != "":
		gen, name, ok := strings.Cut(r.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("%w: preset %q is not generator/name", dynamo.ErrInvalidConfig, r.Preset)
		}
		if cfg = config.GetPreset(gen, name); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %s", dynamo.ErrInvalidConfig, r.Preset)
		}
	case r.Config != "":
		loaded, err := config.Load(r.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if !r.Overrides.IsZero() {
		if err := r.Overrides.Decode(cfg); err != nil {
			return nil, fmt.Errorf("run %s overrides: %w", r.Name, err)
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all runs of a scenario sequentially, recording each
// into store. It stops at the first failing run.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, registry *experiment.Registry, logger *log.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		cfg, err := run.Resolve()
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}

		repeat := max(run.Repeat, 1)
		baseSeed := cfg.Seed
		for k := 0; k < repeat; k++ {
			cfg.Seed = baseSeed + int64(k)
			runLog := logger.With("scenario", scenario.Name, "run", name, "seed", cfg.Seed)
			runLog.Info("starting", "index", fmt.Sprintf("%d/%d", i+1, len(scenario.Runs)))

			id, res, err := experiment.New(cfg.Clone(), registry).Record(ctx, store, runLog)
			if err != nil {
				return outcomes, fmt.Errorf("run %s seed %d: %w", name, cfg.Seed, err)
			}
			outcomes = append(outcomes, Outcome{Name: name, RunID: id, Seed: cfg.Seed, Result: res})
		}
	}

	return outcomes, nil
}
