package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/experiment"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch runs the base configuration once for every combination of
// the parameter values and keeps the one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates the grid in order. Trials that fail to set up or run
// are reported with their error and never win. Search stops early when
// ctx is done.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		val, err := evaluate(ctx, base, registry, params, metricName)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		trials = append(trials, Trial{Params: params, Value: val, Err: err})
		if err == nil && val < best {
			best = val
			bestParams = params
		}
		return nil
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, fmt.Errorf("optim: no successful trial for %s", metricName)
	}
	return bestParams, best, trials, nil
}

func evaluate(ctx context.Context, base *config.Config, registry *experiment.Registry, params map[string]float64, metricName string) (float64, error) {
	cfg := base.Clone()
	for k, v := range params {
		if err := cfg.Set(k, v); err != nil {
			return 0, err
		}
	}
	s, err := experiment.New(cfg, registry).Setup()
	if err != nil {
		return 0, err
	}
	result, err := s.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: unknown metric %q", metricName)
	}
	return val, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	visit func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
