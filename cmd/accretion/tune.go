package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/san-kum/accretion/internal/experiment"
	"github.com/san-kum/accretion/internal/optim"
	"github.com/spf13/cobra"
)

// parseParams reads flags of the form "time_step=0.01,0.05".
func parseParams(specs []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseParams(tuneParams)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, val, trials, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, experiment.NewRegistry(), tuneMetric)
	for _, tr := range trials {
		if tr.Err != nil {
			fmt.Printf("%v  error: %v\n", tr.Params, tr.Err)
			continue
		}
		fmt.Printf("%v  %s=%.6g\n", tr.Params, tuneMetric, tr.Value)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nbest: %v  %s=%.6g\n", best, tuneMetric, val)
	return nil
}
