package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/pkg/profile"
	"github.com/san-kum/accretion/internal/automation"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/experiment"
	"github.com/san-kum/accretion/internal/sim"
	"github.com/san-kum/accretion/internal/storage"
	"github.com/san-kum/accretion/internal/viz"
	"github.com/spf13/cobra"
)

// lookupPreset accepts "generator/name" or a bare name of the selected
// generator.
func lookupPreset(name, gen string) (*config.Config, error) {
	if g, n, ok := strings.Cut(name, "/"); ok {
		gen, name = g, n
	}
	cfg := config.GetPreset(gen, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", name, gen, config.ListPresets(gen))
	}
	return cfg, nil
}

// resolveConfig layers the defaults, a preset, a config file and the flags
// that were set explicitly, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	flags := cmd.Flags()

	if preset != "" {
		p, err := lookupPreset(preset, generator)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("generator") {
		cfg.InitState.Generator = generator
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.InitState.NumBodies = numBodies
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("dt") {
		cfg.TimeStep = timeStep
	}
	if flags.Changed("sub-steps") {
		cfg.SubSteps = subSteps
	}
	if flags.Changed("drag") {
		cfg.Drag = drag
	}
	if flags.Changed("threshold") {
		cfg.CollisionThreshold = threshold
	}
	if flags.Changed("min-bodies") {
		cfg.MinBodies = minBodies
	}
	if flags.Changed("lock") {
		cfg.Lock.Enabled = lockIndex >= 0
		cfg.Lock.Index = lockIndex
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.View.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func startProfile(mode string) (interface{ Stop() }, error) {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook}
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	case "trace":
		opts = append(opts, profile.TraceProfile)
	default:
		return nil, fmt.Errorf("unknown profile mode %q (cpu, mem, trace)", mode)
	}
	return profile.Start(opts...), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	prof, err := startProfile(profileMode)
	if err != nil {
		return err
	}
	if prof != nil {
		defer prof.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation (%d bodies, %s)...\n", cfg.InitState.Generator, cfg.InitState.NumBodies, cfg.Integrator)
	start := time.Now()

	runID, result, err := experiment.New(cfg, nil).Record(ctx, storage.New(dataDir), logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	printResult(runID, result)
	return nil
}

func printResult(runID string, res *dynamo.Result) {
	fmt.Printf("run id: %s\n", runID)
	if res == nil {
		return
	}
	fmt.Printf("frames: %d  merges: %d  bodies left: %d  stop: %s\n", res.StepsTaken, res.Merges, res.FinalBodies, res.Stop)
	fmt.Println("\nmetrics:")
	for _, name := range sortedNames(res.Metrics) {
		fmt.Printf("  %-15s %.6g\n", name, res.Metrics[name])
	}
}

// pickPreset lets the user choose a preset when none was given.
func pickPreset() error {
	if preset != "" || configFile != "" {
		return nil
	}
	choices := []viz.Choice{{Key: "default", Note: "disk of 200 bodies"}}
	for _, gen := range config.Generators() {
		for _, name := range config.ListPresets(gen) {
			p := config.GetPreset(gen, name)
			choices = append(choices, viz.Choice{
				Key:  gen + "/" + name,
				Note: fmt.Sprintf("%d bodies", p.InitState.NumBodies),
			})
		}
	}

	final, err := tea.NewProgram(viz.NewPicker("ACCRETION", choices)).Run()
	if err != nil {
		return err
	}
	key, ok := final.(viz.Picker).Selected()
	if !ok {
		return errCanceled
	}
	if key != "default" {
		preset = key
	}
	return nil
}

var errCanceled = errors.New("canceled")

func runLive(cmd *cobra.Command, args []string) error {
	if err := pickPreset(); err != nil {
		if errors.Is(err, errCanceled) {
			return nil
		}
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// debug logs go to a file while the TUI owns the terminal
	logger := log.New(io.Discard)
	if logLevel == "debug" {
		f, err := tea.LogToFile("accretion-debug.log", "live")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{Level: log.DebugLevel, ReportTimestamp: true})
	}

	exp := experiment.New(cfg, nil)
	s, err := exp.Setup(sim.WithLogger(logger))
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	if record {
		rec, err = storage.New(dataDir).Create(exp.Metadata(s.Bodies().Len()), cfg.SaveSteps, logger)
		if err != nil {
			return err
		}
		s.Observe(rec)
	}

	view := viz.View{Width: float64(cfg.View.Width), Height: float64(cfg.View.Height), Density: cfg.View.Density}
	title := cfg.InitState.Generator
	if preset != "" {
		title = preset
	}
	model := viz.NewLive(s, title, view, cfg.View.FPS).WithTheme(cfg.View.Theme)

	final, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()

	if rec != nil {
		res := s.Result()
		if res.Stop == dynamo.StopNone {
			res.Stop = dynamo.StopCanceled
		}
		if err := rec.Close(res); err != nil && runErr == nil {
			runErr = err
		}
		fmt.Printf("run id: %s\n", rec.ID())
	}
	if runErr != nil {
		return runErr
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators on %s (%d bodies, dt=%g, %d frames)\n\n",
		cfg.InitState.Generator, cfg.InitState.NumBodies, cfg.TimeStep, cfg.MaxSteps)
	fmt.Printf("%-12s  %8s  %8s  %12s  %12s  %10s\n", "integrator", "frames", "bodies", "energy_drift", "momentum", "time_ms")
	fmt.Println(strings.Repeat("-", 72))

	for _, name := range args {
		c := cfg.Clone()
		c.Integrator = name

		s, err := experiment.New(c, registry).Setup()
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		res, err := s.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %8d  %8d  %12.2e  %12.2e  %10.2f\n", name, res.StepsTaken, res.FinalBodies,
			res.Metrics["energy_drift"], res.Metrics["momentum_drift"], float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := automation.RunScenario(ctx, scenario, storage.New(dataDir), nil, logger)
	for _, o := range outcomes {
		fmt.Printf("%-20s seed %-6d %s  stop=%s frames=%d bodies=%d\n",
			o.Name, o.Seed, o.RunID, o.Result.Stop, o.Result.StepsTaken, o.Result.FinalBodies)
	}
	return err
}
