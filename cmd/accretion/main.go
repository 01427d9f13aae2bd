package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	generator  string
	integrator string
	seed       int64
	numBodies  int
	maxSteps   int
	timeStep   float64
	subSteps   int
	drag       float64
	threshold  float64
	minBodies  int
	lockIndex  int
	validate   bool
	// live and replay
	frameRate int
	theme     string
	record    bool
	// run
	profileMode string
	// exports
	outFile  string
	every    int
	svgStyle string
	svgCols  int
	svgRows  int
	// tune
	tuneParams []string
	tuneMetric string
)

// main registers the commands and flags of the accretion CLI and executes
// the root command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "accretion",
		Short:         "gravitational n-body accretion simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".accretion", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store every frame",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&profileMode, "profile", "", "profile the run (cpu, mem, trace)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&record, "record", false, "store the frames of the live run")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play back a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	replayCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body count, mass and energy of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export frames to CSV, one row per body per frame",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the trails of a run to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&every, "every", 1, "draw the trail of every nth frame")
	exportSVGCmd.Flags().StringVar(&svgStyle, "style", "trails", "trails or braille")
	exportSVGCmd.Flags().IntVar(&svgCols, "cols", 120, "braille canvas columns")
	exportSVGCmd.Flags().IntVar(&svgRows, "rows", 40, "braille canvas rows")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same initial bodies",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [generator]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scenario of simulations sequentially",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search numeric options for the smallest metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "option=v1,v2,... (repeatable; options: "+strings.Join(config.Tunable, ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to minimize")
	_ = tuneCmd.MarkFlagRequired("param")

	rootCmd.AddCommand(runCmd, liveCmd, replayCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, compareCmd, presetsCmd, batchCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "preset name, either generator/name or a name of --generator")
	f.StringVar(&generator, "generator", "disk", "initial state generator")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.IntVar(&numBodies, "bodies", config.DefaultBodies, "number of generated bodies")
	f.IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "frames to simulate, 0 for no limit")
	f.Float64Var(&timeStep, "dt", config.DefaultTimeStep, "integration time step")
	f.IntVar(&subSteps, "sub-steps", config.DefaultSubSteps, "integration steps per frame")
	f.Float64Var(&drag, "drag", 1, "velocity factor applied once per frame")
	f.Float64Var(&threshold, "threshold", 1, "collision threshold")
	f.IntVar(&minBodies, "min-bodies", 1, "stop when fewer bodies are left")
	f.IntVar(&lockIndex, "lock", -1, "keep this body at the anchor, -1 to disable")
	f.BoolVar(&validate, "validate", true, "fail on non-finite state")
}

func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "accretion",
	}), nil
}
