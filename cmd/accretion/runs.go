package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/export"
	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/storage"
	"github.com/san-kum/accretion/internal/viz"
	"github.com/spf13/cobra"
)

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// loadRun resolves the run named by args, or the latest run.
func loadRun(st *storage.Store, args []string) (*storage.RunMetadata, error) {
	if len(args) > 0 {
		return st.Load(args[0])
	}
	return st.Latest()
}

func viewOf(meta *storage.RunMetadata) viz.View {
	v := viz.View{Width: float64(meta.Width), Height: float64(meta.Height), Density: meta.Density}
	if v.Width <= 0 || v.Height <= 0 {
		v.Width, v.Height = config.DefaultWidth, config.DefaultHeight
	}
	if v.Density <= 0 {
		v.Density = config.DefaultDensity
	}
	return v
}

// output opens --out, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGENERATOR\tTIME\tINTEG\tBODIES\tFRAMES\tMERGES\tLEFT\tSTOP")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Generator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.InitialBodies,
			run.Frames,
			run.Merges,
			run.FinalBodies,
			run.Stop,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := loadRun(st, args)
	if err != nil {
		return err
	}

	var counts, largest, energy []float64
	err = st.EachFrame(meta.ID, func(f *dynamo.Frame) error {
		counts = append(counts, float64(f.Len()))
		top := 0.0
		for _, m := range f.Mass {
			top = max(top, m)
		}
		largest = append(largest, top)
		ke, pe := physics.Energy(f.Post, f.Vel, f.Mass)
		energy = append(energy, ke+pe)
		return nil
	})
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("generator: %s  integrator: %s\n", meta.Generator, meta.Integrator)
	fmt.Printf("frames: %d\n\n", len(counts))

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"live bodies", counts},
		{"largest mass", largest},
		{"total energy", energy},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(meta.Metrics) > 0 {
		fmt.Println("metrics:")
		for _, name := range sortedNames(meta.Metrics) {
			fmt.Printf("  %-15s %.6g\n", name, meta.Metrics[name])
		}
	}
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := loadRun(st, args)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", meta.ID)
	}

	model := viz.NewReplay(frames, meta.ID, viewOf(meta), frameRate).WithTheme(theme)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := loadRun(st, args)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return export.ExportJSON(w, *meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := loadRun(st, args)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return export.ExportCSV(w, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := loadRun(st, args)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	switch svgStyle {
	case "trails":
		return export.FramesToSVG(w, frames, viewOf(meta), every)
	case "braille":
		canvas := viz.NewCanvas(svgCols, svgRows)
		if len(frames) > 0 {
			viz.DrawFrame(canvas, frames[len(frames)-1], viewOf(meta))
		}
		_, err := io.WriteString(w, export.CanvasToSVG(canvas, 4))
		return err
	default:
		return fmt.Errorf("unknown svg style %q (trails, braille)", svgStyle)
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	gens := config.Generators()
	if len(args) > 0 {
		gens = args
	}
	for _, gen := range gens {
		presets := config.ListPresets(gen)
		if len(presets) == 0 {
			fmt.Printf("no presets for generator: %s\n", gen)
			continue
		}
		fmt.Printf("presets for %s:\n", gen)
		for _, p := range presets {
			cfg := config.GetPreset(gen, p)
			fmt.Printf("  %-10s %4d bodies  radius %g\n", p, cfg.InitState.NumBodies, cfg.InitState.Radius)
		}
	}
	return nil
}
