package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/ocubes/mcscale/pkg/config"
	"github.com/ocubes/mcscale/pkg/dataset"
	"github.com/ocubes/mcscale/pkg/render"
	"github.com/ocubes/mcscale/pkg/system/host"
)

func main() {
	root := &cobra.Command{
		Use:   "mcscale",
		Short: "Marching cubes scalability analysis",
		Long: `mcscale analyzes how a parallel marching cubes extraction scales with
thread count. It fits an analytic time model to measured runs, charts measured
against predicted time, speedup and efficiency, and reports optimal thread
counts and isoefficiency requirements per grid resolution.

Examples:
  mcscale analyze --csv runs.csv --out-dir out --html
  mcscale analyze                            # built-in reference campaign
  mcscale charts --csv runs.csv              # observed-only charts, no fit`,
	}

	root.AddCommand(newAnalyzeCmd(), newChartsCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// loadConfig layers the file and environment configuration, applies command
// line overrides and installs the process-wide logger.
func loadConfig(path, outDir, format string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if format != "" {
		cfg.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

func styleFrom(cfg *config.Config) render.Style {
	return render.Style{
		Width:   vg.Length(cfg.FigWidthIn) * vg.Inch,
		Height:  vg.Length(cfg.FigHeightIn) * vg.Inch,
		Palette: cfg.Palette,
		Format:  cfg.Format,
	}
}

func loadRecords(csvPath string) ([]dataset.Record, error) {
	if csvPath == "" {
		slog.Info("no input file, using the built-in reference campaign")
		return dataset.Reference().Records()
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", csvPath, err)
	}
	slog.Info("campaign loaded", "file", csvPath, "records", len(records))
	return records, nil
}

func printBanner(w io.Writer) {
	info := host.Summary()
	fmt.Fprintf(w, _console,
		info.Hostname, info.Kernel, info.CPUModel, info.CPUs, info.MemTotal,
		time.Now().Format("2006-01-02 15:04:05"))
}

const _console = `mcscale - Marching Cubes Scalability Analysis

* GitHub: https://github.com/ocubes/mcscale

       Host: %s
       Kernel: %s
       CPU: %s (%d logical cores)
       Mem: %s

Scalability report as of %s:

`
