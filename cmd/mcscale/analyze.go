package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"github.com/ocubes/mcscale/pkg/config"
	"github.com/ocubes/mcscale/pkg/dataset"
	"github.com/ocubes/mcscale/pkg/render"
	"github.com/ocubes/mcscale/pkg/report"
	"github.com/ocubes/mcscale/pkg/scaling"
)

type analyzeOpts struct {
	configPath string
	csvPath    string
	outDir     string
	format     string
	html       bool
	exportCSV  string

	fallback bool
	maxEvals int

	k            float64
	unitCost     float64
	taskOverhead float64
	syncCost     float64
}

func newAnalyzeCmd() *cobra.Command {
	var o analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fit the time model, then chart and report the campaign",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, o)
		},
	}

	cmd.Flags().StringVar(&o.configPath, "config", "", "YAML config file (or MCSCALE_CONFIG)")
	cmd.Flags().StringVar(&o.csvPath, "csv", "", "campaign CSV; the built-in reference campaign when empty")
	cmd.Flags().StringVar(&o.outDir, "out-dir", "", "output directory override")
	cmd.Flags().StringVar(&o.format, "format", "", "chart format override: png or svg")
	cmd.Flags().BoolVar(&o.html, "html", false, "also write report.html next to the charts")
	cmd.Flags().StringVar(&o.exportCSV, "export-csv", "", "write the normalized campaign back to this CSV")

	cmd.Flags().BoolVar(&o.fallback, "fallback", false, "on non-convergence report the initial guess instead of failing")
	cmd.Flags().IntVar(&o.maxEvals, "max-evals", 0, "cap on objective evaluations (0 = run to convergence)")

	cmd.Flags().Float64Var(&o.k, "k", 0, "initial guess: spatial efficiency factor")
	cmd.Flags().Float64Var(&o.unitCost, "unit-cost", 0, "initial guess: seconds per cube")
	cmd.Flags().Float64Var(&o.taskOverhead, "task-overhead", 0, "initial guess: seconds per task")
	cmd.Flags().Float64Var(&o.syncCost, "sync-cost", 0, "initial guess: seconds per tree level")

	return cmd
}

func runAnalyze(cmd *cobra.Command, o analyzeOpts) error {
	cfg, err := loadConfig(o.configPath, o.outDir, o.format)
	if err != nil {
		return err
	}

	printBanner(cmd.OutOrStdout())

	records, err := loadRecords(o.csvPath)
	if err != nil {
		return err
	}
	series, err := dataset.Aggregate(records)
	if err != nil {
		return err
	}

	var obs []scaling.Observation
	for _, s := range series {
		obs = append(obs, s.Observations()...)
	}

	init := scaling.DefaultParams()
	if o.k > 0 {
		init.K = o.k
	}
	if o.unitCost > 0 {
		init.UnitCost = o.unitCost
	}
	if o.taskOverhead > 0 {
		init.TaskOverhead = o.taskOverhead
	}
	if o.syncCost > 0 {
		init.SyncCost = o.syncCost
	}

	res, err := scaling.Fit(obs, init, &scaling.FitOptions{
		Fallback:       o.fallback,
		MaxEvaluations: o.maxEvals,
	})
	if err != nil {
		return err
	}
	if res.Fallback {
		slog.Warn("fit fell back to the initial guess", "reason", res.Reason)
	} else {
		slog.Info("fit converged", "sse", res.SSE, "evaluations", res.Evaluations)
	}

	p := res.Params
	m := scaling.New(&p)
	st := styleFrom(cfg)

	charts, err := writeCharts(m, series, cfg, st)
	if err != nil {
		return err
	}

	if err := report.Console(cmd.OutOrStdout(), *res, series); err != nil {
		return err
	}

	if o.exportCSV != "" {
		if err := exportCSV(o.exportCSV, records); err != nil {
			return err
		}
	}

	if o.html {
		path := filepath.Join(cfg.OutDir, "report.html")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WriteHTML(f, *res, series, charts); err != nil {
			return err
		}
		slog.Info("report written", "path", path)
	}
	return nil
}

// writeCharts renders the full chart set into the output directory and
// returns the file names for embedding in the HTML report.
func writeCharts(m *scaling.Model, series []dataset.Series, cfg *config.Config, st render.Style) ([]string, error) {
	charts := []struct {
		name  string
		build func() (*plot.Plot, error)
	}{
		{"time", func() (*plot.Plot, error) { return render.TimeChart(series, m, st) }},
		{"speedup", func() (*plot.Plot, error) { return render.SpeedupChart(series, m, st) }},
		{"efficiency", func() (*plot.Plot, error) { return render.EfficiencyChart(series, m, st) }},
		{"isoefficiency", func() (*plot.Plot, error) {
			return render.IsoefficiencyChart(m, series, cfg.IsoTargets, cfg.MaxThreads, st)
		}},
		{"decomposition", func() (*plot.Plot, error) {
			return render.DecompositionChart(m, cfg.DetailResolution, cfg.MaxThreads, st)
		}},
		{"weak_scaling", func() (*plot.Plot, error) {
			return render.WeakScalingChart(m, cfg.WeakMinResolution, cfg.WeakMaxResolution, cfg.WeakTarget, st)
		}},
	}

	var files []string
	for _, c := range charts {
		p, err := c.build()
		if err != nil {
			return nil, fmt.Errorf("%s chart: %w", c.name, err)
		}
		path, err := render.Save(p, st, cfg.OutDir, c.name)
		if err != nil {
			return nil, fmt.Errorf("%s chart: %w", c.name, err)
		}
		slog.Info("chart written", "path", path)
		files = append(files, filepath.Base(path))
	}
	return files, nil
}

func exportCSV(path string, records []dataset.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := dataset.WriteCSV(f, records); err != nil {
		return err
	}
	slog.Info("campaign exported", "path", path, "records", len(records))
	return nil
}
