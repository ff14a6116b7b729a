package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"github.com/ocubes/mcscale/pkg/dataset"
	"github.com/ocubes/mcscale/pkg/render"
)

type chartsOpts struct {
	configPath string
	csvPath    string
	outDir     string
	format     string
}

func newChartsCmd() *cobra.Command {
	var o chartsOpts

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Draw observed-only charts without fitting the model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCharts(cmd, o)
		},
	}

	cmd.Flags().StringVar(&o.configPath, "config", "", "YAML config file (or MCSCALE_CONFIG)")
	cmd.Flags().StringVar(&o.csvPath, "csv", "", "campaign CSV; the built-in reference campaign when empty")
	cmd.Flags().StringVar(&o.outDir, "out-dir", "", "output directory override")
	cmd.Flags().StringVar(&o.format, "format", "", "chart format override: png or svg")

	return cmd
}

func runCharts(cmd *cobra.Command, o chartsOpts) error {
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
	st := styleFrom(cfg)

	// No fitted model here, so only the measured-data charts apply.
	charts := []struct {
		name  string
		build func() (*plot.Plot, error)
	}{
		{"time", func() (*plot.Plot, error) { return render.TimeChart(series, nil, st) }},
		{"speedup", func() (*plot.Plot, error) { return render.SpeedupChart(series, nil, st) }},
		{"efficiency", func() (*plot.Plot, error) { return render.EfficiencyChart(series, nil, st) }},
	}
	for _, c := range charts {
		p, err := c.build()
		if err != nil {
			return fmt.Errorf("%s chart: %w", c.name, err)
		}
		path, err := render.Save(p, st, cfg.OutDir, c.name)
		if err != nil {
			return fmt.Errorf("%s chart: %w", c.name, err)
		}
		slog.Info("chart written", "path", path)
	}
	return nil
}
