package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chartproof/internal/logging"
	"chartproof/internal/profiler"
	"chartproof/internal/wiring"
)

var profileFlags struct {
	configPath  string
	csv         string
	chart       string
	out         string
	icc         string
	description string
	tool        string
	quality     string
	threads     int
	skipConvert bool
	table       bool
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Convert measurements and build an ICC profile with colprof",
	Long: `Profile runs the conversion flow and then invokes colprof (or another
Argyll-compatible tool) on the written TI3 file. Tool settings beyond
quality and thread count come from the config file.

Usage:
  chartproof profile --config job.yaml
  chartproof profile --csv readings.csv --chart chart.ti2 -o chart.ti3
  chartproof profile --config job.yaml --skip-convert`,
	RunE: runProfile,
}

func init() {
	f := profileCmd.Flags()
	f.StringVarP(&profileFlags.configPath, "config", "c", "", "Config file (YAML or JSON)")
	f.StringVar(&profileFlags.csv, "csv", "", "Measurement export path (.csv or .xlsx)")
	f.StringVar(&profileFlags.chart, "chart", "", "Chart definition path (.ti2 or .ti1)")
	f.StringVarP(&profileFlags.out, "out", "o", "", "Output TI3 path")
	f.StringVar(&profileFlags.icc, "icc", "", "Output ICC path (default: TI3 path with .icc)")
	f.StringVar(&profileFlags.description, "description", "", "Profile description")
	f.StringVar(&profileFlags.tool, "tool", "", "Profiling tool (default colprof)")
	f.StringVarP(&profileFlags.quality, "quality", "q", "", "Profile quality: l, m, h or u (default m)")
	f.IntVar(&profileFlags.threads, "threads", 0, "OMP_NUM_THREADS for the tool (default 1)")
	f.BoolVar(&profileFlags.skipConvert, "skip-convert", false, "Profile an existing TI3 instead of converting")
	f.BoolVar(&profileFlags.table, "table", false, "Print the summary as a table")
}

func runProfile(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(profileFlags.configPath)
	if err != nil {
		return err
	}
	applyProfileFlags(cfg)

	var sum *wiring.Summary
	if profileFlags.skipConvert {
		if cfg.Outputs.TI3 == "" {
			return fmt.Errorf("profile: --skip-convert needs a ti3 path (--out or outputs.ti3)")
		}
		sum, err = wiring.DescribeTI3(cfg.Outputs.TI3)
	} else {
		sum, err = wiring.Convert(cfg)
	}
	if err != nil {
		return err
	}

	if !cfg.Profiler.RunEnabled() {
		logging.New("cli").Info("profiling disabled in config, stopping after conversion")
		printSummary(cmd.OutOrStdout(), sum, profileFlags.table)
		return nil
	}

	inv := &profiler.Colprof{Path: cfg.Profiler.Tool}
	if err := wiring.Profile(cmd.Context(), cfg, inv, sum); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sum, profileFlags.table)
	return nil
}
