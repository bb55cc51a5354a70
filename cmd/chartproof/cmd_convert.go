package main

import (
	"github.com/spf13/cobra"

	"chartproof/internal/wiring"
)

var convertFlags struct {
	configPath  string
	csv         string
	chart       string
	out         string
	delimiter   string
	deviceClass string
	descriptor  string
	instrument  string
	geometry    string
	table       bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Pair a measurement export with its chart and write a TI3 file",
	Long: `Convert reads an instrument CSV (or XLSX) export and the TI2/TI1 chart
it was measured from, pairs row N with patch N, and writes a CGATS TI3
file. Inputs can come from flags or from a config file; flags win.

Usage:
  chartproof convert --csv readings.csv --chart chart.ti2 -o chart.ti3
  chartproof convert --config job.yaml`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.configPath, "config", "c", "", "Config file (YAML or JSON)")
	f.StringVar(&convertFlags.csv, "csv", "", "Measurement export path (.csv or .xlsx)")
	f.StringVar(&convertFlags.chart, "chart", "", "Chart definition path (.ti2 or .ti1)")
	f.StringVarP(&convertFlags.out, "out", "o", "", "Output TI3 path")
	f.StringVar(&convertFlags.delimiter, "delimiter", "", `CSV field delimiter (default ";")`)
	f.StringVar(&convertFlags.deviceClass, "device-class", "", "ICC device class (default OUTPUT)")
	f.StringVar(&convertFlags.descriptor, "descriptor", "", "TI3 DESCRIPTOR value")
	f.StringVar(&convertFlags.instrument, "instrument", "", "Instrument name for the TI3 header")
	f.StringVar(&convertFlags.geometry, "geometry", "", "Measurement geometry for the TI3 header")
	f.BoolVar(&convertFlags.table, "table", false, "Print the summary as a table")
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(convertFlags.configPath)
	if err != nil {
		return err
	}
	applyConvertFlags(cfg)

	sum, err := wiring.Convert(cfg)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sum, convertFlags.table)
	return nil
}
