package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"chartproof/internal/cgats"
	"chartproof/internal/config"
	"chartproof/internal/display"
	"chartproof/internal/format"
	"chartproof/internal/measure"
)

var inspectFlags struct {
	markdown  bool
	delimiter string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a measurement export or CGATS file",
	Long: `Inspect reports what a file contains before converting it: column
groups, header metadata, and per-channel value ranges. CGATS files
(.ti1, .ti2, .ti3) are summarized from their header and data table;
anything else is read as a measurement export.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.BoolVar(&inspectFlags.markdown, "markdown", false, "Render tables as Markdown")
	f.StringVar(&inspectFlags.delimiter, "delimiter", "", `CSV field delimiter (default ";")`)
}

func runInspect(cmd *cobra.Command, args []string) error {
	mode := format.ASCII
	if inspectFlags.markdown {
		mode = format.Markdown
	}
	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ti1", ".ti2", ".ti3":
		return inspectSheet(cmd.OutOrStdout(), path, mode)
	default:
		return inspectExport(cmd.OutOrStdout(), path, mode)
	}
}

func inspectSheet(w io.Writer, path string, mode format.Mode) error {
	sheet, err := cgats.ParseFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %s, %d fields, %d sets\n", path, sheet.Marker, len(sheet.Fields), len(sheet.Rows))

	if len(sheet.Keywords) > 0 {
		tb := format.NewTable(mode)
		tb.Header("Keyword", "Value")
		for _, kw := range sheet.Keywords {
			val := kw.Value
			if kw.Key == "COLOR_REP" {
				val = display.ColorRep(val) + " [" + val + "]"
			}
			tb.Row(kw.Key, format.Truncate(val, 60))
		}
		fmt.Fprintln(w, tb.String())
	}

	printStats(w, mode, sheetStats(sheet))
	return nil
}

func inspectExport(w io.Writer, path string, mode format.Mode) error {
	in := config.Inputs{Delimiter: inspectFlags.delimiter}
	delim, err := in.DelimiterRune()
	if err != nil {
		return err
	}
	exp, err := measure.Read(path, measure.Options{Delimiter: delim})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d rows\n", path, len(exp.Rows))
	fmt.Fprintf(w, "Illuminant: %s, observer: %d°\n", display.IlluminantWithCode(exp.Illuminant), exp.Observer)

	tb := format.NewTable(mode)
	tb.Header("Group", "Present")
	tb.Row("Lab", format.BoolMark(exp.Columns.HasLab))
	tb.Row("XYZ", format.BoolMark(exp.Columns.HasXYZ))
	spectral := "none"
	if exp.Columns.HasSpectral {
		spectral = format.FmtBands(measure.SpectralNM())
	}
	tb.Row("Spectral", spectral)
	fmt.Fprintln(w, tb.String())

	printStats(w, mode, exp.Stats())
	return nil
}

// sheetStats summarizes the all-numeric columns of a CGATS data table.
func sheetStats(sheet *cgats.Sheet) []measure.ChannelStats {
	var out []measure.ChannelStats
	for col, field := range sheet.Fields {
		vals := make([]float64, 0, len(sheet.Rows))
		numeric := true
		for _, row := range sheet.Rows {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				numeric = false
				break
			}
			vals = append(vals, v)
		}
		if !numeric || len(vals) == 0 {
			continue
		}
		out = append(out, measure.ChannelStats{
			Field: field,
			Min:   floats.Min(vals),
			Max:   floats.Max(vals),
			Mean:  stat.Mean(vals, nil),
		})
	}
	return out
}

func printStats(w io.Writer, mode format.Mode, stats []measure.ChannelStats) {
	if len(stats) == 0 {
		return
	}
	tb := format.NewTable(mode)
	tb.Header("Field", "Min", "Max", "Mean")
	tb.Columns(
		format.Column{Number: 2, Align: format.AlignRight},
		format.Column{Number: 3, Align: format.AlignRight},
		format.Column{Number: 4, Align: format.AlignRight},
	)
	for _, cs := range stats {
		tb.Row(cs.Field,
			fmt.Sprintf("%.4f", cs.Min),
			fmt.Sprintf("%.4f", cs.Max),
			fmt.Sprintf("%.4f", cs.Mean))
	}
	fmt.Fprintln(w, tb.String())
}
