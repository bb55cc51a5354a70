package main

import (
	"fmt"
	"io"

	"chartproof/internal/config"
	"chartproof/internal/display"
	"chartproof/internal/format"
	"chartproof/internal/wiring"
)

// resolveConfig loads the config file when one is given, else starts empty.
func resolveConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	return config.LoadFromPath(path)
}

// applyConvertFlags overlays non-empty convert flags onto the config.
func applyConvertFlags(cfg *config.Config) {
	if convertFlags.csv != "" {
		cfg.Inputs.CSV = convertFlags.csv
	}
	if convertFlags.chart != "" {
		cfg.Inputs.Chart = convertFlags.chart
	}
	if convertFlags.delimiter != "" {
		cfg.Inputs.Delimiter = convertFlags.delimiter
	}
	if convertFlags.out != "" {
		cfg.Outputs.TI3 = convertFlags.out
	}
	if convertFlags.deviceClass != "" {
		cfg.Outputs.DeviceClass = convertFlags.deviceClass
	}
	if convertFlags.descriptor != "" {
		cfg.Outputs.Description = convertFlags.descriptor
	}
	if convertFlags.instrument != "" {
		cfg.Outputs.Instrument = convertFlags.instrument
	}
	if convertFlags.geometry != "" {
		cfg.Outputs.Geometry = convertFlags.geometry
	}
}

// applyProfileFlags overlays non-empty profile flags onto the config.
func applyProfileFlags(cfg *config.Config) {
	if profileFlags.csv != "" {
		cfg.Inputs.CSV = profileFlags.csv
	}
	if profileFlags.chart != "" {
		cfg.Inputs.Chart = profileFlags.chart
	}
	if profileFlags.out != "" {
		cfg.Outputs.TI3 = profileFlags.out
	}
	if profileFlags.icc != "" {
		cfg.Outputs.ICC = profileFlags.icc
	}
	if profileFlags.description != "" {
		cfg.Outputs.Description = profileFlags.description
	}
	if profileFlags.tool != "" {
		cfg.Profiler.Tool = profileFlags.tool
	}
	if profileFlags.quality != "" {
		cfg.Profiler.Quality = profileFlags.quality
	}
	if profileFlags.threads > 0 {
		cfg.Profiler.Threads = profileFlags.threads
	}
}

// printSummary reports a finished run on stdout.
func printSummary(w io.Writer, sum *wiring.Summary, asTable bool) {
	if asTable {
		tb := format.NewTable(format.ASCII)
		tb.Header("Field", "Value")
		tb.Row("TI3", sum.TI3Path)
		tb.Row("Samples", sum.Samples)
		tb.Row("Color rep", display.ColorRep(sum.ColorRep))
		tb.Row("Device class", display.DeviceClassWithCode(sum.DeviceClass))
		tb.Row("PCS columns", sum.PCS)
		tb.Row("Spectral bands", sum.SpectralBands)
		tb.Row("Sample locations", format.BoolMark(sum.HasLoc))
		if sum.ProfileBuilt {
			tb.Row("ICC", sum.ICCPath)
		}
		fmt.Fprintln(w, tb.String())
		return
	}
	fmt.Fprintf(w, "Wrote %s (%d samples, %s)\n", sum.TI3Path, sum.Samples, display.ColorRep(sum.ColorRep))
	if sum.ProfileBuilt {
		fmt.Fprintf(w, "Built %s\n", sum.ICCPath)
	}
}
