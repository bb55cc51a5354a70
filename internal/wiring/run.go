package wiring

import (
	"context"
	"path/filepath"
	"strings"

	"chartproof/internal/chart"
	"chartproof/internal/config"
	"chartproof/internal/logging"
	"chartproof/internal/measure"
	"chartproof/internal/pair"
	"chartproof/internal/profiler"
	"chartproof/internal/ti3"
)

// Summary reports what a pipeline run produced.
type Summary struct {
	TI3Path       string
	ICCPath       string
	Samples       int
	ColorRep      string
	DeviceClass   string
	PCS           string
	SpectralBands int
	HasLoc        bool
	ProfileBuilt  bool
	ToolOutput    string
}

// Convert executes the conversion flow: read measurements, read the chart
// layout, pair rows to patches by index, and write the TI3 file.
func Convert(cfg *config.Config) (*Summary, error) {
	logger := logging.New("wiring")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	delim, err := cfg.Inputs.DelimiterRune()
	if err != nil {
		return nil, err
	}

	exp, err := measure.Read(cfg.Inputs.CSV, measure.Options{Delimiter: delim})
	if err != nil {
		return nil, err
	}
	logger.Info("read measurements",
		"path", cfg.Inputs.CSV,
		"rows", len(exp.Rows),
		"lab", exp.Columns.HasLab,
		"xyz", exp.Columns.HasXYZ,
		"spectral", exp.Columns.HasSpectral)

	c, err := chart.ReadFile(cfg.Inputs.Chart)
	if err != nil {
		return nil, err
	}
	logger.Info("read chart", "path", cfg.Inputs.Chart, "patches", len(c.Patches))

	doc, err := pair.Build(exp, c, pair.Options{
		DeviceClass: cfg.Outputs.DeviceClass,
		Descriptor:  cfg.Outputs.Description,
		Instrument:  cfg.Outputs.Instrument,
		Geometry:    cfg.Outputs.Geometry,
	})
	if err != nil {
		return nil, err
	}

	if err := ti3.Write(doc, cfg.Outputs.TI3); err != nil {
		return nil, err
	}
	logger.Info("wrote ti3", "path", cfg.Outputs.TI3, "samples", len(doc.Samples))

	return &Summary{
		TI3Path:       cfg.Outputs.TI3,
		Samples:       len(doc.Samples),
		ColorRep:      doc.ColorRep,
		DeviceClass:   doc.DeviceClass,
		PCS:           doc.PCS.String(),
		SpectralBands: len(doc.SpectralNM),
		HasLoc:        doc.HasLoc,
	}, nil
}

// Profile invokes the profiling tool on the TI3 file described by sum and
// records the outcome in sum. The TI3 file is left in place either way.
func Profile(ctx context.Context, cfg *config.Config, inv profiler.Invoker, sum *Summary) error {
	icc := cfg.Outputs.ICC
	if icc == "" {
		icc = strings.TrimSuffix(sum.TI3Path, filepath.Ext(sum.TI3Path)) + ".icc"
	}
	desc := cfg.Outputs.Description
	if desc == "" {
		base := filepath.Base(icc)
		desc = strings.TrimSuffix(base, filepath.Ext(base))
	}

	spectral := sum.SpectralBands > 0
	job := profiler.Job{
		TI3Path:     sum.TI3Path,
		ProfilePath: icc,
		Description: desc,
		Args:        profiler.Flags(cfg.Profiler, spectral),
		Env:         profiler.Env(cfg.Profiler),
	}
	res, err := inv.Build(ctx, job)
	if err != nil {
		return err
	}

	sum.ICCPath = icc
	sum.ProfileBuilt = true
	sum.ToolOutput = res.Output
	return nil
}

// Run executes the full flow: Convert, then Profile when the profiler is
// enabled and an invoker is supplied. On a profiling failure the returned
// Summary still describes the TI3 file that was written.
func Run(ctx context.Context, cfg *config.Config, inv profiler.Invoker) (*Summary, error) {
	sum, err := Convert(cfg)
	if err != nil {
		return nil, err
	}
	if inv == nil || !cfg.Profiler.RunEnabled() {
		return sum, nil
	}
	if err := Profile(ctx, cfg, inv, sum); err != nil {
		return sum, err
	}
	return sum, nil
}
