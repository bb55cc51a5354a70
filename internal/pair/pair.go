// Package pair builds a TI3 document from a measurement export and a
// chart definition. Pairing is strictly positional: row i belongs to
// patch i, and a count difference is a hard error rather than a
// truncation.
package pair

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chartproof/internal/cgats"
	"chartproof/internal/chart"
	"chartproof/internal/measure"
	"chartproof/internal/ti3"
)

// CountMismatchError reports an export whose row count differs from the
// chart's patch count.
type CountMismatchError struct {
	Rows    int
	Patches int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("measurement count mismatch: %d rows vs %d chart patches", e.Rows, e.Patches)
}

const (
	defaultDeviceClass = "OUTPUT"
	defaultDescriptor  = "chartproof converted measurements"
	originator         = "chartproof"
)

// Chart keywords carried into the TI3 header, in output order.
var promotedKeys = []string{"COMP_GREY_STEPS", "PAPER_SIZE", "CHART_ID"}

// Options tune document synthesis. Zero values get the defaults above.
type Options struct {
	DeviceClass string
	Descriptor  string
	Instrument  string
	Geometry    string

	// Now overrides the CREATED timestamp source.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Build pairs rows with patches by index and assembles the document.
func Build(exp *measure.Export, c *chart.Chart, opts Options) (*ti3.Document, error) {
	if len(exp.Rows) != len(c.Patches) {
		return nil, &CountMismatchError{Rows: len(exp.Rows), Patches: len(c.Patches)}
	}

	pcs := selectPCS(exp.Columns)
	doc := &ti3.Document{
		Descriptor:   opts.Descriptor,
		Originator:   originator,
		Created:      opts.now(),
		DeviceClass:  opts.DeviceClass,
		ColorRep:     colorRep(c, pcs),
		Illuminant:   exp.Illuminant,
		Observer:     exp.Observer,
		Instrument:   opts.Instrument,
		Geometry:     opts.Geometry,
		DeviceFields: c.DeviceFields,
		PCS:          pcs,
	}
	if doc.Descriptor == "" {
		doc.Descriptor = defaultDescriptor
	}
	if doc.DeviceClass == "" {
		doc.DeviceClass = defaultDeviceClass
	}
	if exp.Columns.HasSpectral {
		doc.SpectralNM = measure.SpectralNM()
	}
	for _, key := range promotedKeys {
		if v, ok := c.Keywords[key]; ok {
			doc.Promoted = append(doc.Promoted, cgats.Keyword{Key: key, Value: v})
		}
	}

	locs, hasLoc := resolveLocs(c)
	doc.HasLoc = hasLoc

	doc.Samples = make([]ti3.Sample, len(c.Patches))
	for i, p := range c.Patches {
		row := exp.Rows[i]
		s := ti3.Sample{
			ID:       p.SampleID,
			Device:   p.Device,
			XYZ:      row.XYZ,
			Lab:      row.Lab,
			Spectral: row.Spectral,
		}
		if hasLoc {
			s.Loc = locs[i]
		}
		doc.Samples[i] = s
	}
	return doc, nil
}

// selectPCS applies the column precedence: XYZ beats Lab; spectral-only
// exports carry no PCS columns at all.
func selectPCS(cols measure.Columns) ti3.PCS {
	switch {
	case cols.HasXYZ:
		return ti3.PCSXYZ
	case cols.HasLab:
		return ti3.PCSLab
	default:
		return ti3.PCSNone
	}
}

// colorRep synthesizes the COLOR_REP value. A device space the chart
// declares is taken unchanged; otherwise the prefix is derived from the
// device field names.
func colorRep(c *chart.Chart, pcs ti3.PCS) string {
	prefix := c.ColorRep
	if prefix == "" {
		prefix = "i" + deviceTag(c.DeviceFields)
	}
	return prefix + "_" + pcs.Suffix()
}

func deviceTag(fields []string) string {
	hasRGB, hasCMYK := false, false
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "RGB_"):
			hasRGB = true
		case strings.HasPrefix(f, "CMYK_"):
			hasCMYK = true
		}
	}
	switch {
	case hasRGB:
		return "RGB"
	case hasCMYK:
		return "CMYK"
	default:
		return "DEV"
	}
}

// resolveLocs applies the SAMPLE_LOC precedence: chart-provided values,
// then layout derivation, then none.
func resolveLocs(c *chart.Chart) ([]string, bool) {
	if c.HasLoc() {
		locs := make([]string, len(c.Patches))
		for i, p := range c.Patches {
			locs[i] = p.Loc
		}
		return locs, true
	}
	if c.Layout.Complete() {
		locs := make([]string, len(c.Patches))
		for i := range c.Patches {
			locs[i] = deriveLoc(i, c.Layout)
		}
		return locs, true
	}
	return nil, false
}

// deriveLoc computes the strip/patch label for ordinal i (0-based).
func deriveLoc(i int, l chart.Layout) string {
	var strip, patch int
	switch l.IndexOrder {
	case chart.PatchThenStrip:
		patch = i/l.PassesInStrips + 1
		strip = i % l.PassesInStrips
	default:
		strip = i / l.StepsInPass
		patch = i%l.StepsInPass + 1
	}
	return stripLabel(strip) + strconv.Itoa(patch)
}

// stripLabel renders the strip letter sequence A..Z, AA, AB, ...
func stripLabel(n int) string {
	label := ""
	for {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
		if n < 0 {
			return label
		}
	}
}
