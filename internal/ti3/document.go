// Package ti3 models a CGATS TI3 measurement file and serializes it
// with atomic publication. Documents are produced by the pairing engine
// and written verbatim; the writer validates nothing.
package ti3

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chartproof/internal/cgats"
	"chartproof/internal/measure"
)

// PCS identifies which connection-space columns a document carries.
type PCS int

const (
	// PCSNone means spectral-only data: no PCS columns are written, and
	// the COLOR_REP suffix stays XYZ for downstream compatibility.
	PCSNone PCS = iota
	PCSXYZ
	PCSLab
)

// Suffix returns the COLOR_REP connection-space tag.
func (p PCS) Suffix() string {
	if p == PCSLab {
		return "LAB"
	}
	return "XYZ"
}

func (p PCS) String() string {
	switch p {
	case PCSXYZ:
		return "XYZ"
	case PCSLab:
		return "Lab"
	default:
		return "none"
	}
}

// Sample is one paired measurement in chart order.
type Sample struct {
	ID       int
	Loc      string
	Device   []float64
	XYZ      *measure.XYZ
	Lab      *measure.Lab
	Spectral []float64
}

// Document is a complete in-memory TI3 file.
type Document struct {
	Descriptor  string
	Originator  string
	Created     time.Time
	DeviceClass string
	ColorRep    string

	Illuminant string
	Observer   int
	Instrument string
	Geometry   string

	// Promoted carries chart keywords passed through to the TI3 header.
	Promoted []cgats.Keyword

	DeviceFields []string
	PCS          PCS
	SpectralNM   []int
	HasLoc       bool

	Samples []Sample
}

// Fields returns the data-format column names in file order: SAMPLE_ID,
// SAMPLE_LOC when present, device fields, PCS columns, spectral bands.
func (d *Document) Fields() []string {
	fields := make([]string, 0, 2+len(d.DeviceFields)+3+len(d.SpectralNM))
	fields = append(fields, "SAMPLE_ID")
	if d.HasLoc {
		fields = append(fields, "SAMPLE_LOC")
	}
	fields = append(fields, d.DeviceFields...)
	switch d.PCS {
	case PCSXYZ:
		fields = append(fields, "XYZ_X", "XYZ_Y", "XYZ_Z")
	case PCSLab:
		fields = append(fields, "LAB_L", "LAB_A", "LAB_B")
	}
	for _, nm := range d.SpectralNM {
		fields = append(fields, fmt.Sprintf("SPEC_%d", nm))
	}
	return fields
}

func keywordLine(key, value string) string {
	return key + " " + cgats.Quote(value)
}

// lines produces the full serialization, one element per output line.
func (d *Document) lines() []string {
	fields := d.Fields()

	lines := []string{
		"CTI3",
		keywordLine("DESCRIPTOR", d.Descriptor),
		keywordLine("ORIGINATOR", d.Originator),
		keywordLine("CREATED", d.Created.Format("Mon Jan 02 15:04:05 2006")),
		keywordLine("DEVICE_CLASS", d.DeviceClass),
		keywordLine("COLOR_REP", d.ColorRep),
		"# ILLUMINANT_CODE " + cgats.Quote(d.Illuminant),
		"# OBSERVER " + cgats.Quote(strconv.Itoa(d.Observer)),
	}
	if d.Instrument != "" {
		lines = append(lines, "# INSTRUMENT "+cgats.Quote(d.Instrument))
	}
	if d.Geometry != "" {
		lines = append(lines, "# GEOMETRY "+cgats.Quote(d.Geometry))
	}
	for _, kw := range d.Promoted {
		lines = append(lines, keywordLine(kw.Key, kw.Value))
	}
	if len(d.SpectralNM) > 0 {
		first := float64(d.SpectralNM[0])
		last := float64(d.SpectralNM[len(d.SpectralNM)-1])
		lines = append(lines,
			keywordLine("INSTRUMENT_TYPE_SPECTRAL", "YES"),
			keywordLine("SPECTRAL_BANDS", strconv.Itoa(len(d.SpectralNM))),
			keywordLine("SPECTRAL_START_NM", fmt.Sprintf("%.6f", first)),
			keywordLine("SPECTRAL_END_NM", fmt.Sprintf("%.6f", last)),
		)
	}

	lines = append(lines,
		"NUMBER_OF_FIELDS "+strconv.Itoa(len(fields)),
		"BEGIN_DATA_FORMAT",
		strings.Join(fields, " "),
		"END_DATA_FORMAT",
		"NUMBER_OF_SETS "+strconv.Itoa(len(d.Samples)),
		"BEGIN_DATA",
	)
	for _, s := range d.Samples {
		lines = append(lines, d.sampleLine(s))
	}
	lines = append(lines, "END_DATA")
	return lines
}

// sampleLine renders one data row: device %.5f, XYZ %.6f, Lab %.2f,
// spectral %.6f, SAMPLE_LOC quoted.
func (d *Document) sampleLine(s Sample) string {
	parts := make([]string, 0, 2+len(s.Device)+3+len(d.SpectralNM))
	parts = append(parts, strconv.Itoa(s.ID))
	if d.HasLoc {
		parts = append(parts, cgats.Quote(s.Loc))
	}
	for _, v := range s.Device {
		parts = append(parts, fmt.Sprintf("%.5f", v))
	}
	switch d.PCS {
	case PCSXYZ:
		var xyz measure.XYZ
		if s.XYZ != nil {
			xyz = *s.XYZ
		}
		parts = append(parts,
			fmt.Sprintf("%.6f", xyz.X),
			fmt.Sprintf("%.6f", xyz.Y),
			fmt.Sprintf("%.6f", xyz.Z),
		)
	case PCSLab:
		var lab measure.Lab
		if s.Lab != nil {
			lab = *s.Lab
		}
		parts = append(parts,
			fmt.Sprintf("%.2f", lab.L),
			fmt.Sprintf("%.2f", lab.A),
			fmt.Sprintf("%.2f", lab.B),
		)
	}
	for i := range d.SpectralNM {
		var v float64
		if i < len(s.Spectral) {
			v = s.Spectral[i]
		}
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return strings.Join(parts, " ")
}
