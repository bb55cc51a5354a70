// Package measure reads colorimeter measurement exports (CSV or XLSX)
// into an ordered row sequence plus per-run column facts. Rows carry
// whichever photometric groups the export provides: CIE Lab, CIE XYZ,
// and/or a 31-band spectral reflectance vector.
package measure

// Lab is a CIE L*a*b* triple.
type Lab struct {
	L, A, B float64
}

// XYZ is a CIE XYZ triple.
type XYZ struct {
	X, Y, Z float64
}

// Spectral band grid shared by every export: 400-700nm in 10nm steps.
const (
	spectralStart = 400
	spectralEnd   = 700
	spectralStep  = 10

	// SpectralBands is the length of a full reflectance vector.
	SpectralBands = (spectralEnd-spectralStart)/spectralStep + 1
)

// SpectralNM returns the band wavelengths of a full reflectance vector.
func SpectralNM() []int {
	nm := make([]int, SpectralBands)
	for i := range nm {
		nm[i] = spectralStart + i*spectralStep
	}
	return nm
}

// Row is one measurement, in export order. A row always carries at least
// one photometric group.
type Row struct {
	Index    int
	Lab      *Lab
	XYZ      *XYZ
	Spectral []float64
}

// Columns records which photometric groups the export carries. It is
// determined once from the header and holds for every row.
type Columns struct {
	HasLab      bool
	HasXYZ      bool
	HasSpectral bool
}

// Empty reports whether no group was recognized at all.
func (c Columns) Empty() bool {
	return !c.HasLab && !c.HasXYZ && !c.HasSpectral
}

// Export is a fully drained measurement file.
type Export struct {
	Path       string
	Rows       []Row
	Columns    Columns
	Illuminant string
	Observer   int
}

// FormatError reports an export whose columns or cells violate the
// reader's contract.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	return e.Path + ": " + e.Msg
}
