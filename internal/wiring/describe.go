package wiring

import (
	"strconv"

	"chartproof/internal/cgats"
)

// DescribeTI3 summarizes an existing TI3 file so profiling can run
// without a fresh conversion.
func DescribeTI3(path string) (*Summary, error) {
	sheet, err := cgats.ParseFile(path)
	if err != nil {
		return nil, err
	}

	sum := &Summary{TI3Path: path, Samples: len(sheet.Rows), PCS: "none"}
	if v, ok := sheet.Keyword("COLOR_REP"); ok {
		sum.ColorRep = v
	}
	if v, ok := sheet.Keyword("DEVICE_CLASS"); ok {
		sum.DeviceClass = v
	}
	if v, ok := sheet.Keyword("INSTRUMENT_TYPE_SPECTRAL"); ok && v == "YES" {
		if bands, ok := sheet.Keyword("SPECTRAL_BANDS"); ok {
			if n, err := strconv.Atoi(bands); err == nil {
				sum.SpectralBands = n
			}
		}
	}
	for _, f := range sheet.Fields {
		switch f {
		case "SAMPLE_LOC":
			sum.HasLoc = true
		case "XYZ_X":
			sum.PCS = "XYZ"
		case "LAB_L":
			if sum.PCS == "none" {
				sum.PCS = "Lab"
			}
		}
	}
	return sum, nil
}
