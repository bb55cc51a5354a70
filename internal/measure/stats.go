package measure

import (
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarizes one measurement channel across an export.
type ChannelStats struct {
	Field string
	Min   float64
	Max   float64
	Mean  float64
}

type channel struct {
	field string
	get   func(Row) (float64, bool)
}

// Stats computes per-channel summaries for the column groups the export
// carries, in header order: Lab, XYZ, then spectral bands. Channels no
// row provides a value for are omitted.
func (e *Export) Stats() []ChannelStats {
	var chans []channel
	if e.Columns.HasLab {
		chans = append(chans,
			channel{"LAB_L", func(r Row) (float64, bool) { return labAt(r, 0) }},
			channel{"LAB_A", func(r Row) (float64, bool) { return labAt(r, 1) }},
			channel{"LAB_B", func(r Row) (float64, bool) { return labAt(r, 2) }},
		)
	}
	if e.Columns.HasXYZ {
		chans = append(chans,
			channel{"XYZ_X", func(r Row) (float64, bool) { return xyzAt(r, 0) }},
			channel{"XYZ_Y", func(r Row) (float64, bool) { return xyzAt(r, 1) }},
			channel{"XYZ_Z", func(r Row) (float64, bool) { return xyzAt(r, 2) }},
		)
	}
	if e.Columns.HasSpectral {
		for i, nm := range SpectralNM() {
			i := i // per-iteration copy; go directive < 1.22
			chans = append(chans, channel{"SPEC_" + strconv.Itoa(nm), func(r Row) (float64, bool) {
				if r.Spectral == nil {
					return 0, false
				}
				return r.Spectral[i], true
			}})
		}
	}

	out := make([]ChannelStats, 0, len(chans))
	for _, c := range chans {
		var vals []float64
		for _, row := range e.Rows {
			if v, ok := c.get(row); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		out = append(out, ChannelStats{
			Field: c.field,
			Min:   floats.Min(vals),
			Max:   floats.Max(vals),
			Mean:  stat.Mean(vals, nil),
		})
	}
	return out
}

func labAt(r Row, i int) (float64, bool) {
	if r.Lab == nil {
		return 0, false
	}
	return [3]float64{r.Lab.L, r.Lab.A, r.Lab.B}[i], true
}

func xyzAt(r Row, i int) (float64, bool) {
	if r.XYZ == nil {
		return 0, false
	}
	return [3]float64{r.XYZ.X, r.XYZ.Y, r.XYZ.Z}[i], true
}
