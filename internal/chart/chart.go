// Package chart reads Argyll-style TI2 chart definitions: device
// fields, the ordered patch list and the strip layout keywords.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"chartproof/internal/cgats"
)

// Index orders a chart can declare for strip-wise patch numbering.
const (
	StripThenPatch = "STRIP_THEN_PATCH"
	PatchThenStrip = "PATCH_THEN_STRIP"
)

// Patch is one chart entry in layout order.
type Patch struct {
	SampleID int
	Loc      string
	Device   []float64
}

// Layout describes the strip geometry used to derive patch locations.
type Layout struct {
	StepsInPass    int
	PassesInStrips int
	IndexOrder     string
}

// Complete reports whether both strip counts are usable.
func (l Layout) Complete() bool {
	return l.StepsInPass > 0 && l.PassesInStrips > 0
}

// Chart is a fully parsed TI2 file.
type Chart struct {
	Path         string
	ColorRep     string
	DeviceFields []string
	Patches      []Patch
	Layout       Layout
	Keywords     map[string]string
}

// HasLoc reports whether the chart carries a SAMPLE_LOC for every patch.
func (c *Chart) HasLoc() bool {
	if len(c.Patches) == 0 {
		return false
	}
	for _, p := range c.Patches {
		if p.Loc == "" {
			return false
		}
	}
	return true
}

var devicePrefixes = []string{"RGB_", "CMYK_", "GRAY_", "K_"}

func isDeviceField(name string) bool {
	for _, p := range devicePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ReadFile parses one TI2 chart definition.
func ReadFile(path string) (*Chart, error) {
	sheet, err := cgats.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return fromSheet(sheet)
}

func fromSheet(s *cgats.Sheet) (*Chart, error) {
	idCol := -1
	locCol := -1
	var deviceCols []int
	var deviceFields []string
	for i, f := range s.Fields {
		switch {
		case f == "SAMPLE_ID":
			idCol = i
		case f == "SAMPLE_LOC":
			locCol = i
		case isDeviceField(f):
			deviceCols = append(deviceCols, i)
			deviceFields = append(deviceFields, f)
		}
	}
	if idCol < 0 {
		return nil, &cgats.FormatError{Path: s.Path, Msg: "no SAMPLE_ID column in data format"}
	}
	if len(deviceCols) == 0 {
		return nil, &cgats.FormatError{Path: s.Path, Msg: "no device fields in data format (RGB_*, CMYK_*, GRAY_*, K_*)"}
	}

	c := &Chart{
		Path:         s.Path,
		DeviceFields: deviceFields,
		Patches:      make([]Patch, 0, len(s.Rows)),
		Keywords:     make(map[string]string, len(s.Keywords)),
	}
	for _, kw := range s.Keywords {
		c.Keywords[kw.Key] = kw.Value
	}
	c.ColorRep, _ = s.Keyword("COLOR_REP")
	c.Layout = Layout{
		StepsInPass:    keywordInt(s, "STEPS_IN_PASS"),
		PassesInStrips: keywordInt(s, "PASSES_IN_STRIPS2"),
	}
	if order, ok := s.Keyword("INDEX_ORDER"); ok {
		c.Layout.IndexOrder = order
	}

	for n, row := range s.Rows {
		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			return nil, &cgats.FormatError{
				Path: s.Path,
				Msg:  fmt.Sprintf("data row %d: SAMPLE_ID %q is not an integer", n+1, row[idCol]),
			}
		}
		p := Patch{SampleID: id, Device: make([]float64, len(deviceCols))}
		if locCol >= 0 {
			p.Loc = row[locCol]
		}
		for i, col := range deviceCols {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, &cgats.FormatError{
					Path: s.Path,
					Msg:  fmt.Sprintf("data row %d: bad %s value %q", n+1, deviceFields[i], row[col]),
				}
			}
			p.Device[i] = v
		}
		c.Patches = append(c.Patches, p)
	}

	for i, p := range c.Patches {
		if p.SampleID != i+1 {
			return nil, &cgats.FormatError{
				Path: s.Path,
				Msg:  fmt.Sprintf("SAMPLE_ID sequence not contiguous: position %d has ID %d", i+1, p.SampleID),
			}
		}
	}
	return c, nil
}

// keywordInt parses an integer keyword, returning 0 for anything absent
// or garbled so the layout simply stays incomplete.
func keywordInt(s *cgats.Sheet, key string) int {
	v, ok := s.Keyword(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
