package chart

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chartproof/internal/cgats"
)

func writeChart(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.ti2")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const rgbChart = `CTI2

DESCRIPTOR "Argyll Calibration Target chart information 2"
ORIGINATOR "Argyll targen"
COLOR_REP "iRGB"
CHART_ID "cp-0042"
STEPS_IN_PASS 2
PASSES_IN_STRIPS2 2
INDEX_ORDER "STRIP_THEN_PATCH"

NUMBER_OF_FIELDS 5
BEGIN_DATA_FORMAT
SAMPLE_ID SAMPLE_LOC RGB_R RGB_G RGB_B
END_DATA_FORMAT

NUMBER_OF_SETS 4
BEGIN_DATA
1 "A1" 0.00000 0.00000 0.00000
2 "A2" 100.00000 0.00000 0.00000
3 "B1" 0.00000 100.00000 0.00000
4 "B2" 100.00000 100.00000 100.00000
END_DATA
`

func TestReadFile(t *testing.T) {
	c, err := ReadFile(writeChart(t, rgbChart))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if c.ColorRep != "iRGB" {
		t.Errorf("ColorRep = %q, want iRGB", c.ColorRep)
	}
	if diff := cmp.Diff([]string{"RGB_R", "RGB_G", "RGB_B"}, c.DeviceFields); diff != "" {
		t.Errorf("DeviceFields mismatch (-want +got):\n%s", diff)
	}
	if len(c.Patches) != 4 {
		t.Fatalf("len(Patches) = %d, want 4", len(c.Patches))
	}

	want := Patch{SampleID: 2, Loc: "A2", Device: []float64{100, 0, 0}}
	if diff := cmp.Diff(want, c.Patches[1]); diff != "" {
		t.Errorf("patch 1 mismatch (-want +got):\n%s", diff)
	}
	if !c.HasLoc() {
		t.Error("HasLoc() = false, want true")
	}

	wantLayout := Layout{StepsInPass: 2, PassesInStrips: 2, IndexOrder: StripThenPatch}
	if c.Layout != wantLayout {
		t.Errorf("Layout = %+v, want %+v", c.Layout, wantLayout)
	}
	if !c.Layout.Complete() {
		t.Error("Layout.Complete() = false, want true")
	}
	if got := c.Keywords["CHART_ID"]; got != "cp-0042" {
		t.Errorf("Keywords[CHART_ID] = %q, want cp-0042", got)
	}
}

func TestReadFileWithoutLoc(t *testing.T) {
	text := strings.Join([]string{
		"CTI2",
		"BEGIN_DATA_FORMAT",
		"SAMPLE_ID CMYK_C CMYK_M CMYK_Y CMYK_K",
		"END_DATA_FORMAT",
		"BEGIN_DATA",
		"1 0 0 0 0",
		"2 100 0 0 0",
		"END_DATA",
	}, "\n")
	c, err := ReadFile(writeChart(t, text))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if c.HasLoc() {
		t.Error("HasLoc() = true, want false")
	}
	if c.Layout.Complete() {
		t.Errorf("Layout.Complete() = true for %+v", c.Layout)
	}
	if len(c.DeviceFields) != 4 {
		t.Errorf("DeviceFields = %v", c.DeviceFields)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no sample id",
			text: "CTI2\nBEGIN_DATA_FORMAT\nRGB_R RGB_G RGB_B\nEND_DATA_FORMAT\nBEGIN_DATA\n0 0 0\nEND_DATA\n",
			want: "no SAMPLE_ID column",
		},
		{
			name: "no device fields",
			text: "CTI2\nBEGIN_DATA_FORMAT\nSAMPLE_ID XYZ_X\nEND_DATA_FORMAT\nBEGIN_DATA\n1 0\nEND_DATA\n",
			want: "no device fields",
		},
		{
			name: "non integer id",
			text: "CTI2\nBEGIN_DATA_FORMAT\nSAMPLE_ID RGB_R\nEND_DATA_FORMAT\nBEGIN_DATA\nA1 0\nEND_DATA\n",
			want: `SAMPLE_ID "A1" is not an integer`,
		},
		{
			name: "non contiguous sequence",
			text: "CTI2\nBEGIN_DATA_FORMAT\nSAMPLE_ID RGB_R\nEND_DATA_FORMAT\nBEGIN_DATA\n1 0\n3 0\nEND_DATA\n",
			want: "position 2 has ID 3",
		},
		{
			name: "sequence not starting at one",
			text: "CTI2\nBEGIN_DATA_FORMAT\nSAMPLE_ID RGB_R\nEND_DATA_FORMAT\nBEGIN_DATA\n0 0\n1 0\nEND_DATA\n",
			want: "position 1 has ID 0",
		},
		{
			name: "bad device value",
			text: "CTI2\nBEGIN_DATA_FORMAT\nSAMPLE_ID RGB_R\nEND_DATA_FORMAT\nBEGIN_DATA\n1 high\nEND_DATA\n",
			want: `bad RGB_R value "high"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(writeChart(t, tt.text))
			if err == nil {
				t.Fatal("ReadFile() error = nil, want error")
			}
			var fe *cgats.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *cgats.FormatError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestGarbledLayoutIsIncomplete(t *testing.T) {
	text := strings.Join([]string{
		"CTI2",
		"STEPS_IN_PASS eight",
		"PASSES_IN_STRIPS2 2",
		"BEGIN_DATA_FORMAT",
		"SAMPLE_ID RGB_R",
		"END_DATA_FORMAT",
		"BEGIN_DATA",
		"1 0",
		"END_DATA",
	}, "\n")
	c, err := ReadFile(writeChart(t, text))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if c.Layout.Complete() {
		t.Errorf("Layout.Complete() = true for %+v", c.Layout)
	}
	if c.Layout.PassesInStrips != 2 {
		t.Errorf("PassesInStrips = %d, want 2", c.Layout.PassesInStrips)
	}
}
