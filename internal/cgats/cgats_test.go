package cgats

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleTI2 = `CTI2

DESCRIPTOR "Argyll Calibration Target chart information 2"
ORIGINATOR "Argyll targen"
KEYWORD "SAMPLE_LOC"
STEPS_IN_PASS 2
INDEX_ORDER "STRIP_THEN_PATCH"

NUMBER_OF_FIELDS 5
BEGIN_DATA_FORMAT
SAMPLE_ID SAMPLE_LOC RGB_R RGB_G RGB_B
END_DATA_FORMAT

NUMBER_OF_SETS 2
BEGIN_DATA
1 "A1" 0.0000 0.0000 0.0000
2 "A2" 100.000 100.000 100.000
END_DATA
`

func TestParseSheet(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleTI2), "chart.ti2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Marker != "CTI2" {
		t.Errorf("Marker = %q, want %q", s.Marker, "CTI2")
	}
	if got, _ := s.Keyword("DESCRIPTOR"); got != "Argyll Calibration Target chart information 2" {
		t.Errorf("DESCRIPTOR = %q", got)
	}
	if got, _ := s.Keyword("STEPS_IN_PASS"); got != "2" {
		t.Errorf("STEPS_IN_PASS = %q, want 2", got)
	}
	if got, _ := s.Keyword("INDEX_ORDER"); got != "STRIP_THEN_PATCH" {
		t.Errorf("INDEX_ORDER = %q, want STRIP_THEN_PATCH", got)
	}
	if _, ok := s.Keyword("MISSING"); ok {
		t.Error("Keyword(MISSING) reported present")
	}

	wantFields := []string{"SAMPLE_ID", "SAMPLE_LOC", "RGB_R", "RGB_G", "RGB_B"}
	if diff := cmp.Diff(wantFields, s.Fields); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}

	wantRows := [][]string{
		{"1", "A1", "0.0000", "0.0000", "0.0000"},
		{"2", "A2", "100.000", "100.000", "100.000"},
	}
	if diff := cmp.Diff(wantRows, s.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMultiLineFormat(t *testing.T) {
	in := strings.Join([]string{
		"CTI2",
		"BEGIN_DATA_FORMAT",
		"SAMPLE_ID RGB_R",
		"RGB_G RGB_B",
		"END_DATA_FORMAT",
		"BEGIN_DATA",
		"1 0 0 0",
		"END_DATA",
	}, "\n")
	s, err := Parse(strings.NewReader(in), "t.ti2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(s.Fields) != 4 {
		t.Errorf("len(Fields) = %d, want 4", len(s.Fields))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "data before format",
			in:   "CTI2\nBEGIN_DATA\n1 2\nEND_DATA\n",
			want: "BEGIN_DATA before BEGIN_DATA_FORMAT",
		},
		{
			name: "row width mismatch",
			in:   "CTI2\nBEGIN_DATA_FORMAT\nA B\nEND_DATA_FORMAT\nBEGIN_DATA\n1 2 3\nEND_DATA\n",
			want: "data row has 3 values, format declares 2",
		},
		{
			name: "missing end data",
			in:   "CTI2\nBEGIN_DATA_FORMAT\nA\nEND_DATA_FORMAT\nBEGIN_DATA\n1\n",
			want: "missing END_DATA",
		},
		{
			name: "missing end data format",
			in:   "CTI2\nBEGIN_DATA_FORMAT\nA\n",
			want: "missing END_DATA_FORMAT",
		},
		{
			name: "empty format",
			in:   "CTI2\nBEGIN_DATA_FORMAT\nEND_DATA_FORMAT\n",
			want: "empty data format",
		},
		{
			name: "duplicate format",
			in:   "CTI2\nBEGIN_DATA_FORMAT\nA\nEND_DATA_FORMAT\nBEGIN_DATA_FORMAT\n",
			want: "duplicate BEGIN_DATA_FORMAT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), "bad.ti2")
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`1 "A1" 0.5`, []string{"1", "A1", "0.5"}},
		{`  a	b  `, []string{"a", "b"}},
		{`"" x`, []string{"", "x"}},
		{`"two words" y`, []string{"two words", "y"}},
		{`"unterminated`, []string{"unterminated"}},
		{``, nil},
	}
	for _, tt := range tests {
		got := Fields(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Fields(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestFormatErrorMessage(t *testing.T) {
	e := &FormatError{Path: "chart.ti2", Line: 7, Msg: "boom"}
	if got, want := e.Error(), "chart.ti2:7: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	e = &FormatError{Path: "chart.ti2", Msg: "boom"}
	if got, want := e.Error(), "chart.ti2: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
