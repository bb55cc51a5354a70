package measure

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeExport(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadFileLab(t *testing.T) {
	csv := strings.Join([]string{
		"Measurement Report;;;;",
		"Light source;D50/2°;;;",
		"No.;Name;L*;a*;b*",
		"1;patch;41.25;5.10;-3.25",
		"2;patch;50.00;0.00;0.00",
		"3;patch;96.33;-0.12;2.05",
	}, "\n")
	path := writeExport(t, "cr30.csv", []byte(csv))

	exp, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	want := Columns{HasLab: true}
	if exp.Columns != want {
		t.Errorf("Columns = %+v, want %+v", exp.Columns, want)
	}
	if exp.Illuminant != "D50" || exp.Observer != 2 {
		t.Errorf("metadata = %s/%d, want D50/2", exp.Illuminant, exp.Observer)
	}
	if len(exp.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(exp.Rows))
	}
	if diff := cmp.Diff(&Lab{L: 41.25, A: 5.10, B: -3.25}, exp.Rows[0].Lab); diff != "" {
		t.Errorf("row 0 Lab mismatch (-want +got):\n%s", diff)
	}
	for i, row := range exp.Rows {
		if row.Index != i {
			t.Errorf("row %d Index = %d", i, row.Index)
		}
		if row.XYZ != nil || row.Spectral != nil {
			t.Errorf("row %d carries unexpected groups: %+v", i, row)
		}
	}
}

func TestReadFileBothGroups(t *testing.T) {
	csv := strings.Join([]string{
		"No.;X;Y;Z;L*;a*;b*",
		"1;41.24;21.26;1.93;53.23;80.11;67.22",
	}, "\n")
	path := writeExport(t, "both.csv", []byte(csv))

	exp, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !exp.Columns.HasLab || !exp.Columns.HasXYZ {
		t.Fatalf("Columns = %+v, want Lab and XYZ", exp.Columns)
	}
	row := exp.Rows[0]
	if row.XYZ == nil || row.Lab == nil {
		t.Fatalf("row groups = %+v, want both", row)
	}
	if row.XYZ.X != 41.24 || row.Lab.L != 53.23 {
		t.Errorf("row values = %+v / %+v", row.XYZ, row.Lab)
	}
}

func spectralHeader() string {
	cells := []string{"No."}
	for _, nm := range SpectralNM() {
		cells = append(cells, fmt.Sprintf("%dnm", nm))
	}
	return strings.Join(cells, ";")
}

func spectralRow(id int, v float64) string {
	cells := []string{fmt.Sprintf("%d", id)}
	for range SpectralNM() {
		cells = append(cells, fmt.Sprintf("%.4f", v))
	}
	return strings.Join(cells, ";")
}

func TestReadFileSpectral(t *testing.T) {
	csv := strings.Join([]string{
		spectralHeader(),
		spectralRow(1, 0.4215),
		spectralRow(2, 0.8832),
	}, "\n")
	path := writeExport(t, "spec.csv", []byte(csv))

	exp, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !exp.Columns.HasSpectral || exp.Columns.HasLab || exp.Columns.HasXYZ {
		t.Fatalf("Columns = %+v, want spectral only", exp.Columns)
	}
	if len(exp.Rows[0].Spectral) != SpectralBands {
		t.Fatalf("len(Spectral) = %d, want %d", len(exp.Rows[0].Spectral), SpectralBands)
	}
	if exp.Rows[1].Spectral[0] != 0.8832 {
		t.Errorf("Spectral[0] = %v, want 0.8832", exp.Rows[1].Spectral[0])
	}
}

func TestHeaderErrors(t *testing.T) {
	partialSpectral := func() string {
		cells := []string{"No."}
		for _, nm := range SpectralNM()[:30] {
			cells = append(cells, fmt.Sprintf("%d", nm))
		}
		return strings.Join(cells, ";")
	}()

	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "partial lab",
			csv:  "No.;L*;a*\n1;50;0",
			want: "incomplete Lab columns (missing b)",
		},
		{
			name: "partial xyz",
			csv:  "No.;X;Z\n1;40;2",
			want: "incomplete XYZ columns (missing Y)",
		},
		{
			name: "partial spectral",
			csv:  partialSpectral + "\n" + "1;0.5",
			want: "incomplete spectral bands (30 of 31 present)",
		},
		{
			name: "nothing recognized",
			csv:  "No.;Name;Date\n1;p;2024",
			want: "no recognized measurement columns",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeExport(t, "bad.csv", []byte(tt.csv))
			_, err := ReadFile(path, Options{})
			if err == nil {
				t.Fatal("ReadFile() error = nil, want error")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *FormatError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestSkipsNonMeasurementRecords(t *testing.T) {
	csv := strings.Join([]string{
		"CHNSPEC Colorimeter;;;",
		"No.;Name;L*;a*;b*",
		"1;first;10;1;1",
		";;;;",
		"2;second;20;2;2",
		"Average;;;;",
	}, "\n")
	path := writeExport(t, "banners.csv", []byte(csv))

	exp, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(exp.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(exp.Rows))
	}
	if exp.Rows[0].Lab.L != 10 || exp.Rows[1].Lab.L != 20 {
		t.Errorf("rows = %+v", exp.Rows)
	}
	if exp.Rows[1].Index != 1 {
		t.Errorf("row 1 Index = %d, want 1", exp.Rows[1].Index)
	}
}

func TestRowValueErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "unparseable cell",
			csv:  "L*;a*;b*\nabc;0;0",
			want: `bad Lab value "abc"`,
		},
		{
			name: "half filled group",
			csv:  "L*;a*;b*\n50;;",
			want: "incomplete Lab values",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeExport(t, "vals.csv", []byte(tt.csv))
			_, err := ReadFile(path, Options{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestDecimalCommaAndDelimiter(t *testing.T) {
	csv := "No.,L*,a*,b*\n1,\"41,25\",\"0,50\",\"-3,10\"\n"
	path := writeExport(t, "comma.csv", []byte(csv))

	exp, err := ReadFile(path, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := &Lab{L: 41.25, A: 0.50, B: -3.10}
	if diff := cmp.Diff(want, exp.Rows[0].Lab); diff != "" {
		t.Errorf("Lab mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodingFallback(t *testing.T) {
	t.Run("windows-1252", func(t *testing.T) {
		raw := []byte("Mode;D65/10\xb0\nNo.;L*;a*;b*\n1;50;0;0\n")
		path := writeExport(t, "cp1252.csv", raw)

		exp, err := ReadFile(path, Options{})
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if exp.Illuminant != "D65" || exp.Observer != 10 {
			t.Errorf("metadata = %s/%d, want D65/10", exp.Illuminant, exp.Observer)
		}
	})

	t.Run("utf8 bom", func(t *testing.T) {
		raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("L*;a*;b*\n50;0;0\n")...)
		path := writeExport(t, "bom.csv", raw)

		exp, err := ReadFile(path, Options{})
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if len(exp.Rows) != 1 {
			t.Fatalf("len(Rows) = %d, want 1", len(exp.Rows))
		}
	})
}

func TestReaderNext(t *testing.T) {
	csv := "L*;a*;b*\n10;0;0\n20;0;0\n"
	path := writeExport(t, "next.csv", []byte(csv))

	r, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := r.Columns(); !got.HasLab {
		t.Fatalf("Columns = %+v, want Lab", got)
	}
	for i := 0; i < 2; i++ {
		row, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if row.Index != i {
			t.Errorf("Index = %d, want %d", row.Index, i)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after drain = %v, want io.EOF", err)
	}
}
