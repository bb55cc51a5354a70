package measure

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Options adjust export parsing. The zero value uses a semicolon
// delimiter, the common choice of instruments that emit decimal commas.
type Options struct {
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ';'
	}
	return o.Delimiter
}

// recordSource yields one raw record per call and io.EOF when drained.
type recordSource func() ([]string, error)

// Reader produces measurement rows lazily. It is not restartable; drain
// it with Next until io.EOF, or use ReadFile.
type Reader struct {
	path       string
	src        recordSource
	plan       plan
	cols       Columns
	illuminant string
	observer   int
	metaSeen   bool
	index      int
	record     int
}

// Open parses the header region of a CSV export and returns a Reader
// positioned at the first data record.
func Open(path string, opts Options) (*Reader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read measurement file: %w", err)
	}

	cr := csv.NewReader(strings.NewReader(decode(raw)))
	cr.Comma = opts.delimiter()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	return newReader(path, func() ([]string, error) { return cr.Read() })
}

func newReader(path string, src recordSource) (*Reader, error) {
	r := &Reader{path: path, src: src, illuminant: "D50", observer: 10}
	if err := r.scanHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// Columns reports the photometric groups found in the header.
func (r *Reader) Columns() Columns { return r.cols }

// Illuminant returns the illuminant name from the export metadata,
// defaulting to D50.
func (r *Reader) Illuminant() string { return r.illuminant }

// Observer returns the standard observer in degrees, defaulting to 10.
func (r *Reader) Observer() int { return r.observer }

// Next returns the next measurement row, skipping records that carry no
// recognized values. It returns io.EOF when the export is drained.
func (r *Reader) Next() (Row, error) {
	for {
		rec, err := r.src()
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		if err != nil {
			return Row{}, &FormatError{Path: r.path, Msg: err.Error()}
		}
		r.record++

		row, ok, err := r.parseRow(rec)
		if err != nil {
			return Row{}, err
		}
		if !ok {
			continue
		}
		row.Index = r.index
		r.index++
		return row, nil
	}
}

// ReadFile drains a CSV export into an Export.
func ReadFile(path string, opts Options) (*Export, error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	return r.drain()
}

func (r *Reader) drain() (*Export, error) {
	exp := &Export{
		Path:       r.path,
		Columns:    r.cols,
		Illuminant: r.illuminant,
		Observer:   r.observer,
	}
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		exp.Rows = append(exp.Rows, row)
	}
	return exp, nil
}

// decode applies the encoding fallback chain: UTF-8 BOM, valid UTF-8,
// then Windows-1252.
func decode(raw []byte) string {
	if bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		return string(raw[3:])
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// plan maps header column positions to row slots. Absent slots are -1.
type plan struct {
	lab  [3]int
	xyz  [3]int
	spec [SpectralBands]int
}

func emptyPlan() plan {
	var p plan
	for i := range p.lab {
		p.lab[i] = -1
		p.xyz[i] = -1
	}
	for i := range p.spec {
		p.spec[i] = -1
	}
	return p
}

func countSet(idx []int) int {
	n := 0
	for _, i := range idx {
		if i >= 0 {
			n++
		}
	}
	return n
}

func (p plan) specCount() int { return countSet(p.spec[:]) }

func (p plan) columns() Columns {
	return Columns{
		HasLab:      countSet(p.lab[:]) == 3,
		HasXYZ:      countSet(p.xyz[:]) == 3,
		HasSpectral: p.specCount() == SpectralBands,
	}
}

func (p plan) complete() bool { return !p.columns().Empty() }

// normHeader lowercases a header cell and strips everything outside
// [a-z0-9_], so "L*", "Lab L" and "LAB_L" all collapse together.
func normHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var bandRe = regexp.MustCompile(`^(\d{3,4})(?:nm)?$`)

// bandNM recognizes a wavelength column name like "400" or "550nm".
func bandNM(key string) (int, bool) {
	m := bandRe.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	nm, _ := strconv.Atoi(m[1])
	if nm < 300 || nm > 1100 {
		return 0, false
	}
	return nm, true
}

// detectHeader classifies one record's cells. It returns the plan and
// how many cells matched a recognized column name.
func detectHeader(rec []string) (plan, int) {
	p := emptyPlan()
	n := 0
	for i, cell := range rec {
		key := normHeader(cell)
		if key == "" {
			continue
		}
		switch key {
		case "l", "labl", "lab_l":
			p.lab[0] = i
			n++
		case "a", "laba", "lab_a":
			p.lab[1] = i
			n++
		case "b", "labb", "lab_b":
			p.lab[2] = i
			n++
		case "x", "xyzx", "xyz_x":
			p.xyz[0] = i
			n++
		case "y", "xyzy", "xyz_y":
			p.xyz[1] = i
			n++
		case "z", "xyzz", "xyz_z":
			p.xyz[2] = i
			n++
		default:
			nm, ok := bandNM(key)
			if !ok {
				continue
			}
			n++
			if nm >= spectralStart && nm <= spectralEnd && (nm-spectralStart)%spectralStep == 0 {
				p.spec[(nm-spectralStart)/spectralStep] = i
			}
		}
	}
	return p, n
}

var illuminantRe = regexp.MustCompile(`([A-F]\d{0,2})\s*/\s*(\d{1,2})\s*°?`)

// scanMeta picks up illuminant/observer metadata like "D50/2°" from a
// pre-header record. The first match in the file wins.
func (r *Reader) scanMeta(rec []string) {
	if r.metaSeen {
		return
	}
	for _, cell := range rec {
		m := illuminantRe.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		r.illuminant = m[1]
		if deg, err := strconv.Atoi(m[2]); err == nil {
			r.observer = deg
		}
		r.metaSeen = true
		return
	}
}

// scanHeader consumes records until one yields a complete photometric
// group; that record becomes the header. Records above it are scanned
// for metadata. A header with a partially present group is an error, as
// is an export with no recognizable header at all.
func (r *Reader) scanHeader() error {
	var (
		candidate     plan
		candidateHits int
	)
	for {
		rec, err := r.src()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &FormatError{Path: r.path, Msg: err.Error()}
		}

		p, hits := detectHeader(rec)
		if p.complete() {
			r.scanMeta(rec)
			if err := validatePlan(r.path, p); err != nil {
				return err
			}
			r.plan = p
			r.cols = p.columns()
			return nil
		}
		if hits > candidateHits {
			candidate, candidateHits = p, hits
		}
		r.scanMeta(rec)
	}

	if candidateHits > 0 {
		if err := validatePlan(r.path, candidate); err != nil {
			return err
		}
	}
	return &FormatError{Path: r.path, Msg: "no recognized measurement columns (need Lab, XYZ or spectral bands)"}
}

// validatePlan rejects partially present groups in the chosen header.
func validatePlan(path string, p plan) error {
	if err := partialTriple(path, p.lab, "Lab", [3]string{"L", "a", "b"}); err != nil {
		return err
	}
	if err := partialTriple(path, p.xyz, "XYZ", [3]string{"X", "Y", "Z"}); err != nil {
		return err
	}
	if c := p.specCount(); c > 0 && c < SpectralBands {
		return &FormatError{
			Path: path,
			Msg:  fmt.Sprintf("incomplete spectral bands (%d of %d present)", c, SpectralBands),
		}
	}
	return nil
}

func partialTriple(path string, idx [3]int, group string, names [3]string) error {
	n := countSet(idx[:])
	if n == 0 || n == 3 {
		return nil
	}
	var missing []string
	for i, pos := range idx {
		if pos < 0 {
			missing = append(missing, names[i])
		}
	}
	return &FormatError{
		Path: path,
		Msg:  fmt.Sprintf("incomplete %s columns (missing %s)", group, strings.Join(missing, ", ")),
	}
}

// parseRow converts a data record into a Row. ok is false for records
// whose recognized cells are all empty (banner and summary lines).
func (r *Reader) parseRow(rec []string) (Row, bool, error) {
	var row Row

	lab, ok, err := r.group(rec, r.plan.lab[:], "Lab")
	if err != nil {
		return Row{}, false, err
	}
	if ok {
		row.Lab = &Lab{L: lab[0], A: lab[1], B: lab[2]}
	}

	xyz, ok, err := r.group(rec, r.plan.xyz[:], "XYZ")
	if err != nil {
		return Row{}, false, err
	}
	if ok {
		row.XYZ = &XYZ{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}

	spec, ok, err := r.group(rec, r.plan.spec[:], "spectral")
	if err != nil {
		return Row{}, false, err
	}
	if ok {
		row.Spectral = spec
	}

	return row, row.Lab != nil || row.XYZ != nil || row.Spectral != nil, nil
}

// group reads the cells a plan slice points at. All-empty means the
// group is absent from this record; a mix of empty and filled cells, or
// an unparseable cell, is a format error.
func (r *Reader) group(rec []string, idx []int, name string) ([]float64, bool, error) {
	if countSet(idx) != len(idx) {
		return nil, false, nil
	}
	cells := make([]string, len(idx))
	filled := 0
	for i, pos := range idx {
		cell := ""
		if pos < len(rec) {
			cell = strings.TrimSpace(rec[pos])
		}
		cells[i] = cell
		if cell != "" {
			filled++
		}
	}
	if filled == 0 {
		return nil, false, nil
	}
	if filled < len(idx) {
		return nil, false, &FormatError{
			Path: r.path,
			Msg:  fmt.Sprintf("record %d: incomplete %s values", r.record, name),
		}
	}
	vals := make([]float64, len(idx))
	for i, cell := range cells {
		v, err := parseNumber(cell)
		if err != nil {
			return nil, false, &FormatError{
				Path: r.path,
				Msg:  fmt.Sprintf("record %d: bad %s value %q", r.record, name, cell),
			}
		}
		vals[i] = v
	}
	return vals, true, nil
}

// parseNumber accepts a decimal comma when no decimal point is present.
func parseNumber(s string) (float64, error) {
	if strings.ContainsRune(s, ',') && !strings.ContainsRune(s, '.') {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
