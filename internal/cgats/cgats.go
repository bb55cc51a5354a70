// Package cgats holds the shared text primitives for CGATS-family files
// (TI1/TI2/TI3): line tokenizing, keyword headers, and the data sections
// between BEGIN_DATA_FORMAT/END_DATA_FORMAT and BEGIN_DATA/END_DATA.
package cgats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// FormatError reports malformed CGATS input.
type FormatError struct {
	Path string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func errf(path string, line int, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Keyword is one header entry, order-preserving.
type Keyword struct {
	Key   string
	Value string
}

// Sheet is one parsed CGATS logical file: its type marker, keyword
// header, declared data fields and raw data rows.
type Sheet struct {
	Path     string
	Marker   string
	Keywords []Keyword
	Fields   []string
	Rows     [][]string

	kw map[string]string
}

// Keyword returns the value for key and whether it was present.
// When a key repeats, the last occurrence wins.
func (s *Sheet) Keyword(key string) (string, bool) {
	v, ok := s.kw[key]
	return v, ok
}

// ParseFile reads and parses one CGATS file.
func ParseFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cgats file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads CGATS text from r. The path is used in error messages only.
func Parse(r io.Reader, path string) (*Sheet, error) {
	s := &Sheet{Path: path, kw: make(map[string]string)}

	const (
		inHeader = iota
		inFormat
		inData
		done
	)
	state := inHeader

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch state {
		case inHeader:
			switch line {
			case "BEGIN_DATA_FORMAT":
				if len(s.Fields) > 0 {
					return nil, errf(path, lineNo, "duplicate BEGIN_DATA_FORMAT")
				}
				state = inFormat
			case "BEGIN_DATA":
				if len(s.Fields) == 0 {
					return nil, errf(path, lineNo, "BEGIN_DATA before BEGIN_DATA_FORMAT")
				}
				state = inData
			default:
				key, rest := splitKeyword(line)
				if rest == "" && s.Marker == "" && len(s.Keywords) == 0 {
					s.Marker = key
					continue
				}
				s.Keywords = append(s.Keywords, Keyword{Key: key, Value: rest})
				s.kw[key] = rest
			}

		case inFormat:
			if line == "END_DATA_FORMAT" {
				if len(s.Fields) == 0 {
					return nil, errf(path, lineNo, "empty data format")
				}
				state = inHeader
				continue
			}
			s.Fields = append(s.Fields, strings.Fields(line)...)

		case inData:
			if line == "END_DATA" {
				state = done
				continue
			}
			row := Fields(line)
			if len(row) != len(s.Fields) {
				return nil, errf(path, lineNo, "data row has %d values, format declares %d", len(row), len(s.Fields))
			}
			s.Rows = append(s.Rows, row)
		}
		if state == done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cgats file: %w", err)
	}
	if state == inFormat {
		return nil, errf(path, lineNo, "missing END_DATA_FORMAT")
	}
	if state == inData {
		return nil, errf(path, lineNo, "missing END_DATA")
	}
	return s, nil
}

// splitKeyword separates a header line into its keyword and value. The
// value keeps internal spacing; a fully quoted value is unquoted.
func splitKeyword(line string) (key, value string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	key = line[:i]
	value = strings.TrimSpace(line[i+1:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value
}

// Fields splits a data line into whitespace-separated tokens, honoring
// double-quoted segments. Surrounding quotes are stripped.
func Fields(line string) []string {
	var out []string
	i, n := 0, len(line)
	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}
		if line[i] == '"' {
			i++
			start := i
			for i < n && line[i] != '"' {
				i++
			}
			out = append(out, line[start:i])
			if i < n {
				i++
			}
			continue
		}
		start := i
		for i < n && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		out = append(out, line[start:i])
	}
	return out
}

// Quote wraps v in double quotes for CGATS string values.
func Quote(v string) string {
	return `"` + v + `"`
}
