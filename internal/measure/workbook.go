package measure

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses an XLSX measurement export. The first sheet is
// read through the same column rules as the CSV reader; cell values
// arrive as the displayed strings, so decimal commas survive.
func ReadWorkbook(path string, opts Options) (*Export, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Path: path, Msg: "workbook has no sheets"}
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read workbook sheet %q: %w", sheets[0], err)
	}

	i := 0
	r, err := newReader(path, func() ([]string, error) {
		if i >= len(records) {
			return nil, io.EOF
		}
		rec := records[i]
		i++
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return r.drain()
}

// Read dispatches on the file extension: .xlsx and .xlsm go through the
// workbook reader, everything else is treated as delimited text.
func Read(path string, opts Options) (*Export, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(path, opts)
	default:
		return ReadFile(path, opts)
	}
}
