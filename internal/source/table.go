// Package source reads the listings and climate tables from disk.
//
// Every cell is read as text. The null tokens "", "na", "NA", "null" and
// "None" (exact case) become the empty string. Missing columns, unreadable
// files and unknown formats are structural errors and name the offending
// source.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrMissingColumn is returned when a table lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported table format")
	// ErrNoHeader is returned for a table without a header row.
	ErrNoHeader = errors.New("no header row")
)

// nullTokens are the cell values treated as missing.
var nullTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"NA":   {},
	"null": {},
	"None": {},
}

// Table is a text-typed table. Every row has len(Header) cells.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

// ReadTable reads the table at path, choosing a reader by file extension.
func ReadTable(path string) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		t, err = readCSVFile(path)
	case ".xlsx":
		t, err = readXLSX(path)
	case ".shp":
		t, err = readShapefile(path)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// newTable builds a Table from raw header and rows, trimming header names,
// padding short rows and applying null tokens.
func newTable(source string, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	t := &Table{
		Source: source,
		Header: make([]string, len(header)),
		Rows:   make([][]string, 0, len(rows)),
	}
	for i, h := range header {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")

	for i, raw := range rows {
		if len(raw) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(raw), len(header))
		}
		row := make([]string, len(header))
		for j, cell := range raw {
			row[j] = nullCell(cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func nullCell(v string) string {
	if _, ok := nullTokens[v]; ok {
		return ""
	}
	return v
}

// column describes one field a mapper reads, with alternate header names
// accepted when the canonical one is absent.
type column struct {
	name     string
	required bool
	aliases  []string
}

// index resolves columns to header positions. Optional columns that are
// absent map to -1.
func (t *Table) index(cols []column) ([]int, error) {
	pos := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = -1
		for _, name := range append([]string{c.name}, c.aliases...) {
			if p, ok := pos[name]; ok {
				out[i] = p
				break
			}
		}
		if out[i] < 0 && c.required {
			return nil, fmt.Errorf("%s: %w %q", t.Source, ErrMissingColumn, c.name)
		}
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 {
		return ""
	}
	return row[i]
}
