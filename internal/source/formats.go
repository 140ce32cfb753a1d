package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/xuri/excelize/v2"
)

func readCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(path, f)
}

// readCSV parses comma-separated text with a header row. Blank lines are
// skipped; rows shorter than the header are padded with nulls. Stray quotes
// inside unquoted cells are kept as text.
func readCSV(source string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return newTable(source, header, rows)
}

// readXLSX reads the first sheet of a workbook; its first row is the header.
func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	return newTable(path, rows[0], rows[1:])
}

// readShapefile reads the attribute table (.dbf) that accompanies a
// shapefile. Geometry is ignored.
func readShapefile(path string) (*Table, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()

	fields := r.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.String()
	}

	var rows [][]string
	for r.Next() {
		idx, _ := r.Shape()
		row := make([]string, len(fields))
		for i := range fields {
			// DBF values are fixed width and padded.
			row[i] = strings.TrimRight(r.ReadAttribute(idx, i), " \x00")
		}
		rows = append(rows, row)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	return newTable(path, header, rows)
}
