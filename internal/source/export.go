package source

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/xuri/excelize/v2"
)

// dbfNameLimit is the longest attribute name a .dbf header can store.
const dbfNameLimit = 10

// WriteXLSX writes t to a single-sheet workbook, header first.
func WriteXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// WriteShapefile writes t as the attribute table of a point shapefile. Every
// geometry is the origin. Header names longer than a .dbf allows are replaced
// by the short alias the readers accept, or truncated.
func WriteShapefile(path string, t *Table) error {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer w.Close()

	fields := make([]shp.Field, len(t.Header))
	for i, h := range t.Header {
		width := 1
		for _, row := range t.Rows {
			width = max(width, len(row[i]))
		}
		fields[i] = shp.StringField(dbfFieldName(h), uint8(min(width, 254)))
	}
	if err := w.SetFields(fields); err != nil {
		return fmt.Errorf("set fields: %w", err)
	}

	for _, row := range t.Rows {
		idx := int(w.Write(&shp.Point{}))
		for i, v := range row {
			if err := w.WriteAttribute(idx, i, v); err != nil {
				return fmt.Errorf("write attribute %s: %w", t.Header[i], err)
			}
		}
	}
	return nil
}

func dbfFieldName(h string) string {
	if len(h) <= dbfNameLimit {
		return h
	}
	for _, cols := range [][]column{listingColumns, climateColumns} {
		for _, c := range cols {
			if c.name != h {
				continue
			}
			for _, a := range c.aliases {
				if len(a) <= dbfNameLimit {
					return a
				}
			}
		}
	}
	return strings.ToUpper(h[:dbfNameLimit])
}
