// Package xlsx provides reading and writing capabilities for .xlsx and .xlsm
// workbooks. Sheets are read with their first row as column names and the
// remaining rows as typed cells.
package xlsx

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet represents a single worksheet's data.
type Sheet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// Workbook represents a parsed Excel file with the sheets that were read.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadFile reads a workbook from disk. When names are given only those sheets
// are loaded, in that order, and a missing one fails the whole read.
func ReadFile(path string, names ...string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx/.xlsm file? %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f, names)
}

// ReadBytes reads a workbook from a byte slice. See ReadFile for names.
func ReadBytes(data []byte, names ...string) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, names)
}

func readWorkbook(f *excelize.File, names []string) (*Workbook, error) {
	list := f.GetSheetList()
	if len(names) == 0 {
		names = list
	}

	present := make(map[string]bool, len(list))
	for _, n := range list {
		present[n] = true
	}
	for _, n := range names {
		if !present[n] {
			return nil, &SheetError{Name: n, Available: list}
		}
	}

	wb := &Workbook{}
	for _, name := range names {
		sheet, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, *sheet)
	}

	return wb, nil
}

func readSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
	}

	sheet := &Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	typed := func(r int, row []string) ([]Cell, error) {
		cells := make([]Cell, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinates: %w", err)
			}
			typ, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, fmt.Errorf("could not read cell %s!%s: %w", name, ref, err)
			}
			cells[c] = parseCell(raw, typ)
		}
		return cells, nil
	}

	header, err := typed(0, rows[0])
	if err != nil {
		return nil, err
	}
	for _, c := range header {
		sheet.Columns = append(sheet.Columns, c.String())
	}

	for i, row := range rows[1:] {
		cells, err := typed(i+1, row)
		if err != nil {
			return nil, err
		}
		sheet.Rows = append(sheet.Rows, cells)
	}

	// Pad the header so every data column has a (possibly empty) name.
	for w := sheet.Width(); len(sheet.Columns) < w; {
		sheet.Columns = append(sheet.Columns, "")
	}

	return sheet, nil
}

// GetSheet returns a specific sheet by name. Returns a *SheetError if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}
	return nil, &SheetError{Name: name, Available: wb.SheetNames()}
}

// SheetNames lists the loaded sheet names in order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}

// Width is the number of columns in the sheet's grid: the widest of the
// header and every data row.
func (s *Sheet) Width() int {
	w := len(s.Columns)
	for _, row := range s.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Cell returns the value at (row, col), where row 0 is the first row below
// the header. Coordinates outside the grid yield a *CellError; blank cells
// inside the grid are returned as Empty.
func (s *Sheet) Cell(row, col int) (Cell, error) {
	w := s.Width()
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= w {
		return Cell{}, &CellError{Sheet: s.Name, Row: row, Col: col, Rows: len(s.Rows), Cols: w}
	}
	return s.At(row, col), nil
}

// At returns the value at (row, col) or an Empty cell when absent.
func (s *Sheet) At(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return Cell{}
	}
	return s.Rows[row][col]
}

// ToCSV converts a sheet's header and data rows to CSV.
func (s *Sheet) ToCSV() string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if len(s.Columns) > 0 {
		w.Write(s.Columns)
	}
	for _, row := range s.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.String()
		}
		w.Write(rec)
	}
	w.Flush()
	return b.String()
}

// RowCount returns the number of data rows holding at least one value.
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		for _, c := range row {
			if !c.IsEmpty() {
				count++
				break
			}
		}
	}
	return count
}
