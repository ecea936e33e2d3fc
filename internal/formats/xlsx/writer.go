package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteFile creates a new .xlsx file from the given workbook data. Each
// sheet's Columns become the first row.
func WriteFile(wb *Workbook, path string) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

// Bytes serializes the workbook into .xlsx bytes.
func Bytes(wb *Workbook) ([]byte, error) {
	f, err := build(wb)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func build(wb *Workbook) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not create sheet %q: %w", sheetName, err)
		}

		header := make([]Cell, len(sheet.Columns))
		for c, name := range sheet.Columns {
			header[c] = TextCell(name)
		}
		if err := writeRow(f, sheetName, 1, header); err != nil {
			f.Close()
			return nil, err
		}
		for r, row := range sheet.Rows {
			if err := writeRow(f, sheetName, r+2, row); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []Cell) error {
	for colIdx, cell := range row {
		var value any
		switch cell.Kind {
		case Number:
			value = cell.Number
		case Text:
			value = cell.Text
		case Bool:
			value = cell.Truth
		default:
			continue
		}
		cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cellName, value); err != nil {
			return fmt.Errorf("could not set cell %s: %w", cellName, err)
		}
	}
	return nil
}
