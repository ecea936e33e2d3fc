package xlsx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSheetNotFound is returned when a requested worksheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrCellOutOfRange is returned when a cell coordinate lies outside a sheet's grid.
	ErrCellOutOfRange = errors.New("cell out of range")
)

// SheetError reports a missing worksheet together with the sheets that exist.
type SheetError struct {
	Name      string
	Available []string
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q not found — available sheets: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *SheetError) Unwrap() error { return ErrSheetNotFound }

// CellError reports an access outside the populated grid of a sheet.
type CellError struct {
	Sheet string
	Row   int
	Col   int
	Rows  int
	Cols  int
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q: cell (%d, %d) outside %dx%d data grid", e.Sheet, e.Row, e.Col, e.Rows, e.Cols)
}

func (e *CellError) Unwrap() error { return ErrCellOutOfRange }
