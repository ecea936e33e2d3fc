package report

import (
	"fmt"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

// Skeleton returns a workbook holding every sheet a build reads, sized so that
// every token cell exists. Numeric token cells hold 0 and text token cells
// hold the token name, so the skeleton itself generates a deck.
func Skeleton(l *layout.Layout) *xlsx.Workbook {
	if l == nil {
		l = layout.Default()
	}

	type extent struct{ rows, cols int }
	extents := make(map[string]*extent)
	cells := make(map[string][]tokens.Source)
	for _, src := range tokens.Vocabulary() {
		e := extents[src.Sheet]
		if e == nil {
			e = &extent{}
			extents[src.Sheet] = e
		}
		e.rows = max(e.rows, src.Row+1)
		e.cols = max(e.cols, src.Col+1)
		cells[src.Sheet] = append(cells[src.Sheet], src)
	}

	wb := &xlsx.Workbook{}
	for _, name := range RequiredSheets(l) {
		e := extents[name]
		if e == nil {
			e = &extent{cols: 1}
		}

		sheet := xlsx.Sheet{Name: name, Columns: make([]string, e.cols)}
		sheet.Columns[0] = "Label"
		for c := 1; c < e.cols; c++ {
			sheet.Columns[c] = fmt.Sprintf("Value %d", c)
		}

		sheet.Rows = make([][]xlsx.Cell, e.rows)
		for r := range sheet.Rows {
			sheet.Rows[r] = make([]xlsx.Cell, e.cols)
		}
		for _, src := range cells[name] {
			if src.Format == tokens.Raw {
				sheet.Rows[src.Row][src.Col] = xlsx.TextCell(src.Token)
			} else {
				sheet.Rows[src.Row][src.Col] = xlsx.NumberCell(0)
			}
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb
}
