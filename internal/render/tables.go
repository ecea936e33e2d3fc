package render

import (
	"fmt"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/numfmt"
)

// Tables copies each bound sheet into the first table of its slide. Slides
// without a table are skipped; rows and columns beyond the table geometry
// are dropped. A binding to a slide outside the deck or to a sheet that was
// not loaded is an error.
func Tables(deck *pptx.Deck, wb *xlsx.Workbook, l *layout.Layout) (Stats, error) {
	var st Stats
	for _, b := range l.Bindings {
		slide, err := deck.Slide(b.Slide)
		if err != nil {
			return st, fmt.Errorf("binding %s: %w", b.Sheet, err)
		}
		t := slide.FirstTable()
		if t == nil {
			st.SkippedSlides = append(st.SkippedSlides, b.Slide)
			continue
		}
		sheet, err := wb.GetSheet(b.Sheet)
		if err != nil {
			return st, fmt.Errorf("binding for slide %d: %w", b.Slide, err)
		}
		st.CellsWritten += Table(t, sheet, l.Table(b.Sheet), l.Font)
		st.TablesRendered++
	}
	return st, nil
}

// Table writes sheet into t and returns the number of data cells written.
func Table(t *pptx.Table, sheet *xlsx.Sheet, spec layout.TableSpec, font layout.Font) int {
	cols := min(sheet.Width(), t.Cols())

	if spec.Header {
		for c, name := range sheet.Columns {
			if c >= t.Cols() {
				break
			}
			cell := t.Cell(0, c)
			if cell == nil {
				continue
			}
			cell.SetText(name)
			align := pptx.AlignLeft
			if c == 0 {
				align = pptx.AlignCenter
			}
			for _, p := range cell.TextFrame().Paragraphs() {
				p.SetAlignment(align)
				for _, r := range p.Runs() {
					styleRun(r, font, white, true)
				}
			}
		}
	}

	rules := spec.RuleSet()
	rows := min(len(sheet.Rows), t.Rows()-1)
	written := 0
	for r := 0; r < rows; r++ {
		label := sheet.At(r, 0).String()
		emphasize := spec.EmphasizeFirstRow && r == 0
		for c := 0; c < cols; c++ {
			cell := t.Cell(r+1, c)
			if cell == nil {
				continue
			}
			cell.SetText(FormatCell(sheet.At(r, c), rules.Classify(label, c)))
			for _, p := range cell.TextFrame().Paragraphs() {
				for _, run := range p.Runs() {
					if emphasize {
						styleRun(run, font, white, true)
					} else {
						styleRun(run, font, black, false)
					}
				}
			}
			written++
		}
	}
	return written
}

// FormatCell renders a sheet value under a classification. Non-numeric
// values are printed as-is whatever the class.
func FormatCell(v xlsx.Cell, class layout.Class) string {
	f, ok := v.Float()
	if !ok {
		return v.String()
	}
	switch class {
	case layout.Percent:
		return numfmt.Percent(f)
	case layout.Currency:
		return numfmt.Currency(f)
	case layout.Thousands:
		return numfmt.Grouped(f)
	case layout.Decimal:
		return numfmt.Decimal(f)
	}
	return v.String()
}
