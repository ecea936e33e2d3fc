// Package render applies token values and workbook tables to a deck.
package render

import (
	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
)

const (
	black = "000000"
	white = "FFFFFF"
)

// Stats counts what a render pass changed.
type Stats struct {
	RunsReplaced   int   `json:"runsReplaced"`
	CellsReplaced  int   `json:"cellsReplaced"`
	TablesRendered int   `json:"tablesRendered"`
	CellsWritten   int   `json:"cellsWritten"`
	SkippedSlides  []int `json:"skippedSlides,omitempty"`
}

func styleRun(r *pptx.Run, font layout.Font, color string, bold bool) {
	r.SetFont(font.Face)
	r.SetSize(font.Size)
	r.SetColor(color)
	if bold {
		r.SetBold(true)
	}
}
