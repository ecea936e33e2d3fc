package render

import (
	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

// Substitute replaces tokens in every run of every text frame, keeping run
// formatting, and in every table cell. A table cell containing a token is
// rewritten as plain paragraphs, centered, in the layout font and black.
func Substitute(deck *pptx.Deck, table *tokens.Table, font layout.Font) Stats {
	var st Stats
	for _, slide := range deck.Slides() {
		for _, shape := range slide.Shapes() {
			if tf := shape.TextFrame(); tf != nil {
				for _, p := range tf.Paragraphs() {
					for _, r := range p.Runs() {
						if text, ok := table.Replace(r.Text()); ok {
							r.SetText(text)
							st.RunsReplaced++
						}
					}
				}
			}
			if t := shape.Table(); t != nil {
				st.CellsReplaced += substituteTable(t, table, font)
			}
		}
	}
	return st
}

func substituteTable(t *pptx.Table, table *tokens.Table, font layout.Font) int {
	n := 0
	for r := 0; r < t.Rows(); r++ {
		for c := 0; c < t.Cols(); c++ {
			cell := t.Cell(r, c)
			if cell == nil {
				break
			}
			text, ok := table.Replace(cell.Text())
			if !ok {
				continue
			}
			cell.SetText(text)
			for _, p := range cell.TextFrame().Paragraphs() {
				p.SetAlignment(pptx.AlignCenter)
				for _, run := range p.Runs() {
					styleRun(run, font, black, false)
				}
			}
			n++
		}
	}
	return n
}
