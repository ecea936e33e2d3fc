// Package template inspects a report template before it is used: which
// tokens it carries, which were split across runs by PowerPoint, and whether
// every bound slide has a table to fill.
package template

import (
	"fmt"
	"os"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/pptx"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
	"github.com/deeemdeeem/tt-report-automation/internal/tokens"
)

// Location is a place a token was seen. Slide is 1-based.
type Location struct {
	Slide int    `json:"slide"`
	Shape string `json:"shape"`
	Table bool   `json:"table,omitempty"`
}

// TokenUse records where one token occurs.
type TokenUse struct {
	Token     string     `json:"token"`
	Locations []Location `json:"locations"`
}

// BindingStatus describes the table target of one sheet binding.
type BindingStatus struct {
	Slide   int    `json:"slide"` // 0-based, as in the layout
	Sheet   string `json:"sheet"`
	Rows    int    `json:"rows,omitempty"`
	Cols    int    `json:"cols,omitempty"`
	Problem string `json:"problem,omitempty"`
}

// Report is the result of checking a template.
type Report struct {
	Slides   int             `json:"slides"`
	Found    []TokenUse      `json:"found"`
	Missing  []string        `json:"missing"`
	Split    []TokenUse      `json:"split,omitempty"`
	Bindings []BindingStatus `json:"bindings"`
}

// OK reports whether the template can be rendered as intended: no token is
// split across runs and every binding has a table. Missing tokens are
// allowed; a template need not use the whole vocabulary.
func (r *Report) OK() bool {
	if len(r.Split) > 0 {
		return false
	}
	for _, b := range r.Bindings {
		if b.Problem != "" {
			return false
		}
	}
	return true
}

// CheckFile opens the template at path and checks it.
func CheckFile(path string, l *layout.Layout) (*Report, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("template not found: %s — check that the path is correct", path)
	}
	d, err := pptx.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return Check(d, tokens.Vocabulary(), l), nil
}

// Check inspects d against the token vocabulary and the layout bindings.
func Check(d *pptx.Deck, vocab []tokens.Source, l *layout.Layout) *Report {
	if l == nil {
		l = layout.Default()
	}

	entries := make([]tokens.Entry, len(vocab))
	for i, src := range vocab {
		entries[i] = tokens.Entry{Token: src.Token}
	}
	matcher := tokens.NewTable(entries)

	found := make(map[string][]Location)
	split := make(map[string][]Location)

	for _, slide := range d.Slides() {
		for _, shape := range slide.Shapes() {
			loc := Location{Slide: slide.Index + 1, Shape: shape.Name()}
			if tf := shape.TextFrame(); tf != nil {
				scanParagraphs(tf, matcher, loc, found, split)
			}
			if t := shape.Table(); t != nil {
				loc.Table = true
				for r := 0; r < t.Rows(); r++ {
					for c := 0; c < t.Cols(); c++ {
						cell := t.Cell(r, c)
						if cell == nil {
							break
						}
						// Cells are rewritten whole, so a token split across
						// runs inside a cell is still replaced.
						for _, tok := range matcher.Find(cell.Text()) {
							found[tok] = append(found[tok], loc)
						}
					}
				}
			}
		}
	}

	rep := &Report{Slides: d.Len()}
	for _, e := range matcher.Entries() {
		if locs, ok := found[e.Token]; ok {
			rep.Found = append(rep.Found, TokenUse{Token: e.Token, Locations: locs})
		} else if _, ok := split[e.Token]; !ok {
			rep.Missing = append(rep.Missing, e.Token)
		}
		if locs, ok := split[e.Token]; ok {
			rep.Split = append(rep.Split, TokenUse{Token: e.Token, Locations: locs})
		}
	}

	for _, b := range l.Bindings {
		rep.Bindings = append(rep.Bindings, checkBinding(d, b))
	}
	return rep
}

// scanParagraphs records tokens found inside single runs, and tokens that
// only appear once the runs of a paragraph are joined.
func scanParagraphs(tf *pptx.TextFrame, matcher *tokens.Table, loc Location, found, split map[string][]Location) {
	for _, p := range tf.Paragraphs() {
		inRun := make(map[string]bool)
		for _, r := range p.Runs() {
			for _, tok := range matcher.Find(r.Text()) {
				inRun[tok] = true
				found[tok] = append(found[tok], loc)
			}
		}
		for _, tok := range matcher.Find(p.Text()) {
			if !inRun[tok] {
				split[tok] = append(split[tok], loc)
			}
		}
	}
}

func checkBinding(d *pptx.Deck, b layout.Binding) BindingStatus {
	st := BindingStatus{Slide: b.Slide, Sheet: b.Sheet}
	slide, err := d.Slide(b.Slide)
	if err != nil {
		st.Problem = fmt.Sprintf("slide %d does not exist (template has %d slides)", b.Slide+1, d.Len())
		return st
	}
	t := slide.FirstTable()
	if t == nil {
		st.Problem = fmt.Sprintf("slide %d has no table; the %s sheet will be skipped", b.Slide+1, b.Sheet)
		return st
	}
	st.Rows, st.Cols = t.Rows(), t.Cols()
	if st.Rows < 2 {
		st.Problem = fmt.Sprintf("slide %d table has no data rows", b.Slide+1)
	}
	return st
}
