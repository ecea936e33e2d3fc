// Package pptx reads and edits .pptx (PowerPoint) packages.
//
// Open returns a Deck whose slides are XML trees that can be mutated in
// place and serialized back with Bytes. ReadFile and Parse produce a
// read-only text summary of a deck.
package pptx

import (
	"fmt"
	"os"
	"strings"
)

// SlideContent represents a single slide's extracted content.
type SlideContent struct {
	Number      int          `json:"number"`
	Title       string       `json:"title,omitempty"`
	TextContent []string     `json:"textContent"`
	Tables      [][][]string `json:"tables,omitempty"`
}

// Presentation represents the text content of a deck.
type Presentation struct {
	Slides []SlideContent `json:"slides"`
}

// ReadFile reads and summarizes a .pptx file from the given path.
func ReadFile(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse summarizes a .pptx file from the given byte slice.
func Parse(data []byte) (*Presentation, error) {
	d, err := Open(data)
	if err != nil {
		return nil, err
	}
	return Summarize(d), nil
}

// Summarize extracts slide titles, text lines and table cells from a deck.
func Summarize(d *Deck) *Presentation {
	pres := &Presentation{}
	for _, s := range d.Slides() {
		content := SlideContent{Number: s.Index + 1, Title: s.Title()}
		for _, sh := range s.Shapes() {
			if tf := sh.TextFrame(); tf != nil {
				for _, p := range tf.Paragraphs() {
					if text := strings.TrimSpace(p.Text()); text != "" {
						content.TextContent = append(content.TextContent, text)
					}
				}
			}
			if t := sh.Table(); t != nil {
				content.Tables = append(content.Tables, tableText(t))
			}
		}
		pres.Slides = append(pres.Slides, content)
	}
	return pres
}

func tableText(t *Table) [][]string {
	grid := make([][]string, t.Rows())
	for r := range grid {
		for c := 0; c < t.Cols(); c++ {
			cell := t.Cell(r, c)
			if cell == nil {
				break
			}
			grid[r] = append(grid[r], cell.Text())
		}
	}
	return grid
}

// PlainText returns all slide content as plain text. Table rows are printed
// tab-separated.
func (p *Presentation) PlainText() string {
	var b strings.Builder
	for _, slide := range p.Slides {
		fmt.Fprintf(&b, "--- Slide %d ---\n", slide.Number)
		if slide.Title != "" {
			fmt.Fprintf(&b, "%s\n\n", slide.Title)
		}
		for _, text := range slide.TextContent {
			if text == slide.Title {
				continue
			}
			fmt.Fprintf(&b, "%s\n", text)
		}
		for _, table := range slide.Tables {
			for _, row := range table {
				fmt.Fprintf(&b, "%s\n", strings.Join(row, "\t"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
