package pptx

import (
	"strings"

	"github.com/beevik/etree"
)

const drawingNS = "http://schemas.openxmlformats.org/drawingml/2006/main"

// Shape is a drawable element of a slide's shape tree. Capabilities are
// discovered with TextFrame and Table; either may be nil.
type Shape struct {
	el *etree.Element
}

// Shapes returns the slide's shapes in document order, descending into
// group shapes.
func (s *Slide) Shapes() []*Shape {
	root := s.doc.Root()
	if root == nil {
		return nil
	}
	csld := root.SelectElement("cSld")
	if csld == nil {
		return nil
	}
	tree := csld.SelectElement("spTree")
	if tree == nil {
		return nil
	}
	var shapes []*Shape
	collectShapes(tree, &shapes)
	return shapes
}

func collectShapes(parent *etree.Element, out *[]*Shape) {
	for _, el := range parent.ChildElements() {
		switch el.Tag {
		case "sp", "graphicFrame", "pic", "cxnSp":
			*out = append(*out, &Shape{el: el})
		case "grpSp":
			collectShapes(el, out)
		}
	}
}

// Tables returns every table on the slide in shape order.
func (s *Slide) Tables() []*Table {
	var tables []*Table
	for _, sh := range s.Shapes() {
		if t := sh.Table(); t != nil {
			tables = append(tables, t)
		}
	}
	return tables
}

// FirstTable returns the slide's first table shape, or nil.
func (s *Slide) FirstTable() *Table {
	for _, sh := range s.Shapes() {
		if t := sh.Table(); t != nil {
			return t
		}
	}
	return nil
}

// Title returns the text of the slide's title placeholder, if any.
func (s *Slide) Title() string {
	for _, sh := range s.Shapes() {
		if ph := sh.Placeholder(); ph == "title" || ph == "ctrTitle" {
			if tf := sh.TextFrame(); tf != nil {
				return strings.TrimSpace(tf.Text())
			}
		}
	}
	return ""
}

func (sh *Shape) nvProps() *etree.Element {
	for _, c := range sh.el.ChildElements() {
		if strings.HasPrefix(c.Tag, "nv") {
			return c
		}
	}
	return nil
}

// Name returns the shape's non-visual name.
func (sh *Shape) Name() string {
	if nv := sh.nvProps(); nv != nil {
		if c := nv.SelectElement("cNvPr"); c != nil {
			return c.SelectAttrValue("name", "")
		}
	}
	return ""
}

// Placeholder returns the placeholder type ("title", "body", ...), "obj" for
// an untyped placeholder, or "" when the shape is not a placeholder.
func (sh *Shape) Placeholder() string {
	nv := sh.nvProps()
	if nv == nil {
		return ""
	}
	pr := nv.SelectElement("nvPr")
	if pr == nil {
		return ""
	}
	ph := pr.SelectElement("ph")
	if ph == nil {
		return ""
	}
	return ph.SelectAttrValue("type", "obj")
}

// TextFrame returns the shape's text body, or nil when it has none.
func (sh *Shape) TextFrame() *TextFrame {
	if sh.el.Tag != "sp" {
		return nil
	}
	if body := sh.el.SelectElement("txBody"); body != nil {
		return &TextFrame{el: body}
	}
	return nil
}

// Table returns the table held by a graphic frame, or nil.
func (sh *Shape) Table() *Table {
	if sh.el.Tag != "graphicFrame" {
		return nil
	}
	graphic := sh.el.SelectElement("graphic")
	if graphic == nil {
		return nil
	}
	data := graphic.SelectElement("graphicData")
	if data == nil {
		return nil
	}
	if tbl := data.SelectElement("tbl"); tbl != nil {
		return &Table{el: tbl}
	}
	return nil
}

// Table is a DrawingML table. Geometry is fixed; cells are edited in place.
type Table struct {
	el *etree.Element
}

// Rows returns the number of table rows.
func (t *Table) Rows() int { return len(t.el.SelectElements("tr")) }

// Cols returns the number of grid columns.
func (t *Table) Cols() int {
	if grid := t.el.SelectElement("tblGrid"); grid != nil {
		if n := len(grid.SelectElements("gridCol")); n > 0 {
			return n
		}
	}
	if rows := t.el.SelectElements("tr"); len(rows) > 0 {
		return len(rows[0].SelectElements("tc"))
	}
	return 0
}

// Cell returns the cell at (row, col), or nil when outside the table.
func (t *Table) Cell(row, col int) *TableCell {
	rows := t.el.SelectElements("tr")
	if row < 0 || row >= len(rows) {
		return nil
	}
	cells := rows[row].SelectElements("tc")
	if col < 0 || col >= len(cells) {
		return nil
	}
	return &TableCell{el: cells[col]}
}

// TableCell is one a:tc element.
type TableCell struct {
	el *etree.Element
}

// TextFrame returns the cell's text body, creating an empty one if absent.
func (c *TableCell) TextFrame() *TextFrame {
	if body := c.el.SelectElement("txBody"); body != nil {
		return &TextFrame{el: body}
	}
	prefix := dmlPrefix(c.el)
	body := etree.NewElement(prefix + ":txBody")
	body.CreateElement(prefix + ":bodyPr")
	body.CreateElement(prefix + ":lstStyle")
	body.CreateElement(prefix + ":p")
	c.el.InsertChildAt(0, body)
	return &TextFrame{el: body}
}

// Text returns the cell text, one line per paragraph.
func (c *TableCell) Text() string {
	body := c.el.SelectElement("txBody")
	if body == nil {
		return ""
	}
	return (&TextFrame{el: body}).Text()
}

// SetText replaces the cell content with one paragraph per line.
func (c *TableCell) SetText(text string) { c.TextFrame().SetText(text) }

// dmlPrefix finds the prefix bound to the DrawingML namespace in scope at el.
func dmlPrefix(el *etree.Element) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Space == "xmlns" && a.Value == drawingNS {
				return a.Key
			}
		}
	}
	return "a"
}
