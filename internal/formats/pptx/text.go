package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Align is a paragraph alignment value.
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// TextFrame is a text body (p:txBody or a:txBody).
type TextFrame struct {
	el *etree.Element
}

// Paragraphs returns the frame's paragraphs.
func (tf *TextFrame) Paragraphs() []*Paragraph {
	var ps []*Paragraph
	for _, p := range tf.el.SelectElements("p") {
		ps = append(ps, &Paragraph{el: p})
	}
	return ps
}

// Text joins paragraph texts with newlines.
func (tf *TextFrame) Text() string {
	ps := tf.Paragraphs()
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

// SetText removes every paragraph and adds one per line of text. Each
// non-empty line gets a single run without properties; vertical tabs become
// line breaks.
func (tf *TextFrame) SetText(text string) {
	prefix := dmlPrefix(tf.el)
	for _, p := range tf.el.SelectElements("p") {
		tf.el.RemoveChild(p)
	}
	for _, line := range strings.Split(text, "\n") {
		p := tf.el.CreateElement(prefix + ":p")
		for i, seg := range strings.Split(line, "\v") {
			if i > 0 {
				p.CreateElement(prefix + ":br")
			}
			if seg != "" {
				p.CreateElement(prefix + ":r").CreateElement(prefix + ":t").SetText(seg)
			}
		}
	}
}

// Paragraph is one a:p element.
type Paragraph struct {
	el *etree.Element
}

// Runs returns the paragraph's text runs.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, r := range p.el.SelectElements("r") {
		runs = append(runs, &Run{el: r})
	}
	return runs
}

// Text concatenates runs and fields; line breaks read as vertical tabs.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, c := range p.el.ChildElements() {
		switch c.Tag {
		case "r", "fld":
			if t := c.SelectElement("t"); t != nil {
				b.WriteString(t.Text())
			}
		case "br":
			b.WriteByte('\v')
		}
	}
	return b.String()
}

// Alignment returns the paragraph's explicit alignment, or "".
func (p *Paragraph) Alignment() Align {
	if pPr := p.el.SelectElement("pPr"); pPr != nil {
		return Align(pPr.SelectAttrValue("algn", ""))
	}
	return ""
}

// SetAlignment sets the paragraph alignment.
func (p *Paragraph) SetAlignment(a Align) {
	pPr := p.el.SelectElement("pPr")
	if pPr == nil {
		pPr = etree.NewElement(dmlPrefix(p.el) + ":pPr")
		p.el.InsertChildAt(0, pPr)
	}
	pPr.CreateAttr("algn", string(a))
}

// Run is one a:r element.
type Run struct {
	el *etree.Element
}

// Text returns the run text.
func (r *Run) Text() string {
	if t := r.el.SelectElement("t"); t != nil {
		return t.Text()
	}
	return ""
}

// SetText replaces the run text, keeping its properties.
func (r *Run) SetText(s string) {
	t := r.el.SelectElement("t")
	if t == nil {
		t = r.el.CreateElement(dmlPrefix(r.el) + ":t")
	}
	t.SetText(s)
}

// Style describes the character properties ttreport reads and writes.
type Style struct {
	Face  string
	Size  float64
	Color string
	Bold  bool
}

// Style reads the run's explicit character properties.
func (r *Run) Style() Style {
	var st Style
	rPr := r.el.SelectElement("rPr")
	if rPr == nil {
		return st
	}
	if sz, err := strconv.Atoi(rPr.SelectAttrValue("sz", "")); err == nil {
		st.Size = float64(sz) / 100
	}
	b := rPr.SelectAttrValue("b", "")
	st.Bold = b == "1" || b == "true"
	if latin := rPr.SelectElement("latin"); latin != nil {
		st.Face = latin.SelectAttrValue("typeface", "")
	}
	if fill := rPr.SelectElement("solidFill"); fill != nil {
		if clr := fill.SelectElement("srgbClr"); clr != nil {
			st.Color = clr.SelectAttrValue("val", "")
		}
	}
	return st
}

// SetFont sets the Latin typeface.
func (r *Run) SetFont(face string) {
	rPr := r.props()
	if old := rPr.SelectElement("latin"); old != nil {
		rPr.RemoveChild(old)
	}
	latin := etree.NewElement(dmlPrefix(r.el) + ":latin")
	latin.CreateAttr("typeface", face)
	insertOrdered(rPr, latin)
}

// SetSize sets the font size in points.
func (r *Run) SetSize(pt float64) {
	r.props().CreateAttr("sz", strconv.Itoa(int(pt*100+0.5)))
}

// SetBold sets or clears bold.
func (r *Run) SetBold(bold bool) {
	v := "0"
	if bold {
		v = "1"
	}
	r.props().CreateAttr("b", v)
}

// SetColor sets a solid RGB fill given as six hex digits.
func (r *Run) SetColor(rgb string) {
	rPr := r.props()
	for _, c := range rPr.ChildElements() {
		if fillTags[c.Tag] {
			rPr.RemoveChild(c)
		}
	}
	prefix := dmlPrefix(r.el)
	fill := etree.NewElement(prefix + ":solidFill")
	fill.CreateElement(prefix + ":srgbClr").CreateAttr("val", strings.ToUpper(rgb))
	insertOrdered(rPr, fill)
}

// props returns a:rPr, creating it as the run's first child.
func (r *Run) props() *etree.Element {
	if rPr := r.el.SelectElement("rPr"); rPr != nil {
		return rPr
	}
	rPr := etree.NewElement(dmlPrefix(r.el) + ":rPr")
	r.el.InsertChildAt(0, rPr)
	return rPr
}

var fillTags = map[string]bool{
	"noFill": true, "solidFill": true, "gradFill": true,
	"blipFill": true, "pattFill": true, "grpFill": true,
}

// rPrOrder is the schema sequence of a:rPr children.
var rPrOrder = []string{
	"ln", "noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill",
	"effectLst", "effectDag", "highlight", "uLnTx", "uLn", "uFillTx", "uFill",
	"latin", "ea", "cs", "sym", "hlinkClick", "hlinkMouseOver", "rtl", "extLst",
}

func rank(tag string) int {
	for i, t := range rPrOrder {
		if t == tag {
			return i
		}
	}
	return len(rPrOrder)
}

// insertOrdered adds child to parent ahead of the first sibling that the
// schema places after it.
func insertOrdered(parent, child *etree.Element) {
	r := rank(child.Tag)
	for _, c := range parent.ChildElements() {
		if rank(c.Tag) > r {
			parent.InsertChildAt(c.Index(), child)
			return
		}
	}
	parent.AddChild(child)
}
