// Package pptxtest builds minimal .pptx packages for tests and fixtures.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"

	relSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

// Shape is anything that can be placed in a slide's shape tree.
type Shape interface {
	write(b *strings.Builder, id *int)
}

// TextBox is a text shape; each paragraph is a list of run texts.
type TextBox struct {
	Name       string
	Title      bool
	Paragraphs [][]string
}

// Table is a graphic frame holding a table. Cols defaults to the widest row.
type Table struct {
	Name string
	Cols int
	Rows [][]string
}

// Group nests shapes inside a group shape.
type Group struct {
	Shapes []Shape
}

// Slide lists the shapes of one slide.
type Slide struct {
	Shapes []Shape
}

// Text returns a slide with a single one-run text box.
func Text(s string) Slide {
	return Slide{Shapes: []Shape{TextBox{Name: "TextBox", Paragraphs: [][]string{{s}}}}}
}

// Build assembles a presentation package with the given slides in order.
func Build(slides ...Slide) []byte {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	add := func(name, content string) {
		w, _ := zw.Create(name)
		w.Write([]byte(xml.Header + content))
	}

	var types strings.Builder
	types.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	types.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	types.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	types.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := range slides {
		fmt.Fprintf(&types, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	types.WriteString(`</Types>`)
	add("[Content_Types].xml", types.String())

	add("_rels/.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>`+
		`</Relationships>`)

	var pres, rels strings.Builder
	fmt.Fprintf(&pres, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:sldIdLst>`, nsA, nsR, nsP)
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range slides {
		fmt.Fprintf(&pres, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+1, relSlide, i+1)
	}
	pres.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	rels.WriteString(`</Relationships>`)
	add("ppt/presentation.xml", pres.String())
	add("ppt/_rels/presentation.xml.rels", rels.String())

	for i, s := range slides {
		add(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s))
	}

	zw.Close()
	return buf.Bytes()
}

func slideXML(s Slide) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree>`, nsA, nsR, nsP)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	id := 2
	for _, sh := range s.Shapes {
		sh.write(&b, &id)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func (t TextBox) write(b *strings.Builder, id *int) {
	ph := ""
	if t.Title {
		ph = `<p:ph type="title"/>`
	}
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/>`, *id, esc(t.Name), ph)
	*id++
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, runs := range t.Paragraphs {
		b.WriteString(`<a:p>`)
		for _, r := range runs {
			fmt.Fprintf(b, `<a:r><a:rPr lang="en-US" sz="1800" dirty="0"><a:latin typeface="Arial"/></a:rPr><a:t>%s</a:t></a:r>`, esc(r))
		}
		b.WriteString(`</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func (t Table) write(b *strings.Builder, id *int) {
	cols := t.Cols
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	fmt.Fprintf(b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`, *id, esc(t.Name))
	*id++
	b.WriteString(`<p:xfrm><a:off x="0" y="0"/><a:ext cx="8128000" cy="741680"/></p:xfrm>`)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for c := 0; c < cols; c++ {
		b.WriteString(`<a:gridCol w="1016000"/>`)
	}
	b.WriteString(`</a:tblGrid>`)
	for _, row := range t.Rows {
		b.WriteString(`<a:tr h="370840">`)
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p>`)
			if text != "" {
				fmt.Fprintf(b, `<a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r>`, esc(text))
			} else {
				b.WriteString(`<a:endParaRPr lang="en-US"/>`)
			}
			b.WriteString(`</a:p></a:txBody><a:tcPr/></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func (g Group) write(b *strings.Builder, id *int) {
	fmt.Fprintf(b, `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="Group %d"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`, *id, *id)
	*id++
	for _, sh := range g.Shapes {
		sh.write(b, id)
	}
	b.WriteString(`</p:grpSp>`)
}

// EmptyRows returns n rows of cols empty cells.
func EmptyRows(n, cols int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, cols)
	}
	return rows
}

func esc(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
