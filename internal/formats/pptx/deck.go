package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"
)

var (
	// ErrNotPresentation is returned when a package has no ppt/presentation.xml part.
	ErrNotPresentation = errors.New("not a presentation package")

	// ErrSlideOutOfRange is returned for a slide index outside the deck.
	ErrSlideOutOfRange = errors.New("slide index out of range")
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

type part struct {
	header zip.FileHeader
	data   []byte
}

// Deck is an editable presentation package. Slides are parsed into XML trees
// that callers mutate in place; every other part is carried through
// unchanged. A Deck is owned by a single caller and is not safe for
// concurrent use.
type Deck struct {
	parts  []*part
	slides []*Slide
}

// Slide is one slide of a Deck, in presentation order.
type Slide struct {
	Index int
	Part  string
	doc   *etree.Document
}

// OpenFile loads a deck from disk.
func OpenFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return Open(data)
}

// Open loads a deck from .pptx bytes. The input slice is not retained.
func Open(data []byte) (*Deck, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .pptx file — the file does not appear to be a valid ZIP archive: %w", err)
	}

	d := &Deck{}
	index := make(map[string][]byte, len(reader.File))
	for _, f := range reader.File {
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", f.Name, err)
		}
		d.parts = append(d.parts, &part{header: f.FileHeader, data: content})
		index[f.Name] = content
	}

	names, err := slideOrder(index)
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		content, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("slide part %s is referenced but missing from the package", name)
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(content); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", name, err)
		}
		d.slides = append(d.slides, &Slide{Index: i, Part: name, doc: doc})
	}

	return d, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// slideOrder resolves the slide parts listed in the presentation's slide id
// list through its relationships part.
func slideOrder(parts map[string][]byte) ([]string, error) {
	presXML, ok := parts[presentationPart]
	if !ok {
		return nil, ErrNotPresentation
	}

	targets := make(map[string]string)
	if relsXML, ok := parts[presentationRels]; ok {
		rels := etree.NewDocument()
		if err := rels.ReadFromBytes(relsXML); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", presentationRels, err)
		}
		if root := rels.Root(); root != nil {
			for _, rel := range root.SelectElements("Relationship") {
				targets[rel.SelectAttrValue("Id", "")] = resolveTarget("ppt", rel.SelectAttrValue("Target", ""))
			}
		}
	}

	pres := etree.NewDocument()
	if err := pres.ReadFromBytes(presXML); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", presentationPart, err)
	}
	root := pres.Root()
	if root == nil {
		return nil, ErrNotPresentation
	}
	list := root.SelectElement("sldIdLst")
	if list == nil {
		return nil, nil
	}

	var names []string
	for _, id := range list.SelectElements("sldId") {
		rid := relID(id)
		target, ok := targets[rid]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found in %s", rid, presentationRels)
		}
		names = append(names, target)
	}
	return names, nil
}

func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(base, target)
}

// relID returns the namespaced id attribute (r:id) of a slide id element.
func relID(el *etree.Element) string {
	for _, a := range el.Attr {
		if a.Key == "id" && a.Space != "" {
			return a.Value
		}
	}
	return ""
}

// Len returns the number of slides.
func (d *Deck) Len() int { return len(d.slides) }

// Slides returns the slides in presentation order.
func (d *Deck) Slides() []*Slide { return d.slides }

// Slide returns the slide at 0-based index i.
func (d *Deck) Slide(i int) (*Slide, error) {
	if i < 0 || i >= len(d.slides) {
		return nil, fmt.Errorf("%w: %d (deck has %d slides)", ErrSlideOutOfRange, i, len(d.slides))
	}
	return d.slides[i], nil
}

// Bytes serializes the deck, preserving the original part order.
func (d *Deck) Bytes() ([]byte, error) {
	edited := make(map[string]*Slide, len(d.slides))
	for _, s := range d.slides {
		edited[s.Part] = s
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, p := range d.parts {
		content := p.data
		if s, ok := edited[p.header.Name]; ok {
			out, err := s.doc.WriteToBytes()
			if err != nil {
				return nil, fmt.Errorf("could not serialize %s: %w", s.Part, err)
			}
			content = out
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.header.Name,
			Method:   p.header.Method,
			Modified: p.header.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create %s in output: %w", p.header.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", p.header.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize output: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the serialized deck to path.
func (d *Deck) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
