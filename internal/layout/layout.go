// Package layout describes which workbook sheets fill which slide tables and
// how their cells are formatted and styled.
package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid layout")

// Font is the face and point size written to rendered cells.
type Font struct {
	Face string  `yaml:"face" json:"face"`
	Size float64 `yaml:"size" json:"size"`
}

// Binding fills the first table on a 0-based slide index from a sheet.
type Binding struct {
	Slide int    `yaml:"slide" json:"slide"`
	Sheet string `yaml:"sheet" json:"sheet"`
}

// TableSpec holds the formatting of one sheet's table. At most one of
// Columns and Rows may be set.
type TableSpec struct {
	Header            bool         `yaml:"header" json:"header"`
	EmphasizeFirstRow bool         `yaml:"emphasize_first_row" json:"emphasizeFirstRow"`
	Columns           *ColumnRules `yaml:"columns,omitempty" json:"columns,omitempty"`
	Rows              *RowRules    `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// RuleSet returns the variant selected by the spec.
func (s TableSpec) RuleSet() RuleSet {
	switch {
	case s.Rows != nil:
		return *s.Rows
	case s.Columns != nil:
		return *s.Columns
	}
	return noRules{}
}

// Layout is the complete rendering configuration.
type Layout struct {
	Font     Font                 `yaml:"font" json:"font"`
	Bindings []Binding            `yaml:"bindings" json:"bindings"`
	Tables   map[string]TableSpec `yaml:"tables" json:"tables"`
}

// Default returns the built-in layout.
func Default() *Layout {
	l, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("layout: embedded default is invalid: %v", err))
	}
	return l
}

// Load reads a layout file, or returns Default when path is empty.
func Load(path string) (*Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read layout %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("could not parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks bindings and table specs.
func (l *Layout) Validate() error {
	if l.Font.Face == "" {
		return fmt.Errorf("%w: font face is required", ErrInvalid)
	}
	if l.Font.Size <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %v", ErrInvalid, l.Font.Size)
	}
	slidesSeen := make(map[int]bool)
	for _, b := range l.Bindings {
		if b.Slide < 0 {
			return fmt.Errorf("%w: binding for %q has negative slide %d", ErrInvalid, b.Sheet, b.Slide)
		}
		if b.Sheet == "" {
			return fmt.Errorf("%w: binding for slide %d has no sheet", ErrInvalid, b.Slide)
		}
		if slidesSeen[b.Slide] {
			return fmt.Errorf("%w: slide %d is bound more than once", ErrInvalid, b.Slide)
		}
		slidesSeen[b.Slide] = true
	}
	for name, spec := range l.Tables {
		if spec.Columns != nil && spec.Rows != nil {
			return fmt.Errorf("%w: table %q sets both column and row rules", ErrInvalid, name)
		}
		if c := spec.Columns; c != nil {
			for _, idx := range slices.Concat(c.Percent, c.Currency, c.Thousands, c.Decimal) {
				if idx < 0 {
					return fmt.Errorf("%w: table %q has negative column %d", ErrInvalid, name, idx)
				}
			}
		}
	}
	return nil
}

// Table returns the spec for a sheet; unknown sheets get an empty spec.
func (l *Layout) Table(sheet string) TableSpec {
	return l.Tables[sheet]
}

// BoundSheets lists the sheets named by bindings in slide order.
func (l *Layout) BoundSheets() []string {
	bs := make([]Binding, len(l.Bindings))
	copy(bs, l.Bindings)
	sort.Slice(bs, func(i, j int) bool { return bs[i].Slide < bs[j].Slide })

	seen := make(map[string]bool)
	var names []string
	for _, b := range bs {
		if !seen[b.Sheet] {
			seen[b.Sheet] = true
			names = append(names, b.Sheet)
		}
	}
	return names
}

// Marshal encodes the layout as YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}
