// Package tokens maps workbook cells to placeholder tokens and substitutes
// them into text.
package tokens

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/deeemdeeem/tt-report-automation/internal/formats/xlsx"
	"github.com/deeemdeeem/tt-report-automation/internal/numfmt"
)

// ErrNotNumeric is returned when a numeric format meets a non-numeric cell.
var ErrNotNumeric = errors.New("value is not numeric")

// FormatError reports a token whose source cell cannot be rendered.
type FormatError struct {
	Source Source
	Value  xlsx.Cell
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("token %s: %s!(%d, %d) = %q cannot be formatted as %s",
		e.Source.Token, e.Source.Sheet, e.Source.Row, e.Source.Col, e.Value.String(), e.Source.Format)
}

func (e *FormatError) Unwrap() error { return ErrNotNumeric }

// Entry is one token and its rendered value.
type Entry struct {
	Token string `json:"token"`
	Value string `json:"value"`
}

// Table is an immutable token -> value mapping. Safe for concurrent use.
type Table struct {
	entries  []Entry
	index    map[string]int
	replacer *strings.Replacer
}

// NewTable builds a table from entries. Later duplicates override earlier ones.
func NewTable(entries []Entry) *Table {
	t := &Table{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := t.index[e.Token]; ok {
			t.entries[i].Value = e.Value
			continue
		}
		t.index[e.Token] = len(t.entries)
		t.entries = append(t.entries, e)
	}

	// strings.Replacer tries old strings in argument order at each position,
	// so longer tokens win over tokens that are their prefixes.
	ordered := make([]Entry, len(t.entries))
	copy(ordered, t.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Token) > len(ordered[j].Token)
	})
	pairs := make([]string, 0, 2*len(ordered))
	for _, e := range ordered {
		if e.Token == "" {
			continue
		}
		pairs = append(pairs, e.Token, e.Value)
	}
	t.replacer = strings.NewReplacer(pairs...)
	return t
}

// Build reads every source from the workbook and renders its value. Any
// missing sheet, out-of-range cell or non-numeric value fails the build.
func Build(wb *xlsx.Workbook, sources []Source) (*Table, error) {
	entries := make([]Entry, 0, len(sources))
	for _, src := range sources {
		sheet, err := wb.GetSheet(src.Sheet)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", src.Token, err)
		}
		cell, err := sheet.Cell(src.Row, src.Col)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", src.Token, err)
		}
		value, err := render(cell, src)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Token: src.Token, Value: value})
	}
	return NewTable(entries), nil
}

func render(cell xlsx.Cell, src Source) (string, error) {
	if src.Format == Raw {
		return cell.String(), nil
	}
	v, ok := cell.Float()
	if !ok {
		return "", &FormatError{Source: src, Value: cell}
	}
	switch src.Format {
	case PercentInt:
		return numfmt.PercentInt(v), nil
	case Percent:
		return numfmt.Percent(v), nil
	case Currency:
		return numfmt.Currency(v), nil
	case Thousands:
		return numfmt.Grouped(v), nil
	case Decimal:
		return numfmt.Decimal(v), nil
	}
	return "", fmt.Errorf("token %s: unknown format %v", src.Token, src.Format)
}

// Len returns the number of tokens.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the tokens in construction order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the value mapped to token.
func (t *Table) Lookup(token string) (string, bool) {
	i, ok := t.index[token]
	if !ok {
		return "", false
	}
	return t.entries[i].Value, true
}

// Contains reports whether text holds any known token.
func (t *Table) Contains(text string) bool {
	for _, e := range t.entries {
		if e.Token != "" && strings.Contains(text, e.Token) {
			return true
		}
	}
	return false
}

// Replace substitutes every token occurrence in a single left-to-right pass,
// preferring the longest token at each position. Inserted values are never
// rescanned. The boolean reports whether any token was found.
func (t *Table) Replace(text string) (string, bool) {
	if !t.Contains(text) {
		return text, false
	}
	return t.replacer.Replace(text), true
}

// Find lists the tokens that occur in text, in construction order.
func (t *Table) Find(text string) []string {
	var found []string
	for _, e := range t.entries {
		if e.Token != "" && strings.Contains(text, e.Token) {
			found = append(found, e.Token)
		}
	}
	return found
}
