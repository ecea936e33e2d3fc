package layout

import (
	"slices"
	"strings"
)

// Class is the display classification of a numeric table cell.
type Class int

const (
	Plain Class = iota
	Percent
	Currency
	Thousands
	Decimal
)

func (c Class) String() string {
	switch c {
	case Percent:
		return "percent"
	case Currency:
		return "currency"
	case Thousands:
		return "thousands"
	case Decimal:
		return "decimal"
	default:
		return "plain"
	}
}

// RuleSet classifies a numeric cell given its row label (the first-column
// value) and 0-based column index.
type RuleSet interface {
	Classify(label string, col int) Class
}

// ColumnRules classifies by column index. Percent is checked first, then
// currency, thousands and decimal.
type ColumnRules struct {
	Percent   []int `yaml:"percent,omitempty" json:"percent,omitempty"`
	Currency  []int `yaml:"currency,omitempty" json:"currency,omitempty"`
	Thousands []int `yaml:"thousands,omitempty" json:"thousands,omitempty"`
	Decimal   []int `yaml:"decimal,omitempty" json:"decimal,omitempty"`
}

func (r ColumnRules) Classify(_ string, col int) Class {
	switch {
	case slices.Contains(r.Percent, col):
		return Percent
	case slices.Contains(r.Currency, col):
		return Currency
	case slices.Contains(r.Thousands, col):
		return Thousands
	case slices.Contains(r.Decimal, col):
		return Decimal
	}
	return Plain
}

// RowRules classifies by keywords found anywhere in the row label, percent
// keywords first.
type RowRules struct {
	Percent  []string `yaml:"percent,omitempty" json:"percent,omitempty"`
	Currency []string `yaml:"currency,omitempty" json:"currency,omitempty"`
}

func (r RowRules) Classify(label string, _ int) Class {
	switch {
	case containsAny(label, r.Percent):
		return Percent
	case containsAny(label, r.Currency):
		return Currency
	}
	return Plain
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

type noRules struct{}

func (noRules) Classify(string, int) Class { return Plain }
