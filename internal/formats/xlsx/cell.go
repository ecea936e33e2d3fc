package xlsx

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Kind identifies the value type held by a Cell.
type Kind int

const (
	Empty Kind = iota
	Number
	Text
	Bool
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Bool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is a single computed worksheet value.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Truth  bool
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: Number, Number: v} }

// TextCell returns a string cell. An empty string yields an Empty cell.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Text: s}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: Bool, Truth: b} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Kind == Empty }

// Float returns the numeric value and whether the cell is numeric.
func (c Cell) Float() (float64, bool) {
	if c.Kind != Number {
		return 0, false
	}
	return c.Number, true
}

// String renders the value unchanged: integral numbers print without a
// fractional part, booleans as True/False, empty cells as "".
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case Text:
		return c.Text
	case Bool:
		if c.Truth {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as its natural JSON value.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case Number:
		return json.Marshal(c.Number)
	case Text:
		return json.Marshal(c.Text)
	case Bool:
		return json.Marshal(c.Truth)
	default:
		return []byte("null"), nil
	}
}

// parseCell converts a raw stored value into a typed Cell using the type
// attribute excelize reports for it.
func parseCell(raw string, typ excelize.CellType) Cell {
	if raw == "" {
		return Cell{}
	}
	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(v)
		}
	}
	return TextCell(raw)
}
