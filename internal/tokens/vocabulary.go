package tokens

import "fmt"

// Format is the display rule applied to a token's source cell.
type Format int

const (
	Raw Format = iota
	PercentInt
	Percent
	Currency
	Thousands
	Decimal
)

var formatNames = map[Format]string{
	Raw:        "raw",
	PercentInt: "percent-int",
	Percent:    "percent-1dp",
	Currency:   "currency-int",
	Thousands:  "thousands-int",
	Decimal:    "decimal-1dp",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Source locates a token's value: a sheet and a 0-based (row, col) below
// the header row.
type Source struct {
	Token  string `json:"token"`
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Format Format `json:"format"`
}

// Vocabulary returns the fixed token sources in table construction order.
func Vocabulary() []Source {
	v := []Source{
		{"VL10", "LeasingInfographic", 0, 0, PercentInt},
		{"VOP08", "LeasingInfographic", 0, 3, Thousands},
		{"LD08", "LeasingInfographic", 3, 3, PercentInt},
		{"MT08", "LeasingInfographic", 6, 3, PercentInt},
		{"VF08", "LeasingInfographic", 11, 3, Raw},
		{"HH08", "LeasingInfographic", 0, 7, PercentInt},
		{"HHI08", "LeasingInfographic", 3, 7, Currency},
		{"HHIMSA08", "LeasingInfographic", 3, 8, Currency},
		{"CD08", "LeasingInfographic", 6, 7, PercentInt},
		{"VC08", "LeasingInfographic", 9, 7, PercentInt},
		{"DT08", "LeasingInfographic", 11, 7, Raw},
	}
	for i := 0; i < 5; i++ {
		v = append(v, Source{fmt.Sprintf("ZIP%d", i+1), "LeasingInfographic", 3 + i, 0, Raw})
	}
	v = append(v,
		Source{"ZIPANALYSIS15", "ZipCodes", 0, 14, Raw},
		Source{"DDANALYSIS12", "DrawDemo", 0, 18, Raw},
		Source{"CMPANALYSIS10", "CompetitiveMarketPosition", 0, 9, Raw},
		Source{"MILANALYSIS11", "MileageDemo", 0, 3, Raw},
	)

	// MileageDemo grid: letters A-D are columns 2-5, number n reads row n-119.
	for n := 121; n <= 145; n++ {
		f := mileageFormat(n)
		for i, letter := range "ABCD" {
			v = append(v, Source{fmt.Sprintf("M%c%d", letter, n), "MileageDemo", n - 119, 2 + i, f})
		}
	}
	return v
}

func mileageFormat(n int) Format {
	switch {
	case n <= 122:
		return Thousands
	case n == 129:
		return Decimal
	case n == 135:
		return Currency
	default:
		return Percent
	}
}

// Sheets returns the distinct sheets referenced by sources, in first-use order.
func Sheets(sources []Source) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sources {
		if !seen[s.Sheet] {
			seen[s.Sheet] = true
			names = append(names, s.Sheet)
		}
	}
	return names
}
