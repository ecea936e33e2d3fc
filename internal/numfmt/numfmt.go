// Package numfmt renders numbers as report display strings.
//
// Integer formats round half away from zero, so 1234.5 renders as "$1,235".
// Rounding stays in float64, so values beyond the int64 range keep their
// magnitude. A result that rounds to zero never carries a minus sign.
// One-decimal formats use the shortest correctly rounded decimal of the
// binary value.
package numfmt

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// round rounds half away from zero and folds -0 into 0.
func round(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

// Grouped formats v rounded to an integer with thousands separators: 1234.5 -> "1,235".
func Grouped(v float64) string {
	return printer.Sprintf("%.0f", round(v))
}

// Currency formats v as whole dollars with separators: 52000 -> "$52,000".
// The sign follows the dollar sign: -1500 -> "$-1,500".
func Currency(v float64) string {
	return "$" + Grouped(v)
}

// PercentInt formats a ratio as a whole percentage: 0.4 -> "40%".
func PercentInt(v float64) string {
	return strconv.FormatFloat(round(v*100), 'f', 0, 64) + "%"
}

// Percent formats a ratio with one decimal place: 0.1234 -> "12.3%".
func Percent(v float64) string {
	return Decimal(v*100) + "%"
}

// Decimal formats v with one decimal place and no separators.
func Decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}
