// Package format renders report values for display.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Number formats v with en-US thousands separators and at most three
// fraction digits, e.g. 1234567 -> "1,234,567".
func Number(v float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Cell formats a table cell value; zero renders as "0".
func Cell(v float64) string {
	if v == 0 {
		return "0"
	}
	return Number(v)
}
