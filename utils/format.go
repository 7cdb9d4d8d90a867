package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.EuropeanSpanish)

// FormatAmount renders a monetary amount with thousands separators for the
// exported workbook, e.g. 1234567.89 -> "1.234.567,89".
func FormatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatPct renders a fraction as a percentage string, e.g. 0.345 -> "34,5%".
func FormatPct(v float64) string {
	return printer.Sprintf("%.1f%%", v*100)
}
