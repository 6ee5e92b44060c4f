package model

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

// FormatRupiah renders an amount as "Rp 1,234,567.89".
func FormatRupiah(d decimal.Decimal) string {
	return groupPrinter.Sprintf("Rp %.2f", d.Round(2).InexactFloat64())
}

// FormatCount renders an integer with thousands separators ("1,234,567").
func FormatCount(n int64) string {
	return groupPrinter.Sprintf("%d", n)
}
