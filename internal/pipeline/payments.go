package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// ParseAmount parses a payment cell. Empty cells and placeholders ("-",
// "NaN") are a valid zero. ok is false when the cell holds text that is not a
// number; the amount is then zero. Accepts an "Rp" or "Rp." prefix and both
// "1,234,567.89" and "1.234.567,89" groupings. A single separator followed by
// exactly three digits groups thousands, so "150.000" and "250,000" are whole.
func ParseAmount(raw string) (amount decimal.Decimal, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if rest, found := strings.CutPrefix(s, "RP."); found {
		s = rest
	} else {
		s = strings.TrimPrefix(s, "RP")
	}
	s = strings.ReplaceAll(s, " ", "")

	switch s {
	case "", "-", "NAN", "NULL", "NONE":
		return decimal.Zero, true
	}

	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		if thousandsGroup(s, ",") {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	case dots == 1 && thousandsGroup(s, "."):
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// thousandsGroup reports whether the single sep in s groups thousands: it is
// followed by exactly three digits and preceded by at least one.
func thousandsGroup(s, sep string) bool {
	i := strings.Index(s, sep)
	whole := strings.TrimPrefix(s[:i], "-")
	return len(s)-i-1 == 3 && whole != ""
}

// AggregatePayments sums the resolved payment columns of one record.
// Non-numeric and negative cells count as zero and are tallied in the result.
func AggregatePayments(rec model.TaxpayerRecord, cols []model.PaymentColumn) model.Payments {
	p := model.Payments{TotalPaid: decimal.Zero}

	for _, c := range cols {
		amount, ok := ParseAmount(rec.Cells[c.Label])
		if !ok {
			p.InvalidCells++
			continue
		}
		if amount.IsNegative() {
			p.NegativeCells++
			continue
		}
		if amount.IsPositive() {
			p.PaidMonths++
			p.TotalPaid = p.TotalPaid.Add(amount)
		}
	}

	if p.PaidMonths > 0 {
		p.Average = decimal.NewNullDecimal(p.TotalPaid.Div(decimal.NewFromInt(int64(p.PaidMonths))))
	}
	return p
}
