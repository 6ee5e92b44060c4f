// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// Placeholder is shown for undefined values (no paid months, no active months).
const Placeholder = "-"

// FormatRupiah formats an amount as "Rp 1,234,567.89".
func FormatRupiah(d decimal.Decimal) string {
	return model.FormatRupiah(d)
}

// FormatRupiahShort formats an amount with a magnitude suffix for narrow
// columns. e.g., 1234567 -> "Rp 1.2M", 2500000000 -> "Rp 2.5B"
func FormatRupiahShort(d decimal.Decimal) string {
	v := d.InexactFloat64()
	abs := v
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000_000:
		return fmt.Sprintf("Rp %.1fT", v/1_000_000_000_000)
	case abs >= 1_000_000_000:
		return fmt.Sprintf("Rp %.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("Rp %.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("Rp %.1fK", v/1_000)
	default:
		return "Rp " + d.Round(0).String()
	}
}

// FormatAverage formats an optional per-month average. An undefined average
// renders as Placeholder, never as zero.
func FormatAverage(avg decimal.NullDecimal) string {
	if !avg.Valid {
		return Placeholder
	}
	return FormatRupiah(avg.Decimal)
}

// FormatPercent formats an optional compliance percentage with two decimals.
func FormatPercent(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", *p)
}

// FormatShare formats an already-scaled percentage with one decimal.
func FormatShare(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return model.FormatCount(n)
}

// FormatScope describes the active filters, or "semua" when there are none.
func FormatScope(s model.FilterScope) string {
	if s.IsZero() {
		return "semua"
	}
	var parts []string
	if s.Unit != "" {
		parts = append(parts, "UPPPD="+s.Unit)
	}
	if s.Classification != "" {
		parts = append(parts, "KLASIFIKASI="+s.Classification)
	}
	if s.Status != "" {
		parts = append(parts, "STATUS="+s.Status)
	}
	return strings.Join(parts, ", ")
}
