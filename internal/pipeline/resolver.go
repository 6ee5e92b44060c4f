// Package pipeline orchestrates dataset loading, caching, compliance
// computation and report aggregation.
package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// Header layouts that denote a calendar month. All are anchored: a label that
// only happens to contain the year digits ("NOP 2024001") never matches.
var (
	reYearMonth = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})(?:[-/](\d{1,2}))?(?:[ T]\d{1,2}:\d{2}(?::\d{2})?)?$`)
	reMonthYear = regexp.MustCompile(`^(\d{1,2})[-/](\d{4})$`)
	reDayMonthY = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	reNameYear  = regexp.MustCompile(`^([A-Z]+)[\s\-/.]*(\d{4})$`)
	reYearName  = regexp.MustCompile(`^(\d{4})[\s\-/.]*([A-Z]+)$`)
)

// monthNames maps Indonesian and English month names and abbreviations.
// NOP is left out on purpose: it is the tax object number column.
var monthNames = map[string]time.Month{
	"JANUARI": time.January, "JANUARY": time.January, "JAN": time.January,
	"FEBRUARI": time.February, "FEBRUARY": time.February, "FEB": time.February, "PEB": time.February,
	"MARET": time.March, "MARCH": time.March, "MAR": time.March,
	"APRIL": time.April, "APR": time.April,
	"MEI": time.May, "MAY": time.May,
	"JUNI": time.June, "JUNE": time.June, "JUN": time.June,
	"JULI": time.July, "JULY": time.July, "JUL": time.July,
	"AGUSTUS": time.August, "AUGUST": time.August, "AUG": time.August, "AGU": time.August, "AGT": time.August, "AGS": time.August,
	"SEPTEMBER": time.September, "SEPT": time.September, "SEP": time.September,
	"OKTOBER": time.October, "OCTOBER": time.October, "OKT": time.October, "OCT": time.October,
	"NOVEMBER": time.November, "NOV": time.November,
	"DESEMBER": time.December, "DECEMBER": time.December, "DES": time.December, "DEC": time.December,
}

// ParseMonthLabel reports the calendar month a column label denotes.
func ParseMonthLabel(label string) (year int, month time.Month, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return 0, 0, false
	}

	if m := reYearMonth.FindStringSubmatch(s); m != nil {
		if m[3] != "" && !validDay(m[3]) {
			return 0, 0, false
		}
		return numericMonth(m[1], m[2])
	}
	if m := reMonthYear.FindStringSubmatch(s); m != nil {
		return numericMonth(m[2], m[1])
	}
	if m := reDayMonthY.FindStringSubmatch(s); m != nil {
		if !validDay(m[1]) {
			return 0, 0, false
		}
		return numericMonth(m[3], m[2])
	}
	if m := reNameYear.FindStringSubmatch(s); m != nil {
		return namedMonth(m[2], m[1])
	}
	if m := reYearName.FindStringSubmatch(s); m != nil {
		return namedMonth(m[1], m[2])
	}
	return 0, 0, false
}

func numericMonth(yearStr, monthStr string) (int, time.Month, bool) {
	y, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(monthStr)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, time.Month(m), true
}

func namedMonth(yearStr, name string) (int, time.Month, bool) {
	m, ok := monthNames[name]
	if !ok {
		return 0, 0, false
	}
	y, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, false
	}
	return y, m, true
}

func validDay(s string) bool {
	d, err := strconv.Atoi(s)
	return err == nil && d >= 1 && d <= 31
}

// ResolvePaymentColumns returns the columns whose label denotes a month of
// taxYear, in source column order. When a month appears more than once the
// first column wins. An empty result is valid: the dataset simply has no
// payments for that year.
func ResolvePaymentColumns(labels []string, taxYear int) []model.PaymentColumn {
	var cols []model.PaymentColumn
	var seen [13]bool

	for _, label := range labels {
		y, m, ok := ParseMonthLabel(label)
		if !ok || y != taxYear || seen[m] {
			continue
		}
		seen[m] = true
		cols = append(cols, model.PaymentColumn{Label: label, Year: y, Month: m})
	}
	return cols
}
