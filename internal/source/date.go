package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Serial range accepted as a spreadsheet date: 1950-01-01 through 2100-12-31.
const (
	minDateSerial = 18264
	maxDateSerial = 73415
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006", // day first, the local convention
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"01/02/2006", // month first, tried only when day-first fails
	"1/2/2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2006",
	"2006-01",
}

// ParseDate parses a registration date cell. It accepts ISO dates, common
// slash and dash layouts, and spreadsheet date serials. ok is false for empty
// or unparseable input.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := serialToTime(s); ok {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func serialToTime(s string) (time.Time, bool) {
	v, err := parseFloat(s)
	if err != nil || v < minDateSerial || v > maxDateSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(v, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AmbiguousDate reports whether raw is a numeric date whose day and month
// could be swapped, such as "01/07/2024". ParseDate reads these day first.
func AmbiguousDate(raw string) bool {
	s := strings.TrimSpace(raw)
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 || len(parts[2]) != 4 {
		return false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	return day != month && day >= 1 && day <= 12 && month >= 1 && month <= 12
}
