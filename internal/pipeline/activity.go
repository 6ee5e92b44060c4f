package pipeline

import "time"

// FullYear is the active-month count assumed when the registration date is
// unknown.
const FullYear = 12

// ActiveMonths counts the calendar months of taxYear from the registration
// month (or January, whichever is later) through December. A zero
// registeredAt means the date is absent or unparseable and yields FullYear.
// Only the year and month of registeredAt matter.
func ActiveMonths(registeredAt time.Time, taxYear int) int {
	if registeredAt.IsZero() {
		return FullYear
	}

	start := monthIndex(registeredAt.Year(), registeredAt.Month())
	if yearStart := monthIndex(taxYear, time.January); start < yearStart {
		start = yearStart
	}
	end := monthIndex(taxYear, time.December)

	return max(0, end-start+1)
}

func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}
