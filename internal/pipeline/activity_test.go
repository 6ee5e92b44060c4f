package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveMonths(t *testing.T) {
	tests := []struct {
		name string
		tmt  time.Time
		want int
	}{
		{"absent date", time.Time{}, 12},
		{"before tax year", date(2019, time.May, 10), 12},
		{"on tax year start", date(2024, time.January, 1), 12},
		{"mid january", date(2024, time.January, 20), 12},
		{"july", date(2024, time.July, 1), 6},
		{"late july", date(2024, time.July, 31), 6},
		{"december", date(2024, time.December, 31), 1},
		{"after tax year", date(2025, time.January, 1), 0},
		{"far future", date(2030, time.June, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveMonths(tt.tmt, 2024))
		})
	}
}

func TestActiveMonthsRange(t *testing.T) {
	for y := 2022; y <= 2026; y++ {
		for m := time.January; m <= time.December; m++ {
			n := ActiveMonths(date(y, m, 15), 2024)
			assert.GreaterOrEqual(t, n, 0)
			assert.LessOrEqual(t, n, 12)
		}
	}
}
