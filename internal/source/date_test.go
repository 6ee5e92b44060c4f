package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-07-01", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-07-01 00:00:00", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"01/07/2024", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"1/7/2024", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"13/02/2023", time.Date(2023, 2, 13, 0, 0, 0, 0, time.UTC), true},
		{"02/13/2023", time.Date(2023, 2, 13, 0, 0, 0, 0, time.UTC), true},
		{"45474", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"belum", time.Time{}, false},
		{"12", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestAmbiguousDate(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"01/07/2024", true},
		{"1-7-2024", true},
		{"07/07/2024", false},
		{"13/02/2023", false},
		{"02/13/2023", false},
		{"2024-07-01", false},
		{"45474", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, AmbiguousDate(tt.raw))
		})
	}
}
