package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"", "0", true},
		{"  ", "0", true},
		{"-", "0", true},
		{"NaN", "0", true},
		{"1500000", "1500000", true},
		{"1500000.5", "1500000.5", true},
		{"1,500,000", "1500000", true},
		{"1.500.000", "1500000", true},
		{"1.500.000,25", "1500000.25", true},
		{"1,500,000.25", "1500000.25", true},
		{"Rp 2,500,000", "2500000", true},
		{"Rp. 2.500.000", "2500000", true},
		{"12,5", "12.5", true},
		{"250,000", "250000", true},
		{"150.000", "150000", true},
		{"Rp 150.000", "150000", true},
		{"Rp.150.000", "150000", true},
		{"-150.000", "-150000", true},
		{".5", "0.5", true},
		{".500", "0.5", true},
		{"12.50", "12.5", true},
		{"-75000", "-75000", true},
		{"belum bayar", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestAggregatePaymentsIndonesianGrouping(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	cells := paidCells("150.000", time.January)
	cells[months2024[1]] = "Rp 150.000"

	p := AggregatePayments(record(time.Time{}, cells), cols)

	assert.Equal(t, 2, p.PaidMonths)
	assert.True(t, decimal.NewFromInt(300000).Equal(p.TotalPaid), "got %s", p.TotalPaid)
	require.True(t, p.Average.Valid)
	assert.True(t, decimal.NewFromInt(150000).Equal(p.Average.Decimal))
}

func TestAggregatePayments(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	cells := paidCells("1000000", time.January, time.February, time.March)
	cells[months2024[3]] = "0"
	cells[months2024[4]] = "-5000"
	cells[months2024[5]] = "tunggak"

	p := AggregatePayments(record(time.Time{}, cells), cols)

	assert.Equal(t, 3, p.PaidMonths)
	assert.True(t, decimal.NewFromInt(3000000).Equal(p.TotalPaid))
	require.True(t, p.Average.Valid)
	assert.True(t, decimal.NewFromInt(1000000).Equal(p.Average.Decimal))
	assert.Equal(t, 1, p.InvalidCells)
	assert.Equal(t, 1, p.NegativeCells)
}

func TestAggregatePaymentsNothingPaid(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	p := AggregatePayments(record(time.Time{}, map[string]string{}), cols)

	assert.Zero(t, p.PaidMonths)
	assert.True(t, p.TotalPaid.IsZero())
	assert.False(t, p.Average.Valid)
}

func TestPaidMonthsMonotonic(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	cells := map[string]string{}

	prev := AggregatePayments(record(time.Time{}, cells), cols).PaidMonths
	for m := time.January; m <= time.December; m++ {
		cells[months2024[m-1]] = "100"
		got := AggregatePayments(record(time.Time{}, cells), cols).PaidMonths
		assert.Equal(t, prev+1, got, "adding %s", m)
		prev = got
	}
}
