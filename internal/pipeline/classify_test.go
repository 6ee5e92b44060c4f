package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		active, paid int
		want         model.Label
	}{
		{12, 12, model.Compliant},
		{6, 8, model.Compliant},
		{0, 0, model.Compliant},
		{12, 11, model.PartiallyCompliant},
		{12, 10, model.PartiallyCompliant},
		{12, 9, model.PartiallyCompliant},
		{12, 8, model.NonCompliant},
		{12, 5, model.NonCompliant},
		{12, 0, model.NonCompliant},
	}

	for _, tt := range tests {
		got := Classify(tt.active, tt.paid)
		assert.Equal(t, tt.want, got.Label, "classify(%d,%d)", tt.active, tt.paid)
	}
}

func TestClassifyPercentage(t *testing.T) {
	assert.Nil(t, Classify(0, 0).Percentage)
	assert.Nil(t, Classify(0, 3).Percentage)

	zero := Classify(12, 0)
	require.NotNil(t, zero.Percentage)
	assert.Equal(t, 0.0, *zero.Percentage)

	half := Classify(12, 6)
	require.NotNil(t, half.Percentage)
	assert.InDelta(t, 50.0, *half.Percentage, 1e-9)
}

func TestAssessJulyRegistration(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	rec := record(date(2024, time.July, 1), paidCells("250000",
		time.July, time.August, time.September, time.October, time.November, time.December))

	res, _ := assess(rec, cols, 2024)

	assert.Equal(t, 6, res.ActiveMonths)
	assert.Equal(t, 6, res.PaidMonths)
	assert.Equal(t, model.Compliant, res.Label)
	require.NotNil(t, res.Percentage)
	assert.InDelta(t, 100.0, *res.Percentage, 1e-9)
}

func TestAssessRegisteredAfterYear(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	res, _ := assess(record(date(2025, time.March, 1), nil), cols, 2024)

	assert.Equal(t, 0, res.ActiveMonths)
	assert.Equal(t, model.Compliant, res.Label)
	assert.Nil(t, res.Percentage)
	assert.False(t, res.Average.Valid)
}

func TestAssessAllQuality(t *testing.T) {
	cols := ResolvePaymentColumns(months2024, 2024)
	recs := []model.TaxpayerRecord{
		record(time.Time{}, paidCells("x", time.January)),
		{RegisteredRaw: "kemarin", Cells: paidCells("-1", time.February)},
		record(date(2024, time.March, 1), paidCells("10", time.March)),
	}

	out, q := AssessAll(recs, cols, 2024)

	require.Len(t, out, 3)
	assert.Equal(t, 1, q.MissingDates)
	assert.Equal(t, 1, q.UnparsedDates)
	assert.Equal(t, 1, q.InvalidAmounts)
	assert.Equal(t, 1, q.NegativeAmounts)
	assert.Equal(t, 12, out[1].Result.ActiveMonths)
	assert.Equal(t, 10, out[2].Result.ActiveMonths)
}
