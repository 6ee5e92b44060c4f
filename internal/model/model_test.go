package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, in := range []string{"HIBURAN", " hiburan "} {
		c, err := ParseCategory(in)
		require.NoError(t, err)
		assert.Equal(t, CategoryHiburan, c)
	}
	for _, in := range []string{"MAKAN MINUM", "makan_minum", "Makan-Minum"} {
		c, err := ParseCategory(in)
		require.NoError(t, err)
		assert.Equal(t, CategoryMakanMinum, c)
	}
	_, err := ParseCategory("PARKIR")
	assert.Error(t, err)
}

func TestRequiredColumns(t *testing.T) {
	assert.Equal(t, []string{"NAMA OP", "UPPPD", "STATUS", "TMT", "KLASIFIKASI"}, RequiredColumns(CategoryHiburan))
	assert.Equal(t, []string{"NAMA OP", "UPPPD", "STATUS", "TMT"}, RequiredColumns(CategoryMakanMinum))
}

func TestLabelText(t *testing.T) {
	for _, l := range Labels {
		text, err := l.MarshalText()
		require.NoError(t, err)

		var back Label
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, l, back)
	}

	l, err := ParseLabel("kurang patuh")
	require.NoError(t, err)
	assert.Equal(t, PartiallyCompliant, l)

	_, err = ParseLabel("LUMAYAN")
	assert.Error(t, err)
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 1,234,567.89", FormatRupiah(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "Rp 0.00", FormatRupiah(decimal.Zero))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "-1,234", FormatCount(-1234))
}

func TestPaymentColumnShortName(t *testing.T) {
	assert.Equal(t, "Aug", PaymentColumn{Month: time.August}.ShortName())
}
