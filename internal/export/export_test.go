package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

var sourceColumns = []string{"NAMA OP", "UPPPD", "JAN 2024"}

func sampleReport() (*model.Dataset, *model.Report) {
	pct := 50.0
	assessments := []model.Assessment{
		{
			Record: model.TaxpayerRecord{Name: "Karaoke Ceria", Cells: map[string]string{
				"NAMA OP": "Karaoke Ceria", "UPPPD": "BARAT", "JAN 2024": "1500000",
			}},
			Result: model.ComplianceResult{
				ActiveMonths: 2, PaidMonths: 1,
				TotalPaid:  decimal.NewFromInt(1500000),
				Average:    decimal.NewNullDecimal(decimal.NewFromInt(1500000)),
				Label:      model.PartiallyCompliant,
				Percentage: &pct,
			},
		},
		{
			Record: model.TaxpayerRecord{Name: "Bioskop Baru", Cells: map[string]string{
				"NAMA OP": "Bioskop Baru", "UPPPD": "TIMUR",
			}},
			Result: model.ComplianceResult{TotalPaid: decimal.Zero, Label: model.Compliant},
		},
	}

	ds := &model.Dataset{Category: model.CategoryHiburan, Columns: sourceColumns}
	rep := &model.Report{
		Category:    model.CategoryHiburan,
		Year:        2024,
		Assessments: assessments,
		Distribution: []model.LabelCount{
			{Label: model.Compliant, Count: 1, SharePercent: 50},
			{Label: model.PartiallyCompliant, Count: 1, SharePercent: 50},
			{Label: model.NonCompliant},
		},
		Trend: []model.MonthTotal{{Column: model.PaymentColumn{Label: "JAN 2024", Year: 2024, Month: 1}, Total: decimal.NewFromInt(1500000)}},
		Top: []model.RankedTaxpayer{
			{Rank: 1, Name: "Karaoke Ceria", Unit: "BARAT", TotalFormatted: "Rp 1,500,000.00", Label: model.PartiallyCompliant},
		},
		Summary: model.SummaryStats{Taxpayers: 2, TotalPaid: decimal.NewFromInt(1500000)},
	}
	return ds, rep
}

func TestWriteCSV(t *testing.T) {
	ds, rep := sampleReport()
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, ds.Columns, rep.Assessments))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"NAMA OP", "UPPPD", "JAN 2024",
		"Bulan Aktif", "Bulan Pembayaran", "Total Pembayaran", "Rata-rata", "Kepatuhan", "Kepatuhan (%)",
	}, records[0])
	assert.Equal(t, []string{"Karaoke Ceria", "BARAT", "1500000", "2", "1", "1500000.00", "1500000.00", "KURANG PATUH", "50.00"}, records[1])

	// Undefined average and percentage stay empty, distinct from zero.
	assert.Equal(t, []string{"Bioskop Baru", "TIMUR", "", "0", "0", "0.00", "", "PATUH", ""}, records[2])
}

func TestWriteXLSX(t *testing.T) {
	ds, rep := sampleReport()
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, Write(path, ds, rep))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetData, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetData)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kepatuhan (%)", rows[0][8])
	assert.Equal(t, "KURANG PATUH", rows[1][7])

	label, err := f.GetCellValue(SheetSummary, "A7")
	require.NoError(t, err)
	assert.Equal(t, "PATUH", label)

	top, err := f.GetCellValue(SheetSummary, "D15")
	require.NoError(t, err)
	assert.Equal(t, "Rp 1,500,000.00", top)
}

func TestWriteUnknownFormat(t *testing.T) {
	ds, rep := sampleReport()
	err := Write(filepath.Join(t.TempDir(), "out.json"), ds, rep)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
