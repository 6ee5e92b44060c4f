package cmd

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/export"
	"github.com/theirongolddev/kepatuhan/internal/model"
)

func resetFlags(t *testing.T) {
	t.Helper()
	flagFile, flagSheet, flagCategory = "", "", ""
	flagYear = 0
	flagUnit, flagClassification, flagStatus = "", "", ""
	appConfig = config.DefaultConfig()
	t.Cleanup(func() {
		flagFile, flagSheet, flagCategory = "", "", ""
		flagYear = 0
		flagUnit, flagClassification, flagStatus = "", "", ""
		appConfig = config.DefaultConfig()
	})
}

func TestResolveSelectionFlagsOverrideConfig(t *testing.T) {
	resetFlags(t)
	appConfig.General.DataFile = "config.xlsx"
	appConfig.General.Category = "HIBURAN"
	appConfig.General.Year = 2023

	flagFile = "flag.xlsx"
	flagCategory = "makan_minum"
	flagYear = 2024
	flagUnit = "UPPPD 1"

	sel, err := resolveSelection()
	require.NoError(t, err)
	assert.Equal(t, "flag.xlsx", sel.Path)
	assert.Equal(t, model.CategoryMakanMinum, sel.Category)
	assert.Equal(t, 2024, sel.Year)
	assert.Equal(t, model.FilterScope{Unit: "UPPPD 1"}, sel.Scope)
}

func TestResolveSelectionFallsBackToConfig(t *testing.T) {
	resetFlags(t)
	appConfig.General.DataFile = "config.xlsx"
	appConfig.General.Sheet = "2024"
	appConfig.General.Year = 2023

	sel, err := resolveSelection()
	require.NoError(t, err)
	assert.Equal(t, "config.xlsx", sel.Path)
	assert.Equal(t, "2024", sel.Sheet)
	assert.Equal(t, model.CategoryHiburan, sel.Category)
	assert.Equal(t, 2023, sel.Year)
}

func TestResolveSelectionErrors(t *testing.T) {
	resetFlags(t)
	_, err := resolveSelection()
	assert.ErrorIs(t, err, errNoWorkbook)

	flagFile = "x.xlsx"
	flagCategory = "PARKIR"
	_, err = resolveSelection()
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, setupLogging("debug", "json"))
	require.NoError(t, setupLogging("warn", "console"))
	assert.Error(t, setupLogging("loud", "console"))
	assert.Error(t, setupLogging("info", "xml"))
}

func TestRecordsTableColumns(t *testing.T) {
	pct := 50.0
	assessments := []model.Assessment{{
		Record: model.TaxpayerRecord{Name: "A", Unit: "U1", Classification: "KARAOKE", Status: "AKTIF"},
		Result: model.ComplianceResult{
			ActiveMonths: 12,
			PaidMonths:   6,
			TotalPaid:    decimal.NewFromInt(600),
			Average:      decimal.NewNullDecimal(decimal.NewFromInt(100)),
			Label:        model.NonCompliant,
			Percentage:   &pct,
		},
	}}

	hib := recordsTable(model.CategoryHiburan, assessments)
	assert.Len(t, hib.Headers, 4+len(export.OutputColumns))
	assert.Equal(t, 4, hib.LeftCols)
	require.Len(t, hib.Rows, 1)
	assert.Equal(t, "KARAOKE", hib.Rows[0][2])
	assert.Equal(t, "50.00%", hib.Rows[0][len(hib.Rows[0])-1])

	mm := recordsTable(model.CategoryMakanMinum, assessments)
	assert.Len(t, mm.Headers, 3+len(export.OutputColumns))
	assert.NotContains(t, mm.Headers, model.ColumnClassification)
	assert.Equal(t, "AKTIF", mm.Rows[0][2])
}

func TestTopTable(t *testing.T) {
	tbl := topTable([]model.RankedTaxpayer{
		{Rank: 1, Name: "A", Unit: "U1", TotalFormatted: "Rp 1,000", Label: model.Compliant},
		{Rank: 2, Name: "B", Unit: "U2", TotalFormatted: "Rp 500", Label: model.PartiallyCompliant},
	})
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"1", "A", "U1", "Rp 1,000"}, tbl.Rows[0][:4])
	assert.Equal(t, "2", tbl.Rows[1][0])
}
