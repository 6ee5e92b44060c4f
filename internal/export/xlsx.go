package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// Sheet names of an XLSX export.
const (
	SheetData    = "Data"
	SheetSummary = "Ringkasan"
)

// WriteXLSX writes a workbook with the decorated table on SheetData and the
// distribution, monthly trend and top payers on SheetSummary.
func WriteXLSX(path string, sourceColumns []string, rep *model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return err
	}
	if err := writeDataSheet(f, sourceColumns, rep.Assessments); err != nil {
		return fmt.Errorf("writing %s sheet: %w", SheetData, err)
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	if err := writeSummarySheet(f, rep); err != nil {
		return fmt.Errorf("writing %s sheet: %w", SheetSummary, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, sourceColumns []string, assessments []model.Assessment) error {
	sw, err := f.NewStreamWriter(SheetData)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headers := Headers(sourceColumns)
	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return err
	}

	for i, a := range assessments {
		row := Row(sourceColumns, a)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = xlsxCell(v, j < len(sourceColumns))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// xlsxCell keeps numeric source cells numeric so the sheet stays summable.
func xlsxCell(v Value, fromSource bool) any {
	s, ok := v.(string)
	if !ok || !fromSource || s == "" {
		return v
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

func writeSummarySheet(f *excelize.File, rep *model.Report) error {
	rows := [][]any{
		{"Kategori", string(rep.Category)},
		{"Tahun", rep.Year},
		{"Wajib pajak", rep.Summary.Taxpayers},
		{"Total pembayaran", rep.Summary.TotalPaid.Round(2).InexactFloat64()},
		{},
		{"Kepatuhan", "Jumlah", "Persentase"},
	}
	for _, d := range rep.Distribution {
		rows = append(rows, []any{d.Label.Display(), d.Count, roundTo(d.SharePercent, 2)})
	}

	rows = append(rows, []any{}, []any{"Bulan", "Total"})
	for _, m := range rep.Trend {
		rows = append(rows, []any{m.Column.ShortName(), m.Total.Round(2).InexactFloat64()})
	}

	rows = append(rows, []any{}, []any{"Peringkat", "NAMA OP", "UPPPD", "Total Pembayaran", "Kepatuhan"})
	for _, r := range rep.Top {
		rows = append(rows, []any{r.Rank, r.Name, r.Unit, r.TotalFormatted, r.Label.Display()})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
