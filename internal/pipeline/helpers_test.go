package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// months2024 are header labels for every month of 2024, in the mixed
// formats seen in real workbooks.
var months2024 = []string{
	"2024-01-01", "FEB 2024", "MARET 2024", "04/2024", "2024-05", "JUNI 2024",
	"2024-07-01", "AGUSTUS 2024", "SEP-2024", "OKT 2024", "NOVEMBER 2024", "DES 2024",
}

func record(tmt time.Time, cells map[string]string) model.TaxpayerRecord {
	return model.TaxpayerRecord{
		Name:         "Wajib Pajak",
		Unit:         "UPPPD A",
		Status:       "AKTIF",
		RegisteredAt: tmt,
		Cells:        cells,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// paidCells returns cells with amount in the given month columns of months2024.
func paidCells(amount string, months ...time.Month) map[string]string {
	cells := make(map[string]string)
	for _, m := range months {
		cells[months2024[m-1]] = amount
	}
	return cells
}

func dataset(category model.TaxCategory, records ...model.TaxpayerRecord) *model.Dataset {
	cols := append([]string{"NAMA OP", "UPPPD", "STATUS", "TMT"}, months2024...)
	if category.HasClassification() {
		cols = append(cols, "KLASIFIKASI")
	}
	for i := range records {
		records[i].Index = i
		if records[i].Name == "" {
			records[i].Name = fmt.Sprintf("WP %d", i)
		}
	}
	return &model.Dataset{Category: category, Columns: cols, Records: records}
}
