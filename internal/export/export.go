// Package export writes the decorated dataset and report aggregates to
// CSV and XLSX files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// Decorated output column labels, appended after the source columns.
const (
	ColumnActiveMonths = "Bulan Aktif"
	ColumnPaidMonths   = "Bulan Pembayaran"
	ColumnTotalPaid    = "Total Pembayaran"
	ColumnAverage      = "Rata-rata"
	ColumnLabel        = "Kepatuhan"
	ColumnPercentage   = "Kepatuhan (%)"
)

// OutputColumns lists the derived columns in output order.
var OutputColumns = []string{
	ColumnActiveMonths, ColumnPaidMonths, ColumnTotalPaid,
	ColumnAverage, ColumnLabel, ColumnPercentage,
}

// ErrUnknownFormat is returned for output paths that are neither .csv nor .xlsx.
var ErrUnknownFormat = errors.New("unknown export format (want .csv or .xlsx)")

// Headers returns the decorated table header: source columns, then
// OutputColumns. Blank source labels are kept so cell positions line up.
func Headers(sourceColumns []string) []string {
	out := make([]string, 0, len(sourceColumns)+len(OutputColumns))
	out = append(out, sourceColumns...)
	return append(out, OutputColumns...)
}

// Value is one decorated cell. Undefined values (average with no paid
// months, percentage with no active months) are nil.
type Value = any

// Row returns the decorated cells of one assessment. Source cells are
// strings; derived cells are int, float64, string or nil.
func Row(sourceColumns []string, a model.Assessment) []Value {
	row := make([]Value, 0, len(sourceColumns)+len(OutputColumns))
	for _, c := range sourceColumns {
		row = append(row, a.Record.Cells[c])
	}

	r := a.Result
	var avg, pct Value
	if r.Average.Valid {
		avg = r.Average.Decimal.Round(2).InexactFloat64()
	}
	if r.Percentage != nil {
		pct = roundTo(*r.Percentage, 2)
	}

	return append(row,
		r.ActiveMonths,
		r.PaidMonths,
		r.TotalPaid.Round(2).InexactFloat64(),
		avg,
		r.Label.Display(),
		pct,
	)
}

// Write exports the report to path, choosing the format by extension.
func Write(path string, ds *model.Dataset, rep *model.Report) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := WriteCSV(f, ds.Columns, rep.Assessments); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	case ".xlsx":
		return WriteXLSX(path, ds.Columns, rep)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// WriteCSV writes the decorated table. Undefined values are empty cells so
// they never read as zero.
func WriteCSV(w io.Writer, sourceColumns []string, assessments []model.Assessment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(sourceColumns)); err != nil {
		return err
	}

	record := make([]string, 0, len(sourceColumns)+len(OutputColumns))
	for _, a := range assessments {
		record = record[:0]
		for _, v := range Row(sourceColumns, a) {
			record = append(record, csvCell(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvCell(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	default:
		return fmt.Sprint(x)
	}
}

func roundTo(v float64, places int) float64 {
	s := strconv.FormatFloat(v, 'f', places, 64)
	out, _ := strconv.ParseFloat(s, 64)
	return out
}
