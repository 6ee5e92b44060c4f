package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseFile reads one sheet of a discovered workbook. An empty sheet name
// selects the first sheet. CSV files have a single unnamed sheet.
func ParseFile(df DiscoveredFile, sheet string) ParseResult {
	var (
		t   *Table
		err error
	)
	switch df.Format {
	case FormatXLSX:
		t, err = readXLSX(df.Path, sheet)
	case FormatCSV:
		t, err = readCSV(df.Path)
	default:
		err = fmt.Errorf("%s: %w", df.Path, ErrUnsupportedFormat)
	}
	return ParseResult{File: df, Table: t, Err: err}
}

// ListSheets returns the sheet names of a workbook in workbook order.
func ListSheets(path string) ([]string, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	if format == FormatCSV {
		return []string{""}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return f.GetSheetList(), nil
}

func readXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrSheetNotFound
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !containsFold(sheets, sheet) {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
	} else {
		sheet = matchFold(sheets, sheet)
	}

	// Raw values keep amounts free of display grouping and dates as serials.
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	headerIdx := firstNonEmptyRow(raw)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%q: %w", sheet, ErrEmptySheet)
	}

	var fmtHeader []string
	if headerIdx < len(formatted) {
		fmtHeader = formatted[headerIdx]
	}
	columns := make([]string, len(raw[headerIdx]))
	for i, cell := range raw[headerIdx] {
		display := cell
		if i < len(fmtHeader) {
			display = fmtHeader[i]
		}
		columns[i] = headerLabel(cell, display)
	}

	return buildTable(path, sheet, columns, raw[headerIdx+1:]), nil
}

// headerLabel normalizes a header cell. A date-formatted numeric header
// (stored as a serial, displayed as a date) becomes "YYYY-MM-DD".
func headerLabel(raw, display string) string {
	raw = strings.TrimSpace(raw)
	if raw != strings.TrimSpace(display) {
		if t, ok := serialToTime(raw); ok {
			return t.Format("2006-01-02")
		}
	}
	return NormalizeLabel(raw)
}

func readCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	headerIdx := firstNonEmptyRow(records)
	if headerIdx < 0 {
		return nil, ErrEmptySheet
	}

	columns := make([]string, len(records[headerIdx]))
	for i, cell := range records[headerIdx] {
		columns[i] = NormalizeLabel(cell)
	}
	return buildTable(path, "", columns, records[headerIdx+1:]), nil
}

// sniffDelimiter picks ';' over ',' when the header line has more of them,
// which is what spreadsheet exports in Indonesian locales produce.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func buildTable(source, sheet string, columns []string, rows [][]string) *Table {
	t := &Table{Source: source, Sheet: sheet, Columns: columns}
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		cells := make([]string, len(columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = strings.TrimSpace(row[i])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// NormalizeLabel trims and upper-cases a column label.
func NormalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func firstNonEmptyRow(rows [][]string) int {
	for i, row := range rows {
		if !isEmptyRow(row) {
			return i
		}
	}
	return -1
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func containsFold(list []string, s string) bool {
	return matchFold(list, s) != ""
}

func matchFold(list []string, s string) string {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return v
		}
	}
	return ""
}

// parseFloat is strconv.ParseFloat that rejects empty input.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	return strconv.ParseFloat(s, 64)
}
