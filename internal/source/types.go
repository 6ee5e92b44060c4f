package source

import (
	"errors"
	"fmt"
)

// Format identifies how a workbook file is read.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Table is one sheet read into text cells. Column labels are normalized
// (trimmed, upper-cased); every row has exactly len(Columns) cells.
type Table struct {
	Source  string
	Sheet   string
	Columns []string
	Rows    [][]string
}

// DiscoveredFile represents a workbook found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // file name without extension
	Format Format
}

// ParseResult holds the output of reading a single workbook sheet.
type ParseResult struct {
	File  DiscoveredFile
	Table *Table
	Err   error
}

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrEmptySheet is returned when a sheet has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
)

// MissingColumnError reports a required column absent from a sheet. It is
// returned before any record is built.
type MissingColumnError struct {
	Column string
	Sheet  string
}

func (e *MissingColumnError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("required column %q not found", e.Column)
	}
	return fmt.Sprintf("required column %q not found in sheet %q", e.Column, e.Sheet)
}
