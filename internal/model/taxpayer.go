// Package model defines domain types for taxpayer compliance reports.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TaxCategory is the regional tax a workbook belongs to.
type TaxCategory string

const (
	// CategoryHiburan is the entertainment tax. Only this category carries
	// the KLASIFIKASI sub-classification column.
	CategoryHiburan TaxCategory = "HIBURAN"
	// CategoryMakanMinum is the food and beverage tax.
	CategoryMakanMinum TaxCategory = "MAKAN MINUM"
)

// Categories lists the supported tax categories in display order.
var Categories = []TaxCategory{CategoryHiburan, CategoryMakanMinum}

// ParseCategory normalizes s and matches it against the supported categories.
// Underscores and dashes are accepted in place of the space ("makan_minum").
func ParseCategory(s string) (TaxCategory, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	for _, c := range Categories {
		if string(c) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown tax category %q (want HIBURAN or MAKAN MINUM)", s)
}

// HasClassification reports whether records of this category carry KLASIFIKASI.
func (c TaxCategory) HasClassification() bool {
	return c == CategoryHiburan
}

// Input column labels, after normalization.
const (
	ColumnName           = "NAMA OP"
	ColumnUnit           = "UPPPD"
	ColumnStatus         = "STATUS"
	ColumnRegistered     = "TMT"
	ColumnClassification = "KLASIFIKASI"
)

// RequiredColumns returns the columns a dataset of the given category must have,
// in the order they are checked.
func RequiredColumns(c TaxCategory) []string {
	cols := []string{ColumnName, ColumnUnit, ColumnStatus, ColumnRegistered}
	if c.HasClassification() {
		cols = append(cols, ColumnClassification)
	}
	return cols
}

// TaxpayerRecord is one row of the input table.
type TaxpayerRecord struct {
	Index          int // 0-based position in the source table
	Name           string
	Unit           string
	Classification string
	Status         string

	RegisteredRaw string
	RegisteredAt  time.Time // zero when TMT is absent or unparseable

	// Cells holds every cell of the row keyed by normalized column label.
	Cells map[string]string
}

// HasRegistration reports whether the TMT value parsed to a date.
func (r TaxpayerRecord) HasRegistration() bool {
	return !r.RegisteredAt.IsZero()
}

// Dataset is one loaded sheet: normalized column labels in source order and
// the records built from its rows.
type Dataset struct {
	Source   string
	Sheet    string
	Category TaxCategory
	Columns  []string
	Records  []TaxpayerRecord
}

// PaymentColumn is a column resolved to one calendar month of the tax year.
type PaymentColumn struct {
	Label string
	Year  int
	Month time.Month
}

// ShortName returns the three-letter month name ("Jan").
func (c PaymentColumn) ShortName() string {
	return c.Month.String()[:3]
}
