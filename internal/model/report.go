package model

import "github.com/shopspring/decimal"

// FilterScope selects a subset of records. Empty fields do not filter.
type FilterScope struct {
	Unit           string
	Classification string
	Status         string
}

// IsZero reports whether the scope selects every record.
func (f FilterScope) IsZero() bool {
	return f.Unit == "" && f.Classification == "" && f.Status == ""
}

// LabelCount is one slice of the classification distribution.
type LabelCount struct {
	Label        Label
	Count        int
	SharePercent float64
}

// MonthTotal is the summed payment of one resolved column.
type MonthTotal struct {
	Column PaymentColumn
	Total  decimal.Decimal
}

// RankedTaxpayer is one row of the top-N list.
type RankedTaxpayer struct {
	Rank           int
	Name           string
	Unit           string
	TotalPaid      decimal.Decimal
	TotalFormatted string
	Label          Label
}

// SummaryStats holds the top-level aggregate across the filtered records.
type SummaryStats struct {
	Taxpayers      int
	PaymentColumns int
	TotalPaid      decimal.Decimal
	ActiveMonths   int
	PaidMonths     int

	// AvgCompliance is the mean of the defined per-record percentages,
	// nil when no record has a defined percentage.
	AvgCompliance *float64
	// OverallCompliance is PaidMonths / ActiveMonths * 100 over the whole set.
	OverallCompliance *float64
}

// DataQuality counts per-record problems that were recovered with defaults.
type DataQuality struct {
	UnparsedDates   int // TMT present but not a date, active months defaulted to 12
	MissingDates    int // TMT empty, active months defaulted to 12
	InvalidAmounts  int // non-numeric payment cells treated as zero
	NegativeAmounts int // negative payment cells treated as zero
}

// Report is the output of one report run over a dataset and filter scope.
type Report struct {
	Category    TaxCategory
	Year        int
	Scope       FilterScope
	Columns     []PaymentColumn
	Assessments []Assessment

	Distribution []LabelCount
	Trend        []MonthTotal
	Top          []RankedTaxpayer
	Summary      SummaryStats
	Quality      DataQuality
}
