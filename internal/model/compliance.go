package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Label is the compliance classification of a taxpayer.
type Label int

const (
	Compliant Label = iota
	PartiallyCompliant
	NonCompliant
)

// Labels lists every label in reporting order.
var Labels = []Label{Compliant, PartiallyCompliant, NonCompliant}

// String returns the label code.
func (l Label) String() string {
	switch l {
	case Compliant:
		return "COMPLIANT"
	case PartiallyCompliant:
		return "PARTIALLY_COMPLIANT"
	case NonCompliant:
		return "NON_COMPLIANT"
	default:
		return "UNKNOWN"
	}
}

// Display returns the label as written in the Kepatuhan output column.
func (l Label) Display() string {
	switch l {
	case Compliant:
		return "PATUH"
	case PartiallyCompliant:
		return "KURANG PATUH"
	case NonCompliant:
		return "TIDAK PATUH"
	default:
		return "?"
	}
}

// MarshalText encodes the label as its code so JSON payloads stay readable.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts a label code or display name.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel matches s, case-insensitively, against the label codes and
// display names.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	for _, l := range Labels {
		if strings.EqualFold(s, l.String()) || strings.EqualFold(s, l.Display()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown compliance label %q", s)
}

// Payments is the per-record result of summing the payment columns.
type Payments struct {
	PaidMonths int
	TotalPaid  decimal.Decimal
	Average    decimal.NullDecimal // invalid when PaidMonths == 0

	InvalidCells  int // non-numeric cells counted as zero
	NegativeCells int // negative cells counted as zero
}

// Classification is the label and percentage for one (active, paid) pair.
type Classification struct {
	Label      Label
	Percentage *float64 // nil when active months is 0
}

// ComplianceResult holds every derived attribute of one record.
type ComplianceResult struct {
	ActiveMonths int
	PaidMonths   int
	TotalPaid    decimal.Decimal
	Average      decimal.NullDecimal
	Label        Label
	Percentage   *float64
}

// Assessment pairs a record with its computed result.
type Assessment struct {
	Record TaxpayerRecord
	Result ComplianceResult
}
