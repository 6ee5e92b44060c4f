package pipeline

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// DefaultTopN is the length of the top payers list.
const DefaultTopN = 5

// Distribution counts records per label. Every label is present, in
// model.Labels order, even when its count is zero.
func Distribution(assessments []model.Assessment) []model.LabelCount {
	counts := make([]model.LabelCount, len(model.Labels))
	for i, l := range model.Labels {
		counts[i].Label = l
	}

	for _, a := range assessments {
		counts[labelIndex(a.Result.Label)].Count++
	}

	if n := len(assessments); n > 0 {
		for i := range counts {
			counts[i].SharePercent = float64(counts[i].Count) / float64(n) * 100
		}
	}
	return counts
}

func labelIndex(l model.Label) int {
	for i, candidate := range model.Labels {
		if candidate == l {
			return i
		}
	}
	return len(model.Labels) - 1
}

// MonthlyTrend yields, for each resolved column in order, the sum of that
// column across the assessments. The sequence is computed on every range and
// can be iterated any number of times.
func MonthlyTrend(assessments []model.Assessment, cols []model.PaymentColumn) iter.Seq2[model.PaymentColumn, decimal.Decimal] {
	return func(yield func(model.PaymentColumn, decimal.Decimal) bool) {
		for _, c := range cols {
			total := decimal.Zero
			for _, a := range assessments {
				amount, ok := ParseAmount(a.Record.Cells[c.Label])
				if ok && amount.IsPositive() {
					total = total.Add(amount)
				}
			}
			if !yield(c, total) {
				return
			}
		}
	}
}

// CollectTrend materializes a trend sequence.
func CollectTrend(seq iter.Seq2[model.PaymentColumn, decimal.Decimal]) []model.MonthTotal {
	var out []model.MonthTotal
	for c, total := range seq {
		out = append(out, model.MonthTotal{Column: c, Total: total})
	}
	return out
}

// TopN ranks assessments by total paid, highest first. Ties keep their
// original order. At most n entries are returned.
func TopN(assessments []model.Assessment, n int) []model.RankedTaxpayer {
	if n <= 0 || len(assessments) == 0 {
		return nil
	}

	ranked := slices.Clone(assessments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.TotalPaid.GreaterThan(ranked[j].Result.TotalPaid)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]model.RankedTaxpayer, len(ranked))
	for i, a := range ranked {
		out[i] = model.RankedTaxpayer{
			Rank:           i + 1,
			Name:           a.Record.Name,
			Unit:           a.Record.Unit,
			TotalPaid:      a.Result.TotalPaid,
			TotalFormatted: model.FormatRupiah(a.Result.TotalPaid),
			Label:          a.Result.Label,
		}
	}
	return out
}

// Summarize computes headline totals over the assessments.
func Summarize(assessments []model.Assessment, cols []model.PaymentColumn) model.SummaryStats {
	stats := model.SummaryStats{
		Taxpayers:      len(assessments),
		PaymentColumns: len(cols),
		TotalPaid:      decimal.Zero,
	}

	var pctSum float64
	var pctCount int
	for _, a := range assessments {
		stats.TotalPaid = stats.TotalPaid.Add(a.Result.TotalPaid)
		stats.ActiveMonths += a.Result.ActiveMonths
		stats.PaidMonths += a.Result.PaidMonths
		if a.Result.Percentage != nil {
			pctSum += *a.Result.Percentage
			pctCount++
		}
	}

	if pctCount > 0 {
		avg := pctSum / float64(pctCount)
		stats.AvgCompliance = &avg
	}
	if stats.ActiveMonths > 0 {
		overall := float64(stats.PaidMonths) / float64(stats.ActiveMonths) * 100
		stats.OverallCompliance = &overall
	}
	return stats
}

// Filter returns the assessments matching every non-empty field of scope.
// Matching is case-insensitive on trimmed values. The input is not modified.
func Filter(assessments []model.Assessment, scope model.FilterScope) []model.Assessment {
	out := make([]model.Assessment, 0, len(assessments))
	for _, a := range assessments {
		if matches(a.Record, scope) {
			out = append(out, a)
		}
	}
	return out
}

// FilterByLabel returns assessments with the given compliance label.
func FilterByLabel(assessments []model.Assessment, label model.Label) []model.Assessment {
	var out []model.Assessment
	for _, a := range assessments {
		if a.Result.Label == label {
			out = append(out, a)
		}
	}
	return out
}

func matches(r model.TaxpayerRecord, scope model.FilterScope) bool {
	return equalFoldTrim(r.Unit, scope.Unit) &&
		equalFoldTrim(r.Classification, scope.Classification) &&
		equalFoldTrim(r.Status, scope.Status)
}

func equalFoldTrim(value, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(value), want)
}

// FilterChoices lists the selectable values of each filter dimension.
type FilterChoices struct {
	Units           []string `json:"units"`
	Classifications []string `json:"classifications,omitempty"`
	Statuses        []string `json:"statuses"`
}

// FilterOptions returns the distinct non-empty values of each dimension.
// Choices narrow progressively: classifications are drawn from records in the
// selected unit, statuses from records matching both unit and classification.
func FilterOptions(records []model.TaxpayerRecord, category model.TaxCategory, scope model.FilterScope) FilterChoices {
	var fc FilterChoices
	fc.Units = distinct(records, func(r model.TaxpayerRecord) string { return r.Unit })

	inUnit := filterRecords(records, model.FilterScope{Unit: scope.Unit})
	if category.HasClassification() {
		fc.Classifications = distinct(inUnit, func(r model.TaxpayerRecord) string { return r.Classification })
	}

	inClass := filterRecords(inUnit, model.FilterScope{Classification: scope.Classification})
	fc.Statuses = distinct(inClass, func(r model.TaxpayerRecord) string { return r.Status })
	return fc
}

func filterRecords(records []model.TaxpayerRecord, scope model.FilterScope) []model.TaxpayerRecord {
	var out []model.TaxpayerRecord
	for _, r := range records {
		if matches(r, scope) {
			out = append(out, r)
		}
	}
	return out
}

// distinct returns the non-empty values of field, folded the way Filter
// matches them. The first spelling seen is kept.
func distinct(records []model.TaxpayerRecord, field func(model.TaxpayerRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := strings.TrimSpace(field(r))
		if v == "" {
			continue
		}
		folded := strings.ToUpper(v)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
