package pipeline

import "github.com/theirongolddev/kepatuhan/internal/model"

// partialDeficitLimit is the largest deficit still labelled partially compliant.
const partialDeficitLimit = 3

// Classify labels a taxpayer by its deficit, active minus paid months.
// A negative deficit is compliant. The percentage is nil when activeMonths is 0.
func Classify(activeMonths, paidMonths int) model.Classification {
	deficit := activeMonths - paidMonths

	var c model.Classification
	switch {
	case deficit <= 0:
		c.Label = model.Compliant
	case deficit <= partialDeficitLimit:
		c.Label = model.PartiallyCompliant
	default:
		c.Label = model.NonCompliant
	}

	if activeMonths > 0 {
		pct := float64(paidMonths) / float64(activeMonths) * 100
		c.Percentage = &pct
	}
	return c
}

// assess computes the full compliance result for one record along with the
// payment tallies it was derived from.
func assess(rec model.TaxpayerRecord, cols []model.PaymentColumn, taxYear int) (model.ComplianceResult, model.Payments) {
	active := ActiveMonths(rec.RegisteredAt, taxYear)
	pay := AggregatePayments(rec, cols)
	cls := Classify(active, pay.PaidMonths)

	return model.ComplianceResult{
		ActiveMonths: active,
		PaidMonths:   pay.PaidMonths,
		TotalPaid:    pay.TotalPaid,
		Average:      pay.Average,
		Label:        cls.Label,
		Percentage:   cls.Percentage,
	}, pay
}

// AssessAll computes results for every record, in record order, and tallies
// the per-row data problems that were recovered with defaults.
func AssessAll(records []model.TaxpayerRecord, cols []model.PaymentColumn, taxYear int) ([]model.Assessment, model.DataQuality) {
	out := make([]model.Assessment, 0, len(records))
	var q model.DataQuality

	for _, rec := range records {
		if !rec.HasRegistration() {
			if rec.RegisteredRaw == "" {
				q.MissingDates++
			} else {
				q.UnparsedDates++
			}
		}

		res, pay := assess(rec, cols, taxYear)
		q.InvalidAmounts += pay.InvalidCells
		q.NegativeAmounts += pay.NegativeCells

		out = append(out, model.Assessment{Record: rec, Result: res})
	}
	return out, q
}
