package source

import (
	"log/slog"
	"strings"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// CheckColumns returns a *MissingColumnError for the first required column of
// the category that the table lacks.
func CheckColumns(t *Table, category model.TaxCategory) error {
	have := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = struct{}{}
	}
	for _, req := range model.RequiredColumns(category) {
		if _, ok := have[req]; !ok {
			return &MissingColumnError{Column: req, Sheet: t.Sheet}
		}
	}
	return nil
}

// BuildDataset validates the table's columns and converts its rows into
// taxpayer records. Validation happens before any record is built.
func BuildDataset(t *Table, category model.TaxCategory) (*model.Dataset, error) {
	if err := CheckColumns(t, category); err != nil {
		return nil, err
	}

	ds := &model.Dataset{
		Source:   t.Source,
		Sheet:    t.Sheet,
		Category: category,
		Columns:  append([]string(nil), t.Columns...),
		Records:  make([]model.TaxpayerRecord, 0, len(t.Rows)),
	}

	for _, row := range t.Rows {
		cells := make(map[string]string, len(t.Columns))
		for i, label := range t.Columns {
			if label == "" {
				continue
			}
			if _, dup := cells[label]; dup {
				continue
			}
			cells[label] = row[i]
		}

		rec := model.TaxpayerRecord{
			Index:         len(ds.Records),
			Name:          cells[model.ColumnName],
			Unit:          cells[model.ColumnUnit],
			Status:        cells[model.ColumnStatus],
			RegisteredRaw: cells[model.ColumnRegistered],
			Cells:         cells,
		}
		if category.HasClassification() {
			rec.Classification = cells[model.ColumnClassification]
		}
		if at, ok := ParseDate(rec.RegisteredRaw); ok {
			rec.RegisteredAt = at
			if AmbiguousDate(rec.RegisteredRaw) {
				slog.Debug("ambiguous TMT, read day first",
					"source", t.Source, "row", rec.Index, "name", rec.Name, "tmt", rec.RegisteredRaw,
					"as", at.Format("2006-01-02"))
			}
		} else if strings.TrimSpace(rec.RegisteredRaw) != "" {
			slog.Debug("unparseable TMT, counting all months active",
				"source", t.Source, "row", rec.Index, "name", rec.Name, "tmt", rec.RegisteredRaw)
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// Merge concatenates datasets of the same category into one, re-indexing
// records in order. Columns are the union of all labels in first-seen order.
func Merge(category model.TaxCategory, parts ...*model.Dataset) *model.Dataset {
	out := &model.Dataset{Category: category}
	seen := make(map[string]struct{})

	for _, p := range parts {
		if p == nil {
			continue
		}
		if out.Source == "" {
			out.Source, out.Sheet = p.Source, p.Sheet
		}
		for _, c := range p.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out.Columns = append(out.Columns, c)
		}
		for _, r := range p.Records {
			r.Index = len(out.Records)
			out.Records = append(out.Records, r)
		}
	}
	return out
}
