package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// ErrInvalidOptions is returned when report options fail validation.
var ErrInvalidOptions = errors.New("invalid report options")

var validate = validator.New()

// Options controls one report run.
type Options struct {
	Category model.TaxCategory `validate:"required,oneof=HIBURAN 'MAKAN MINUM'"`
	Year     int               `validate:"min=2000,max=2100"`
	Scope    model.FilterScope
	TopN     int `validate:"min=0,max=1000"` // 0 means DefaultTopN
}

// Validate checks field ranges and that the classification filter is only
// used with a category that has classifications.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Scope.Classification != "" && !o.Category.HasClassification() {
		return fmt.Errorf("%w: classification filter is only available for %s", ErrInvalidOptions, model.CategoryHiburan)
	}
	return nil
}

func (o Options) topN() int {
	if o.TopN <= 0 {
		return DefaultTopN
	}
	return o.TopN
}

// BuildReport runs the whole computation for one dataset and filter scope:
// resolve payment columns, assess every record, filter, aggregate. The
// dataset is not modified; the report holds fresh values only.
func BuildReport(ds *model.Dataset, opts Options) (*model.Report, error) {
	if ds == nil {
		return nil, errors.New("nil dataset")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if ds.Category != opts.Category {
		return nil, fmt.Errorf("%w: dataset was loaded as %s, report requested %s",
			ErrInvalidOptions, ds.Category, opts.Category)
	}

	cols := ResolvePaymentColumns(ds.Columns, opts.Year)
	all, quality := AssessAll(ds.Records, cols, opts.Year)
	filtered := Filter(all, opts.Scope)

	return &model.Report{
		Category:     opts.Category,
		Year:         opts.Year,
		Scope:        opts.Scope,
		Columns:      cols,
		Assessments:  filtered,
		Distribution: Distribution(filtered),
		Trend:        CollectTrend(MonthlyTrend(filtered, cols)),
		Top:          TopN(filtered, opts.topN()),
		Summary:      Summarize(filtered, cols),
		Quality:      quality,
	}, nil
}
