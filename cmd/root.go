package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/pipeline"
	"github.com/theirongolddev/kepatuhan/internal/source"
	"github.com/theirongolddev/kepatuhan/internal/store"
)

var (
	flagFile           string
	flagSheet          string
	flagCategory       string
	flagYear           int
	flagUnit           string
	flagClassification string
	flagStatus         string
	flagNoCache        bool
	flagQuiet          bool
	flagLogLevel       string
	flagLogFormat      string
)

// appConfig is the config file merged with defaults, loaded before any
// command runs.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "kepatuhan",
	Short: "Tax compliance reports for HIBURAN and MAKAN MINUM workbooks",
	Long: "Classify taxpayers as PATUH, KURANG PATUH or TIDAK PATUH from monthly\n" +
		"payment columns, and report the distribution, monthly trend and top payers.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagFile, "file", "f", "", "Workbook (.xlsx/.csv) or directory of workbooks")
	pf.StringVar(&flagSheet, "sheet", "", "Sheet name (default: first sheet)")
	pf.StringVarP(&flagCategory, "category", "c", "", "Tax category: HIBURAN or MAKAN MINUM")
	pf.IntVarP(&flagYear, "year", "y", 0, "Tax year (default from config)")
	pf.StringVarP(&flagUnit, "upppd", "u", "", "Filter to one UPPPD")
	pf.StringVarP(&flagClassification, "klasifikasi", "k", "", "Filter to one KLASIFIKASI (HIBURAN only)")
	pf.StringVarP(&flagStatus, "status", "s", "", "Filter to one STATUS")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite parse cache, reparse everything")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "console", "Log format (console, json)")
}

func prepare(_ *cobra.Command, _ []string) error {
	if err := setupLogging(flagLogLevel, flagLogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("ignoring config file", "path", config.Path(), "err", err)
		cfg = config.DefaultConfig()
	}
	appConfig = cfg
	return nil
}

func setupLogging(level, format string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// selection is the dataset and report scope of one run: flags override the
// config file.
type selection struct {
	Path     string
	Sheet    string
	Category model.TaxCategory
	Year     int
	Scope    model.FilterScope
}

var errNoWorkbook = errors.New("no workbook given: pass --file or set general.data_file with `kepatuhan setup`")

func resolveSelection() (selection, error) {
	sel := selection{
		Path:  firstNonEmpty(flagFile, appConfig.General.DataFile),
		Sheet: firstNonEmpty(flagSheet, appConfig.General.Sheet),
		Year:  appConfig.General.Year,
		Scope: model.FilterScope{
			Unit:           flagUnit,
			Classification: flagClassification,
			Status:         flagStatus,
		},
	}
	if flagYear != 0 {
		sel.Year = flagYear
	}

	category, err := model.ParseCategory(firstNonEmpty(flagCategory, appConfig.General.Category))
	if err != nil {
		return sel, err
	}
	sel.Category = category

	if sel.Path == "" {
		return sel, errNoWorkbook
	}
	return sel, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadData is the shared data loading path used by all report commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData(sel selection) (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", sel.Path)
	}

	progressFn := func(current, total int) {
		if flagQuiet || total < 2 {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  %s", cli.RenderProgressBar(current, total, 20))
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			slog.Info("cache unavailable, doing full parse", "err", err)
		} else {
			defer cache.Close()

			cr, err := pipeline.LoadWithCache(sel.Path, sel.Sheet, sel.Category, cache, progressFn)
			if err == nil {
				if cr.Pruned > 0 {
					slog.Info("dropped cached sheets of deleted workbooks", "files", cr.Pruned)
				}
				if !flagQuiet && cr.TotalFiles > 1 {
					fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed workbooks    \n", cr.CacheHits, cr.Reparsed)
				}
				return &cr.LoadResult, nil
			}
			var missing *source.MissingColumnError
			if errors.As(err, &missing) {
				return nil, err
			}
			slog.Info("cache-assisted load failed, falling back", "err", err)
		}
	}

	result, err := pipeline.Load(sel.Path, sel.Sheet, sel.Category, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.TotalFiles > 1 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d of %d workbooks    \n", result.ParsedFiles, result.TotalFiles)
	}
	return result, nil
}

// buildReport loads the selection and runs the report with topN entries.
func buildReport(topN int) (selection, *pipeline.LoadResult, *model.Report, error) {
	sel, err := resolveSelection()
	if err != nil {
		return sel, nil, nil, err
	}

	result, err := loadData(sel)
	if err != nil {
		return sel, nil, nil, err
	}

	rep, err := pipeline.BuildReport(result.Dataset, pipeline.Options{
		Category: sel.Category,
		Year:     sel.Year,
		Scope:    sel.Scope,
		TopN:     topN,
	})
	if err != nil {
		return sel, result, nil, err
	}
	return sel, result, rep, nil
}

// printWarnings reports recovered data problems on stderr.
func printWarnings(result *pipeline.LoadResult, rep *model.Report) {
	var msgs []string
	if result.FileErrors > 0 {
		msgs = append(msgs, fmt.Sprintf("%d workbook files could not be read", result.FileErrors))
		for _, err := range result.Errors {
			slog.Info("skipped workbook", "err", err)
		}
	}
	q := rep.Quality
	if rep.Summary.PaymentColumns == 0 {
		msgs = append(msgs, fmt.Sprintf("no payment columns found for %d; totals are zero", rep.Year))
	}
	if q.MissingDates > 0 {
		msgs = append(msgs, fmt.Sprintf("%d taxpayers without TMT were counted active all year", q.MissingDates))
	}
	if q.UnparsedDates > 0 {
		msgs = append(msgs, fmt.Sprintf("%d unreadable TMT dates were counted active all year (see --log-level debug)", q.UnparsedDates))
	}
	if q.InvalidAmounts > 0 {
		msgs = append(msgs, fmt.Sprintf("%d non-numeric payment cells were counted as 0", q.InvalidAmounts))
	}
	if q.NegativeAmounts > 0 {
		msgs = append(msgs, fmt.Sprintf("%d negative payment cells were counted as 0", q.NegativeAmounts))
	}

	if len(msgs) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr)
	for _, m := range msgs {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(m))
	}
}

func reportTitle(kind string, rep *model.Report) string {
	return fmt.Sprintf("%s  %s %d", kind, rep.Category, rep.Year)
}
