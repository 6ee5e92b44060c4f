package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/export"
	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/pipeline"
)

var (
	flagRecordsLimit int
	flagRecordsAll   bool
	flagRecordsLabel string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Preview taxpayers with their computed compliance columns",
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVarP(&flagRecordsLimit, "limit", "n", 0, "Number of rows (default from config)")
	recordsCmd.Flags().BoolVar(&flagRecordsAll, "all", false, "Show every row")
	recordsCmd.Flags().StringVarP(&flagRecordsLabel, "label", "l", "", "Only taxpayers with this label (PATUH, KURANG PATUH, TIDAK PATUH)")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(_ *cobra.Command, _ []string) error {
	var label *model.Label
	if flagRecordsLabel != "" {
		l, err := model.ParseLabel(flagRecordsLabel)
		if err != nil {
			return err
		}
		label = &l
	}

	_, result, rep, err := buildReport(appConfig.Report.TopN)
	if err != nil {
		return err
	}

	limit := appConfig.Report.RecordsLimit
	if flagRecordsLimit > 0 {
		limit = flagRecordsLimit
	}
	matched := rep.Assessments
	if label != nil {
		matched = pipeline.FilterByLabel(matched, *label)
	}
	rows := matched
	if !flagRecordsAll && limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(reportTitle("WAJIB PAJAK", rep)))
	fmt.Println(cli.RenderMuted(fmt.Sprintf("  Filter: %s  ·  showing %d of %d",
		cli.FormatScope(rep.Scope), len(rows), len(matched))))
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println("  No taxpayers match the selected filters.")
	} else {
		fmt.Print(cli.RenderTable(recordsTable(rep.Category, rows)))
	}

	printWarnings(result, rep)
	return nil
}

func recordsTable(category model.TaxCategory, assessments []model.Assessment) cli.Table {
	withClass := category.HasClassification()

	headers := []string{model.ColumnName, model.ColumnUnit}
	if withClass {
		headers = append(headers, model.ColumnClassification)
	}
	headers = append(headers, model.ColumnStatus)
	leftCols := len(headers)
	headers = append(headers, export.OutputColumns...)

	rows := make([][]string, 0, len(assessments))
	for _, a := range assessments {
		rec, res := a.Record, a.Result
		row := []string{rec.Name, rec.Unit}
		if withClass {
			row = append(row, rec.Classification)
		}
		row = append(row,
			rec.Status,
			fmt.Sprintf("%d", res.ActiveMonths),
			fmt.Sprintf("%d", res.PaidMonths),
			cli.FormatRupiah(res.TotalPaid),
			cli.FormatAverage(res.Average),
			cli.RenderLabel(res.Label),
			cli.FormatPercent(res.Percentage),
		)
		rows = append(rows, row)
	}

	return cli.Table{Headers: headers, Rows: rows, LeftCols: leftCols}
}
