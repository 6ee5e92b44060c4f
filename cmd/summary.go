package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Compliance summary and label distribution (default command)",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	_, result, rep, err := buildReport(appConfig.Report.TopN)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(reportTitle("KEPATUHAN", rep)))
	fmt.Println(cli.RenderMuted("  Filter: " + cli.FormatScope(rep.Scope)))
	fmt.Println()

	if rep.Summary.Taxpayers == 0 {
		fmt.Println("  No taxpayers match the selected filters.")
		printWarnings(result, rep)
		return nil
	}

	fmt.Print(cli.RenderTable(summaryTable(rep)))
	fmt.Println()
	fmt.Print(cli.RenderTable(distributionTable(rep.Distribution)))
	fmt.Println()
	fmt.Print(cli.RenderTable(topTable(rep.Top)))

	printWarnings(result, rep)
	return nil
}

func summaryTable(rep *model.Report) cli.Table {
	s := rep.Summary
	return cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Wajib pajak", cli.FormatNumber(int64(s.Taxpayers))},
			{"Kolom bulan", fmt.Sprintf("%d", s.PaymentColumns)},
			{"---"},
			{"Total pembayaran", cli.FormatRupiah(s.TotalPaid)},
			{"Bulan aktif", cli.FormatNumber(int64(s.ActiveMonths))},
			{"Bulan pembayaran", cli.FormatNumber(int64(s.PaidMonths))},
			{"---"},
			{"Rata-rata kepatuhan", cli.FormatPercent(s.AvgCompliance)},
			{"Kepatuhan keseluruhan", cli.FormatPercent(s.OverallCompliance)},
		},
	}
}

func distributionTable(dist []model.LabelCount) cli.Table {
	rows := make([][]string, 0, len(dist))
	for _, d := range dist {
		rows = append(rows, []string{
			cli.RenderLabel(d.Label),
			cli.FormatNumber(int64(d.Count)),
			cli.FormatShare(d.SharePercent),
		})
	}
	return cli.Table{
		Title:   "Distribusi kepatuhan",
		Headers: []string{"Kepatuhan", "Wajib pajak", "Share"},
		Rows:    rows,
	}
}
