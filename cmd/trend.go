package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/cli"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Total payment per month of the tax year",
	RunE:  runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, _ []string) error {
	_, result, rep, err := buildReport(appConfig.Report.TopN)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(reportTitle("TREN PEMBAYARAN", rep)))
	fmt.Println(cli.RenderMuted("  Filter: " + cli.FormatScope(rep.Scope)))
	fmt.Println()

	if len(rep.Trend) == 0 {
		fmt.Printf("  No payment columns resolved for %d.\n", rep.Year)
		printWarnings(result, rep)
		return nil
	}

	values := make([]float64, len(rep.Trend))
	peak := 0.0
	for i, m := range rep.Trend {
		values[i] = m.Total.InexactFloat64()
		peak = max(peak, values[i])
	}

	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))
	for i, m := range rep.Trend {
		fmt.Println(cli.RenderHorizontalBar(m.Column.ShortName(), 4, values[i], peak, 32,
			cli.FormatRupiah(m.Total)))
	}
	fmt.Println()
	fmt.Printf("  Total: %s\n", cli.FormatRupiah(rep.Summary.TotalPaid))

	printWarnings(result, rep)
	return nil
}
