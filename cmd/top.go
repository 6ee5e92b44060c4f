package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/model"
)

var flagTopN int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Taxpayers ranked by total payment",
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVarP(&flagTopN, "count", "n", 0, "Number of taxpayers (default from config)")
	rootCmd.AddCommand(topCmd)
}

func runTop(_ *cobra.Command, _ []string) error {
	n := appConfig.Report.TopN
	if flagTopN > 0 {
		n = flagTopN
	}

	_, result, rep, err := buildReport(n)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(reportTitle(fmt.Sprintf("TOP %d", n), rep)))
	fmt.Println(cli.RenderMuted("  Filter: " + cli.FormatScope(rep.Scope)))
	fmt.Println()

	if len(rep.Top) == 0 {
		fmt.Println("  No taxpayers match the selected filters.")
	} else {
		fmt.Print(cli.RenderTable(topTable(rep.Top)))
	}

	printWarnings(result, rep)
	return nil
}

func topTable(top []model.RankedTaxpayer) cli.Table {
	rows := make([][]string, 0, len(top))
	for _, r := range top {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Rank),
			r.Name,
			r.Unit,
			r.TotalFormatted,
			cli.RenderLabel(r.Label),
		})
	}
	return cli.Table{
		Title:    "Wajib pajak dengan pembayaran tertinggi",
		Headers:  []string{"#", "Nama OP", "UPPPD", "Total Pembayaran", "Kepatuhan"},
		Rows:     rows,
		LeftCols: 3,
	}
}
