package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export OUTPUT",
	Short: "Write the decorated table and summary to a .csv or .xlsx file",
	Long: "Write every filtered taxpayer with the computed columns Bulan Aktif,\n" +
		"Bulan Pembayaran, Total Pembayaran, Rata-rata, Kepatuhan and Kepatuhan (%).\n" +
		"An .xlsx output also gets a Ringkasan sheet with the distribution, trend\n" +
		"and top payers.",
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	out := args[0]

	_, result, rep, err := buildReport(appConfig.Report.TopN)
	if err != nil {
		return err
	}

	if err := export.Write(out, result.Dataset, rep); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d taxpayers to %s\n", len(rep.Assessments), out)
	}
	printWarnings(result, rep)
	return nil
}
