package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/source"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets [FILE]",
	Short: "List the sheets of a workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSheets,
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}

func runSheets(_ *cobra.Command, args []string) error {
	path := firstNonEmpty(flagFile, appConfig.General.DataFile)
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errNoWorkbook
	}

	sheets, err := source.ListSheets(path)
	if err != nil {
		return err
	}

	for i, name := range sheets {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, name)
	}
	return nil
}
