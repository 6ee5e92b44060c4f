package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := tui.RunSetup(appConfig)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	appConfig = cfg

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Println("    kepatuhan            summary for the configured workbook")
	fmt.Println("    kepatuhan tui        interactive dashboard")
	fmt.Println("    kepatuhan export out.xlsx")
	fmt.Println()
	return nil
}
