// Package cmd implements the kepatuhan CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/pipeline"
	"github.com/theirongolddev/kepatuhan/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Category:  %s\n", cfg.General.Category)
	fmt.Printf("    Year:      %d\n", cfg.General.Year)
	fmt.Printf("    Workbook:  %s\n", orUnset(cfg.General.DataFile))
	fmt.Printf("    Sheet:     %s\n", orDefault(cfg.General.Sheet, "first sheet"))
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Top N:          %d\n", cfg.Report.TopN)
	fmt.Printf("    Records limit:  %d\n", cfg.Report.RecordsLimit)
	fmt.Println()

	fmt.Println("  [Serve]")
	fmt.Printf("    Address:          %s\n", cfg.Serve.Addr)
	fmt.Printf("    Reload interval:  %s\n", cfg.Serve.ReloadInterval.Duration)
	if cfg.Serve.RateLimit > 0 {
		fmt.Printf("    Rate limit:       %d/min per IP\n", cfg.Serve.RateLimit)
	} else {
		fmt.Println("    Rate limit:       off")
	}
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Database:  %s\n", pipeline.CachePath())
	if cache, err := store.Open(pipeline.CachePath()); err != nil {
		fmt.Printf("    Status:    unavailable (%v)\n", err)
	} else {
		n, err := cache.SheetCount()
		_ = cache.Close()
		if err != nil {
			fmt.Printf("    Status:    unreadable (%v)\n", err)
		} else {
			fmt.Printf("    Sheets:    %d cached\n", n)
		}
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `kepatuhan setup` to reconfigure.")
	return nil
}

func orUnset(s string) string {
	return orDefault(s, "not set")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
