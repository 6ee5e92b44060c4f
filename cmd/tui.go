package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/tui"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	sel, err := resolveSelection()
	if err != nil {
		// First run without a workbook still opens, the setup form asks for one.
		if !errors.Is(err, errNoWorkbook) || config.Exists() {
			return err
		}
	}

	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log output would draw over the alt screen.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	app := tui.NewApp(tui.Options{
		Path:     sel.Path,
		Sheet:    sel.Sheet,
		Category: sel.Category,
		Year:     sel.Year,
		Scope:    sel.Scope,
		TopN:     appConfig.Report.TopN,
		UseCache: !flagNoCache,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
