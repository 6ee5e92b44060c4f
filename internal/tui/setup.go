package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// setupValues holds the answers of the setup wizard.
type setupValues struct {
	Category string
	Year     string
	DataFile string
	Theme    string
}

func newSetupValues(opts Options, year int) *setupValues {
	return &setupValues{
		Category: string(opts.Category),
		Year:     strconv.Itoa(year),
		DataFile: opts.Path,
		Theme:    theme.Active.Name,
	}
}

func newSetupForm(vals *setupValues) *huh.Form {
	categories := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = huh.NewOption(string(c), string(c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to kepatuhan").
				Description("A few defaults for reports. Saved to "+config.Path()),
			huh.NewSelect[string]().
				Title("Tax category").
				Options(categories...).
				Value(&vals.Category),
			huh.NewInput().
				Title("Tax year").
				Value(&vals.Year).
				Validate(validateYear),
			huh.NewInput().
				Title("Workbook").
				Description("xlsx/csv file or a directory of them (optional)").
				Value(&vals.DataFile),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

func validateYear(s string) error {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a year such as 2024")
	}
	if y < minYear || y > maxYear {
		return fmt.Errorf("year must be between %d and %d", minYear, maxYear)
	}
	return nil
}

// applySetup copies wizard answers onto cfg.
func applySetup(cfg config.Config, vals setupValues) (config.Config, error) {
	category, err := model.ParseCategory(vals.Category)
	if err != nil {
		return cfg, err
	}
	if err := validateYear(vals.Year); err != nil {
		return cfg, err
	}
	year, _ := strconv.Atoi(strings.TrimSpace(vals.Year))

	cfg.General.Category = string(category)
	cfg.General.Year = year
	cfg.General.DataFile = strings.TrimSpace(vals.DataFile)
	cfg.Appearance.Theme = theme.ByName(vals.Theme).Name
	return cfg, nil
}

// RunSetup runs the setup wizard on the terminal and returns cfg updated
// with the answers. The caller saves it.
func RunSetup(cfg config.Config) (config.Config, error) {
	category := model.TaxCategory(cfg.General.Category)
	theme.SetActive(cfg.Appearance.Theme)
	vals := newSetupValues(Options{Category: category, Path: cfg.General.DataFile}, cfg.General.Year)

	if err := newSetupForm(vals).Run(); err != nil {
		return cfg, err
	}
	return applySetup(cfg, *vals)
}
