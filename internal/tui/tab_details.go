package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/export"
	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/tui/components"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// detailsChrome is the number of lines the details tab draws around the table.
const detailsChrome = 6

func newDetailsTable() table.Model {
	// Letter keys stay free for filters; only navigation keys scroll.
	km := table.DefaultKeyMap()
	km.LineUp = key.NewBinding(key.WithKeys("up"))
	km.LineDown = key.NewBinding(key.WithKeys("down"))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.GotoTop = key.NewBinding(key.WithKeys("home", "g"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end", "G"))

	tbl := table.New(
		table.WithFocused(true),
		table.WithKeyMap(km),
		table.WithHeight(10),
	)
	tbl.SetStyles(detailStyles())
	return tbl
}

func detailStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(false)
	return s
}

// detailColumns returns the table columns; KLASIFIKASI only for categories
// that carry it.
func detailColumns(category model.TaxCategory) []table.Column {
	cols := []table.Column{
		{Title: "#", Width: 5},
		{Title: model.ColumnName, Width: 26},
		{Title: model.ColumnUnit, Width: 12},
	}
	if category.HasClassification() {
		cols = append(cols, table.Column{Title: model.ColumnClassification, Width: 14})
	}
	return append(cols,
		table.Column{Title: model.ColumnStatus, Width: 10},
		table.Column{Title: "Aktif", Width: 5},
		table.Column{Title: "Bayar", Width: 5},
		table.Column{Title: export.ColumnTotalPaid, Width: 20},
		table.Column{Title: export.ColumnAverage, Width: 18},
		table.Column{Title: export.ColumnLabel, Width: 12},
		table.Column{Title: "%", Width: 8},
	)
}

// detailRows returns one row per assessment in source order.
func detailRows(rep *model.Report) []table.Row {
	if rep == nil {
		return nil
	}
	withClass := rep.Category.HasClassification()
	rows := make([]table.Row, 0, len(rep.Assessments))
	for _, as := range rep.Assessments {
		rec, res := as.Record, as.Result
		row := table.Row{strconv.Itoa(rec.Index + 1), rec.Name, rec.Unit}
		if withClass {
			row = append(row, rec.Classification)
		}
		row = append(row,
			rec.Status,
			strconv.Itoa(res.ActiveMonths),
			strconv.Itoa(res.PaidMonths),
			cli.FormatRupiah(res.TotalPaid),
			cli.FormatAverage(res.Average),
			res.Label.Display(),
			cli.FormatPercent(res.Percentage),
		)
		rows = append(rows, row)
	}
	return rows
}

func (a *App) resizeDetails() {
	a.details.SetWidth(a.contentWidth() - 4)
	// tab bar + scope line + status bar + chrome
	a.details.SetHeight(max(a.height-3-detailsChrome, 3))
}

func (a App) renderDetailsTab(cw int) string {
	t := theme.Active
	n := len(a.details.Rows())
	if n == 0 {
		return components.ContentCard("Wajib pajak", "No taxpayers match the current filters.", cw)
	}

	a.details.SetStyles(detailStyles())
	footer := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render(fmt.Sprintf("%d / %d  ·  ↑ ↓ pgup pgdown g G", a.details.Cursor()+1, n))
	return components.ContentCard(fmt.Sprintf("Wajib pajak (%s)", cli.FormatNumber(int64(n))),
		a.details.View()+"\n"+footer, cw)
}
