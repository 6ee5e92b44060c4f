package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/tui/components"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

func (a App) renderTrendTab(cw, h int) string {
	t := theme.Active
	rep := a.report
	title := fmt.Sprintf("Total pembayaran per bulan, %d", rep.Year)

	if len(rep.Trend) == 0 {
		return components.ContentCard(title,
			fmt.Sprintf("No payment columns resolved for %d. Press y / Y to change the year.", rep.Year), cw)
	}

	values := make([]float64, len(rep.Trend))
	labels := make([]string, len(rep.Trend))
	for i, m := range rep.Trend {
		values[i] = m.Total.InexactFloat64()
		labels[i] = m.Column.ShortName()
	}

	// Chart card plus one line per month below it.
	chartH := max(h-len(rep.Trend)-8, 4)
	inner := components.CardInnerWidth(cw)
	chart := components.BarChart(values, labels, t.Blue, inner, chartH)

	peak := rep.Trend[0].Total
	for _, m := range rep.Trend[1:] {
		if m.Total.GreaterThan(peak) {
			peak = m.Total
		}
	}
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var rows strings.Builder
	for i, m := range rep.Trend {
		if i > 0 {
			rows.WriteString("\n")
		}
		style := value
		if m.Total.Equal(peak) && !peak.IsZero() {
			style = accent
		}
		rows.WriteString(muted.Render(fmt.Sprintf("%-4s %-14s", m.Column.ShortName(), m.Column.Label)))
		rows.WriteString(style.Render(fmt.Sprintf("%22s", cli.FormatRupiah(m.Total))))
	}

	return components.ContentCard(title, chart, cw) + "\n" +
		components.ContentCard("Months", rows.String(), cw)
}
