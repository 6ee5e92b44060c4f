package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/cli"
	"github.com/theirongolddev/kepatuhan/internal/tui/components"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

const (
	tabOverview = iota
	tabTrend
	tabPayers
	tabDetails
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	rep := a.report
	stats := rep.Summary

	totalNote := ""
	if stats.Taxpayers > 0 {
		totalNote = cli.FormatRupiah(stats.TotalPaid)
	}
	metrics := []components.Metric{
		{Label: "Wajib pajak", Value: cli.FormatNumber(int64(stats.Taxpayers)),
			Note: fmt.Sprintf("of %s loaded", cli.FormatNumber(int64(len(a.dataset.Records))))},
		{Label: "Total pembayaran", Value: cli.FormatRupiahShort(stats.TotalPaid), Note: totalNote},
		{Label: "Bulan aktif / bayar", Value: fmt.Sprintf("%s / %s",
			cli.FormatNumber(int64(stats.ActiveMonths)), cli.FormatNumber(int64(stats.PaidMonths)))},
		{Label: "Kolom bulan", Value: fmt.Sprintf("%d", stats.PaymentColumns),
			Note: fmt.Sprintf("resolved for %d", rep.Year)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	inner := components.CardInnerWidth(halves[0])

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var dist strings.Builder
	dist.WriteString(components.DistributionBar(rep.Distribution, inner))
	for _, d := range rep.Distribution {
		swatch := lipgloss.NewStyle().Foreground(t.ForLabel(d.Label)).Background(t.Surface).Render("■ ")
		name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
			Render(fmt.Sprintf("%-14s", d.Label.Display()))
		dist.WriteString("\n")
		dist.WriteString(swatch + name + muted.Render(fmt.Sprintf("%6s  %s",
			cli.FormatNumber(int64(d.Count)), cli.FormatShare(d.SharePercent))))
	}

	labelW := 12
	barW := max(inner-labelW-10, 10)
	gauges := components.ComplianceGauge("Rata-rata", stats.AvgCompliance, labelW, barW) + "\n" +
		components.ComplianceGauge("Keseluruhan", stats.OverallCompliance, labelW, barW) + "\n" +
		muted.Render("Rata-rata: mean of per-taxpayer %; Keseluruhan: paid / active months")

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Kepatuhan", dist.String(), halves[0]),
		components.ContentCard("Compliance rate", gauges, halves[1]),
	}))

	if warnings := a.qualityWarnings(); len(warnings) > 0 {
		b.WriteString("\n")
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		lines := make([]string, len(warnings))
		for i, w := range warnings {
			lines[i] = warn.Render("! " + w)
		}
		b.WriteString(components.ContentCard("Data quality", strings.Join(lines, "\n"), cw))
	}

	return b.String()
}

// qualityWarnings lists the recovered data problems of the current report.
func (a App) qualityWarnings() []string {
	q := a.report.Quality
	var out []string
	if a.fileErrors > 0 {
		out = append(out, fmt.Sprintf("%d workbook files could not be read", a.fileErrors))
	}
	if q.MissingDates > 0 {
		out = append(out, fmt.Sprintf("%d taxpayers without TMT, counted active all year", q.MissingDates))
	}
	if q.UnparsedDates > 0 {
		out = append(out, fmt.Sprintf("%d unreadable TMT dates, counted active all year", q.UnparsedDates))
	}
	if q.InvalidAmounts > 0 {
		out = append(out, fmt.Sprintf("%d non-numeric payment cells counted as 0", q.InvalidAmounts))
	}
	if q.NegativeAmounts > 0 {
		out = append(out, fmt.Sprintf("%d negative payment cells counted as 0", q.NegativeAmounts))
	}
	if a.report.Summary.PaymentColumns == 0 {
		out = append(out, fmt.Sprintf("no payment columns found for %d", a.report.Year))
	}
	return out
}
