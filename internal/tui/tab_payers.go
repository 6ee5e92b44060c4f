package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/tui/components"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

func (a App) renderPayersTab(cw int) string {
	t := theme.Active
	rep := a.report
	title := fmt.Sprintf("Top %d wajib pajak by total pembayaran", a.topN)

	if len(rep.Top) == 0 {
		return components.ContentCard(title, "No taxpayers match the current filters.", cw)
	}

	inner := components.CardInnerWidth(cw)
	nameW := min(max(inner/3, 16), 36)
	unitW := 12
	totalW := 22
	labelW := 13
	barW := max(inner-4-nameW-unitW-totalW-labelW-5, 4)

	peak := rep.Top[0].TotalPaid.InexactFloat64()
	if peak <= 0 {
		peak = 1
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	primary := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	track := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, r := range rep.Top {
		if i > 0 {
			b.WriteString("\n")
		}
		filled := int(r.TotalPaid.InexactFloat64() / peak * float64(barW))
		filled = min(max(filled, 0), barW)
		label := lipgloss.NewStyle().Foreground(t.ForLabel(r.Label)).Background(t.Surface).
			Render(fmt.Sprintf("%-*s", labelW, r.Label.Display()))

		b.WriteString(muted.Render(fmt.Sprintf("%3d ", r.Rank)))
		b.WriteString(primary.Render(fmt.Sprintf("%-*s", nameW, truncStr(r.Name, nameW))))
		b.WriteString(space.Render(" "))
		b.WriteString(muted.Render(fmt.Sprintf("%-*s", unitW, truncStr(r.Unit, unitW))))
		b.WriteString(space.Render(" "))
		b.WriteString(primary.Render(fmt.Sprintf("%*s", totalW, r.TotalFormatted)))
		b.WriteString(space.Render(" "))
		b.WriteString(bar.Render(strings.Repeat("█", filled)) + track.Render(strings.Repeat("·", barW-filled)))
		b.WriteString(space.Render(" "))
		b.WriteString(label)
	}

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render("+ / - to change the list length")
	return components.ContentCard(title, b.String()+"\n\n"+hint, cw)
}
