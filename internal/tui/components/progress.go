package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// ProgressBar renders the file loading bar with a percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = min(max(pct, 0), 1)
	filled := min(int(pct*float64(width)), width)

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForCompliance returns green, yellow, orange or red for a compliance
// percentage, from fully paid down to mostly unpaid.
func ColorForCompliance(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.Green
	case pct >= 75:
		return t.Yellow
	case pct >= 50:
		return t.Orange
	default:
		return t.Red
	}
}

// ComplianceGauge renders a labeled gauge for a compliance percentage.
// A nil percentage renders an empty gauge with a "-" value.
func ComplianceGauge(label string, pct *float64, labelW, barWidth int) string {
	t := theme.Active

	value := 0.0
	text := "-"
	color := t.TextDim
	if pct != nil {
		value = min(max(*pct, 0), 100)
		text = fmt.Sprintf("%.2f%%", *pct)
		color = ColorForCompliance(*pct)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(value/100) +
		spaceStyle.Render(" ") +
		pctStyle.Render(text)
}
