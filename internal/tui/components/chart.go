package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders one vertical bar per value with a y-axis scaled to round
// ticks and the labels centered under the bars. Narrow or short areas fall
// back to a sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	tickStep := chartTickStep(peak)
	ceiling := math.Ceil(peak/tickStep) * tickStep
	intervals := max(1, int(math.Round(ceiling/tickStep)))
	rowsPerTick := max(1, height/intervals)
	chartH := rowsPerTick * intervals

	yLabelW := max(4, len(FormatChartLabel(ceiling))+1)
	tickLabels := make(map[int]string, intervals)
	for i := 1; i <= intervals; i++ {
		tickLabels[i*rowsPerTick] = FormatChartLabel(tickStep * float64(i))
	}

	n := len(values)
	gap := 1
	barW := (width - yLabelW - 1 - (n - 1)) / n
	barW = min(max(barW, 1), 8)
	axisLen := n*barW + (n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 {
				b.WriteString(space.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(space.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		buf := []rune(strings.Repeat(" ", axisLen))
		for i, lbl := range labels {
			r := []rune(lbl)
			if len(r) > barW+gap {
				r = r[:barW+gap]
			}
			pos := i*(barW+gap) + (barW-len(r))/2
			pos = max(pos, 0)
			for j, c := range r {
				if pos+j < len(buf) {
					buf[pos+j] = c
				}
			}
		}
		b.WriteString("\n")
		b.WriteString(space.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	}

	return b.String()
}

// DistributionBar renders the label distribution as one stacked bar of the
// given width, each segment drawn in its label color and sized by share.
func DistributionBar(dist []model.LabelCount, width int) string {
	t := theme.Active
	total := 0
	for _, d := range dist {
		total += d.Count
	}
	if total == 0 || width <= 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(strings.Repeat("░", max(width, 0)))
	}

	var b strings.Builder
	used := 0
	for i, d := range dist {
		seg := int(math.Round(float64(d.Count) / float64(total) * float64(width)))
		if i == len(dist)-1 {
			seg = width - used
		}
		seg = min(max(seg, 0), width-used)
		used += seg
		style := lipgloss.NewStyle().Foreground(t.ForLabel(d.Label)).Background(t.Surface)
		b.WriteString(style.Render(strings.Repeat("█", seg)))
	}
	return b.String()
}

// chartTickStep computes a round tick interval targeting about 5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// FormatChartLabel abbreviates an axis value with a K/M/B/T suffix.
func FormatChartLabel(v float64) string {
	units := []struct {
		div    float64
		suffix string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}
	for _, u := range units {
		if v >= u.div {
			if v == math.Trunc(v/u.div)*u.div {
				return fmt.Sprintf("%.0f%s", v/u.div, u.suffix)
			}
			return fmt.Sprintf("%.1f%s", v/u.div, u.suffix)
		}
	}
	return fmt.Sprintf("%.0f", v)
}
