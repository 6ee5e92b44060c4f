package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, LayoutRow(100, 3))
	assert.Nil(t, LayoutRow(100, 0))
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	require.Less(t, shortLines, tallLines)

	lines := strings.Split(CardRow([]string{shortCard, tallCard}), "\n")
	require.Len(t, lines, tallLines)

	for i, line := range lines {
		assert.Contains(t, line, "\x1b[", "line %d has no styling", i)
		assert.Equal(t, 44, lipgloss.Width(line), "line %d width", i)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Wajib pajak", Value: "120"},
		{Label: "Total", Value: "Rp 1.2M", Note: "12 bulan"},
		{Label: "Rata-rata", Value: "87.50%"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		assert.Equal(t, 90, lipgloss.Width(line), "line %d width", i)
	}
	assert.Contains(t, row, "Rp 1.2M")
}
