package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0:             "0",
		500:           "500",
		2000:          "2K",
		1500000:       "1.5M",
		3000000000:    "3B",
		1200000000000: "1.2T",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatChartLabel(in), "value %v", in)
	}
}

func TestChartTickStep(t *testing.T) {
	assert.Equal(t, 1.0, chartTickStep(0))
	assert.Equal(t, 2e6, chartTickStep(10e6))
	assert.Equal(t, 5e5, chartTickStep(2e6))
}

func TestBarChartLabels(t *testing.T) {
	out := BarChart([]float64{1e6, 2e6, 0}, []string{"Jan", "Feb", "Mar"}, lipgloss.Color("#4385BE"), 40, 6)

	lines := strings.Split(out, "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "Jan")
	assert.Contains(t, last, "Mar")
	assert.Contains(t, out, "2M")
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, lipgloss.Color("#4385BE"), 10, 2)
	assert.Equal(t, 1, lipgloss.Height(out))
	assert.Equal(t, 3, lipgloss.Width(out))
}

func TestDistributionBarWidth(t *testing.T) {
	dist := []model.LabelCount{
		{Label: model.Compliant, Count: 1},
		{Label: model.PartiallyCompliant, Count: 1},
		{Label: model.NonCompliant, Count: 1},
	}
	assert.Equal(t, 31, lipgloss.Width(DistributionBar(dist, 31)))
	assert.Equal(t, 10, lipgloss.Width(DistributionBar(nil, 10)))
}

func TestComplianceGauge(t *testing.T) {
	full := 100.0
	assert.Contains(t, ComplianceGauge("Overall", &full, 10, 20), "100.00%")
	assert.Contains(t, ComplianceGauge("Overall", nil, 10, 20), "-")
	assert.NotContains(t, ComplianceGauge("Overall", nil, 10, 20), "%")
}
