package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers:  []string{"Nama", "UPPPD", "Total"},
		Rows:     [][]string{{"Karaoke", "A", "10"}, {"---"}, {"Bioskop Kota", "B", "2,000"}},
		LeftCols: 2,
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[3], "│ Karaoke      │ A     │    10 │")
	assert.Contains(t, lines[4], "├")
	assert.Contains(t, lines[5], "│ Bioskop Kota │ B     │ 2,000 │")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "▁█▄", RenderSparkline([]float64{0, 10, 5}))
	assert.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
	assert.Empty(t, RenderSparkline(nil))
}

func TestRenderHorizontalBar(t *testing.T) {
	out := RenderHorizontalBar("Jan", 4, 5, 10, 10, "Rp 5")
	assert.Equal(t, "  Jan  █████····· Rp 5", out)
}

func TestLabelColor(t *testing.T) {
	assert.Equal(t, ColorGreen, LabelColor(model.Compliant))
	assert.Equal(t, ColorOrange, LabelColor(model.PartiallyCompliant))
	assert.Equal(t, ColorRed, LabelColor(model.NonCompliant))
	assert.Contains(t, RenderLabel(model.PartiallyCompliant), "KURANG PATUH")
}
