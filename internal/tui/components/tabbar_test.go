package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTabVisualWidth(t *testing.T) {
	for _, tab := range Tabs {
		assert.Equal(t, len(tab.Name)+2, TabVisualWidth(tab, true), tab.Name)
		assert.Equal(t, len(tab.Name)+4, TabVisualWidth(tab, false), tab.Name)
	}
}

func TestRenderTabBarWidth(t *testing.T) {
	assert.Equal(t, 100, lipgloss.Width(RenderTabBar(1, 100)))
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('o'))
	assert.Equal(t, 3, TabIdxByKey('d'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}
