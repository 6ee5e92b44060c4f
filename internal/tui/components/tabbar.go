package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Trend", Key: 't', KeyPos: 0},
	{Name: "Payers", Key: 'p', KeyPos: 0},
	{Name: "Details", Key: 'd', KeyPos: 0},
}

// TabSeparator is drawn between tabs and is one column wide.
const TabSeparator = "│"

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	before := tab.Name[:tab.KeyPos]
	letter := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]
	return inactive.Render(" "+before) +
		dim.Render("[") + key.Render(letter) + dim.Render("]") +
		inactive.Render(after+" ")
}

// TabVisualWidth returns the rendered width of a tab, matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders a single-row tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render(TabSeparator)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
