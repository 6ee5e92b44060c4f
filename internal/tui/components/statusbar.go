package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the load time (or a reload marker) on the right.
func RenderStatusBar(width int, loadTime string, reloading bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [u/k/s]filter  [c]lear  [y/Y]ear  [r]eload  [?]help  [q]uit"
	right := ""
	switch {
	case reloading:
		right = "reloading… "
	case loadTime != "":
		right = fmt.Sprintf("Loaded in %s ", loadTime)
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
