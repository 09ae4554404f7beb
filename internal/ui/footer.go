package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterData holds the information displayed in the global status footer.
type FooterData struct {
	HostLabel string // "user@host:port" of the focused pane's tab
	Mode      string // "Shell" / "AI"
	CostHint  string // most recent cost figure scanned from the focused pane
	TabCount  int
	TabIdx    int
	PaneIdx   int
	PaneName  string
	ThemeName string
	Zoomed    bool
	Inactive  bool // focused shell pane's session has disconnected
}

// RenderFooter draws the global status bar at the bottom of the screen.
func RenderFooter(d FooterData, width int) string {
	var sections []string

	if d.HostLabel != "" {
		sections = append(sections,
			FooterKeyStyle.Render("host:")+FooterValStyle.Render(" "+d.HostLabel))
	}

	if d.Mode != "" {
		sections = append(sections,
			FooterKeyStyle.Render("mode:")+FooterValStyle.Render(" "+d.Mode))
	}

	if d.CostHint != "" {
		sections = append(sections,
			FooterKeyStyle.Render("cost:")+
				lipgloss.NewStyle().Bold(true).Foreground(ColorWarning).Render(" "+d.CostHint))
	}

	if d.Inactive {
		sections = append(sections,
			lipgloss.NewStyle().Bold(true).Foreground(ColorDanger).Render("session inactive — press r to reconnect"))
	}

	tabInfo := fmt.Sprintf("Tab %d/%d  Pane %d", d.TabIdx+1, d.TabCount, d.PaneIdx+1)
	if d.Zoomed {
		tabInfo += " [ZOOM]"
	}
	sections = append(sections, FooterDimStyle.Render(tabInfo))

	shortcuts := FooterDimStyle.Render("Ctrl+T:login  Ctrl+Z:zoom  Ctrl+K:help")

	left := strings.Join(sections, FooterSepStyle.Render(""))
	right := shortcuts

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := width - leftWidth - rightWidth - 2
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return FooterStyle.Width(width).Render(line)
}
