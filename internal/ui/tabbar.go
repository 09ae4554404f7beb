package ui

import (
	"fmt"
	"strings"
)

// Tab holds the metadata for a single workspace tab. Each tab wraps
// one SSH host login; HostLabel is the "user@host:port" string shown
// next to the tab's name once a login succeeds.
type Tab struct {
	Name      string
	HostLabel string
}

// RenderTabBar produces the tab bar string for the top of the screen.
// activeIdx is the currently selected tab index.
func RenderTabBar(tabs []Tab, activeIdx, width int) string {
	var parts []string

	for i, t := range tabs {
		label := t.Name
		if label == "" {
			label = fmt.Sprintf("Tab %d", i+1)
		}
		if t.HostLabel != "" {
			label += " · " + t.HostLabel
		}
		display := fmt.Sprintf(" %d: %s ", i+1, label)

		if i == activeIdx {
			parts = append(parts, TabActive.Render(display))
		} else {
			parts = append(parts, TabInactive.Render(display))
		}
	}

	parts = append(parts, TabAdd.Render(" + "))

	bar := strings.Join(parts, " ")
	return TabBarStyle.Width(width).Render(bar)
}
