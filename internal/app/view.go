package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glacierterm/glacierterm/internal/ui"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the entire UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 || m.height == 0 {
		return "Initialising…"
	}

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, ShortcutHelp())
	}

	if m.dialog.Visible {
		return m.dialog.Render(m.width, m.height)
	}

	return m.renderNormal()
}

// renderNormal draws the standard layout: tab bar + panes + footer.
func (m Model) renderNormal() string {
	tabBar := ui.RenderTabBar(m.allTabs(), m.tabIdx, m.width)
	footer := ui.RenderFooter(m.footerData(), m.width)

	contentH := m.height - 2
	if contentH < 1 {
		contentH = 1
	}

	panesStr := m.renderPanes(m.width, contentH)

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, panesStr, footer)
}

// renderPanes draws all panes in the active tab using the grid layout.
func (m Model) renderPanes(areaW, areaH int) string {
	ts := m.activeTab()
	if ts == nil || len(ts.Panes) == 0 {
		return lipgloss.NewStyle().
			Width(areaW).
			Height(areaH).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(ui.ColorMuted).
			Render("No panes. Press Ctrl+T to log in over SSH.")
	}

	if m.zoomed && ts.FocusIdx >= 0 && ts.FocusIdx < len(ts.Panes) {
		fullRect := ui.Rect{X: 0, Y: 0, Width: areaW, Height: areaH}
		return ui.RenderPane(focusedInfo(ts), fullRect)
	}

	rects := ui.ComputeGrid(len(ts.Panes), areaW, areaH)

	canvas := make([][]rune, areaH)
	for r := range canvas {
		canvas[r] = make([]rune, areaW)
		for c := range canvas[r] {
			canvas[r][c] = ' '
		}
	}

	for i, pi := range ts.Panes {
		if i >= len(rects) {
			break
		}
		pi.Focused = i == ts.FocusIdx
		rect := rects[i]
		rendered := ui.RenderPane(pi, rect)
		stampOnCanvas(canvas, rendered, rect.X, rect.Y, rect.Width, rect.Height)
	}

	var b strings.Builder
	for r, row := range canvas {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, ch := range row {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func focusedInfo(ts *tabState) ui.PaneInfo {
	p := ts.Panes[ts.FocusIdx]
	p.Focused = true
	return p
}

// stampOnCanvas writes a rendered string block onto the rune canvas.
func stampOnCanvas(canvas [][]rune, rendered string, x, y, w, h int) {
	lines := strings.Split(rendered, "\n")
	for dy, line := range lines {
		if y+dy >= len(canvas) {
			break
		}
		col := x
		for _, ch := range line {
			if col >= x+w || col >= len(canvas[y+dy]) {
				break
			}
			canvas[y+dy][col] = ch
			col++
		}
	}
}
