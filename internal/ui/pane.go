package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glacierterm/glacierterm/internal/llmchat"
	"github.com/glacierterm/glacierterm/internal/terminal"
)

// PaneMode describes what a pane shows. It mirrors config.SavedPane's
// Mode field: 0 is a shell, 1 is an AI chat panel.
type PaneMode int

const (
	PaneModeShell  PaneMode = iota // SSH-backed shell session
	PaneModeAIChat                 // AI side panel
)

// PaneInfo holds the display state for a single pane. Shell panes are
// driven by a router.Router somewhere above this package: RenderPane
// only ever sees the latest Projection/Styles a SessionViewContent
// response delivered, never a *terminal.Session directly.
type PaneInfo struct {
	SessionID int // router-assigned; meaningless for AI chat panes
	Name      string
	Mode      PaneMode
	HostLabel string // "user@host:port", shown in the title for shell panes
	Focused   bool

	Running    bool
	Projection terminal.Projection
	Styles     *terminal.StyleEngine
	Activity   terminal.ActivityState
	CostHint   string

	Chat *llmchat.Pane // set when Mode == PaneModeAIChat
}

// RenderPane draws a single pane with its border, title bar and body,
// sized to fit rect.
func RenderPane(p PaneInfo, rect Rect) string {
	if rect.Width < 4 || rect.Height < 3 {
		return ""
	}

	border := PaneBorderUnfocused
	if p.Focused {
		border = PaneBorderFocused
	}

	title := buildPaneTitle(p)

	innerW := rect.Width - 2
	innerH := rect.Height - 3 // -2 border, -1 title

	if innerW < 1 || innerH < 1 {
		return border.Width(rect.Width).Height(rect.Height).Render("")
	}

	var body string
	switch p.Mode {
	case PaneModeAIChat:
		body = p.Chat.Render(innerW, innerH)
	default:
		body = renderScreenContent(p, innerW, innerH)
	}

	titleLine := lipgloss.NewStyle().Width(innerW).MaxWidth(innerW).Render(title)

	return border.
		Width(rect.Width).
		Height(rect.Height).
		Render(titleLine + "\n" + body)
}

func buildPaneTitle(p PaneInfo) string {
	var statusDot string
	switch {
	case p.Mode == PaneModeAIChat:
		statusDot = PaneStatusRunning.Render("●")
	case p.Running:
		statusDot = PaneStatusRunning.Render("●")
	default:
		statusDot = PaneStatusExited.Render("●")
	}

	var modeLabel string
	switch p.Mode {
	case PaneModeAIChat:
		modeLabel = " [AI]"
	default:
		modeLabel = " [Shell]"
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Pane %d", p.SessionID)
	}

	var hostInfo string
	if p.HostLabel != "" {
		hostInfo = " (" + p.HostLabel + ")"
	}

	var costInfo string
	if p.CostHint != "" {
		costInfo = " " + lipgloss.NewStyle().Foreground(ColorWarning).Render(p.CostHint)
	}

	var activityInfo string
	if p.Mode == PaneModeShell && p.Running {
		switch p.Activity {
		case terminal.ActivityNeedsInput:
			activityInfo = " " + lipgloss.NewStyle().Foreground(ColorWarning).Render("[needs input]")
		case terminal.ActivityDone:
			activityInfo = " " + lipgloss.NewStyle().Foreground(ColorSuccess).Render("[idle]")
		}
	}
	if !p.Running && p.Mode == PaneModeShell {
		activityInfo = " " + lipgloss.NewStyle().Foreground(ColorDanger).Render("[inactive — press r to reconnect]")
	}

	return statusDot + " " + PaneTitleStyle.Render(name+modeLabel+hostInfo) + costInfo + activityInfo
}

// renderScreenContent renders a shell pane's latest Projection into a
// w×h block of styled text, resolving each cell's StyleHandle against
// the Styles engine the session's SessionViewContent carried along.
func renderScreenContent(p PaneInfo, w, h int) string {
	if p.Styles == nil || len(p.Projection.Lines) == 0 {
		return strings.Repeat("\n", h-1)
	}

	lines := p.Projection.Lines
	if len(lines) > h {
		lines = lines[len(lines)-h:]
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderCellRow(line.Cells, p.Styles, w))
	}
	for i := len(lines); i < h; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

// renderCellRow converts up to w cells into a lipgloss-styled string,
// padding short rows with blanks. Opacity 0.5 (SGR "faint") is the
// nearest lipgloss analog to the style engine's dim attribute; an
// invisible cell (SGR 8, "conceal") renders as a blank space rather
// than its underlying rune.
func renderCellRow(cells []terminal.CharCell, styles *terminal.StyleEngine, w int) string {
	var b strings.Builder
	for col := 0; col < w; col++ {
		if col >= len(cells) {
			b.WriteByte(' ')
			continue
		}
		cell := cells[col]
		rec := styles.Resolve(cell.Style)
		if !rec.Visible {
			b.WriteByte(' ')
			continue
		}
		style := lipgloss.NewStyle().
			Bold(rec.Bold).
			Italic(rec.Italic).
			Underline(rec.Underline).
			Faint(rec.Opacity < 1.0).
			Foreground(lipgloss.Color(rec.Fg)).
			Background(lipgloss.Color(rec.Bg))
		b.WriteString(style.Render(string(cell.Ch)))
	}
	return b.String()
}
