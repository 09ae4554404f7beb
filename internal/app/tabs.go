package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glacierterm/glacierterm/internal/llmchat"
	"github.com/glacierterm/glacierterm/internal/router"
	"github.com/glacierterm/glacierterm/internal/terminal"
	"github.com/glacierterm/glacierterm/internal/transport"
	"github.com/glacierterm/glacierterm/internal/ui"
)

// ---------------------------------------------------------------------------
// Tab & pane management
// ---------------------------------------------------------------------------

// activeTab returns a pointer to the focused tab, or nil if there are
// no tabs yet.
func (m *Model) activeTab() *tabState {
	if m.tabIdx < 0 || m.tabIdx >= len(m.tabs) {
		return nil
	}
	return &m.tabs[m.tabIdx]
}

// focusedPane returns a pointer to the focused pane of the focused
// tab, or nil.
func (m *Model) focusedPane() *ui.PaneInfo {
	ts := m.activeTab()
	if ts == nil || ts.FocusIdx < 0 || ts.FocusIdx >= len(ts.Panes) {
		return nil
	}
	return &ts.Panes[ts.FocusIdx]
}

// allTabs returns the ui.Tab metadata of every open tab, for the tab bar.
func (m *Model) allTabs() []ui.Tab {
	tabs := make([]ui.Tab, len(m.tabs))
	for i, ts := range m.tabs {
		tabs[i] = ts.Tab
	}
	return tabs
}

// gridRect returns the usable width/height available to the pane
// grid, after the tab bar and footer rows are subtracted.
func (m *Model) gridRect() (w, h int) {
	w = m.width
	h = m.height - 2
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}
	return w, h
}

func (m *Model) dialPaneLines(requested int) int {
	if requested > 0 {
		return requested
	}
	_, h := m.gridRect()
	if h <= 0 {
		return 24
	}
	return h
}

// startLogin dials a brand-new tab using the dialog's submitted
// credentials, appending a placeholder pane (SessionID -1) that the
// router's LoginRsp resolves once the handshake finishes.
func (m *Model) startLogin(creds transport.Credentials, pageLines int) tea.Cmd {
	r := router.New()
	go r.Run()

	ts := tabState{
		Tab:   ui.Tab{Name: creds.Username + "@" + creds.Host, HostLabel: hostLabel(creds)},
		Creds: creds,
	}
	ts.Panes = append(ts.Panes, pendingShellPane(hostLabel(creds)))
	ts.Router = r

	m.tabs = append(m.tabs, ts)
	m.tabIdx = len(m.tabs) - 1

	r.Requests() <- router.Request{Login: &router.LoginRequest{
		Creds:         creds,
		PageLineCount: m.dialPaneLines(pageLines),
	}}

	return listenRouter(r)
}

// reconnectTab re-dials an existing tab's host after its router died
// or was never established. Every parked shell pane (SessionID -2,
// left behind by a restored-but-never-reconnected session) is turned
// back into a pending placeholder rather than duplicated.
func (m *Model) reconnectTab(tabIdx int, creds transport.Credentials, pageLines int) tea.Cmd {
	if tabIdx < 0 || tabIdx >= len(m.tabs) {
		return nil
	}
	r := router.New()
	go r.Run()
	ts := &m.tabs[tabIdx]
	ts.Router = r
	ts.Creds = creds
	ts.Tab.HostLabel = hostLabel(creds)

	parked := false
	for i := range ts.Panes {
		if ts.Panes[i].Mode == ui.PaneModeShell && ts.Panes[i].SessionID == -2 {
			ts.Panes[i].SessionID = -1
			ts.Panes[i].Name = "connecting…"
			ts.Panes[i].HostLabel = ts.Tab.HostLabel
			parked = true
		}
	}
	if !parked {
		ts.Panes = append(ts.Panes, pendingShellPane(ts.Tab.HostLabel))
	}

	r.Requests() <- router.Request{Login: &router.LoginRequest{
		Creds:         creds,
		PageLineCount: m.dialPaneLines(pageLines),
	}}

	return listenRouter(r)
}

func hostLabel(creds transport.Credentials) string {
	return fmt.Sprintf("%s@%s:%d", creds.Username, creds.Host, creds.Port)
}

func pendingShellPane(label string) ui.PaneInfo {
	return ui.PaneInfo{
		SessionID: -1,
		Name:      "connecting…",
		Mode:      ui.PaneModeShell,
		HostLabel: label,
	}
}

// addShellPane opens another pane against the focused tab's already
// dialed host. It is a no-op if the tab has no router yet or is full.
func (m *Model) addShellPane() {
	ts := m.activeTab()
	if ts == nil || ts.Router == nil {
		return
	}
	if len(ts.Panes) >= m.cfg.MaxPanesPerTab {
		return
	}
	ts.Panes = append(ts.Panes, pendingShellPane(ts.Tab.HostLabel))
	ts.FocusIdx = len(ts.Panes) - 1

	_, h := m.gridRect()
	ts.Router.Requests() <- router.Request{NewSession: &router.NewSessionRequest{
		PageLineCount: m.dialPaneLines(h),
	}}
}

// addChatPane opens a new AI side panel in the focused tab, creating a
// standalone tab for it first if there are no tabs yet — AI chat panes
// never touch a router, so they don't need an SSH host to exist in.
func (m *Model) addChatPane() {
	ts := m.activeTab()
	if ts == nil {
		m.tabs = append(m.tabs, tabState{Tab: ui.Tab{Name: "AI chat"}})
		m.tabIdx = len(m.tabs) - 1
		ts = m.activeTab()
	}
	if len(ts.Panes) >= m.cfg.MaxPanesPerTab {
		return
	}
	id := fmt.Sprintf("chat-%d", time.Now().UnixNano())
	ts.Panes = append(ts.Panes, ui.PaneInfo{
		Name: "AI",
		Mode: ui.PaneModeAIChat,
		Chat: llmchat.NewPane(id, m.llm),
	})
	ts.FocusIdx = len(ts.Panes) - 1
}

// closeFocusedPane removes the focused pane from its tab, asking the
// router to tear down its session first if it is a live shell pane.
// Closing a tab's last pane closes the tab.
func (m *Model) closeFocusedPane() {
	ts := m.activeTab()
	if ts == nil || len(ts.Panes) == 0 {
		return
	}
	idx := ts.FocusIdx
	if idx < 0 || idx >= len(ts.Panes) {
		return
	}
	p := ts.Panes[idx]
	if p.Mode == ui.PaneModeShell && p.SessionID >= 0 && ts.Router != nil {
		ts.Router.Requests() <- router.Request{RemoveSession: &router.RemoveSessionRequest{SessionID: p.SessionID}}
	}

	ts.Panes = append(ts.Panes[:idx], ts.Panes[idx+1:]...)
	if ts.FocusIdx >= len(ts.Panes) {
		ts.FocusIdx = len(ts.Panes) - 1
	}
	if ts.FocusIdx < 0 {
		ts.FocusIdx = 0
	}

	if len(ts.Panes) == 0 {
		m.closeTab(m.tabIdx)
	}
}

// closeCurrentTab closes the active tab outright, stopping its router
// and every session it owns.
func (m *Model) closeCurrentTab() {
	m.closeTab(m.tabIdx)
}

// closeTab stops tab idx's router, if any, and removes the tab,
// moving focus to a neighbouring one.
func (m *Model) closeTab(idx int) {
	if idx < 0 || idx >= len(m.tabs) {
		return
	}
	if r := m.tabs[idx].Router; r != nil {
		r.Stop()
	}
	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)
	if m.tabIdx >= len(m.tabs) {
		m.tabIdx = len(m.tabs) - 1
	}
}

// closeAllSessions stops every tab's router. Called on quit so no
// goroutine or SSH connection outlives the program.
func (m *Model) closeAllSessions() {
	for i := range m.tabs {
		if m.tabs[i].Router != nil {
			m.tabs[i].Router.Stop()
		}
	}
}

// cyclePaneFocus moves focus to the next pane in the active tab.
func (m *Model) cyclePaneFocus() {
	ts := m.activeTab()
	if ts == nil || len(ts.Panes) <= 1 {
		return
	}
	ts.FocusIdx = (ts.FocusIdx + 1) % len(ts.Panes)
}

// navigatePane moves focus to the nearest pane in the direction of key.
func (m *Model) navigatePane(key tea.KeyType) {
	ts := m.activeTab()
	if ts == nil || len(ts.Panes) <= 1 {
		return
	}

	n := len(ts.Panes)
	w, h := m.gridRect()
	rects := ui.ComputeGrid(n, w, h)
	if len(rects) != n {
		return
	}

	cur := rects[ts.FocusIdx]
	best := -1
	bestDist := 1 << 30

	for i, r := range rects {
		if i == ts.FocusIdx {
			continue
		}
		var match bool
		switch key {
		case tea.KeyUp:
			match = r.Y+r.Height <= cur.Y
		case tea.KeyDown:
			match = r.Y >= cur.Y+cur.Height
		case tea.KeyLeft:
			match = r.X+r.Width <= cur.X
		case tea.KeyRight:
			match = r.X >= cur.X+cur.Width
		}
		if !match {
			continue
		}
		dx := (r.X + r.Width/2) - (cur.X + cur.Width/2)
		dy := (r.Y + r.Height/2) - (cur.Y + cur.Height/2)
		if dist := abs(dx) + abs(dy); dist < bestDist {
			bestDist = dist
			best = i
		}
	}

	if best >= 0 {
		ts.FocusIdx = best
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// gotoTab switches focus to tab idx; an out-of-range idx is ignored.
func (m *Model) gotoTab(idx int) {
	if idx < 0 || idx >= len(m.tabs) {
		return
	}
	m.tabIdx = idx
}

// reconnectFocusedPane asks the router to restart the focused pane's
// shell channel over the tab's existing host connection.
func (m *Model) reconnectFocusedPane() {
	ts := m.activeTab()
	p := m.focusedPane()
	if ts == nil || p == nil || ts.Router == nil || p.Mode != ui.PaneModeShell {
		return
	}
	ts.Router.Requests() <- router.Request{ReconnectShell: &router.ReconnectShellRequest{
		SessionID: p.SessionID,
	}}
}

// reconnectOrPrompt handles Ctrl+R on the focused pane: a live tab
// whose shell session died gets a silent ReconnectShell request, while
// a pane restored from a saved session (no router yet) gets the login
// dialog pre-filled so the user can supply the password that was never
// persisted.
func (m *Model) reconnectOrPrompt() {
	ts := m.activeTab()
	p := m.focusedPane()
	if ts == nil || p == nil || p.Mode != ui.PaneModeShell || p.Running {
		return
	}

	if p.SessionID == -2 && ts.Router == nil {
		_, h := m.gridRect()
		m.dialogTargetTab = m.tabIdx
		m.dialog.Prefill(ts.Creds, m.dialPaneLines(h))
		return
	}

	if p.SessionID == -2 && ts.Router != nil {
		p.SessionID = -1
		p.Name = "connecting…"
		_, h := m.gridRect()
		ts.Router.Requests() <- router.Request{NewSession: &router.NewSessionRequest{
			PageLineCount: m.dialPaneLines(h),
		}}
		return
	}

	if ts.Router != nil {
		m.reconnectFocusedPane()
	}
}

// sendBytesToTerminal forwards raw bytes to the focused shell pane's
// session through its tab's router.
func (m *Model) sendBytesToTerminal(b []byte) {
	ts := m.activeTab()
	p := m.focusedPane()
	if ts == nil || p == nil || ts.Router == nil || p.Mode != ui.PaneModeShell || p.SessionID < 0 {
		return
	}
	ts.Router.Requests() <- router.Request{UserCommand: &router.UserCommandRequest{
		SessionID: p.SessionID,
		Bytes:     b,
	}}
}

// sendKeyToTerminal converts a key event to raw bytes and forwards it
// to the focused shell pane.
func (m *Model) sendKeyToTerminal(msg tea.KeyMsg) {
	data := keyToBytes(msg)
	if len(data) > 0 {
		m.sendBytesToTerminal(data)
	}
}

// scrollFocusedPane asks the router to move the focused pane's scroll
// window by delta lines; negative scrolls back into history.
func (m *Model) scrollFocusedPane(delta int) {
	ts := m.activeTab()
	p := m.focusedPane()
	if ts == nil || p == nil || ts.Router == nil || p.Mode != ui.PaneModeShell {
		return
	}
	ts.Router.Requests() <- router.Request{ScrollWindow: &router.ScrollWindowRequest{
		SessionID: p.SessionID,
		Scroll:    terminal.ScrollRequest{Move: &delta},
	}}
}

// resizeAllPanes recomputes the pty size of every shell pane that holds
// a session ID (SessionID >= 0, running or not) to match the current
// window and grid layout, one ResizeSession request per such pane.
func (m *Model) resizeAllPanes() {
	for ti := range m.tabs {
		ts := &m.tabs[ti]
		if ts.Router == nil || len(ts.Panes) == 0 {
			continue
		}
		w, h := m.gridRect()
		rects := ui.ComputeGrid(len(ts.Panes), w, h)
		for i, p := range ts.Panes {
			if p.Mode != ui.PaneModeShell || p.SessionID < 0 {
				continue
			}
			cols, rows := w, h
			if i < len(rects) {
				cols, rows = rects[i].Width-2, rects[i].Height-3
			}
			if cols < 1 {
				cols = 1
			}
			if rows < 1 {
				rows = 1
			}
			ts.Router.Requests() <- router.Request{ResizeSession: &router.ResizeSessionRequest{
				SessionID: p.SessionID,
				Cols:      cols,
				Rows:      rows,
				PageLines: rows,
			}}
		}
	}
}
