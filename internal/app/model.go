// Package app contains the main Bubbletea model that orchestrates
// every SSH tab, pane and AI side panel in the terminal.
package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/llmchat"
	"github.com/glacierterm/glacierterm/internal/llmclient"
	"github.com/glacierterm/glacierterm/internal/router"
	"github.com/glacierterm/glacierterm/internal/transport"
	"github.com/glacierterm/glacierterm/internal/ui"
)

// routerRespMsg carries one router.Response back into Update, tagged
// with the Router it came from so a model holding several tabs (each
// owning its own Router, one per dialed host) can route it to the
// right tab without relying on a slice index that tab closure could
// invalidate.
type routerRespMsg struct {
	src  *router.Router
	resp router.Response
}

// tabState holds everything belonging to one tab. A tab wraps exactly
// one dialed SSH host; Router is nil until the login dialog submitted
// for this tab succeeds.
type tabState struct {
	Tab      ui.Tab
	Router   *router.Router
	Creds    transport.Credentials
	Panes    []ui.PaneInfo
	FocusIdx int
}

// Model is the root application model.
type Model struct {
	cfg      config.Config
	settings config.Settings
	llm      *llmclient.Client

	tabs   []tabState
	tabIdx int

	width  int
	height int

	dialog ui.Dialog
	// dialogTargetTab is the tab the login dialog's result attaches to:
	// -1 creates a brand-new tab, otherwise it reconnects an inactive
	// pane's host in that existing tab.
	dialogTargetTab int

	showHelp    bool
	quitting    bool
	lastCtrlC   time.Time
	zoomed      bool
	passthrough bool
}

// New creates the initial Model, restoring the previous run's tab/pane
// layout if a session file is present. Press Ctrl+T to log in when
// there is nothing to restore.
func New(cfg config.Config) Model {
	settings := config.LoadSettings()
	m := Model{
		cfg:             cfg,
		settings:        settings,
		llm:             llmclient.New(settings.LLMHost, settings.LLMPort),
		dialog:          ui.NewDialog(cfg),
		dialogTargetTab: -1,
		tabIdx:          -1,
	}
	m.restoreSession()
	return m
}

// Init is the Bubbletea initialiser.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update processes incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeAllPanes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, nil

	case routerRespMsg:
		return m.handleRouterResp(msg)

	case llmchat.DeltaMsg:
		return m.handleDelta(msg)
	}

	return m, nil
}

// listenRouter returns a Cmd that blocks for the next Response from r
// and wraps it as a routerRespMsg. Callers must re-issue the returned
// Cmd from handleRouterResp to keep draining; letting it drop stops
// delivery for that tab's host silently.
func listenRouter(r *router.Router) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-r.Responses()
		if !ok {
			return nil
		}
		return routerRespMsg{src: r, resp: resp}
	}
}

// tabByRouter finds the tab currently owning r, or nil if that tab
// has since been closed.
func (m *Model) tabByRouter(r *router.Router) *tabState {
	for i := range m.tabs {
		if m.tabs[i].Router == r {
			return &m.tabs[i]
		}
	}
	return nil
}

func (m Model) handleRouterResp(msg routerRespMsg) (tea.Model, tea.Cmd) {
	ts := m.tabByRouter(msg.src)
	if ts == nil {
		return m, nil // tab was closed while this response was in flight
	}

	switch {
	case msg.resp.LoginRsp != nil:
		applyLoginRsp(ts, *msg.resp.LoginRsp)
	case msg.resp.SessionViewContent != nil:
		applySessionView(ts, *msg.resp.SessionViewContent)
	case msg.resp.SessionInactive != nil:
		applySessionInactive(ts, msg.resp.SessionInactive.SessionID)
	case msg.resp.ReconnectShellFail != nil:
		applySessionInactive(ts, msg.resp.ReconnectShellFail.SessionID)
	}

	return m, listenRouter(msg.src)
}

// applyLoginRsp resolves the oldest placeholder pane (SessionID -1)
// waiting on a connection in ts, the pane created synchronously when
// the Login/NewSession request was sent.
func applyLoginRsp(ts *tabState, rsp router.LoginRsp) {
	for i := range ts.Panes {
		if ts.Panes[i].SessionID != -1 {
			continue
		}
		if rsp.Err != nil {
			ts.Panes[i].Name = fmt.Sprintf("failed: %v", rsp.Err)
			ts.Panes[i].Running = false
			ts.Panes[i].SessionID = -2 // parked: never resolves to a real session
		} else {
			ts.Panes[i].SessionID = rsp.SessionID
			ts.Panes[i].Running = true
		}
		return
	}
}

func applySessionView(ts *tabState, sv router.SessionViewContent) {
	for i := range ts.Panes {
		if ts.Panes[i].SessionID != sv.SessionID {
			continue
		}
		ts.Panes[i].Running = true
		ts.Panes[i].Projection = sv.Projection
		ts.Panes[i].Styles = sv.Styles
		ts.Panes[i].Activity = sv.Activity
		ts.Panes[i].CostHint = sv.CostHint
		return
	}
}

func applySessionInactive(ts *tabState, sessionID int) {
	for i := range ts.Panes {
		if ts.Panes[i].SessionID == sessionID {
			ts.Panes[i].Running = false
			return
		}
	}
}

// handleDelta routes a streamed chat chunk to the pane it belongs to,
// wherever that pane currently lives across tabs.
func (m Model) handleDelta(msg llmchat.DeltaMsg) (tea.Model, tea.Cmd) {
	for ti := range m.tabs {
		for pi := range m.tabs[ti].Panes {
			p := m.tabs[ti].Panes[pi].Chat
			if p == nil || p.ID != msg.PaneID {
				continue
			}
			cmd := p.HandleDelta(msg.Delta)
			return m, cmd
		}
	}
	return m, nil
}
