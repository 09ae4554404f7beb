package app

import (
	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/llmchat"
	"github.com/glacierterm/glacierterm/internal/transport"
	"github.com/glacierterm/glacierterm/internal/ui"
)

// ---------------------------------------------------------------------------
// Session persistence
// ---------------------------------------------------------------------------

// saveSession persists the current tab/pane layout to disk so it can be
// restored on the next launch. Passwords are never written; a shell
// pane's host, port and username are, so restoreSession can re-open
// the login dialog pre-filled rather than from scratch.
func (m *Model) saveSession() {
	state := config.SessionState{ActiveTab: m.tabIdx}

	for _, ts := range m.tabs {
		st := config.SavedTab{Name: ts.Tab.Name, FocusIdx: ts.FocusIdx}
		for _, p := range ts.Panes {
			sp := config.SavedPane{Name: p.Name, Mode: int(p.Mode)}
			if p.Mode == ui.PaneModeShell {
				sp.Host = ts.Creds.Host
				sp.Port = ts.Creds.Port
				sp.Username = ts.Creds.Username
			}
			if p.Mode == ui.PaneModeAIChat && p.Chat != nil {
				sp.ChatTranscriptID = p.Chat.ID
			}
			st.Panes = append(st.Panes, sp)
		}
		state.Tabs = append(state.Tabs, st)
	}

	_ = config.SaveSession(state)
}

// restoreSession recreates the saved tab/pane layout. AI chat panes
// resume immediately from their saved transcript. Shell panes come
// back as inactive placeholders carrying the saved host/port/username;
// since the password was never persisted, the user presses Ctrl+R to
// reopen the login dialog pre-filled with those fields and finish
// reconnecting. Returns true if anything was restored.
func (m *Model) restoreSession() bool {
	saved := config.LoadSession()
	if saved == nil {
		return false
	}

	for _, st := range saved.Tabs {
		ts := tabState{Tab: ui.Tab{Name: st.Name}}

		for _, sp := range st.Panes {
			switch ui.PaneMode(sp.Mode) {
			case ui.PaneModeAIChat:
				ts.Panes = append(ts.Panes, ui.PaneInfo{
					Name: sp.Name,
					Mode: ui.PaneModeAIChat,
					Chat: llmchat.NewPane(sp.ChatTranscriptID, m.llm),
				})
			default:
				label := ""
				if sp.Host != "" {
					label = hostLabel(transport.Credentials{Host: sp.Host, Port: sp.Port, Username: sp.Username})
					if ts.Tab.HostLabel == "" {
						ts.Tab.HostLabel = label
						ts.Creds = transport.Credentials{Host: sp.Host, Port: sp.Port, Username: sp.Username}
					}
				}
				ts.Panes = append(ts.Panes, ui.PaneInfo{
					SessionID: -2, // parked: needs Ctrl+R to re-dial, never auto-resolves
					Name:      sp.Name,
					Mode:      ui.PaneModeShell,
					HostLabel: label,
					Running:   false,
				})
			}
		}

		if st.FocusIdx >= 0 && st.FocusIdx < len(ts.Panes) {
			ts.FocusIdx = st.FocusIdx
		}
		m.tabs = append(m.tabs, ts)
	}

	if saved.ActiveTab >= 0 && saved.ActiveTab < len(m.tabs) {
		m.tabIdx = saved.ActiveTab
	} else if len(m.tabs) > 0 {
		m.tabIdx = 0
	}

	return len(m.tabs) > 0
}
