package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/llmclient"
	"github.com/glacierterm/glacierterm/internal/transport"
	"github.com/glacierterm/glacierterm/internal/ui"
)

func TestSaveSession_NeverPersistsPassword(t *testing.T) {
	withTempHome(t)
	m := newTestModel()
	m.llm = llmclient.New("localhost", 1)
	m.tabs = []tabState{{
		Tab:   ui.Tab{Name: "build"},
		Creds: transport.Credentials{Host: "h", Port: 22, Username: "u", Password: "super-secret"},
		Panes: []ui.PaneInfo{{Name: "bash", Mode: ui.PaneModeShell, SessionID: 1}},
	}}
	m.tabIdx = 0

	m.saveSession()

	saved := config.LoadSession()
	if saved == nil {
		t.Fatal("expected a saved session on disk")
	}
	if len(saved.Tabs) != 1 || len(saved.Tabs[0].Panes) != 1 {
		t.Fatalf("unexpected saved shape: %+v", saved)
	}
	sp := saved.Tabs[0].Panes[0]
	if sp.Host != "h" || sp.Port != 22 || sp.Username != "u" {
		t.Errorf("saved host fields = %+v", sp)
	}
	raw, err := os.ReadFile(filepath.Join(os.Getenv("HOME"), ".glacierterm-session.json"))
	if err != nil {
		t.Fatalf("reading the saved session file: %v", err)
	}
	if strings.Contains(string(raw), m.tabs[0].Creds.Password) {
		t.Error("the saved session file contains the password")
	}
}

func TestSaveSession_SavesChatTranscriptID(t *testing.T) {
	withTempHome(t)
	m := newTestModel()
	m.llm = llmclient.New("localhost", 1)
	m.addChatPane()

	m.saveSession()

	saved := config.LoadSession()
	if saved == nil {
		t.Fatal("expected a saved session on disk")
	}
	sp := saved.Tabs[0].Panes[0]
	if sp.ChatTranscriptID == "" {
		t.Error("expected a non-empty ChatTranscriptID for an AI chat pane")
	}
	if sp.Mode != int(ui.PaneModeAIChat) {
		t.Errorf("Mode = %d, want %d", sp.Mode, ui.PaneModeAIChat)
	}
}

func TestRestoreSession_NoSavedFileReturnsFalse(t *testing.T) {
	withTempHome(t)
	m := newTestModel()
	if m.restoreSession() {
		t.Error("restoreSession should return false with nothing on disk")
	}
}

func TestRestoreSession_ShellPaneComesBackParked(t *testing.T) {
	withTempHome(t)
	state := config.SessionState{
		ActiveTab: 0,
		Tabs: []config.SavedTab{{
			Name:     "build",
			FocusIdx: 0,
			Panes: []config.SavedPane{
				{Name: "bash", Mode: int(ui.PaneModeShell), Host: "h", Port: 22, Username: "u"},
			},
		}},
	}
	if err := config.SaveSession(state); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	m := newTestModel()
	if !m.restoreSession() {
		t.Fatal("expected restoreSession to report restored state")
	}
	if len(m.tabs) != 1 || len(m.tabs[0].Panes) != 1 {
		t.Fatalf("unexpected restored shape: %+v", m.tabs)
	}

	p := m.tabs[0].Panes[0]
	if p.SessionID != -2 {
		t.Errorf("SessionID = %d, want -2 (parked)", p.SessionID)
	}
	if p.Running {
		t.Error("a restored shell pane should not be Running")
	}
	if m.tabs[0].Creds.Host != "h" || m.tabs[0].Creds.Username != "u" {
		t.Errorf("restored creds = %+v", m.tabs[0].Creds)
	}
}

func TestRestoreSession_ChatPaneResumesImmediately(t *testing.T) {
	withTempHome(t)
	if err := config.UpdateChatRecord(config.ChatTranscript{
		ID:       "chat-1",
		Messages: []config.ChatMessage{{Role: "user", Text: "hi"}},
	}); err != nil {
		t.Fatalf("UpdateChatRecord failed: %v", err)
	}
	state := config.SessionState{
		ActiveTab: 0,
		Tabs: []config.SavedTab{{
			Name: "AI chat",
			Panes: []config.SavedPane{
				{Name: "AI", Mode: int(ui.PaneModeAIChat), ChatTranscriptID: "chat-1"},
			},
		}},
	}
	if err := config.SaveSession(state); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	m := newTestModel()
	m.llm = llmclient.New("localhost", 1)
	m.restoreSession()

	p := m.tabs[0].Panes[0]
	if p.Chat == nil {
		t.Fatal("expected a Chat pane to be attached")
	}
	if len(p.Chat.Transcript.Messages) != 1 || p.Chat.Transcript.Messages[0].Text != "hi" {
		t.Errorf("restored transcript = %+v", p.Chat.Transcript.Messages)
	}
}
