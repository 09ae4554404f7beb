package app

import (
	"errors"
	"testing"

	"github.com/glacierterm/glacierterm/internal/llmchat"
	"github.com/glacierterm/glacierterm/internal/llmclient"
	"github.com/glacierterm/glacierterm/internal/router"
	"github.com/glacierterm/glacierterm/internal/terminal"
	"github.com/glacierterm/glacierterm/internal/ui"
)

func TestTabByRouter(t *testing.T) {
	m := newTestModel()
	r1 := router.New()
	r2 := router.New()
	m.tabs = []tabState{{Router: r1}, {Router: r2}}

	if got := m.tabByRouter(r2); got != &m.tabs[1] {
		t.Error("tabByRouter did not find the tab owning r2")
	}
	if got := m.tabByRouter(router.New()); got != nil {
		t.Error("tabByRouter should return nil for an unknown router")
	}
}

func TestApplyLoginRsp_Success(t *testing.T) {
	ts := &tabState{Panes: []ui.PaneInfo{pendingShellPane("h")}}
	applyLoginRsp(ts, router.LoginRsp{SessionID: 7})

	p := ts.Panes[0]
	if p.SessionID != 7 {
		t.Errorf("SessionID = %d, want 7", p.SessionID)
	}
	if !p.Running {
		t.Error("expected Running true on success")
	}
}

func TestApplyLoginRsp_Failure_ParksPane(t *testing.T) {
	ts := &tabState{Panes: []ui.PaneInfo{pendingShellPane("h")}}
	applyLoginRsp(ts, router.LoginRsp{Err: errors.New("auth failed")})

	p := ts.Panes[0]
	if p.SessionID != -2 {
		t.Errorf("SessionID = %d, want -2 (parked)", p.SessionID)
	}
	if p.Running {
		t.Error("expected Running false on failure")
	}
}

func TestApplyLoginRsp_OnlyResolvesFirstPendingPane(t *testing.T) {
	ts := &tabState{Panes: []ui.PaneInfo{
		{SessionID: 3, Running: true},
		pendingShellPane("h"),
		pendingShellPane("h"),
	}}
	applyLoginRsp(ts, router.LoginRsp{SessionID: 9})

	if ts.Panes[1].SessionID != 9 {
		t.Errorf("first pending pane SessionID = %d, want 9", ts.Panes[1].SessionID)
	}
	if ts.Panes[2].SessionID != -1 {
		t.Errorf("second pending pane should stay untouched, got %d", ts.Panes[2].SessionID)
	}
}

func TestApplySessionView_UpdatesMatchingPane(t *testing.T) {
	ts := &tabState{Panes: []ui.PaneInfo{{SessionID: 1}, {SessionID: 2}}}
	applySessionView(ts, router.SessionViewContent{
		SessionID: 2,
		CostHint:  "$0.04",
		Activity:  terminal.ActivityDone,
	})

	if ts.Panes[0].CostHint != "" {
		t.Error("pane 0 should be untouched")
	}
	if ts.Panes[1].CostHint != "$0.04" {
		t.Errorf("CostHint = %q, want '$0.04'", ts.Panes[1].CostHint)
	}
	if !ts.Panes[1].Running {
		t.Error("expected Running true after a view update")
	}
}

func TestApplySessionInactive_MarksPaneNotRunning(t *testing.T) {
	ts := &tabState{Panes: []ui.PaneInfo{{SessionID: 1, Running: true}}}
	applySessionInactive(ts, 1)

	if ts.Panes[0].Running {
		t.Error("expected Running false after SessionInactive")
	}
}

func TestHandleRouterResp_UnknownTabIsNoop(t *testing.T) {
	m := newTestModel()
	r := router.New()
	_, cmd := m.handleRouterResp(routerRespMsg{src: r, resp: router.Response{}})
	if cmd != nil {
		t.Error("a response for a closed tab's router should not re-arm listenRouter")
	}
}

func TestHandleRouterResp_AppliesLoginRspAndRelistens(t *testing.T) {
	m := newTestModel()
	r := router.New()
	m.tabs = []tabState{{Router: r, Panes: []ui.PaneInfo{pendingShellPane("h")}}}

	newModel, cmd := m.handleRouterResp(routerRespMsg{
		src:  r,
		resp: router.Response{LoginRsp: &router.LoginRsp{SessionID: 5}},
	})
	if cmd == nil {
		t.Error("expected handleRouterResp to re-issue listenRouter")
	}
	nm := newModel.(Model)
	if nm.tabs[0].Panes[0].SessionID != 5 {
		t.Errorf("SessionID = %d, want 5", nm.tabs[0].Panes[0].SessionID)
	}
}

func TestHandleDelta_RoutesToMatchingPane(t *testing.T) {
	withTempHome(t)
	m := newTestModel()
	client := llmclient.New("localhost", 1)
	p1 := llmchat.NewPane("p1", client)
	p2 := llmchat.NewPane("p2", client)
	m.tabs = []tabState{{Panes: []ui.PaneInfo{
		{Mode: ui.PaneModeAIChat, Chat: p1},
		{Mode: ui.PaneModeAIChat, Chat: p2},
	}}}

	_, cmd := m.handleDelta(llmchat.DeltaMsg{PaneID: "p2", Delta: llmclient.Delta{Text: "x"}})
	// HandleDelta on a non-streaming pane still appends to pending and
	// returns a listen Cmd, since it doesn't check IsStreaming itself.
	if cmd == nil {
		t.Error("expected a relisten Cmd from the matched pane")
	}
	if p2.PendingText() != "x" {
		t.Errorf("PendingText = %q, want 'x' (delta should reach pane p2)", p2.PendingText())
	}
	if p1.PendingText() != "" {
		t.Error("pane p1 should not have received the delta meant for p2")
	}
}

func TestHandleDelta_NoMatchIsNoop(t *testing.T) {
	m := newTestModel()
	_, cmd := m.handleDelta(llmchat.DeltaMsg{PaneID: "ghost"})
	if cmd != nil {
		t.Error("expected nil Cmd when no pane matches")
	}
}
