package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glacierterm/glacierterm/internal/ui"
)

// handleKey routes keyboard input. Ctrl+letter combos are global app
// shortcuts; passthrough mode (toggled with Ctrl+G) suspends all of
// them except Ctrl+G itself so a shell program that wants the same
// combo (readline, vim, …) can have it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog.Visible {
		return m.handleDialogKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.passthrough {
		if isKey(msg, tea.KeyCtrlG) {
			m.passthrough = false
			return m, nil
		}
		cmd := m.forwardToFocusedPane(msg)
		return m, cmd
	}

	if isKey(msg, tea.KeyCtrlC) {
		if time.Since(m.lastCtrlC) < 500*time.Millisecond {
			m.quitting = true
			m.saveSession()
			m.closeAllSessions()
			return m, tea.Quit
		}
		m.lastCtrlC = time.Now()
		m.forwardToFocusedPane(msg)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlT:
		m.dialog.Open()
		m.dialogTargetTab = -1
		return m, nil

	case tea.KeyCtrlW:
		m.closeCurrentTab()
		return m, nil

	case tea.KeyCtrlN:
		m.addShellPane()
		return m, nil

	case tea.KeyCtrlY:
		m.addChatPane()
		return m, nil

	case tea.KeyCtrlX:
		m.closeFocusedPane()
		return m, nil

	case tea.KeyCtrlZ:
		m.zoomed = !m.zoomed
		return m, nil

	case tea.KeyCtrlR:
		m.reconnectOrPrompt()
		return m, nil

	case tea.KeyCtrlG:
		m.passthrough = true
		return m, nil

	case tea.KeyCtrlK:
		m.showHelp = true
		return m, nil

	case tea.KeyTab:
		m.cyclePaneFocus()
		return m, nil

	case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight:
		m.navigatePane(msg.Type)
		return m, nil

	case tea.KeyPgUp:
		m.scrollFocusedPane(-m.scrollStep())
		return m, nil

	case tea.KeyPgDown:
		m.scrollFocusedPane(m.scrollStep())
		return m, nil
	}

	// Alt+1..Alt+9 switches tabs, kept off the bare digits so typing a
	// digit into a shell or chat pane still works.
	if msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if r >= '1' && r <= '9' {
			m.gotoTab(int(r - '1'))
			return m, nil
		}
	}

	// A bare r on an inactive shell pane reconnects it, the same as Ctrl+R.
	if !msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] == 'r' {
		if p := m.focusedPane(); p != nil && p.Mode == ui.PaneModeShell && !p.Running {
			m.reconnectOrPrompt()
			return m, nil
		}
	}

	cmd := m.forwardToFocusedPane(msg)
	return m, cmd
}

// scrollStep is half the pane grid's height, the amount one PgUp/PgDn
// press moves the scroll window.
func (m Model) scrollStep() int {
	_, h := m.gridRect()
	step := h / 2
	if step < 1 {
		step = 1
	}
	return step
}

// forwardToFocusedPane sends a key event to whatever the focused pane
// consumes: chat text for an AI pane, raw bytes for a shell pane.
func (m Model) forwardToFocusedPane(msg tea.KeyMsg) tea.Cmd {
	p := m.focusedPane()
	if p == nil {
		return nil
	}

	if p.Mode == ui.PaneModeAIChat && p.Chat != nil {
		switch msg.Type {
		case tea.KeyEnter:
			return p.Chat.Submit()
		case tea.KeyBackspace:
			p.Chat.Backspace()
		case tea.KeySpace:
			p.Chat.TypeRune(' ')
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				p.Chat.TypeRune(r)
			}
		}
		return nil
	}

	m.sendKeyToTerminal(msg)
	return nil
}

// handleDialogKey processes keys while the login dialog is open.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.dialog.Close()
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.dialog.NextField()
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.dialog.PrevField()
		return m, nil

	case tea.KeyBackspace:
		m.dialog.Backspace()
		return m, nil

	case tea.KeySpace:
		m.dialog.TypeRune(' ')
		return m, nil

	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.dialog.TypeRune(r)
		}
		return m, nil

	case tea.KeyEnter:
		creds, pageLines, ok := m.dialog.Submit()
		if !ok {
			return m, nil
		}
		m.dialog.Close()
		target := m.dialogTargetTab
		m.dialogTargetTab = -1
		if target < 0 {
			return m, m.startLogin(creds, pageLines)
		}
		return m, m.reconnectTab(target, creds, pageLines)
	}
	return m, nil
}
