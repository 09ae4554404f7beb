package app

import tea "github.com/charmbracelet/bubbletea"

// ---------------------------------------------------------------------------
// Key‐binding helpers
// ---------------------------------------------------------------------------

// isKey checks whether a tea.KeyMsg matches a given key type (e.g. tea.KeyCtrlT).
func isKey(msg tea.KeyMsg, k tea.KeyType) bool {
	return msg.Type == k
}

// ---------------------------------------------------------------------------
// Shortcut help text (shown in the help overlay)
// ---------------------------------------------------------------------------

// ShortcutHelp returns the full help text displayed when the user presses Ctrl+K.
func ShortcutHelp() string {
	return `
╔════════════════════════════════════════════════════════════╗
║                 GlacierTerm – Shortcuts                    ║
╠════════════════════════════════════════════════════════════╣
║                                                            ║
║  Tabs (one SSH host per tab)                               ║
║    Ctrl+T         Log in to a host, opening a new tab       ║
║    Ctrl+W         Close current tab                        ║
║    Alt+1..Alt+9   Switch to tab N                           ║
║                                                            ║
║  Panes                                                     ║
║    Ctrl+N         New shell pane on the current tab's host ║
║    Ctrl+Y         New AI chat pane on the current tab       ║
║    Ctrl+X         Close focused pane                        ║
║    Ctrl+Z         Zoom (maximise/restore) focused pane      ║
║    Ctrl+R         Reconnect an inactive shell pane           ║
║    ←↑↓→           Navigate between panes                    ║
║    Tab            Cycle focus to next pane                  ║
║    PgUp/PgDn      Scroll focused pane's scrollback           ║
║    Ctrl+G         Passthrough mode (all keys to the pane)   ║
║                                                            ║
║  General                                                    ║
║    Ctrl+K         Show/hide this help                       ║
║    Ctrl+C (×2)    Quit                                      ║
║                                                            ║
║  Status                                                     ║
║    Cost hint parsed from scrollback, shown in pane title    ║
║    and footer. Inactive panes show a reconnect hint.        ║
║    Theme: set "theme" in ~/.glacierterm.yaml                ║
║      Available: dark, light, dracula, nord, solarized       ║
║                                                            ║
╚════════════════════════════════════════════════════════════╝`
}
