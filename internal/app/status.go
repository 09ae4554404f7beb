package app

import (
	"github.com/glacierterm/glacierterm/internal/ui"
)

// footerData assembles the data needed to render the global footer.
func (m *Model) footerData() ui.FooterData {
	d := ui.FooterData{
		TabCount:  len(m.tabs),
		TabIdx:    m.tabIdx,
		ThemeName: ui.ActiveTheme.Name,
		Zoomed:    m.zoomed,
	}

	ts := m.activeTab()
	if ts == nil {
		return d
	}

	d.HostLabel = ts.Tab.HostLabel
	d.PaneIdx = ts.FocusIdx

	if ts.FocusIdx >= 0 && ts.FocusIdx < len(ts.Panes) {
		p := ts.Panes[ts.FocusIdx]
		d.PaneName = p.Name
		d.CostHint = p.CostHint
		switch p.Mode {
		case ui.PaneModeAIChat:
			d.Mode = "AI"
		default:
			d.Mode = "Shell"
			d.Inactive = !p.Running
		}
	}

	return d
}
