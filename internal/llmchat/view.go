package llmchat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")) // ui.ColorSecondary
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")) // ui.ColorPrimary
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))            // ui.ColorTextDim
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))            // ui.ColorDanger
	inputBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")). // ui.ColorBorder
			Padding(0, 1)
)

// Render draws the pane's transcript and input box inside a width x height area.
func (p *Pane) Render(width, height int) string {
	if width < 4 || height < 4 {
		return ""
	}

	bodyHeight := height - 3 // reserve the bottom bordered input row
	body := p.renderTranscript(width, bodyHeight)

	input := p.InputText()
	if p.streaming {
		input = "…waiting for response"
	}
	box := inputBoxStyle.Width(width - 2).Render(input)

	return lipgloss.JoinVertical(lipgloss.Left, body, box)
}

func (p *Pane) renderTranscript(width, height int) string {
	var lines []string
	for _, m := range p.Transcript.Messages {
		style := userStyle
		label := "you"
		if m.Role == "assistant" {
			style = assistantStyle
			label = "assistant"
		}
		lines = append(lines, style.Render(label+":"))
		lines = append(lines, wrap(m.Text, width)...)
		lines = append(lines, "")
	}
	if p.streaming {
		lines = append(lines, assistantStyle.Render("assistant:"))
		lines = append(lines, wrap(pendingStyle.Render(p.pending.String())+pendingStyle.Render(" ▌"), width)...)
	}
	if p.err != nil {
		lines = append(lines, errStyle.Render("error: "+p.err.Error()))
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return out
}
