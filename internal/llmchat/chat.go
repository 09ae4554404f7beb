// Package llmchat implements the AI side panel as a real bubbletea
// pane: a scrolling transcript fed by internal/llmclient's streaming
// client and persisted through internal/config's chat record store.
package llmchat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/llmclient"
)

// DeltaMsg carries one streamed chunk back into the bubbletea update
// loop, tagged with the pane it belongs to so a model holding several
// chat panes can route it.
type DeltaMsg struct {
	PaneID string
	Delta  llmclient.Delta
}

// Pane is one AI-chat pane's state: its persisted transcript, an
// in-flight prompt being composed, and the streaming response still
// arriving for the last submitted prompt.
type Pane struct {
	ID         string
	Transcript config.ChatTranscript

	client *llmclient.Client

	input     strings.Builder
	streaming bool
	pending   strings.Builder
	deltas    chan llmclient.Delta
	err       error
}

// NewPane returns a Pane backed by the given LLM client, loading any
// previously saved transcript for id.
func NewPane(id string, client *llmclient.Client) *Pane {
	p := &Pane{ID: id, client: client}
	if saved, ok := config.LoadChatRecords()[id]; ok {
		p.Transcript = saved
	} else {
		p.Transcript = config.ChatTranscript{ID: id}
	}
	return p
}

// IsStreaming reports whether a response is still arriving.
func (p *Pane) IsStreaming() bool { return p.streaming }

// Err returns the most recent streaming error, if any.
func (p *Pane) Err() error { return p.err }

// TypeRune appends a rune to the prompt being composed. It is a no-op
// while a response is streaming, matching the teacher's pattern of
// disabling input until the current operation settles.
func (p *Pane) TypeRune(r rune) {
	if p.streaming {
		return
	}
	p.input.WriteRune(r)
}

// Backspace removes the last rune of the composed prompt.
func (p *Pane) Backspace() {
	if p.streaming {
		return
	}
	s := p.input.String()
	if s == "" {
		return
	}
	runes := []rune(s)
	p.input.Reset()
	p.input.WriteString(string(runes[:len(runes)-1]))
}

// InputText returns the prompt composed so far.
func (p *Pane) InputText() string { return p.input.String() }

// Submit starts streaming a response to the composed prompt and
// clears the input box. It returns the tea.Cmd that listens for the
// first delta; callers must keep re-issuing the Cmd returned from
// HandleDelta to keep draining the stream.
func (p *Pane) Submit() tea.Cmd {
	prompt := strings.TrimSpace(p.input.String())
	if prompt == "" || p.streaming {
		return nil
	}
	p.input.Reset()
	p.Transcript.Messages = append(p.Transcript.Messages, config.ChatMessage{Role: "user", Text: prompt})
	p.streaming = true
	p.err = nil
	p.pending.Reset()
	p.deltas = make(chan llmclient.Delta, 8)

	go p.client.StreamChat(context.Background(), prompt, p.deltas)

	return p.listenCmd()
}

func (p *Pane) listenCmd() tea.Cmd {
	ch := p.deltas
	id := p.ID
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return DeltaMsg{PaneID: id, Delta: llmclient.Delta{Done: true}}
		}
		return DeltaMsg{PaneID: id, Delta: d}
	}
}

// HandleDelta applies one streamed chunk to the pane and, if the
// stream isn't finished, returns the Cmd to keep listening for the
// next one.
func (p *Pane) HandleDelta(d llmclient.Delta) tea.Cmd {
	if d.Err != nil {
		p.streaming = false
		p.err = d.Err
		return nil
	}
	if d.Done {
		p.streaming = false
		if p.pending.Len() > 0 {
			p.Transcript.Messages = append(p.Transcript.Messages, config.ChatMessage{Role: "assistant", Text: p.pending.String()})
			p.pending.Reset()
		}
		_ = config.UpdateChatRecord(p.Transcript)
		return nil
	}
	p.pending.WriteString(d.Text)
	return p.listenCmd()
}

// PendingText returns the partial assistant response accumulated so
// far this stream, for rendering before it is committed to Transcript.
func (p *Pane) PendingText() string { return p.pending.String() }
