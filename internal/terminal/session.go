package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// SessionStatus mirrors the lifecycle of the remote shell a Session
// wraps.
type SessionStatus int

const (
	StatusRunning SessionStatus = iota
	StatusExited
	StatusError
)

// ActivityState is a coarse read on what the remote shell is doing,
// inferred from recent output the same way the teacher's local-PTY
// sessions did, just against ScreenDocument's line text instead of a
// flat Screen grid.
type ActivityState int

const (
	ActivityIdle ActivityState = iota
	ActivityActive
	ActivityDone
	ActivityNeedsInput
)

// ShellChannel is the minimal transport seam a Session drives: bytes in
// (Write), bytes out (Read), a pty resize, and a way to tear it down.
// internal/transport's SSH session channel implements this; tests use
// an in-memory fake.
type ShellChannel interface {
	io.Reader
	io.Writer
	Resize(cols, rows int) error
	Close() error
}

// Session owns one ScreenDocument and the ShellChannel feeding it. All
// document mutation happens on the single goroutine running readLoop,
// matching the "ScreenDocument owned by one goroutine" rule.
type Session struct {
	mu sync.Mutex

	ID    int
	Title string

	Doc       *ScreenDocument
	Projector *ViewProjector
	decoder   *ByteStreamDecoder

	channel ShellChannel

	Status   SessionStatus
	ExitCode int

	done     chan struct{}
	OutputCh chan struct{}

	LastOutputAt time.Time
	Activity     ActivityState

	lastSent []byte
}

// NewSession returns a Session with a fresh ScreenDocument sized for
// the negotiated pty, not yet attached to a transport.
func NewSession(id int, cols, pageLines int) *Session {
	doc := NewScreenDocument(cols, pageLines)
	return &Session{
		ID:        id,
		Doc:       doc,
		Projector: NewViewProjector(doc, pageLines),
		decoder:   NewByteStreamDecoder(),
		done:      make(chan struct{}),
		OutputCh:  make(chan struct{}, 1),
	}
}

// Start attaches ch as the session's transport and launches its read
// loop. Calling it again after the previous transport finished (a
// reconnect) is fine: it gets a fresh done signal while keeping the
// same ScreenDocument and scrollback.
func (s *Session) Start(ch ShellChannel) {
	s.mu.Lock()
	s.channel = ch
	s.Status = StatusRunning
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.readLoop()
}

func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.channel.Read(buf)
		if n > 0 {
			tokens := s.decoder.Feed(buf[:n], s.takeLastSent())
			for _, tok := range tokens {
				s.Doc.ApplyToken(tok)
			}
			s.LastOutputAt = time.Now()
			s.DetectActivity()
			s.signalOutput()
		}
		if err != nil {
			s.finish(err)
			return
		}
	}
}

func (s *Session) signalOutput() {
	select {
	case s.OutputCh <- struct{}{}:
	default:
	}
}

func (s *Session) finish(err error) {
	s.mu.Lock()
	if err == io.EOF {
		s.Status = StatusExited
	} else {
		s.Status = StatusError
	}
	s.mu.Unlock()

	msg := "session closed"
	if err != nil && err != io.EOF {
		msg = fmt.Sprintf("session failed: %v", err)
	}
	s.Doc.InsertSessionFailure(msg)
	s.signalOutput()
	close(s.done)
}

// Write sends data to the remote shell and records it as the most
// recent user-originated bytes, so the decoder's flush gate lets a
// direct echo of them through even if it looks like a partial ANSI
// tail.
func (s *Session) Write(data []byte) (int, error) {
	s.mu.Lock()
	ch := s.channel
	s.lastSent = append([]byte(nil), data...)
	s.mu.Unlock()

	if ch == nil {
		return 0, fmt.Errorf("session %d: not attached to a transport", s.ID)
	}
	s.ResetActivity()
	return ch.Write(data)
}

func (s *Session) takeLastSent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.lastSent
	s.lastSent = nil
	return v
}

// Resize renegotiates the pty size and the viewport height together.
func (s *Session) Resize(cols, rows, pageLines int) error {
	s.mu.Lock()
	ch := s.channel
	s.mu.Unlock()

	s.Projector.Resize(pageLines)
	s.Doc.SetMaxRow(pageLines)
	if ch == nil {
		return nil
	}
	return ch.Resize(cols, rows)
}

// Close tears down the transport; the read loop observes the resulting
// error and marks the session exited.
func (s *Session) Close() error {
	s.mu.Lock()
	ch := s.channel
	s.mu.Unlock()
	if ch == nil {
		return nil
	}
	return ch.Close()
}

// Done reports when the session's transport has finished, successfully
// or not.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// IsRunning reports whether the transport is still attached and alive.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Status == StatusRunning
}

// ResetActivity marks the session active, called whenever the user
// sends input — output arriving right after a keystroke shouldn't read
// as "idle".
func (s *Session) ResetActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Activity = ActivityActive
}

// CurrentActivity reports the session's last-detected ActivityState.
func (s *Session) CurrentActivity() ActivityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Activity
}
