// Package router implements the MessageRouter seam: one goroutine per
// connected host (Run) that both dispatches UI requests to the right
// session and publishes session updates when a per-session output
// forwarder wakes it. It is the Go
// equivalent of original_source's RemoteAgent, minus the self-pipe —
// a buffered wakeup channel plus select does the same job.
package router

import (
	"fmt"
	"log"
	"sync"

	"github.com/glacierterm/glacierterm/internal/terminal"
	"github.com/glacierterm/glacierterm/internal/transport"
)

// Request is a UI→controller message.
type Request struct {
	Login          *LoginRequest
	NewSession     *NewSessionRequest
	UserCommand    *UserCommandRequest
	RemoveSession  *RemoveSessionRequest
	ScrollWindow   *ScrollWindowRequest
	ReconnectShell *ReconnectShellRequest
	ResizeSession  *ResizeSessionRequest
}

type LoginRequest struct {
	Creds         transport.Credentials
	PageLineCount int
}

// NewSessionRequest opens another shell channel on a tab's already-
// dialed host, so a tab can hold more than one pane without a second
// login dialog.
type NewSessionRequest struct {
	PageLineCount int
}

// ResizeSessionRequest renegotiates a session's pty size and viewport
// height together, e.g. after the terminal window or a pane's grid
// rect changes.
type ResizeSessionRequest struct {
	SessionID int
	Cols      int
	Rows      int
	PageLines int
}

type UserCommandRequest struct {
	SessionID int
	Bytes     []byte
}

type RemoveSessionRequest struct {
	SessionID int
}

type ScrollWindowRequest struct {
	SessionID int
	Scroll    terminal.ScrollRequest
}

type ReconnectShellRequest struct {
	SessionID int
}

// Response is a controller→UI message.
type Response struct {
	LoginRsp           *LoginRsp
	SessionViewContent *SessionViewContent
	SessionInactive    *SessionInactive
	ReconnectShellFail *ReconnectShellFail
}

type LoginRsp struct {
	SessionID int
	Err       error
}

type SessionViewContent struct {
	SessionID  int
	Projection terminal.Projection
	Styles     *terminal.StyleEngine
	Activity   terminal.ActivityState
	CostHint   string
}

type SessionInactive struct {
	SessionID int
}

type ReconnectShellFail struct {
	SessionID int
	Err       error
}

// Router owns every session opened against one dialed host and the
// channels that carry UI requests in and responses out.
type Router struct {
	mu       sync.Mutex
	host     *transport.Host
	creds    transport.Credentials
	sessions map[int]*terminal.Session
	nextID   int

	requests  chan Request
	responses chan Response
	wake      chan struct{}
	done      chan struct{}
}

// New returns a Router with no host attached yet; send a Request with
// Login set to dial one.
func New() *Router {
	return &Router{
		sessions:  make(map[int]*terminal.Session),
		requests:  make(chan Request, 64),
		responses: make(chan Response, 64),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Requests returns the channel the UI sends Requests on.
func (r *Router) Requests() chan Request { return r.requests }

// Responses returns the channel the UI receives Responses from.
func (r *Router) Responses() <-chan Response { return r.responses }

// Run drains the request channel and every live session's OutputCh
// until Stop is called, dispatching work to the right session and
// publishing responses. It is meant to run on its own goroutine.
func (r *Router) Run() {
	for {
		select {
		case <-r.done:
			return
		case req := <-r.requests:
			r.handleRequest(req)
		case <-r.wake:
			r.deliverAllSessionUpdates()
		}
	}
}

// Stop shuts the router down and disconnects its host, if any.
func (r *Router) Stop() {
	close(r.done)
	r.mu.Lock()
	host := r.host
	r.mu.Unlock()
	if host != nil {
		log.Println("[Stop] closing host connection")
		host.Close()
	}
}

func (r *Router) handleRequest(req Request) {
	switch {
	case req.Login != nil:
		r.handleLogin(*req.Login)
	case req.NewSession != nil:
		r.handleNewSession(*req.NewSession)
	case req.UserCommand != nil:
		r.handleUserCommand(*req.UserCommand)
	case req.RemoveSession != nil:
		r.handleRemoveSession(*req.RemoveSession)
	case req.ScrollWindow != nil:
		r.handleScrollWindow(*req.ScrollWindow)
	case req.ReconnectShell != nil:
		r.handleReconnect(*req.ReconnectShell)
	case req.ResizeSession != nil:
		r.handleResizeSession(*req.ResizeSession)
	}
}

func (r *Router) handleLogin(req LoginRequest) {
	host, err := transport.Dial(req.Creds, 0)
	if err != nil {
		log.Printf("[Login] dial %s@%s failed: %v", req.Creds.Username, req.Creds.Host, err)
		r.publish(Response{LoginRsp: &LoginRsp{Err: err}})
		return
	}

	r.mu.Lock()
	r.host = host
	r.creds = req.Creds
	r.mu.Unlock()

	id, err := r.addSession(req.PageLineCount)
	if err != nil {
		log.Printf("[Login] session open on %s failed: %v", req.Creds.Host, err)
	}
	r.publish(Response{LoginRsp: &LoginRsp{SessionID: id, Err: err}})
}

// handleNewSession opens another pane on the router's already-dialed
// host, reusing handleLogin's LoginRsp shape since the fields a caller
// needs (the new session's ID, or an error) are identical.
func (r *Router) handleNewSession(req NewSessionRequest) {
	id, err := r.addSession(req.PageLineCount)
	r.publish(Response{LoginRsp: &LoginRsp{SessionID: id, Err: err}})
}

func (r *Router) handleResizeSession(req ResizeSessionRequest) {
	sess := r.session(req.SessionID)
	if sess == nil {
		return
	}
	_ = sess.Resize(req.Cols, req.Rows, req.PageLines)
}

// addSession opens a new shell channel on the router's host and wires
// a Session to it, forwarding its OutputCh signals into the router's
// wakeup channel so Run picks up the resulting projection.
func (r *Router) addSession(pageLineCount int) (int, error) {
	r.mu.Lock()
	host := r.host
	id := r.nextID
	r.nextID++
	r.mu.Unlock()

	if host == nil {
		return 0, fmt.Errorf("not connected")
	}

	ch, err := host.OpenShell(transport.DefaultPtyRequest(pageLineCount))
	if err != nil {
		return 0, err
	}

	sess := terminal.NewSession(id, 210, pageLineCount)
	sess.Start(ch)

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()

	go r.forwardOutput(sess)
	return id, nil
}

// forwardOutput relays a session's output/done signals into the
// router's wakeup channel, so Run (the only goroutine allowed to touch
// shared router state) does the actual projection and publish.
func (r *Router) forwardOutput(sess *terminal.Session) {
	for {
		select {
		case <-sess.OutputCh:
			r.nudge()
		case <-sess.Done():
			r.nudge()
			return
		}
	}
}

func (r *Router) nudge() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Router) deliverAllSessionUpdates() {
	r.mu.Lock()
	snapshot := make([]*terminal.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.Unlock()

	for _, s := range snapshot {
		if !s.IsRunning() {
			log.Printf("[Session] session %d went inactive", s.ID)
			r.publish(Response{SessionInactive: &SessionInactive{SessionID: s.ID}})
			continue
		}
		if !s.Doc.Dirty() {
			continue
		}
		r.publish(Response{SessionViewContent: &SessionViewContent{
			SessionID:  s.ID,
			Projection: s.Projector.Project(),
			Styles:     s.Doc.Styles(),
			Activity:   s.CurrentActivity(),
			CostHint:   s.ScanCost(),
		}})
	}
}

func (r *Router) handleUserCommand(req UserCommandRequest) {
	sess := r.session(req.SessionID)
	if sess == nil {
		return
	}
	sess.Write(req.Bytes)
}

func (r *Router) handleScrollWindow(req ScrollWindowRequest) {
	sess := r.session(req.SessionID)
	if sess == nil {
		return
	}
	sess.Projector.HandleScroll(req.Scroll)
	r.publish(Response{SessionViewContent: &SessionViewContent{
		SessionID:  sess.ID,
		Projection: sess.Projector.Project(),
		Styles:     sess.Doc.Styles(),
	}})
}

func (r *Router) handleRemoveSession(req RemoveSessionRequest) {
	r.mu.Lock()
	sess, ok := r.sessions[req.SessionID]
	if ok {
		delete(r.sessions, req.SessionID)
	}
	r.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// handleReconnect re-dials the router's host and opens a fresh shell
// channel for an inactive session's pty size, replacing its transport
// in place — the ScreenDocument and scrollback survive.
func (r *Router) handleReconnect(req ReconnectShellRequest) {
	sess := r.session(req.SessionID)
	if sess == nil {
		r.publish(Response{ReconnectShellFail: &ReconnectShellFail{
			SessionID: req.SessionID, Err: fmt.Errorf("no such session"),
		}})
		return
	}

	r.mu.Lock()
	creds := r.creds
	r.mu.Unlock()

	log.Printf("[Reconnect] session %d re-dialing %s", req.SessionID, creds.Host)
	host, err := transport.Dial(creds, 0)
	if err != nil {
		log.Printf("[Reconnect] session %d dial failed: %v", req.SessionID, err)
		r.publish(Response{ReconnectShellFail: &ReconnectShellFail{SessionID: req.SessionID, Err: err}})
		return
	}
	ch, err := host.OpenShell(transport.DefaultPtyRequest(sess.Projector.PageLines()))
	if err != nil {
		log.Printf("[Reconnect] session %d shell open failed: %v", req.SessionID, err)
		r.publish(Response{ReconnectShellFail: &ReconnectShellFail{SessionID: req.SessionID, Err: err}})
		return
	}

	r.mu.Lock()
	r.host = host
	r.mu.Unlock()

	log.Printf("[Reconnect] session %d reconnected", req.SessionID)
	sess.Start(ch)
	go r.forwardOutput(sess)
}

func (r *Router) session(id int) *terminal.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

func (r *Router) publish(resp Response) {
	select {
	case r.responses <- resp:
	default:
		// UI is backed up; drop rather than block the router goroutine.
	}
}
