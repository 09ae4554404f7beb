// Package transport dials the remote hosts a Session talks to. It
// wraps golang.org/x/crypto/ssh the same way
// majorcontext-moat/internal/sshagent wraps it for agent signing: a
// thin, directly-testable seam around the library rather than a
// hand-rolled protocol implementation.
package transport

import (
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// Credentials is what a Login UI message collects before dialing.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string // used only if no agent identity authenticates
}

// PtyRequest is the pty allocation a Session asks for when it opens a
// shell channel: fixed terminal type and width, height following the
// viewport's configured page line count.
type PtyRequest struct {
	Term   string
	Width  int
	Height int
}

// DefaultPtyRequest matches the allocation spec: xterm, 210 columns,
// and the caller-supplied page line count for height.
func DefaultPtyRequest(pageLineCount int) PtyRequest {
	return PtyRequest{Term: "xterm", Width: 210, Height: pageLineCount}
}

// Host is a dialed SSH connection that can open any number of shell
// channels against it, one per pane.
type Host struct {
	client *ssh.Client
}

// Dial connects to host:port and authenticates, preferring a running
// ssh-agent's identities and falling back to the supplied password.
func Dial(creds Credentials, timeout time.Duration) (*Host, error) {
	auths := []ssh.AuthMethod{}
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if signers, err := agentSigners(sock); err == nil && len(signers) > 0 {
			auths = append(auths, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
				return signers, nil
			}))
		}
	}
	if creds.Password != "" {
		auths = append(auths, ssh.Password(creds.Password))
	}
	if len(auths) == 0 {
		return nil, fmt.Errorf("no authentication method available for %s", creds.Host)
	}

	cfg := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint: the host-key trust model is out of scope
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(creds.Host, portString(creds.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return &Host{client: client}, nil
}

func agentSigners(socketPath string) ([]ssh.Signer, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dialing ssh-agent: %w", err)
	}
	return agent.NewClient(conn).Signers()
}

func portString(port int) string {
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%d", port)
}

// OpenShell opens a new SSH session channel on h, requests a pty per
// req, and starts an interactive shell on it.
func (h *Host) OpenShell(req PtyRequest) (*ShellChannel, error) {
	session, err := h.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("opening session channel: %w", err)
	}
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty(req.Term, req.Height, req.Width, modes); err != nil {
		session.Close()
		return nil, fmt.Errorf("requesting pty: %w", err)
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("opening stdin pipe: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("opening stdout pipe: %w", err)
	}
	if err := session.Shell(); err != nil {
		session.Close()
		return nil, fmt.Errorf("starting shell: %w", err)
	}
	return &ShellChannel{session: session, stdin: stdin, stdout: stdout}, nil
}

// Close disconnects the underlying SSH client, tearing down every
// shell channel opened on it.
func (h *Host) Close() error {
	return h.client.Close()
}

// ShellChannel adapts an ssh.Session's stdin/stdout pipes to
// terminal.ShellChannel (Read/Write/Resize/Close).
type ShellChannel struct {
	session *ssh.Session
	stdin   interface{ Write([]byte) (int, error) }
	stdout  interface{ Read([]byte) (int, error) }
}

func (c *ShellChannel) Read(p []byte) (int, error)  { return c.stdout.Read(p) }
func (c *ShellChannel) Write(p []byte) (int, error) { return c.stdin.Write(p) }

func (c *ShellChannel) Resize(cols, rows int) error {
	return c.session.WindowChange(rows, cols)
}

func (c *ShellChannel) Close() error {
	return c.session.Close()
}
