package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/transport"
)

// LoginField indexes the fields of the login dialog's form.
type LoginField int

const (
	FieldHost LoginField = iota
	FieldPort
	FieldUsername
	FieldPassword
	FieldPageLines
	fieldCount
)

var loginFieldLabels = [fieldCount]string{
	FieldHost:      "Host",
	FieldPort:      "Port",
	FieldUsername:  "Username",
	FieldPassword:  "Password",
	FieldPageLines: "Page lines",
}

// Dialog is the modal login form that collects the fields spec.md's
// Login message needs: hostname, port, username, password and the
// page line count used for pty allocation.
type Dialog struct {
	Visible bool
	Focus   LoginField
	Fields  [fieldCount]string
	Err     string
}

// NewDialog creates a dialog pre-populated with config defaults.
func NewDialog(cfg config.Config) Dialog {
	d := Dialog{}
	d.Fields[FieldPort] = strconv.Itoa(cfg.DefaultSSHPort)
	d.Fields[FieldPageLines] = "48"
	return d
}

// Open makes the dialog visible, keeping whatever was typed before.
func (d *Dialog) Open() {
	d.Visible = true
	d.Focus = FieldHost
	d.Err = ""
}

// Prefill opens the dialog with host/port/username already filled in,
// focused on the password field — used to reconnect a pane restored
// from a saved session, whose password was never persisted.
func (d *Dialog) Prefill(creds transport.Credentials, pageLineCount int) {
	d.Visible = true
	d.Fields[FieldHost] = creds.Host
	d.Fields[FieldPort] = strconv.Itoa(creds.Port)
	d.Fields[FieldUsername] = creds.Username
	d.Fields[FieldPassword] = ""
	if pageLineCount > 0 {
		d.Fields[FieldPageLines] = strconv.Itoa(pageLineCount)
	}
	d.Focus = FieldPassword
	d.Err = ""
}

// Close hides the dialog without clearing its fields, so a reopened
// dialog remembers the last host tried.
func (d *Dialog) Close() {
	d.Visible = false
}

// NextField / PrevField cycle focus between the form's fields.
func (d *Dialog) NextField() {
	d.Focus = (d.Focus + 1) % fieldCount
}

func (d *Dialog) PrevField() {
	d.Focus = (d.Focus - 1 + fieldCount) % fieldCount
}

// TypeRune appends a rune to the focused field.
func (d *Dialog) TypeRune(r rune) {
	d.Fields[d.Focus] += string(r)
}

// Backspace removes the last rune of the focused field.
func (d *Dialog) Backspace() {
	s := d.Fields[d.Focus]
	if s == "" {
		return
	}
	runes := []rune(s)
	d.Fields[d.Focus] = string(runes[:len(runes)-1])
}

// Submit validates the form and returns the credentials and page line
// count to dial with. ok is false if a required field is missing or
// malformed, with Err set to a message worth showing the user.
func (d *Dialog) Submit() (creds transport.Credentials, pageLineCount int, ok bool) {
	host := strings.TrimSpace(d.Fields[FieldHost])
	if host == "" {
		d.Err = "host is required"
		return
	}
	port, err := strconv.Atoi(strings.TrimSpace(d.Fields[FieldPort]))
	if err != nil || port <= 0 {
		d.Err = "port must be a positive number"
		return
	}
	username := strings.TrimSpace(d.Fields[FieldUsername])
	if username == "" {
		d.Err = "username is required"
		return
	}
	pageLineCount, err = strconv.Atoi(strings.TrimSpace(d.Fields[FieldPageLines]))
	if err != nil || pageLineCount <= 0 {
		d.Err = "page lines must be a positive number"
		return
	}

	creds = transport.Credentials{
		Host:     host,
		Port:     port,
		Username: username,
		Password: d.Fields[FieldPassword],
	}
	d.Err = ""
	ok = true
	return
}

// Render draws the login form.
func (d *Dialog) Render(screenW, screenH int) string {
	if !d.Visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(DialogTitle.Render("Connect over SSH"))
	b.WriteByte('\n')
	b.WriteString(DialogHint.Render("Fill in the remote host to open a new tab:"))
	b.WriteByte('\n')
	b.WriteByte('\n')

	for i := LoginField(0); i < fieldCount; i++ {
		label := loginFieldLabels[i]
		value := d.Fields[i]
		if i == FieldPassword && value != "" {
			value = strings.Repeat("*", len([]rune(value)))
		}

		style := DialogOption
		prefix := "  "
		if i == d.Focus {
			style = DialogOptionSelected
			prefix = "▸ "
		}
		b.WriteString(style.Render(prefix + label + ": " + value))
		b.WriteByte('\n')
	}

	if d.Err != "" {
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().Foreground(ColorDanger).Render(d.Err))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(DialogHint.Render("Tab/↑↓: move  Enter: connect  Esc: cancel"))

	box := DialogOverlay.Render(b.String())
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}
