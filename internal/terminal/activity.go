package terminal

import "regexp"

// These patterns are carried over from the teacher's local-PTY session
// activity detector, adapted to scan ScreenDocument's line text instead
// of a flat Screen grid.
var (
	needsInputPattern = regexp.MustCompile(`(?i)(y/n|yes/no|\(y\)es|\[y/n\]|continue\?|overwrite\?|proceed\?)\s*$`)
	promptPattern     = regexp.MustCompile(`[$#>%]\s*$`)
	costPattern       = regexp.MustCompile(`\$\d+\.\d+`)
)

// activityScanRows is how many of the most recent lines DetectActivity
// inspects — enough to catch a prompt or confirmation line without
// scanning the whole scrollback on every read.
const activityScanRows = 10

// DetectActivity re-classifies the session's ActivityState from the
// tail of its current screen content. It is called after every batch
// of output is applied to the document.
func (s *Session) DetectActivity() {
	text := s.tailText(activityScanRows)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case needsInputPattern.MatchString(text):
		s.Activity = ActivityNeedsInput
	case promptPattern.MatchString(text):
		s.Activity = ActivityDone
	default:
		s.Activity = ActivityActive
	}
}

// tailText joins the plain text of the last n lines of the primary
// buffer, newest line last.
func (s *Session) tailText(n int) string {
	d := s.Doc
	d.mu.Lock()
	defer d.mu.Unlock()

	start := len(d.rows) - n
	if start < 0 {
		start = 0
	}
	out := ""
	for i := start; i < len(d.rows); i++ {
		if i > start {
			out += "\n"
		}
		out += d.rows[i].PlainText()
	}
	return out
}

// ScanCost extracts the most recent "$N.NN" looking cost figure from
// the session's visible tail; the router passes it on as the shell
// pane's cost hint, shown in the pane title and the footer.
func (s *Session) ScanCost() string {
	text := s.tailText(activityScanRows)
	matches := costPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}
