package terminal

import (
	"strconv"
	"strings"
	"sync"
)

// sessionFailureStyle is the exact SGR sequence the original uses for
// the in-band failure banner: red, bold, no underline/italic.
const sessionFailureStyle = "0;31;1"

// tabStop is the fixed column width tabs expand to before entering the
// document; there is no configurable tab-stop list.
const tabStop = 8

// Position is a 1-based cursor coordinate.
type Position struct {
	Row int
	Col int
}

// ScreenDocument is the cursor-addressable screen model one session
// owns exclusively: the primary buffer, its scrollback history, cursor
// state, and the SGR style currently in effect. Decoded output reaches
// it through ApplyToken, called only from the goroutine that owns the
// session's transport read loop; SetMaxRow, InsertSessionFailure and
// the projector's HandleScroll also change it, all under mu.
type ScreenDocument struct {
	mu sync.Mutex

	cols   int
	maxRow int // the pty row height negotiated at session start

	rows    []*Line
	history []*Line
	altOn   bool

	cursor         Position
	savedCursor    Position
	hasSavedCursor bool

	scrollTop    int // 1-based, 0 means "top of buffer"
	scrollBottom int // 1-based, 0 means "bottom of buffer"

	appKeypad      bool
	bracketedPaste bool

	styles   *StyleEngine
	curStyle StyleHandle

	stickToBottom bool
	windowBottom  int

	dirty bool
}

// NewScreenDocument returns an empty document with one blank line, the
// cursor at (1,1), and the default style active. maxRow is the pty row
// height negotiated when the session's shell was allocated; it bounds
// how large the primary buffer grows before the oldest rows are flushed
// into scrollback.
func NewScreenDocument(cols, maxRow int) *ScreenDocument {
	if maxRow < 1 {
		maxRow = 1
	}
	d := &ScreenDocument{
		cols:          cols,
		maxRow:        maxRow,
		rows:          []*Line{newLine()},
		cursor:        Position{Row: 1, Col: 1},
		styles:        NewStyleEngine(),
		stickToBottom: true,
		windowBottom:  1,
	}
	d.curStyle = d.styles.Default()
	return d
}

// SetMaxRow updates the row height the primary buffer is bounded to,
// following a pty resize negotiated over the transport.
func (d *ScreenDocument) SetMaxRow(maxRow int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if maxRow < 1 {
		maxRow = 1
	}
	d.maxRow = maxRow
	d.flushHistoryIfNeeded()
}

// ApplyToken mutates the document per one decoded Token. It is the
// entry point every decoded token goes through.
func (d *ScreenDocument) ApplyToken(tok Token) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true

	if tok.Kind == TokenPlain {
		d.writePlain(tok.Text)
		return
	}

	switch tok.Op {
	case OpCR:
		d.cursor.Col = 1
	case OpNextLine:
		d.moveToStartOfNextLine()
	case OpBackspace:
		d.moveCursorLeft(1)
	case OpSaveCursor:
		d.savedCursor = d.cursor
		d.hasSavedCursor = true
	case OpRestoreCursor:
		if d.hasSavedCursor {
			d.cursor = d.savedCursor
			d.growToCursor()
		}
	case OpAppKeypadOn:
		d.appKeypad = true
	case OpAppKeypadOff:
		d.appKeypad = false
	case OpReverseIndex:
		d.reverseIndex()
	case OpIndex:
		d.index()
	case OpCursorUp:
		d.moveCursorUp(paramDefault(tok.Param, 1))
	case OpCursorDown:
		d.moveCursorDown(paramDefault(tok.Param, 1))
	case OpCursorLeft:
		d.moveCursorLeft(paramDefault(tok.Param, 1))
	case OpCursorRight:
		d.moveCursorRight(paramDefault(tok.Param, 1))
	case OpCursorTo:
		d.cursorTo(tok.Param)
	case OpClearLine:
		d.clearLine(paramDefault(tok.Param, 0))
	case OpClearScreen:
		d.clearScreen(paramDefault(tok.Param, 0))
	case OpSetStyle:
		d.curStyle = d.styles.Apply(d.curStyle, tok.Param)
	case OpSetScrollRegion:
		d.setScrollRegion(tok.Param)
	case OpDeleteChars:
		d.deleteChars(paramDefault(tok.Param, 1))
	case OpInsertLines:
		d.insertLines(paramDefault(tok.Param, 1))
	case OpInsertBlanks:
		d.insertBlanks(paramDefault(tok.Param, 1))
	case OpDecSet:
		d.decSet(tok.Param)
	case OpDecReset:
		d.decReset(tok.Param)
	}
}

// paramDefault parses a CSI parameter string as a single int, treating
// an empty or zero value as def (CSI movement counts default to 1, not
// 0 — a literal "0" means "move by 1" for these ops).
func paramDefault(param string, def int) int {
	n, err := strconv.Atoi(param)
	if err != nil || n == 0 {
		return def
	}
	return n
}

func (d *ScreenDocument) currentLine() *Line {
	return d.lineAt(d.cursor.Row)
}

// lineAt returns the row'th (1-based) line in the primary buffer,
// growing the buffer with blank lines if row is past the current end.
// CursorTo is allowed to push the cursor past maxRow; the buffer simply
// grows and the next NextLine triggers the usual history flush.
func (d *ScreenDocument) lineAt(row int) *Line {
	for len(d.rows) < row {
		d.rows = append(d.rows, newLine())
	}
	return d.rows[row-1]
}

// writePlain writes text at the cursor, pre-expanding any tab byte to
// the next column that is a multiple of tabStop rather than writing it
// as a glyph.
func (d *ScreenDocument) writePlain(text string) {
	for _, r := range text {
		if r == '\t' {
			next := ((d.cursor.Col-1)/tabStop+1)*tabStop + 1
			d.cursor.Col = next
			continue
		}
		line := d.currentLine()
		line.WriteAt(d.cursor.Col, r, d.curStyle)
		d.cursor.Col++
	}
}

func (d *ScreenDocument) moveToStartOfNextLine() {
	d.cursor.Col = 1
	d.index()
}

// index moves the cursor down one row. With an explicit scroll region
// active and the cursor at its bottom, the region scrolls in place
// instead of growing; with no region set the buffer simply grows, since
// the primary buffer here is a dynamically growing log rather than a
// fixed-height CRT page. Either way the column is untouched — the Go
// equivalent of the original's "Index is NextLine minus the column
// reset" note.
func (d *ScreenDocument) index() {
	if d.hasScrollRegion() && d.cursor.Row >= d.effectiveBottom() {
		d.scrollUp(1)
		return
	}
	d.cursor.Row++
	d.growToCursor()
	d.flushHistoryIfNeeded()
}

// reverseIndex rotates the scrolling region (or the full screen, if no
// region is active) down by one row: the bottom row is dropped and a
// blank row is inserted at the top. It never touches the cursor.
func (d *ScreenDocument) reverseIndex() {
	d.scrollDown(1)
}

func (d *ScreenDocument) growToCursor() {
	d.lineAt(d.cursor.Row)
}

func (d *ScreenDocument) hasScrollRegion() bool {
	return d.scrollTop != 0 || d.scrollBottom != 0
}

func (d *ScreenDocument) effectiveTop() int {
	if d.scrollTop > 0 {
		return d.scrollTop
	}
	return 1
}

func (d *ScreenDocument) effectiveBottom() int {
	if d.scrollBottom > 0 {
		return d.scrollBottom
	}
	return len(d.rows)
}

// scrollUp shifts the active scroll region up by n lines, dropping the
// topmost n lines of the region and appending n blanks at the bottom.
// When the region is the whole buffer (no explicit scroll region), the
// dropped lines are flushed into scrollback history instead of being
// discarded.
func (d *ScreenDocument) scrollUp(n int) {
	top := d.effectiveTop()
	bottom := d.effectiveBottom()
	wholeBuffer := d.scrollTop == 0 && d.scrollBottom == 0
	for i := 0; i < n; i++ {
		if top-1 >= len(d.rows) || bottom > len(d.rows) || top > bottom {
			break
		}
		dropped := d.rows[top-1]
		if wholeBuffer && !d.altOn {
			d.history = append(d.history, dropped)
		}
		copy(d.rows[top-1:bottom-1], d.rows[top:bottom])
		d.rows[bottom-1] = newLine()
	}
}

func (d *ScreenDocument) scrollDown(n int) {
	top := d.effectiveTop()
	bottom := d.effectiveBottom()
	for i := 0; i < n; i++ {
		if top-1 >= len(d.rows) || bottom > len(d.rows) || top > bottom {
			break
		}
		copy(d.rows[top:bottom], d.rows[top-1:bottom-1])
		d.rows[top-1] = newLine()
	}
}

// flushHistoryIfNeeded pushes lines off the front of the primary buffer
// into scrollback once it grows past maxRow. This runs unconditionally,
// independent of any active scroll region: a region only redirects
// where Index/ReverseIndex rotate lines within the buffer, it never
// exempts the buffer from the maxRow cap.
func (d *ScreenDocument) flushHistoryIfNeeded() {
	for len(d.rows) > d.maxRow {
		if d.altOn {
			d.rows = d.rows[1:]
		} else {
			d.history = append(d.history, d.rows[0])
			d.rows = d.rows[1:]
		}
		d.cursor.Row--
		if d.cursor.Row < 1 {
			d.cursor.Row = 1
		}
		d.savedCursor.Row--
		if d.savedCursor.Row < 1 {
			d.savedCursor.Row = 1
		}
	}
}

// moveCursorUp handles CSI A: clamps to [1, maxRow] unconditionally,
// regardless of any active scroll region.
func (d *ScreenDocument) moveCursorUp(n int) {
	d.cursor.Row -= n
	if d.cursor.Row < 1 {
		d.cursor.Row = 1
	}
}

// moveCursorDown handles CSI B: clamps to [1, maxRow] unconditionally,
// regardless of any active scroll region.
func (d *ScreenDocument) moveCursorDown(n int) {
	d.cursor.Row += n
	if d.cursor.Row > d.maxRow {
		d.cursor.Row = d.maxRow
	}
	d.growToCursor()
}

func (d *ScreenDocument) moveCursorLeft(n int) {
	d.cursor.Col -= n
	if d.cursor.Col < 1 {
		d.cursor.Col = 1
	}
}

func (d *ScreenDocument) moveCursorRight(n int) {
	d.cursor.Col += n
}

// cursorTo handles CSI H / CSI f, parameter "row;col" (either half may
// be empty, defaulting to 1). Consistent with the original, this is
// allowed to push the cursor row past maxRow; the buffer grows and a
// later Index/NextLine performs the actual history flush.
func (d *ScreenDocument) cursorTo(param string) {
	row, col := 1, 1
	parts := strings.SplitN(param, ";", 2)
	if len(parts) >= 1 && parts[0] != "" {
		if n, err := strconv.Atoi(parts[0]); err == nil && n > 0 {
			row = n
		}
	}
	if len(parts) >= 2 && parts[1] != "" {
		if n, err := strconv.Atoi(parts[1]); err == nil && n > 0 {
			col = n
		}
	}
	d.cursor = Position{Row: row, Col: col}
	d.growToCursor()
}

func (d *ScreenDocument) clearLine(mode int) {
	line := d.currentLine()
	switch mode {
	case 0:
		line.EraseToRight(d.cursor.Col)
	case 1:
		line.EraseToLeft(d.cursor.Col)
		d.cursor.Col = 1
	case 2:
		line.EraseAll()
		d.cursor.Col = 1
	}
}

// clearScreen handles CSI J.
//
// Mode 0 erases from the cursor to the end of the screen by truncating
// rows below the cursor's line outright. Mode 1 erases from the start
// of the screen through the cursor by dropping the rows above it. Mode
// 2 clears the visible screen: if a bracketed paste is in progress, all
// but the last row are pushed into scrollback first and the marker is
// cleared; either way rows is then replaced with a single blank line
// and the cursor is left untouched — a real terminal clearing the
// screen does not reset cursor position (a following CSI H typically
// does). Mode 3 clears scrollback history as well, leaving one blank
// line.
func (d *ScreenDocument) clearScreen(mode int) {
	switch mode {
	case 0:
		d.currentLine().EraseToRight(d.cursor.Col)
		if d.cursor.Row < len(d.rows) {
			d.rows = d.rows[:d.cursor.Row]
		}
	case 1:
		d.currentLine().EraseToLeft(d.cursor.Col)
		if d.cursor.Row > 1 {
			d.rows = d.rows[d.cursor.Row-1:]
			d.cursor.Row = 1
		}
	case 2:
		if d.bracketedPaste {
			if len(d.rows) > 1 {
				d.history = append(d.history, d.rows[:len(d.rows)-1]...)
			}
			d.bracketedPaste = false
		}
		d.rows = []*Line{newLine()}
	case 3:
		d.history = nil
		d.rows = []*Line{newLine()}
	}
}

// setScrollRegion handles CSI r, parameter "top;bottom". An empty
// parameter resets to the full buffer (no explicit region).
func (d *ScreenDocument) setScrollRegion(param string) {
	if param == "" {
		d.scrollTop, d.scrollBottom = 0, 0
		return
	}
	parts := strings.SplitN(param, ";", 2)
	top, bottom := 0, 0
	if len(parts) >= 1 && parts[0] != "" {
		top, _ = strconv.Atoi(parts[0])
	}
	if len(parts) >= 2 && parts[1] != "" {
		bottom, _ = strconv.Atoi(parts[1])
	}
	d.scrollTop, d.scrollBottom = top, bottom
	d.cursor = Position{Row: d.effectiveTop(), Col: 1}
}

func (d *ScreenDocument) deleteChars(n int) {
	d.currentLine().DeleteChars(d.cursor.Col, n)
}

func (d *ScreenDocument) insertBlanks(n int) {
	d.currentLine().InsertBlanks(d.cursor.Col, n)
}

// insertLines handles CSI L: only takes effect if an explicit scroll
// region is active and the cursor sits inside it. For each of n
// iterations it drops the region's bottom row (when the buffer reaches
// that far) and inserts a blank at the cursor row, shifting the rows
// below it down.
func (d *ScreenDocument) insertLines(n int) {
	if !d.hasScrollRegion() {
		return
	}
	top, bottom := d.effectiveTop(), d.effectiveBottom()
	row := d.cursor.Row
	if row < top || row > bottom || row > len(d.rows) {
		return
	}
	for i := 0; i < n; i++ {
		if bottom <= len(d.rows) {
			copy(d.rows[row:bottom], d.rows[row-1:bottom-1])
			d.rows[row-1] = newLine()
		} else {
			d.rows = append(d.rows[:row-1], append([]*Line{newLine()}, d.rows[row-1:]...)...)
		}
	}
}

// decSet/decReset handle CSI ? ... h / CSI ? ... l. Only the DEC
// private modes named in spec are interpreted; everything else is
// recognized-and-ignored per the charset/mode Non-goals. ?2004 is
// inverted from ordinary bracketed-paste semantics: only the reset form
// arms the marker consumed by ClearScreen mode 2; the set form is
// unspecified and ignored.
func (d *ScreenDocument) decSet(param string) {
	switch param {
	case "?1049", "?47", "?1047":
		d.enterAltBuffer()
	}
}

func (d *ScreenDocument) decReset(param string) {
	switch param {
	case "?1049", "?47", "?1047":
		d.exitAltBuffer()
	case "?2004":
		d.bracketedPaste = true
	}
}

// enterAltBuffer moves all current rows into history, leaves a single
// blank line as the new primary buffer, and resets the cursor to
// (1,1). ?1049, ?47, and ?1047 are treated identically.
func (d *ScreenDocument) enterAltBuffer() {
	if d.altOn {
		return
	}
	d.history = append(d.history, d.rows...)
	d.rows = []*Line{newLine()}
	d.cursor = Position{Row: 1, Col: 1}
	d.altOn = true
}

// exitAltBuffer takes the last maxRow lines of history back out as the
// primary buffer, restoring what enterAltBuffer moved away. The cursor
// row lands at the end of the restored content.
func (d *ScreenDocument) exitAltBuffer() {
	if !d.altOn {
		return
	}
	n := d.maxRow
	if n > len(d.history) {
		n = len(d.history)
	}
	d.rows = append([]*Line{}, d.history[len(d.history)-n:]...)
	d.history = d.history[:len(d.history)-n]
	if len(d.rows) == 0 {
		d.rows = []*Line{newLine()}
	}
	d.cursor = Position{Row: len(d.rows), Col: 1}
	d.altOn = false
}

// InsertSessionFailure appends msg as a standalone red-bold line, used
// when the remote shell disconnects or the transport fails. It bypasses
// the normal cursor/style state so an in-progress SGR sequence doesn't
// bleed into the banner.
func (d *ScreenDocument) InsertSessionFailure(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true

	failStyle := d.styles.Apply(d.styles.Default(), sessionFailureStyle)
	if d.currentLine().length > 0 {
		d.moveToStartOfNextLine()
	}
	line := d.currentLine()
	for i, r := range msg {
		line.WriteAt(i+1, r, failStyle)
	}
	d.moveToStartOfNextLine()
}

// CursorPosition returns the current 1-based cursor coordinate.
func (d *ScreenDocument) CursorPosition() Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// TotalLines returns the number of lines in history plus the primary
// buffer — the document's total logical line count.
func (d *ScreenDocument) TotalLines() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history) + len(d.rows)
}

// Styles returns the StyleEngine backing this document's cells, so a
// renderer outside the package can resolve a RenderedLine's per-cell
// StyleHandle into a StyleRecord.
func (d *ScreenDocument) Styles() *StyleEngine {
	return d.styles
}

// Dirty reports and clears the dirty flag, letting a renderer poll for
// "has anything changed since I last drew" without diffing content.
func (d *ScreenDocument) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.dirty
	d.dirty = false
	return was
}
