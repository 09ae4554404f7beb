package terminal

import "strings"

// Line is one logical row of the screen document: a growable run of
// cells plus a length marking where written content currently ends.
// The original represents a line as a linked list terminated by a
// sentinel END_MARK cell; Go has no equally convenient "extra sentinel
// element" idiom, so this keeps the same write/erase/insert contract
// with an explicit length field instead (sanctioned by design note 9).
type Line struct {
	cells  []CharCell
	length int
}

// CharCell is one addressable screen position: a rune plus the style
// handle in effect when it was written.
type CharCell struct {
	Ch    rune
	Style StyleHandle
}

func newLine() *Line {
	return &Line{}
}

func (l *Line) ensure(n int) {
	for len(l.cells) < n {
		l.cells = append(l.cells, CharCell{Ch: ' '})
	}
}

// WriteAt writes ch at the 1-based column col, padding with blanks if
// col lands past the line's current content instead of erroring.
func (l *Line) WriteAt(col int, ch rune, style StyleHandle) {
	idx := col - 1
	if idx < 0 {
		idx = 0
	}
	l.ensure(idx + 1)
	l.cells[idx] = CharCell{Ch: ch, Style: style}
	if idx+1 > l.length {
		l.length = idx + 1
	}
}

// CellAt returns the cell at 1-based column col, or a blank default
// cell if col is past the end of the line.
func (l *Line) CellAt(col int) CharCell {
	idx := col - 1
	if idx < 0 || idx >= len(l.cells) {
		return CharCell{Ch: ' '}
	}
	return l.cells[idx]
}

// Len reports the line's current content length (its end position).
func (l *Line) Len() int {
	return l.length
}

// EraseToRight blanks columns [col, end] and pulls the content end back
// to col-1.
func (l *Line) EraseToRight(col int) {
	idx := col - 1
	if idx < 0 {
		idx = 0
	}
	for i := idx; i < len(l.cells); i++ {
		l.cells[i] = CharCell{Ch: ' '}
	}
	if idx < l.length {
		l.length = idx
	}
}

// EraseToLeft blanks columns [1, col] without moving the content end —
// trailing content to the right of col is untouched, matching CSI K
// mode 1.
func (l *Line) EraseToLeft(col int) {
	idx := col
	if idx > len(l.cells) {
		idx = len(l.cells)
	}
	for i := 0; i < idx; i++ {
		l.cells[i] = CharCell{Ch: ' '}
	}
}

// EraseAll clears the line back to empty.
func (l *Line) EraseAll() {
	l.cells = nil
	l.length = 0
}

// InsertBlanks opens up n blank cells at the 1-based column col,
// shifting existing content right.
func (l *Line) InsertBlanks(col, n int) {
	if n <= 0 {
		return
	}
	idx := col - 1
	if idx < 0 {
		idx = 0
	}
	l.ensure(idx)
	blanks := make([]CharCell, n)
	for i := range blanks {
		blanks[i] = CharCell{Ch: ' '}
	}
	if idx >= len(l.cells) {
		l.cells = append(l.cells, blanks...)
	} else {
		tail := append([]CharCell{}, l.cells[idx:]...)
		l.cells = append(l.cells[:idx], append(blanks, tail...)...)
	}
	l.length += n
	if l.length > len(l.cells) {
		l.length = len(l.cells)
	}
}

// DeleteChars removes n cells starting at the 1-based column col,
// shifting the remainder of the line left.
func (l *Line) DeleteChars(col, n int) {
	if n <= 0 {
		return
	}
	idx := col - 1
	if idx < 0 || idx >= len(l.cells) {
		return
	}
	end := idx + n
	if end > len(l.cells) {
		end = len(l.cells)
	}
	l.cells = append(l.cells[:idx], l.cells[end:]...)
	l.length -= end - idx
	if l.length < 0 {
		l.length = 0
	}
}

// PlainText returns the line's written content with no style
// information, used by activity/token scanning and tests.
func (l *Line) PlainText() string {
	var sb strings.Builder
	for i := 0; i < l.length && i < len(l.cells); i++ {
		sb.WriteRune(l.cells[i].Ch)
	}
	return sb.String()
}
