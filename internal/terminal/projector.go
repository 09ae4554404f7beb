package terminal

// RenderedLine is one line of a Projection: its cells plus the line
// number it occupies in the document's total (history+primary) line
// sequence, 1-based.
type RenderedLine struct {
	LineNum int
	Cells   []CharCell
}

// Projection is a render-ready snapshot of a window onto a
// ScreenDocument: the visible lines, where the cursor sits within
// them, and enough bookkeeping for a UI scrollbar.
type Projection struct {
	Lines         []RenderedLine
	CursorRow     int // 1-based row within Lines, 0 if the cursor isn't in view
	CursorCol     int
	TotalLines    int
	WindowTop     int
	WindowBottom  int
	StickToBottom bool
}

// ScrollRequest mirrors the UI's scroll vocabulary: either a relative
// move or an absolute target line. At most one should be set; Move
// takes precedence if both are.
type ScrollRequest struct {
	Move      *int
	StartLine *int
}

// ViewProjector turns a ScreenDocument's state into a Projection sized
// to a fixed page height, and applies UI scroll requests to the
// document's window/stick-to-bottom state.
type ViewProjector struct {
	doc       *ScreenDocument
	pageLines int
}

// NewViewProjector returns a projector showing pageLines lines at a
// time, starting stuck to the bottom of doc.
func NewViewProjector(doc *ScreenDocument, pageLines int) *ViewProjector {
	return &ViewProjector{doc: doc, pageLines: pageLines}
}

// PageLines reports the configured viewport height.
func (p *ViewProjector) PageLines() int { return p.pageLines }

// Resize changes the viewport height used by subsequent Project calls.
func (p *ViewProjector) Resize(pageLines int) {
	if pageLines > 0 {
		p.pageLines = pageLines
	}
}

// HandleScroll applies a UI scroll request to the document's window
// position, clamping to the available line range. Stick-to-bottom mode
// stays on only when the request (a move or an absolute start line)
// leaves the window at the newest line.
func (p *ViewProjector) HandleScroll(req ScrollRequest) {
	d := p.doc
	d.mu.Lock()
	defer d.mu.Unlock()

	total := len(d.history) + len(d.rows)

	if d.stickToBottom {
		d.windowBottom = total
	}

	switch {
	case req.Move != nil:
		d.windowBottom += *req.Move
	case req.StartLine != nil:
		d.windowBottom = *req.StartLine + p.pageLines - 1
	default:
		return
	}

	if d.windowBottom > total {
		d.windowBottom = total
	}
	minBottom := p.pageLines
	if minBottom > total {
		minBottom = total
	}
	if d.windowBottom < minBottom {
		d.windowBottom = minBottom
	}

	d.stickToBottom = d.windowBottom >= total
}

// Project returns the current visible window. When the document is in
// stick-to-bottom mode (the default, and the state restored whenever a
// scroll lands back at the newest line) the window always tracks the
// newest pageLines lines as the document grows.
func (p *ViewProjector) Project() Projection {
	d := p.doc
	d.mu.Lock()
	defer d.mu.Unlock()

	total := len(d.history) + len(d.rows)

	windowBottom := d.windowBottom
	if d.stickToBottom || windowBottom <= 0 {
		windowBottom = total
	}
	if windowBottom > total {
		windowBottom = total
	}
	windowTop := windowBottom - p.pageLines + 1
	if windowTop < 1 {
		windowTop = 1
	}

	lines := make([]RenderedLine, 0, windowBottom-windowTop+1)
	for n := windowTop; n <= windowBottom; n++ {
		lines = append(lines, RenderedLine{LineNum: n, Cells: d.lineCellsByGlobalNum(n)})
	}

	proj := Projection{
		Lines:         lines,
		TotalLines:    total,
		WindowTop:     windowTop,
		WindowBottom:  windowBottom,
		StickToBottom: d.stickToBottom,
	}

	if d.stickToBottom {
		globalCursor := len(d.history) + d.cursor.Row
		if globalCursor >= windowTop && globalCursor <= windowBottom {
			proj.CursorRow = globalCursor - windowTop + 1
			proj.CursorCol = d.cursor.Col
		}
	}
	return proj
}

// lineCellsByGlobalNum returns a copy of the cells for the n'th
// (1-based) line across history+primary buffer. Caller must hold d.mu.
func (d *ScreenDocument) lineCellsByGlobalNum(n int) []CharCell {
	var line *Line
	if n <= len(d.history) {
		line = d.history[n-1]
	} else {
		idx := n - len(d.history) - 1
		if idx < 0 || idx >= len(d.rows) {
			return nil
		}
		line = d.rows[idx]
	}
	cells := make([]CharCell, line.Len())
	for i := range cells {
		cells[i] = line.CellAt(i + 1)
	}
	return cells
}
