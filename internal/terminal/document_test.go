package terminal

import "testing"

func applyText(d *ScreenDocument, s string) {
	d.ApplyToken(plainToken(s))
}

func lineText(d *ScreenDocument, row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows[row-1].PlainText()
}

func TestWritePlainAdvancesCursor(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "hi")
	if d.CursorPosition() != (Position{Row: 1, Col: 3}) {
		t.Fatalf("cursor = %+v, want row 1 col 3", d.CursorPosition())
	}
	if lineText(d, 1) != "hi" {
		t.Fatalf("line 1 = %q, want %q", lineText(d, 1), "hi")
	}
}

func TestTabExpandsToNextStop(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "ab\tc")
	if d.CursorPosition() != (Position{Row: 1, Col: 10}) {
		t.Fatalf("cursor = %+v, want row 1 col 10", d.CursorPosition())
	}
	if lineText(d, 1) != "ab      c" {
		t.Fatalf("line 1 = %q, want tab expanded to column 9", lineText(d, 1))
	}
}

func TestCarriageReturnResetsColumn(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "hello")
	d.ApplyToken(ctrlToken(OpCR, ""))
	applyText(d, "HI")
	if lineText(d, 1) != "HIllo" {
		t.Fatalf("line 1 = %q, want %q", lineText(d, 1), "HIllo")
	}
}

func TestNextLineMovesToRowTwoColOne(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "a")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "b")
	if lineText(d, 1) != "a" || lineText(d, 2) != "b" {
		t.Fatalf("unexpected rows: %q / %q", lineText(d, 1), lineText(d, 2))
	}
	if d.CursorPosition() != (Position{Row: 2, Col: 2}) {
		t.Fatalf("cursor = %+v", d.CursorPosition())
	}
}

func TestIndexDoesNotResetColumn(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abc")
	d.ApplyToken(ctrlToken(OpIndex, ""))
	if d.CursorPosition() != (Position{Row: 2, Col: 4}) {
		t.Fatalf("cursor = %+v, want row 2 col 4 (Index keeps the column)", d.CursorPosition())
	}
}

func TestBackspaceMovesCursorLeft(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abc")
	d.ApplyToken(ctrlToken(OpBackspace, ""))
	if d.CursorPosition().Col != 3 {
		t.Fatalf("cursor col = %d, want 3", d.CursorPosition().Col)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abc")
	d.ApplyToken(ctrlToken(OpSaveCursor, ""))
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "xyz")
	d.ApplyToken(ctrlToken(OpRestoreCursor, ""))
	if d.CursorPosition() != (Position{Row: 1, Col: 4}) {
		t.Fatalf("cursor after restore = %+v, want row 1 col 4", d.CursorPosition())
	}
}

func TestRestoreCursorWithNoPriorSaveIsNoop(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abc")
	d.ApplyToken(ctrlToken(OpRestoreCursor, ""))
	if d.CursorPosition() != (Position{Row: 1, Col: 4}) {
		t.Fatalf("cursor after no-op restore = %+v, want unchanged row 1 col 4", d.CursorPosition())
	}
}

func TestCursorToAbsolute(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	d.ApplyToken(ctrlToken(OpCursorTo, "5;10"))
	if d.CursorPosition() != (Position{Row: 5, Col: 10}) {
		t.Fatalf("cursor = %+v, want row 5 col 10", d.CursorPosition())
	}
}

func TestCursorUpDownClampToMaxRowRegardlessOfScrollRegion(t *testing.T) {
	d := NewScreenDocument(80, 10)
	d.ApplyToken(ctrlToken(OpSetScrollRegion, "2;4"))
	d.ApplyToken(ctrlToken(OpCursorTo, "3;1"))
	d.ApplyToken(ctrlToken(OpCursorDown, "50"))
	if d.CursorPosition().Row != 10 {
		t.Fatalf("CursorDown clamp = %d, want 10 (maxRow, not the scroll region bottom)", d.CursorPosition().Row)
	}
	d.ApplyToken(ctrlToken(OpCursorUp, "50"))
	if d.CursorPosition().Row != 1 {
		t.Fatalf("CursorUp clamp = %d, want 1, not the scroll region top", d.CursorPosition().Row)
	}
}

func TestClearLineModes(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abcdef")
	d.ApplyToken(ctrlToken(OpCursorTo, "1;3"))
	d.ApplyToken(ctrlToken(OpClearLine, "0"))
	if lineText(d, 1) != "ab" {
		t.Fatalf("erase-to-right: line = %q, want %q", lineText(d, 1), "ab")
	}
}

func TestClearLineModesResetColumnExceptMode0(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abcdef")
	d.ApplyToken(ctrlToken(OpCursorTo, "1;3"))
	d.ApplyToken(ctrlToken(OpClearLine, "0"))
	if d.CursorPosition().Col != 3 {
		t.Fatalf("mode 0 should not move the cursor, col = %d, want 3", d.CursorPosition().Col)
	}
	d.ApplyToken(ctrlToken(OpClearLine, "1"))
	if d.CursorPosition().Col != 1 {
		t.Fatalf("mode 1 should reset cursor to column 1, got %d", d.CursorPosition().Col)
	}
	d.ApplyToken(ctrlToken(OpCursorTo, "1;4"))
	d.ApplyToken(ctrlToken(OpClearLine, "2"))
	if d.CursorPosition().Col != 1 {
		t.Fatalf("mode 2 should reset cursor to column 1, got %d", d.CursorPosition().Col)
	}
}

func TestInsertLinesNoopWithoutExplicitScrollRegion(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "one")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "two")
	d.ApplyToken(ctrlToken(OpCursorTo, "1;1"))
	d.ApplyToken(ctrlToken(OpInsertLines, "1"))
	if lineText(d, 1) != "one" || lineText(d, 2) != "two" {
		t.Fatalf("InsertLines without a scroll region should be a no-op, got %q / %q", lineText(d, 1), lineText(d, 2))
	}
}

func TestClearScreenMode0TruncatesRowsBelowCursor(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "one")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "two")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "three")
	d.ApplyToken(ctrlToken(OpCursorTo, "2;1"))
	d.ApplyToken(ctrlToken(OpClearScreen, "0"))
	d.mu.Lock()
	rows := len(d.rows)
	d.mu.Unlock()
	if rows != 2 {
		t.Fatalf("rows after ClearScreen(0) = %d, want 2 (truncated below cursor row)", rows)
	}
}

func TestClearScreenMode1DropsRowsAboveCursor(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "one")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "two")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "three")
	d.ApplyToken(ctrlToken(OpCursorTo, "2;1"))
	d.ApplyToken(ctrlToken(OpClearScreen, "1"))
	if d.CursorPosition().Row != 1 {
		t.Fatalf("cursor row after ClearScreen(1) = %d, want 1", d.CursorPosition().Row)
	}
	if lineText(d, 2) != "three" {
		t.Fatalf("line 2 after ClearScreen(1) = %q, want %q", lineText(d, 2), "three")
	}
}

func TestClearScreenMode2WithoutBracketedPasteDiscardsRows(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "one")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "two")
	cursorBefore := d.CursorPosition()
	d.ApplyToken(ctrlToken(OpClearScreen, "2"))

	if d.TotalLines() != 1 {
		t.Fatalf("total lines after clear = %d, want 1 (rows discarded, no bracketed paste)", d.TotalLines())
	}
	if d.CursorPosition() != cursorBefore {
		t.Fatalf("cursor after ClearScreen(2) = %+v, want unchanged %+v", d.CursorPosition(), cursorBefore)
	}
}

func TestClearScreenMode2WithBracketedPasteFlushesAllButLastRow(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "one")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "two")
	d.ApplyToken(ctrlToken(OpDecReset, "?2004")) // arms bracketed paste per inverted polarity
	d.ApplyToken(ctrlToken(OpClearScreen, "2"))

	if d.TotalLines() != 2 { // "one" flushed to history, "two" discarded with the rest of rows, + one fresh blank primary line
		t.Fatalf("total lines after clear = %d, want 2", d.TotalLines())
	}
	if d.bracketedPaste {
		t.Fatalf("expected bracketedPaste marker cleared after ClearScreen(2)")
	}
}

func TestClearScreenMode3ClearsHistoryToo(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	for i := 0; i < 5; i++ {
		applyText(d, "x")
		d.ApplyToken(ctrlToken(OpNextLine, ""))
	}
	d.ApplyToken(ctrlToken(OpClearScreen, "3"))
	if d.TotalLines() != 1 {
		t.Fatalf("total lines after ClearScreen(3) = %d, want 1", d.TotalLines())
	}
}

func TestInsertAndDeleteChars(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "abcdef")
	d.ApplyToken(ctrlToken(OpCursorTo, "1;3"))
	d.ApplyToken(ctrlToken(OpDeleteChars, "2"))
	if lineText(d, 1) != "abef" {
		t.Fatalf("after delete: %q, want %q", lineText(d, 1), "abef")
	}
	d.ApplyToken(ctrlToken(OpInsertBlanks, "2"))
	if lineText(d, 1) != "ab  ef" {
		t.Fatalf("after insert blanks: %q, want %q", lineText(d, 1), "ab  ef")
	}
}

func TestScrollRegionConstrainsIndex(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	for i := 0; i < 5; i++ {
		applyText(d, "x")
		d.ApplyToken(ctrlToken(OpNextLine, ""))
	}
	d.ApplyToken(ctrlToken(OpSetScrollRegion, "2;4"))
	d.ApplyToken(ctrlToken(OpCursorTo, "4;1"))
	d.ApplyToken(ctrlToken(OpIndex, ""))
	if d.CursorPosition().Row != 4 {
		t.Fatalf("cursor row after Index at region bottom = %d, want to stay at 4 (scroll, not move)", d.CursorPosition().Row)
	}
}

func TestReverseIndexRotatesAtTopEvenWithoutExplicitRegion(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "first")
	d.ApplyToken(ctrlToken(OpNextLine, ""))
	applyText(d, "second")
	d.ApplyToken(ctrlToken(OpCursorTo, "1;1"))
	d.ApplyToken(ctrlToken(OpReverseIndex, ""))
	if d.CursorPosition().Row != 1 {
		t.Fatalf("cursor row after ReverseIndex at row 1 = %d, want to stay at 1 (scroll down in place)", d.CursorPosition().Row)
	}
	if lineText(d, 1) != "" {
		t.Fatalf("line 1 after ReverseIndex at top = %q, want blank (pushed down)", lineText(d, 1))
	}
}

func TestReverseIndexRotatesUnconditionallyBelowRegionTop(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	d.ApplyToken(ctrlToken(OpSetScrollRegion, "1;3"))
	d.ApplyToken(ctrlToken(OpCursorTo, "1;1"))
	applyText(d, "row1")
	d.ApplyToken(ctrlToken(OpCursorTo, "2;1"))
	applyText(d, "row2")
	d.ApplyToken(ctrlToken(OpCursorTo, "3;1"))
	applyText(d, "row3")

	d.ApplyToken(ctrlToken(OpCursorTo, "3;1"))
	d.ApplyToken(ctrlToken(OpReverseIndex, ""))

	if d.CursorPosition().Row != 3 {
		t.Fatalf("cursor row after ReverseIndex below the region top = %d, want unchanged at 3", d.CursorPosition().Row)
	}
	if lineText(d, 1) != "" {
		t.Fatalf("line 1 after ReverseIndex = %q, want blank (inserted at region top)", lineText(d, 1))
	}
	if lineText(d, 2) != "row1" {
		t.Fatalf("line 2 after ReverseIndex = %q, want %q (old row1 pushed down)", lineText(d, 2), "row1")
	}
	if lineText(d, 3) != "row2" {
		t.Fatalf("line 3 after ReverseIndex = %q, want %q (old row2 pushed down, old row3 dropped off the region bottom)", lineText(d, 3), "row2")
	}
}

func TestAlternateBufferRoundTrip(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "primary")
	d.ApplyToken(ctrlToken(OpDecSet, "?1049"))
	applyText(d, "alt")
	if lineText(d, 1) != "alt" {
		t.Fatalf("in alt buffer, line 1 = %q, want %q", lineText(d, 1), "alt")
	}
	d.ApplyToken(ctrlToken(OpDecReset, "?1049"))
	if lineText(d, 1) != "primary" {
		t.Fatalf("after leaving alt buffer, line 1 = %q, want %q", lineText(d, 1), "primary")
	}
}

func TestBracketedPasteDecModePolarity(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	d.ApplyToken(ctrlToken(OpDecSet, "?2004"))
	if d.bracketedPaste {
		t.Fatalf("DEC set ?2004 should be unspecified/ignored, not arm bracketed paste")
	}
	d.ApplyToken(ctrlToken(OpDecReset, "?2004"))
	if !d.bracketedPaste {
		t.Fatalf("DEC reset ?2004 should arm bracketed paste")
	}
}

func TestInsertSessionFailureAppendsBannerLine(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	applyText(d, "last output")
	d.InsertSessionFailure("connection lost")
	if got := lineText(d, 2); got != "connection lost" {
		t.Fatalf("banner line = %q, want %q", got, "connection lost")
	}
}

func TestFlushToHistoryBoundsPrimaryBuffer(t *testing.T) {
	d := NewScreenDocument(80, 50)
	for i := 0; i < 50+50; i++ {
		d.ApplyToken(ctrlToken(OpNextLine, ""))
	}
	d.mu.Lock()
	rows := len(d.rows)
	hist := len(d.history)
	d.mu.Unlock()
	if rows > 50 {
		t.Fatalf("primary buffer grew past maxRow: %d rows", rows)
	}
	if hist == 0 {
		t.Fatalf("expected flushed lines in history, got none")
	}
}

func TestFlushToHistoryRunsEvenWithExplicitScrollRegion(t *testing.T) {
	// A region bottom larger than maxRow keeps Index on its growth
	// branch (cursor stays below the region's bottom), which must still
	// respect the maxRow cap via flushHistoryIfNeeded.
	d := NewScreenDocument(80, 10)
	d.ApplyToken(ctrlToken(OpSetScrollRegion, "1;20"))
	for i := 0; i < 30; i++ {
		d.ApplyToken(ctrlToken(OpIndex, ""))
	}
	d.mu.Lock()
	rows := len(d.rows)
	d.mu.Unlock()
	if rows > 10 {
		t.Fatalf("primary buffer grew past maxRow despite an active scroll region: %d rows", rows)
	}
}

func TestDirtyReportsAndClearsOnce(t *testing.T) {
	d := NewScreenDocument(80, 1000)
	if d.Dirty() {
		t.Fatal("a fresh document should not start dirty")
	}

	applyText(d, "hi")
	if !d.Dirty() {
		t.Fatal("writing content should mark the document dirty")
	}
	if d.Dirty() {
		t.Fatal("Dirty should clear the flag after reporting it")
	}
}
