// Package terminal implements the xterm-compatible terminal emulator
// pipeline: an incremental byte-stream decoder, an SGR style engine, a
// cursor-addressable screen document with scrollback and an alternate
// buffer, and a view projector that turns document state into something
// a renderer can draw. It also wraps the session that feeds the
// pipeline from a shell channel; the message router that connects
// sessions to a UI lives in internal/router.
package terminal

// CtrlOp identifies a recognized control operation produced by the
// ByteStreamDecoder. It is a closed set deliberately expressed as a Go
// enum (rather than the dynamic dispatch table the original used) so
// ScreenDocument.ApplyToken dispatches on it with a single switch. The
// compiler does not check that switch for exhaustiveness.
type CtrlOp int

const (
	OpCR                CtrlOp = iota // carriage return
	OpNextLine                        // LF, VT, FF, ESC E, or \r*\n
	OpBackspace                       // BS, treated as CursorLeft(1)
	OpSaveCursor                      // ESC 7 / DECSC
	OpRestoreCursor                   // ESC 8 / DECRC
	OpAppKeypadOn                     // ESC =
	OpAppKeypadOff                    // ESC >
	OpReverseIndex                    // ESC M
	OpIndex                           // ESC D
	OpCursorUp                        // CSI A
	OpCursorDown                      // CSI B
	OpCursorLeft                      // CSI D
	OpCursorRight                     // CSI C
	OpCursorTo                        // CSI H / CSI f
	OpClearLine                       // CSI K
	OpClearScreen                     // CSI J
	OpSetStyle                        // CSI m
	OpSetScrollRegion                 // CSI r
	OpDeleteChars                     // CSI P
	OpInsertLines                     // CSI L
	OpInsertBlanks                    // CSI @
	OpDecSet                          // CSI ? ... h
	OpDecReset                        // CSI ? ... l
)

// TokenKind distinguishes a plain text run from a control token.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenCtrl
)

// Token is a decoded unit of the byte stream: either a plain UTF-8 text
// run (never containing LF or CR) or a recognized control operation
// together with its raw parameter string, if any.
type Token struct {
	Kind  TokenKind
	Text  string // set when Kind == TokenPlain
	Op    CtrlOp // set when Kind == TokenCtrl
	Param string // CSI/escape parameter string, e.g. "31" for SetStyle; empty if none
}

func plainToken(text string) Token {
	return Token{Kind: TokenPlain, Text: text}
}

func ctrlToken(op CtrlOp, param string) Token {
	return Token{Kind: TokenCtrl, Op: op, Param: param}
}
