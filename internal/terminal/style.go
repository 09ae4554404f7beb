package terminal

import "strconv"

// StyleRecord is an immutable SGR style. Two records with equal fields
// are always represented by the same StyleHandle, so callers can compare
// handles instead of field-by-field structural equality.
type StyleRecord struct {
	Bold      bool
	Italic    bool
	Underline bool
	Visible   bool
	Opacity   float64
	Fg        string // hex RGB, e.g. "#000000"
	Bg        string // hex RGB, e.g. "#FFFFFF"
}

// defaultRecord is bold/italic/underline off, visible, full opacity,
// black text on white background — the record every StyleEngine interns
// first, at handle 0.
var defaultRecord = StyleRecord{Visible: true, Opacity: 1.0, Fg: "#000000", Bg: "#FFFFFF"}

// StyleHandle is an opaque, comparable reference to an interned
// StyleRecord.
type StyleHandle int

// defaultStyleHandle is the handle defaultRecord is always interned at.
const defaultStyleHandle StyleHandle = 0

// sgrColorHex maps an SGR color code (30-37, 90-97 for foreground;
// 40-47, 100-107 for background) to its fixed hex value, keyed by the
// code's color index. Background codes share the table with foreground.
var sgrColorHex = map[int]string{
	0: "#000000", 1: "#800000", 2: "#008000", 3: "#808000",
	4: "#000080", 5: "#800080", 6: "#008080", 7: "#C0C0C0",
	8: "#808080", 9: "#FF0000", 10: "#00FF00", 11: "#FFFF00",
	12: "#0000FF", 13: "#FF00FF", 14: "#00FFFF", 15: "#FFFFFF",
}

const (
	defaultFgHex = "#000000"
	defaultBgHex = "#FFFFFF"
)

// StyleEngine interprets SGR parameter strings against a current style
// and interns every distinct StyleRecord it produces, so ScreenDocument
// can carry a StyleHandle per cell instead of a full record.
type StyleEngine struct {
	records []StyleRecord
	index   map[StyleRecord]StyleHandle
}

// NewStyleEngine returns a StyleEngine with the default style already
// interned as handle 0.
func NewStyleEngine() *StyleEngine {
	e := &StyleEngine{index: make(map[StyleRecord]StyleHandle)}
	e.intern(defaultRecord)
	return e
}

// Default returns the handle for the all-reset style.
func (e *StyleEngine) Default() StyleHandle { return defaultStyleHandle }

// Resolve returns the StyleRecord for a handle.
func (e *StyleEngine) Resolve(h StyleHandle) StyleRecord {
	return e.records[h]
}

func (e *StyleEngine) intern(r StyleRecord) StyleHandle {
	if h, ok := e.index[r]; ok {
		return h
	}
	h := StyleHandle(len(e.records))
	e.records = append(e.records, r)
	e.index[r] = h
	return h
}

// Apply interprets a CSI `m` parameter string (e.g. "1;31", "", "0") as
// a sequence of SGR parameters applied in order against cur, returning
// the resulting interned handle. An empty string is treated as a single
// "0" (reset) parameter, matching real terminals. True-color and
// 256-color sub-sequences (38;5;N, 38;2;r;g;b and their 48 background
// counterparts) are recognized only enough to skip their trailing
// sub-parameters; they otherwise leave the current style untouched, per
// the 16-color-only Non-goal.
func (e *StyleEngine) Apply(cur StyleHandle, params string) StyleHandle {
	r := e.Resolve(cur)
	parts := splitSGRParams(params)
	for i := 0; i < len(parts); i++ {
		code := parts[i]
		switch {
		case code == 0:
			r = defaultRecord
		case code == 1:
			r.Bold = true
		case code == 22:
			r.Bold = false
		case code == 2:
			r.Opacity = 0.5
		case code == 3:
			r.Italic = true
		case code == 4:
			r.Underline = true
		case code == 24:
			r.Underline = false
		case code == 7:
			r.Fg, r.Bg = "#FFFFFF", "#000000"
		case code == 27:
			r.Fg, r.Bg = defaultFgHex, defaultBgHex
		case code == 8:
			r.Visible = false
		case code == 28:
			r.Visible = true
		case code == 39:
			r.Fg = defaultFgHex
		case code == 49:
			r.Bg = defaultBgHex
		case code == 38 && i+1 < len(parts) && parts[i+1] == 5:
			i += 2 // 38;5;N — 256-color, unsupported; skip and ignore
		case code == 48 && i+1 < len(parts) && parts[i+1] == 5:
			i += 2
		case code == 38 && i+1 < len(parts) && parts[i+1] == 2:
			i += 4 // 38;2;r;g;b — true-color, unsupported; skip and ignore
		case code == 48 && i+1 < len(parts) && parts[i+1] == 2:
			i += 4
		case code >= 30 && code <= 37:
			r.Fg = sgrColorHex[code-30]
		case code >= 90 && code <= 97:
			r.Fg = sgrColorHex[8+code-90]
		case code >= 40 && code <= 47:
			r.Bg = sgrColorHex[code-40]
		case code >= 100 && code <= 107:
			r.Bg = sgrColorHex[8+code-100]
		}
	}
	return e.intern(r)
}

// splitSGRParams splits a CSI `m` parameter string on `;` into ints, an
// empty field between semicolons (or an empty whole string) counting as
// 0, matching how real terminals treat elided SGR parameters.
func splitSGRParams(params string) []int {
	if params == "" {
		return []int{0}
	}
	var out []int
	start := 0
	for i := 0; i <= len(params); i++ {
		if i == len(params) || params[i] == ';' {
			field := params[start:i]
			if field == "" {
				out = append(out, 0)
			} else if n, err := strconv.Atoi(field); err == nil {
				out = append(out, n)
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		out = []int{0}
	}
	return out
}
