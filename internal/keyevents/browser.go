package keyevents

import (
	"strings"
	"unicode/utf8"

	"glimpse/internal/hotkeys"
)

// BrowserKey is the subset of a DOM KeyboardEvent sent by the frontend.
type BrowserKey struct {
	Code  string `json:"code"`
	Key   string `json:"key"`
	Meta  bool   `json:"metaKey"`
	Alt   bool   `json:"altKey"`
	Ctrl  bool   `json:"ctrlKey"`
	Shift bool   `json:"shiftKey"`
}

var domCodes = map[string]hotkeys.KeyCode{
	"Space":        hotkeys.KeySpace,
	"Enter":        hotkeys.KeyReturn,
	"Tab":          hotkeys.KeyTab,
	"Escape":       hotkeys.KeyEscape,
	"Backspace":    hotkeys.KeyDelete,
	"Delete":       hotkeys.KeyForwardDelete,
	"ArrowLeft":    hotkeys.KeyLeftArrow,
	"ArrowRight":   hotkeys.KeyRightArrow,
	"ArrowUp":      hotkeys.KeyUpArrow,
	"ArrowDown":    hotkeys.KeyDownArrow,
	"Home":         hotkeys.KeyHome,
	"End":          hotkeys.KeyEnd,
	"PageUp":       hotkeys.KeyPageUp,
	"PageDown":     hotkeys.KeyPageDown,
	"Backquote":    hotkeys.KeyGrave,
	"Slash":        hotkeys.KeySlash,
	"BracketLeft":  hotkeys.KeyLeftBracket,
	"BracketRight": hotkeys.KeyRightBracket,
}

// domCodeChars are the unshifted characters of punctuation keys.
var domCodeChars = map[string]string{
	"Backquote":    "`",
	"Slash":        "/",
	"BracketLeft":  "[",
	"BracketRight": "]",
}

// FromBrowser converts a DOM key event. ok is false for keys without a
// known physical code.
func FromBrowser(k BrowserKey) (KeyEvent, bool) {
	code, ok := domKeyCode(k.Code)
	if !ok {
		return KeyEvent{}, false
	}
	var mods hotkeys.Modifier
	if k.Meta {
		mods |= hotkeys.ModCommand
	}
	if k.Alt {
		mods |= hotkeys.ModOption
	}
	if k.Ctrl {
		mods |= hotkeys.ModControl
	}
	if k.Shift {
		mods |= hotkeys.ModShift
	}
	return KeyEvent{KeyCode: code, Modifiers: mods, Characters: browserChars(k)}, true
}

// browserChars picks the key label. DOM key reflects modifier composition
// (Option+A is "å"), so with Command, Option or Control held the label
// comes from the physical code instead.
func browserChars(k BrowserKey) string {
	if k.Meta || k.Alt || k.Ctrl {
		if c, ok := codeChars(k.Code); ok {
			return c
		}
		return ""
	}
	if utf8.RuneCountInString(k.Key) == 1 {
		return k.Key
	}
	return ""
}

func codeChars(code string) (string, bool) {
	if c, ok := domCodeChars[code]; ok {
		return c, true
	}
	switch {
	case strings.HasPrefix(code, "Key") && len(code) == 4:
		return strings.ToLower(code[3:]), true
	case strings.HasPrefix(code, "Digit") && len(code) == 6:
		return code[5:], true
	}
	return "", false
}

func domKeyCode(code string) (hotkeys.KeyCode, bool) {
	if c, ok := domCodes[code]; ok {
		return c, true
	}
	var token string
	switch {
	case strings.HasPrefix(code, "Key") && len(code) == 4:
		token = code[3:]
	case strings.HasPrefix(code, "Digit") && len(code) == 6:
		token = code[5:]
	case strings.HasPrefix(code, "F") && len(code) <= 3:
		token = code
	default:
		return 0, false
	}
	s, err := hotkeys.ParseBinding("Ctrl+" + token)
	if err != nil {
		return 0, false
	}
	return s.KeyCode(), true
}
