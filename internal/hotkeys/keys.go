package hotkeys

import "strconv"

// macOS virtual key codes.
const (
	KeyA             KeyCode = 0x00
	KeyS             KeyCode = 0x01
	KeyD             KeyCode = 0x02
	KeyF             KeyCode = 0x03
	KeyH             KeyCode = 0x04
	KeyG             KeyCode = 0x05
	KeyZ             KeyCode = 0x06
	KeyX             KeyCode = 0x07
	KeyC             KeyCode = 0x08
	KeyV             KeyCode = 0x09
	KeyB             KeyCode = 0x0B
	KeyQ             KeyCode = 0x0C
	KeyW             KeyCode = 0x0D
	KeyE             KeyCode = 0x0E
	KeyR             KeyCode = 0x0F
	KeyY             KeyCode = 0x10
	KeyT             KeyCode = 0x11
	Key1             KeyCode = 0x12
	Key2             KeyCode = 0x13
	Key3             KeyCode = 0x14
	Key4             KeyCode = 0x15
	Key6             KeyCode = 0x16
	Key5             KeyCode = 0x17
	Key9             KeyCode = 0x19
	Key7             KeyCode = 0x1A
	Key8             KeyCode = 0x1C
	Key0             KeyCode = 0x1D
	KeyRightBracket  KeyCode = 0x1E
	KeyO             KeyCode = 0x1F
	KeyU             KeyCode = 0x20
	KeyLeftBracket   KeyCode = 0x21
	KeyI             KeyCode = 0x22
	KeyP             KeyCode = 0x23
	KeyReturn        KeyCode = 0x24
	KeyL             KeyCode = 0x25
	KeyJ             KeyCode = 0x26
	KeyK             KeyCode = 0x28
	KeySlash         KeyCode = 0x2C
	KeyN             KeyCode = 0x2D
	KeyM             KeyCode = 0x2E
	KeyTab           KeyCode = 0x30
	KeySpace         KeyCode = 0x31
	KeyGrave         KeyCode = 0x32
	KeyDelete        KeyCode = 0x33
	KeyEscape        KeyCode = 0x35
	KeyF17           KeyCode = 0x40
	KeyF18           KeyCode = 0x4F
	KeyF19           KeyCode = 0x50
	KeyF20           KeyCode = 0x5A
	KeyF5            KeyCode = 0x60
	KeyF6            KeyCode = 0x61
	KeyF7            KeyCode = 0x62
	KeyF3            KeyCode = 0x63
	KeyF8            KeyCode = 0x64
	KeyF9            KeyCode = 0x65
	KeyF11           KeyCode = 0x67
	KeyF13           KeyCode = 0x69
	KeyF16           KeyCode = 0x6A
	KeyF14           KeyCode = 0x6B
	KeyF10           KeyCode = 0x6D
	KeyF12           KeyCode = 0x6F
	KeyF15           KeyCode = 0x71
	KeyHome          KeyCode = 0x73
	KeyPageUp        KeyCode = 0x74
	KeyForwardDelete KeyCode = 0x75
	KeyF4            KeyCode = 0x76
	KeyEnd           KeyCode = 0x77
	KeyF2            KeyCode = 0x78
	KeyPageDown      KeyCode = 0x79
	KeyF1            KeyCode = 0x7A
	KeyLeftArrow     KeyCode = 0x7B
	KeyRightArrow    KeyCode = 0x7C
	KeyDownArrow     KeyCode = 0x7D
	KeyUpArrow       KeyCode = 0x7E
)

var letterKeys = map[byte]KeyCode{
	'A': KeyA, 'B': KeyB, 'C': KeyC, 'D': KeyD, 'E': KeyE, 'F': KeyF, 'G': KeyG,
	'H': KeyH, 'I': KeyI, 'J': KeyJ, 'K': KeyK, 'L': KeyL, 'M': KeyM, 'N': KeyN,
	'O': KeyO, 'P': KeyP, 'Q': KeyQ, 'R': KeyR, 'S': KeyS, 'T': KeyT, 'U': KeyU,
	'V': KeyV, 'W': KeyW, 'X': KeyX, 'Y': KeyY, 'Z': KeyZ,
	'0': Key0, '1': Key1, '2': Key2, '3': Key3, '4': Key4,
	'5': Key5, '6': Key6, '7': Key7, '8': Key8, '9': Key9,
}

var functionKeys = [...]KeyCode{
	KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10,
	KeyF11, KeyF12, KeyF13, KeyF14, KeyF15, KeyF16, KeyF17, KeyF18, KeyF19, KeyF20,
}

// specialKeyLabels are the labels used for keys that produce no printable
// character.
var specialKeyLabels = map[KeyCode]string{
	KeyReturn:        "Return",
	KeyTab:           "Tab",
	KeySpace:         "Space",
	KeyDelete:        "Delete",
	KeyForwardDelete: "Forward Delete",
	KeyEscape:        "Esc",
	KeyLeftArrow:     "Left Arrow",
	KeyRightArrow:    "Right Arrow",
	KeyUpArrow:       "Up Arrow",
	KeyDownArrow:     "Down Arrow",
	KeyHome:          "Home",
	KeyEnd:           "End",
	KeyPageUp:        "Page Up",
	KeyPageDown:      "Page Down",
}

// namedKeys maps binding tokens (upper-cased) to key codes.
var namedKeys = map[string]KeyCode{
	"SPACE":         KeySpace,
	"TAB":           KeyTab,
	"ENTER":         KeyReturn,
	"RETURN":        KeyReturn,
	"ESC":           KeyEscape,
	"ESCAPE":        KeyEscape,
	"DELETE":        KeyDelete,
	"BACKSPACE":     KeyDelete,
	"FORWARDDELETE": KeyForwardDelete,
	"LEFT":          KeyLeftArrow,
	"RIGHT":         KeyRightArrow,
	"UP":            KeyUpArrow,
	"DOWN":          KeyDownArrow,
	"HOME":          KeyHome,
	"END":           KeyEnd,
	"PAGEUP":        KeyPageUp,
	"PAGEDOWN":      KeyPageDown,
	"`":             KeyGrave,
	"BACKQUOTE":     KeyGrave,
	"GRAVE":         KeyGrave,
	"/":             KeySlash,
	"SLASH":         KeySlash,
	"[":             KeyLeftBracket,
	"]":             KeyRightBracket,
}

var bindingNames = map[KeyCode]string{
	KeySpace:         "Space",
	KeyTab:           "Tab",
	KeyReturn:        "Enter",
	KeyEscape:        "Esc",
	KeyDelete:        "Delete",
	KeyForwardDelete: "ForwardDelete",
	KeyLeftArrow:     "Left",
	KeyRightArrow:    "Right",
	KeyUpArrow:       "Up",
	KeyDownArrow:     "Down",
	KeyHome:          "Home",
	KeyEnd:           "End",
	KeyPageUp:        "PageUp",
	KeyPageDown:      "PageDown",
	KeyGrave:         "`",
	KeySlash:         "/",
	KeyLeftBracket:   "[",
	KeyRightBracket:  "]",
}

// SpecialKeyLabel returns the fixed label of a non-printing key, including
// F1-F20.
func SpecialKeyLabel(code KeyCode) (string, bool) {
	if label, ok := specialKeyLabels[code]; ok {
		return label, true
	}
	if n, ok := functionKeyNumber(code); ok {
		return "F" + strconv.Itoa(n), true
	}
	return "", false
}

func keyBindingName(code KeyCode) (string, bool) {
	if name, ok := bindingNames[code]; ok {
		return name, true
	}
	if n, ok := functionKeyNumber(code); ok {
		return "F" + strconv.Itoa(n), true
	}
	for ch, c := range letterKeys {
		if c == code {
			return string(ch), true
		}
	}
	return "", false
}

func functionKeyNumber(code KeyCode) (int, bool) {
	for i, c := range functionKeys {
		if c == code {
			return i + 1, true
		}
	}
	return 0, false
}
