//go:build darwin

package osbackend

import (
	"golang.design/x/hotkey"

	"glimpse/internal/hotkeys"
)

var modifierMap = map[hotkeys.Modifier]hotkey.Modifier{
	hotkeys.ModControl: hotkey.ModCtrl,
	hotkeys.ModShift:   hotkey.ModShift,
	hotkeys.ModOption:  hotkey.ModOption,
	hotkeys.ModCommand: hotkey.ModCmd,
}

// Key codes already use the native numbering.
func nativeKey(code hotkeys.KeyCode) (hotkey.Key, bool) {
	return hotkey.Key(code), true
}
