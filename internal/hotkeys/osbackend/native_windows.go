//go:build windows

package osbackend

import (
	"golang.design/x/hotkey"

	"glimpse/internal/hotkeys"
)

var modifierMap = map[hotkeys.Modifier]hotkey.Modifier{
	hotkeys.ModControl: hotkey.ModCtrl,
	hotkeys.ModShift:   hotkey.ModShift,
	hotkeys.ModOption:  hotkey.ModAlt,
	hotkeys.ModCommand: hotkey.ModWin,
}
