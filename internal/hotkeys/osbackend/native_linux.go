//go:build linux

package osbackend

import (
	"golang.design/x/hotkey"

	"glimpse/internal/hotkeys"
)

// X11 reports Alt as Mod1 and Super as Mod4.
var modifierMap = map[hotkeys.Modifier]hotkey.Modifier{
	hotkeys.ModControl: hotkey.ModCtrl,
	hotkeys.ModShift:   hotkey.ModShift,
	hotkeys.ModOption:  hotkey.Mod1,
	hotkeys.ModCommand: hotkey.Mod4,
}
