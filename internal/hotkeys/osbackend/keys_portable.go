//go:build windows || linux

package osbackend

import (
	"golang.design/x/hotkey"

	"glimpse/internal/hotkeys"
)

var portableKeys = map[hotkeys.KeyCode]hotkey.Key{
	hotkeys.KeyA: hotkey.KeyA, hotkeys.KeyB: hotkey.KeyB, hotkeys.KeyC: hotkey.KeyC,
	hotkeys.KeyD: hotkey.KeyD, hotkeys.KeyE: hotkey.KeyE, hotkeys.KeyF: hotkey.KeyF,
	hotkeys.KeyG: hotkey.KeyG, hotkeys.KeyH: hotkey.KeyH, hotkeys.KeyI: hotkey.KeyI,
	hotkeys.KeyJ: hotkey.KeyJ, hotkeys.KeyK: hotkey.KeyK, hotkeys.KeyL: hotkey.KeyL,
	hotkeys.KeyM: hotkey.KeyM, hotkeys.KeyN: hotkey.KeyN, hotkeys.KeyO: hotkey.KeyO,
	hotkeys.KeyP: hotkey.KeyP, hotkeys.KeyQ: hotkey.KeyQ, hotkeys.KeyR: hotkey.KeyR,
	hotkeys.KeyS: hotkey.KeyS, hotkeys.KeyT: hotkey.KeyT, hotkeys.KeyU: hotkey.KeyU,
	hotkeys.KeyV: hotkey.KeyV, hotkeys.KeyW: hotkey.KeyW, hotkeys.KeyX: hotkey.KeyX,
	hotkeys.KeyY: hotkey.KeyY, hotkeys.KeyZ: hotkey.KeyZ,

	hotkeys.Key0: hotkey.Key0, hotkeys.Key1: hotkey.Key1, hotkeys.Key2: hotkey.Key2,
	hotkeys.Key3: hotkey.Key3, hotkeys.Key4: hotkey.Key4, hotkeys.Key5: hotkey.Key5,
	hotkeys.Key6: hotkey.Key6, hotkeys.Key7: hotkey.Key7, hotkeys.Key8: hotkey.Key8,
	hotkeys.Key9: hotkey.Key9,

	hotkeys.KeySpace:      hotkey.KeySpace,
	hotkeys.KeyReturn:     hotkey.KeyReturn,
	hotkeys.KeyEscape:     hotkey.KeyEscape,
	hotkeys.KeyDelete:     hotkey.KeyDelete,
	hotkeys.KeyTab:        hotkey.KeyTab,
	hotkeys.KeyLeftArrow:  hotkey.KeyLeft,
	hotkeys.KeyRightArrow: hotkey.KeyRight,
	hotkeys.KeyUpArrow:    hotkey.KeyUp,
	hotkeys.KeyDownArrow:  hotkey.KeyDown,

	hotkeys.KeyF1: hotkey.KeyF1, hotkeys.KeyF2: hotkey.KeyF2, hotkeys.KeyF3: hotkey.KeyF3,
	hotkeys.KeyF4: hotkey.KeyF4, hotkeys.KeyF5: hotkey.KeyF5, hotkeys.KeyF6: hotkey.KeyF6,
	hotkeys.KeyF7: hotkey.KeyF7, hotkeys.KeyF8: hotkey.KeyF8, hotkeys.KeyF9: hotkey.KeyF9,
	hotkeys.KeyF10: hotkey.KeyF10, hotkeys.KeyF11: hotkey.KeyF11, hotkeys.KeyF12: hotkey.KeyF12,
	hotkeys.KeyF13: hotkey.KeyF13, hotkeys.KeyF14: hotkey.KeyF14, hotkeys.KeyF15: hotkey.KeyF15,
	hotkeys.KeyF16: hotkey.KeyF16, hotkeys.KeyF17: hotkey.KeyF17, hotkeys.KeyF18: hotkey.KeyF18,
	hotkeys.KeyF19: hotkey.KeyF19, hotkeys.KeyF20: hotkey.KeyF20,
}

func nativeKey(code hotkeys.KeyCode) (hotkey.Key, bool) {
	key, ok := portableKeys[code]
	return key, ok
}
