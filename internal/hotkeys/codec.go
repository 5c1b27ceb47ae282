package hotkeys

import (
	"encoding/json"
	"errors"
	"fmt"
)

// storedShortcut is the persisted representation.
type storedShortcut struct {
	KeyCode    uint16 `json:"keyCode"`
	Modifiers  uint   `json:"modifiers"`
	KeyDisplay string `json:"keyDisplay"`
}

// Encode serializes s for the preferences store.
func Encode(s Shortcut) ([]byte, error) {
	return json.Marshal(storedShortcut{
		KeyCode:    uint16(s.keyCode),
		Modifiers:  uint(s.modifiers),
		KeyDisplay: s.display,
	})
}

// Decode restores a shortcut written by Encode.
func Decode(data []byte) (Shortcut, error) {
	var stored storedShortcut
	if err := json.Unmarshal(data, &stored); err != nil {
		return Shortcut{}, fmt.Errorf("decode shortcut: %w", err)
	}
	if stored.KeyDisplay == "" {
		return Shortcut{}, errors.New("decode shortcut: key display is empty")
	}
	return NewShortcut(KeyCode(stored.KeyCode), Modifier(stored.Modifiers), stored.KeyDisplay), nil
}
