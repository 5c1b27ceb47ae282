package hotkeys

import (
	"fmt"
	"strconv"
	"strings"
)

var modifierByName = map[string]Modifier{
	"CTRL":    ModControl,
	"CONTROL": ModControl,
	"SHIFT":   ModShift,
	"ALT":     ModOption,
	"OPT":     ModOption,
	"OPTION":  ModOption,
	"CMD":     ModCommand,
	"COMMAND": ModCommand,
	"WIN":     ModCommand,
	"SUPER":   ModCommand,
}

// ParseBinding parses a binding like "Ctrl+Shift+Space" or "Cmd+Alt+F12".
// At least one modifier is required.
func ParseBinding(spec string) (Shortcut, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Shortcut{}, fmt.Errorf("hotkey spec is empty")
	}

	parts := strings.Split(raw, "+")
	if len(parts) < 2 {
		return Shortcut{}, fmt.Errorf("hotkey must include modifiers and key: %s", raw)
	}

	var modifiers Modifier
	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		mod, ok := modifierByName[name]
		if !ok {
			return Shortcut{}, fmt.Errorf("unknown modifier %q in hotkey %q", token, raw)
		}
		modifiers |= mod
	}

	key, label, err := parseKey(parts[len(parts)-1])
	if err != nil {
		return Shortcut{}, err
	}
	if modifiers == 0 {
		return Shortcut{}, fmt.Errorf("at least one modifier is required: %q", raw)
	}
	return NewShortcut(key, modifiers, label), nil
}

func parseKey(raw string) (KeyCode, string, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return 0, "", fmt.Errorf("missing hotkey key token")
	}

	if len(token) == 1 {
		if key, ok := letterKeys[token[0]]; ok {
			return key, token, nil
		}
	}
	if len(token) >= 2 && token[0] == 'F' {
		if n, err := strconv.Atoi(token[1:]); err == nil && n >= 1 && n <= len(functionKeys) {
			key := functionKeys[n-1]
			return key, token, nil
		}
	}
	if key, ok := namedKeys[token]; ok {
		if label, ok := SpecialKeyLabel(key); ok {
			return key, label, nil
		}
		return key, bindingNames[key], nil
	}

	if strings.HasPrefix(token, "0X") {
		value, err := strconv.ParseUint(token[2:], 16, 16)
		if err != nil {
			return 0, "", fmt.Errorf("invalid hex key %q", raw)
		}
		key := KeyCode(value)
		label, ok := SpecialKeyLabel(key)
		if !ok {
			label, ok = keyBindingName(key)
		}
		if !ok {
			return 0, "", fmt.Errorf("key code %s has no known label", token)
		}
		return key, label, nil
	}

	return 0, "", fmt.Errorf("unknown key %q in hotkey spec", raw)
}
