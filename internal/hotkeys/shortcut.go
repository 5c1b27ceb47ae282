package hotkeys

import "strings"

// Modifier is a bit set of shortcut modifiers. The bit layout matches the
// device-independent modifier flags of the macOS event system so persisted
// shortcuts stay readable across releases.
type Modifier uint

const (
	ModShift   Modifier = 1 << 17
	ModControl Modifier = 1 << 18
	ModOption  Modifier = 1 << 19
	ModCommand Modifier = 1 << 20

	modifierMask = ModShift | ModControl | ModOption | ModCommand
)

// Has reports whether all bits of other are set in m.
func (m Modifier) Has(other Modifier) bool { return m&other == other }

// KeyCode is a physical key identifier using macOS virtual key code numbering.
type KeyCode uint16

// Shortcut is an immutable key-plus-modifiers combination with the key
// label captured at recording time. Shortcuts compare with ==.
type Shortcut struct {
	keyCode   KeyCode
	modifiers Modifier
	display   string
}

// NewShortcut builds a shortcut. Modifier bits outside the four known
// modifiers are dropped.
func NewShortcut(key KeyCode, mods Modifier, display string) Shortcut {
	return Shortcut{
		keyCode:   key,
		modifiers: mods & modifierMask,
		display:   display,
	}
}

// DefaultToggle is Control+Shift+Space.
func DefaultToggle() Shortcut {
	return NewShortcut(KeySpace, ModControl|ModShift, "Space")
}

func (s Shortcut) KeyCode() KeyCode    { return s.keyCode }
func (s Shortcut) Modifiers() Modifier { return s.modifiers }
func (s Shortcut) KeyDisplay() string  { return s.display }

// IsZero reports whether s is the zero Shortcut.
func (s Shortcut) IsZero() bool { return s == Shortcut{} }

// HasModifier reports whether at least one of Command, Option, Control or
// Shift is present.
func (s Shortcut) HasModifier() bool { return s.modifiers&modifierMask != 0 }

// DisplayString renders the shortcut as modifier symbols in the order
// ⌘⌥⌃⇧, a space, then the key label. Without modifiers it is the label alone.
func (s Shortcut) DisplayString() string {
	var b strings.Builder
	if s.modifiers.Has(ModCommand) {
		b.WriteString("⌘")
	}
	if s.modifiers.Has(ModOption) {
		b.WriteString("⌥")
	}
	if s.modifiers.Has(ModControl) {
		b.WriteString("⌃")
	}
	if s.modifiers.Has(ModShift) {
		b.WriteString("⇧")
	}
	if b.Len() == 0 {
		return s.display
	}
	b.WriteString(" ")
	b.WriteString(s.display)
	return b.String()
}

// String renders the shortcut in the textual binding form accepted by
// ParseBinding, e.g. "Ctrl+Shift+Space".
func (s Shortcut) String() string {
	parts := make([]string, 0, 5)
	if s.modifiers.Has(ModControl) {
		parts = append(parts, "Ctrl")
	}
	if s.modifiers.Has(ModOption) {
		parts = append(parts, "Alt")
	}
	if s.modifiers.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if s.modifiers.Has(ModCommand) {
		parts = append(parts, "Cmd")
	}
	name, ok := keyBindingName(s.keyCode)
	if !ok {
		name = s.display
	}
	parts = append(parts, name)
	return strings.Join(parts, "+")
}

// ConflictsWithInputSourceToggle reports whether s is exactly Control+Space,
// the default input source switch on macOS.
func (s Shortcut) ConflictsWithInputSourceToggle() bool {
	return s.keyCode == KeySpace && s.modifiers == ModControl
}

// ConflictsWithSpotlight reports whether s is exactly Command+Space.
func (s Shortcut) ConflictsWithSpotlight() bool {
	return s.keyCode == KeySpace && s.modifiers == ModCommand
}
