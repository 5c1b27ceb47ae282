//go:build darwin || windows || linux

package osbackend

import (
	"testing"

	"golang.design/x/hotkey"

	"glimpse/internal/hotkeys"
)

func TestNativeModifiers(t *testing.T) {
	mods, err := nativeModifiers(hotkeys.ModControl | hotkeys.ModShift)
	if err != nil {
		t.Fatalf("nativeModifiers() error = %v", err)
	}
	want := []hotkey.Modifier{modifierMap[hotkeys.ModControl], modifierMap[hotkeys.ModShift]}
	if len(mods) != len(want) {
		t.Fatalf("nativeModifiers() = %v, want %v", mods, want)
	}
	for i := range want {
		if mods[i] != want[i] {
			t.Fatalf("nativeModifiers()[%d] = %v, want %v", i, mods[i], want[i])
		}
	}
}

func TestNativeModifiersRequiresOne(t *testing.T) {
	if _, err := nativeModifiers(0); err == nil {
		t.Fatal("nativeModifiers(0) expected error")
	}
}

func TestNativeKeyCoversDefaultToggle(t *testing.T) {
	key, ok := nativeKey(hotkeys.DefaultToggle().KeyCode())
	if !ok {
		t.Fatal("default toggle key is not bindable")
	}
	if key != hotkey.KeySpace {
		t.Fatalf("nativeKey(Space) = %v, want %v", key, hotkey.KeySpace)
	}
}
