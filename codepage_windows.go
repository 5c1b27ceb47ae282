//go:build windows

package main

import (
	"log/slog"

	"golang.org/x/sys/windows"
)

const codePageUTF8 = 65001

// setConsoleUTF8 lets shortcut symbols (⌘⌥⌃⇧) reach an attached console
// intact.
func setConsoleUTF8() {
	if err := windows.SetConsoleOutputCP(codePageUTF8); err != nil {
		slog.Debug("[DEBUG-CONSOLE] SetConsoleOutputCP failed", "error", err)
	}
	if err := windows.SetConsoleCP(codePageUTF8); err != nil {
		slog.Debug("[DEBUG-CONSOLE] SetConsoleCP failed", "error", err)
	}
}
