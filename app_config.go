package main

import (
	"log/slog"

	"glimpse/internal/config"
)

// applyConfigChange applies a reloaded config file. It runs on the
// watcher's timer goroutine. The hotkey and provider flow through the
// preference store so the usual rebinding and fallback rules apply.
func (a *App) applyConfigChange(next config.Config) {
	if a.shuttingDown.Load() {
		return
	}
	prev := a.swapConfig(next)
	slog.Info("[config] reloaded", "path", a.configPath)

	if next.LogLevel != prev.LogLevel {
		a.logLevel.Set(next.SlogLevel())
	}
	if next.GlobalHotkey != prev.GlobalHotkey && a.prefs != nil {
		sc, err := next.Hotkey()
		if err != nil {
			slog.Warn("[WARN-CONFIG] ignoring invalid global_hotkey", "value", next.GlobalHotkey, "error", err)
		} else if err := a.prefs.SetShortcut(sc); err != nil {
			slog.Warn("[WARN-CONFIG] failed to apply global_hotkey", "value", next.GlobalHotkey, "error", err)
		}
	}
	if next.SearchProvider != prev.SearchProvider && a.prefs != nil {
		if err := a.prefs.SetProvider(next.SearchProvider); err != nil {
			slog.Warn("[WARN-CONFIG] failed to apply search_provider", "value", next.SearchProvider, "error", err)
		}
	}
	if next.Window != prev.Window || next.DatabasePath != prev.DatabasePath {
		slog.Info("[config] window and database settings apply after restart")
	}
}
