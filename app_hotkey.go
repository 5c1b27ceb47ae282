package main

import (
	"errors"
	"log/slog"

	"glimpse/internal/hotkeys"
	"glimpse/internal/keyevents"
	"glimpse/internal/recorder"
)

// ShortcutInfo describes a shortcut for the preferences surface.
type ShortcutInfo struct {
	Binding string `json:"binding"`
	Display string `json:"display"`
	// Active is false when the OS currently holds no binding for it.
	Active                 bool `json:"active"`
	WarnInputSourceToggle  bool `json:"warnInputSourceToggle"`
	WarnSpotlightConflicts bool `json:"warnSpotlightConflicts"`
}

func newShortcutInfo(s hotkeys.Shortcut, active bool) ShortcutInfo {
	return ShortcutInfo{
		Binding:                s.String(),
		Display:                s.DisplayString(),
		Active:                 active,
		WarnInputSourceToggle:  s.ConflictsWithInputSourceToggle(),
		WarnSpotlightConflicts: s.ConflictsWithSpotlight(),
	}
}

type registrationFailure struct {
	Attempted string `json:"attempted"`
	Code      int    `json:"code"`
	// Restored is empty when no previous shortcut could be bound again.
	Restored string `json:"restored,omitempty"`
	Message  string `json:"message"`
}

type recorderStateView struct {
	Recording bool          `json:"recording"`
	Captured  *ShortcutInfo `json:"captured,omitempty"`
}

// configureGlobalHotkey registers the persisted shortcut, then follows
// preference changes. Registering first keeps Update from ever seeing a
// missing handler. Runs on the loop.
func (a *App) configureGlobalHotkey() {
	want := a.prefs.Shortcut()
	if err := a.hotkeys.Register(want, a.toggleOverlay); err != nil {
		runtimeLogger.Warningf(a.runtimeContext(), "global hotkey registration failed: %v", err)
		a.recoverInitialShortcut(want, err)
	} else {
		a.activeShortcut = want
		runtimeLogger.Infof(a.runtimeContext(), "global hotkey registered: %s", want.String())
	}
	a.unsubscribers = append(a.unsubscribers, a.prefs.SubscribeShortcut(func(s hotkeys.Shortcut) {
		a.loop.Post(func() { a.applyShortcut(s) })
	}))
}

// recoverInitialShortcut falls back to the default toggle when the
// persisted shortcut is refused at startup.
func (a *App) recoverInitialShortcut(refused hotkeys.Shortcut, err error) {
	fallback := hotkeys.DefaultToggle()
	if refused != fallback {
		if bindErr := a.hotkeys.Update(fallback); bindErr == nil {
			a.activeShortcut = fallback
			if restoreErr := a.prefs.RestoreShortcut(fallback); restoreErr != nil {
				slog.Warn("[hotkey] failed to persist fallback shortcut", "error", restoreErr)
			}
		} else {
			slog.Error("[hotkey] default shortcut also refused", "shortcut", fallback.String(), "error", bindErr)
		}
	}
	a.reportRegistrationFailure(refused, err)
}

// toggleOverlay is the hotkey callback. The center posts it onto the loop.
func (a *App) toggleOverlay() {
	if a.overlay == nil {
		slog.Debug("[DEBUG-hotkey] toggle before overlay is ready, skipping")
		return
	}
	a.overlay.Toggle()
}

// applyShortcut rebinds the hotkey after a preference change. A shortcut
// the OS refuses is rolled back to the last working one. Runs on the loop.
func (a *App) applyShortcut(next hotkeys.Shortcut) {
	if active, ok := a.hotkeys.Active(); ok && active == next {
		return
	}
	err := a.hotkeys.Update(next)
	if errors.Is(err, hotkeys.ErrHandlerMissing) {
		slog.Warn("[hotkey] update before registration, registering instead", "shortcut", next.String())
		err = a.hotkeys.Register(next, a.toggleOverlay)
	}
	if err == nil {
		a.activeShortcut = next
		slog.Info("[hotkey] shortcut changed", "shortcut", next.String())
		a.emitRuntimeEvent(eventHotkeyChanged, newShortcutInfo(next, true))
		return
	}
	if errors.Is(err, hotkeys.ErrClosed) {
		return
	}

	prev := a.activeShortcut
	if !prev.IsZero() && prev != next {
		if rebindErr := a.hotkeys.Update(prev); rebindErr != nil {
			slog.Error("[hotkey] failed to restore previous shortcut", "shortcut", prev.String(), "error", rebindErr)
			a.activeShortcut = hotkeys.Shortcut{}
		}
		if restoreErr := a.prefs.RestoreShortcut(prev); restoreErr != nil {
			slog.Warn("[hotkey] failed to persist restored shortcut", "error", restoreErr)
		}
	}
	a.reportRegistrationFailure(next, err)
}

func (a *App) reportRegistrationFailure(attempted hotkeys.Shortcut, err error) {
	failure := registrationFailure{
		Attempted: attempted.String(),
		Code:      hotkeys.UnknownCode,
		Message:   err.Error(),
	}
	var regErr *hotkeys.RegistrationError
	if errors.As(err, &regErr) {
		failure.Code = regErr.Code
	}
	if active, ok := a.hotkeys.Active(); ok {
		failure.Restored = active.String()
	}
	slog.Warn("[hotkey] shortcut rejected", "attempted", failure.Attempted, "code", failure.Code, "restored", failure.Restored)
	a.emitRuntimeEvent(eventHotkeyRegistrationFault, failure)
}

// onRecorderChange persists a captured shortcut. Runs on the loop.
func (a *App) onRecorderChange(snap recorder.Snapshot) {
	view := recorderStateView{Recording: snap.State == recorder.Recording}
	if snap.HasCapture {
		info := newShortcutInfo(snap.Captured, false)
		view.Captured = &info
	}
	a.emitRuntimeEvent(eventRecorderState, view)

	if snap.State != recorder.Idle || !snap.HasCapture {
		return
	}
	if err := a.prefs.SetShortcut(snap.Captured); err != nil {
		slog.Warn("[recorder] failed to save captured shortcut", "shortcut", snap.Captured.String(), "error", err)
	}
}

// recorderFeedback plays the rejection cue in the frontend.
type recorderFeedback struct {
	app *App
}

func (f recorderFeedback) Reject(keyevents.KeyEvent) {
	f.app.emitRuntimeEvent(eventRecorderRejected, nil)
}
