package main

import (
	"context"
	"log/slog"

	"glimpse/internal/hotkeys"
	"glimpse/internal/keyevents"
	"glimpse/internal/session"
	"glimpse/internal/surface"
)

// Outbound runtime events.
const (
	eventOverlayState            = "overlay:state"
	eventOverlayFade             = "overlay:fade"
	eventOverlayOpacity          = "overlay:opacity"
	eventSessionState            = "session:state"
	eventRecorderState           = "recorder:state"
	eventRecorderRejected        = "recorder:rejected"
	eventHotkeyChanged           = "hotkey:changed"
	eventHotkeyRegistrationFault = "hotkey:registration-failed"
	eventProviderChanged         = "preferences:provider-changed"
	eventHistoryChanged          = "history:changed"
	eventSessionLogUpdated       = "app:session-log-updated"
	eventHistoryToggle           = "overlay:toggle-history"
)

// Inbound runtime events.
const (
	eventFadeDone     = "overlay:fade-done"
	eventOverlayReady = "overlay:ready"
	eventOverlayBlur  = "overlay:blur"
)

// surfaceInboundEvents are routed to the surface hub.
var surfaceInboundEvents = []string{
	surface.EventState,
	surface.EventCookiesResult,
	surface.EventEvalResult,
	surface.EventInputFocused,
	surface.EventEscape,
}

type overlayStateView struct {
	Visibility string `json:"visibility"`
	SurfaceID  string `json:"surfaceId"`
}

// emitRuntimeEvent emits via the app context and delegates to emitRuntimeEventWithContext.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Warn("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

// registerEventHandlers subscribes to frontend events. Handlers never touch
// loop-confined state directly.
func (a *App) registerEventHandlers(ctx context.Context) {
	for _, name := range surfaceInboundEvents {
		runtimeEventsOnFn(ctx, name, func(data ...interface{}) {
			a.hub.HandleEvent(name, data...)
		})
	}
	runtimeEventsOnFn(ctx, eventFadeDone, func(data ...interface{}) {
		id, ok := eventString(data)
		if !ok {
			slog.Debug("[DEBUG-EVENT] fade-done without id")
			return
		}
		a.window.finishFade(id, false)
	})
	runtimeEventsOnFn(ctx, eventOverlayReady, func(data ...interface{}) {
		surfaceID, ok := eventString(data)
		if !ok {
			slog.Debug("[DEBUG-EVENT] overlay:ready without surface id")
			return
		}
		a.loop.Post(func() {
			if a.overlay != nil {
				a.overlay.SessionReady(surfaceID)
			}
		})
	})
	runtimeEventsOnFn(ctx, eventOverlayBlur, func(...interface{}) {
		a.loop.Post(func() {
			if a.overlay != nil {
				a.overlay.DidResignKey()
			}
		})
	})
}

// handleEscape runs on the loop when Escape is pressed inside web content.
func (a *App) handleEscape() {
	if a.overlay != nil {
		a.overlay.HandleEscape()
	}
}

// sessionChords are the Command shortcuts handled while the overlay shows.
var sessionChords = map[hotkeys.KeyCode]func(a *App, vm *session.ViewModel){
	hotkeys.KeySlash:        func(_ *App, vm *session.ViewModel) { vm.HandOffFocus() },
	hotkeys.KeyLeftBracket:  func(_ *App, vm *session.ViewModel) { vm.GoBack() },
	hotkeys.KeyRightBracket: func(_ *App, vm *session.ViewModel) { vm.GoForward() },
	hotkeys.KeyH:            func(_ *App, vm *session.ViewModel) { vm.NavigateToHome() },
	hotkeys.KeyR:            func(_ *App, vm *session.ViewModel) { vm.Reload() },
	hotkeys.KeyB:            func(a *App, _ *session.ViewModel) { a.emitRuntimeEvent(eventHistoryToggle, nil) },
}

// handleDefaultKey sees keys no interceptor consumed. Runs on the loop.
func (a *App) handleDefaultKey(ev keyevents.KeyEvent) bool {
	if a.overlay == nil {
		return false
	}
	if ev.KeyCode == hotkeys.KeyEscape {
		a.overlay.HandleEscape()
		return true
	}
	if ev.Modifiers != hotkeys.ModCommand {
		return false
	}
	chord, ok := sessionChords[ev.KeyCode]
	if !ok {
		return false
	}
	vm, err := a.requireSession()
	if err != nil {
		slog.Debug("[EVENT] key chord ignored", "error", err)
		return false
	}
	chord(a, vm)
	return true
}
