package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/history"
	"glimpse/internal/hotkeys"
	"glimpse/internal/hotkeys/osbackend"
	"glimpse/internal/ipc"
	"glimpse/internal/kvstore"
	"glimpse/internal/overlay"
	"glimpse/internal/preferences"
	"glimpse/internal/recorder"
	"glimpse/internal/session"
	"glimpse/internal/surface"
	"glimpse/internal/workspace"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...interface{})
	Infof(context.Context, string, ...interface{})
	Errorf(context.Context, string, ...interface{})
}

type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeEventsOnFn                              = runtime.EventsOn
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	runtimeWindowShowFn                            = runtime.WindowShow
	runtimeWindowHideFn                            = runtime.WindowHide
	runtimeWindowCenterFn                          = runtime.WindowCenter
	runtimeWindowUnminimiseFn                      = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	runtimeWindowSetMinSizeFn                      = runtime.WindowSetMinSize
	openStoreFn                                    = openSQLiteStore
	newHotkeyBackendFn                             = func() hotkeys.Backend { return osbackend.New() }
	newWorkspaceFn                                 = func() overlay.Workspace { return workspace.New() }
	newIPCServerFn                                 = ipc.NewServer
	ipcEndpointFn                                  = ipc.DefaultEndpoint
	watchConfigFn                                  = config.Watch
)

const (
	shutdownWaitTimeout = 5 * time.Second
	loopCallTimeout     = 3 * time.Second
)

func openSQLiteStore(path string) (kvstore.Store, error) {
	return kvstore.OpenSQLite(path)
}

func (a *App) startup(ctx context.Context) {
	setConsoleUTF8()
	a.setRuntimeContext(ctx)

	loopCtx, cancel := context.WithCancel(context.Background())
	a.loopCancel = cancel
	a.loop.Start(loopCtx, &a.bgWG)

	cfg := a.configSnapshot()
	a.openStores(ctx, cfg)

	a.hub = surface.NewHub(surface.EmitterFunc(a.emitRuntimeEvent), 0)
	a.hotkeys = hotkeys.NewCenter(newHotkeyBackendFn(), a.loop)
	a.window = newOverlayWindow(a, cfg.Timings.FadeAckGrace())
	a.registerEventHandlers(ctx)

	a.startIPCServer(ctx)
	a.startConfigWatcher(ctx)
}

// openStores falls back to memory when the database cannot be opened so
// the overlay still works for this run.
func (a *App) openStores(ctx context.Context, cfg config.Config) {
	dbPath := cfg.DatabaseFile(a.configPath)
	store, err := openStoreFn(dbPath)
	if err != nil {
		runtimeLogger.Warningf(ctx, "failed to open database %s, preferences and history will not persist: %v", dbPath, err)
		store = kvstore.NewMemory()
	}
	a.store = store

	fallback, err := cfg.Hotkey()
	if err != nil {
		slog.Warn("[WARN-CONFIG] invalid global_hotkey, using default", "value", cfg.GlobalHotkey, "error", err)
		fallback = hotkeys.DefaultToggle()
	}
	a.prefs = preferences.New(store, preferences.Defaults{
		Shortcut:   fallback,
		ProviderID: cfg.SearchProvider,
	})
	a.history = history.New(kvstore.NewLists(store))
}

func (a *App) startIPCServer(ctx context.Context) {
	a.ipcServer = newIPCServerFn(ipcEndpointFn(), ipc.HandlerFunc(a.handleIPC))
	if err := a.ipcServer.Start(); err != nil {
		runtimeLogger.Errorf(ctx, "ipc server failed: %v", err)
		a.ipcServer = nil
		return
	}
	runtimeLogger.Infof(ctx, "ipc server listening: %s", a.ipcServer.Endpoint())
}

func (a *App) startConfigWatcher(ctx context.Context) {
	w, err := watchConfigFn(a.configPath, a.configSnapshot(), config.DefaultDebounce, a.applyConfigChange)
	if err != nil {
		runtimeLogger.Warningf(ctx, "config live reload disabled: %v", err)
		return
	}
	a.watcher = w
}

// domReady builds the overlay once the frontend can receive surface events,
// then binds the global hotkey.
func (a *App) domReady(ctx context.Context) {
	a.domReadyOnce.Do(func() {
		callCtx, cancel := context.WithTimeout(ctx, loopCallTimeout)
		defer cancel()
		if err := a.loop.Call(callCtx, a.buildOverlay); err != nil {
			runtimeLogger.Errorf(ctx, "overlay setup failed: %v", err)
		}
	})
}

// buildOverlay runs on the loop.
func (a *App) buildOverlay() {
	cfg := a.configSnapshot()
	ctrl, err := overlay.New(overlay.Config{
		Window:     a.window,
		Animator:   a.window,
		Workspace:  newWorkspaceFn(),
		Scheduler:  a.loop,
		NewSession: a.newSession,
		Timings: overlay.Timings{
			ShowFade:   cfg.Timings.ShowFade(),
			HideFade:   cfg.Timings.HideFade(),
			FocusDelay: cfg.Timings.FocusDelay(),
		},
		Style: overlay.Style{
			MinWidth:  cfg.Window.MinWidth,
			MinHeight: cfg.Window.MinHeight,
			Floating:  true,
		},
	})
	if err != nil {
		slog.Error("[overlay] controller setup failed", "error", err)
		return
	}
	a.overlay = ctrl
	a.unsubscribers = append(a.unsubscribers, ctrl.Subscribe(func(s overlay.Snapshot) {
		a.emitRuntimeEvent(eventOverlayState, overlayStateView{Visibility: s.Visibility.String(), SurfaceID: s.SurfaceID})
	}))
	ctrl.PrepareWindow()

	a.recorder = recorder.New(a.keys, recorderFeedback{app: a})
	a.unsubscribers = append(a.unsubscribers, a.recorder.Subscribe(a.onRecorderChange))
	a.unsubscribers = append(a.unsubscribers, a.keys.HandleDefault(a.handleDefaultKey))

	a.configureGlobalHotkey()
	a.unsubscribers = append(a.unsubscribers, a.history.Subscribe(func(entries []string) {
		a.emitRuntimeEvent(eventHistoryChanged, nonNil(entries))
	}))
	a.unsubscribers = append(a.unsubscribers, a.prefs.SubscribeProvider(func(id string) {
		slog.Info("[preferences] search provider changed, applies from the next showing", "provider", id)
		a.emitRuntimeEvent(eventProviderChanged, id)
	}))
}

// newSession is the overlay's session factory. It runs on the loop.
func (a *App) newSession() *session.ViewModel {
	cfg := a.configSnapshot()
	vm := session.New(session.Config{
		Surface:   a.hub.NewSurface(),
		Provider:  a.prefs.Provider(),
		History:   a.history,
		Scheduler: a.loop,
		Timings: session.Timings{
			HandoffFocusDelay:  cfg.Timings.HandoffFocusDelay(),
			HandoffRevokeDelay: cfg.Timings.HandoffRevokeDelay(),
		},
		OnEscape: a.handleEscape,
	})
	vm.Subscribe(func(st session.State) {
		a.emitRuntimeEvent(eventSessionState, st)
	})
	return vm
}

func (a *App) shutdown(_ context.Context) {
	a.shuttingDown.Store(true)
	logCtx := a.runtimeContext()

	// The hotkey goes first so no toggle lands mid-teardown.
	if a.hotkeys != nil {
		a.hotkeys.Close()
	}
	if a.ipcServer != nil {
		if err := a.ipcServer.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "ipc server stop failed: %v", err)
		}
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			runtimeLogger.Warningf(logCtx, "config watcher stop failed: %v", err)
		}
	}

	callCtx, cancel := context.WithTimeout(context.Background(), loopCallTimeout)
	err := a.loop.Call(callCtx, a.teardownLoopState)
	cancel()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Debug("[DEBUG-SHUTDOWN] loop teardown skipped", "error", err)
	}
	a.loop.Stop()
	if a.loopCancel != nil {
		a.loopCancel()
	}
	if !waitWithTimeout(a.bgWG.Wait, shutdownWaitTimeout) {
		runtimeLogger.Warningf(logCtx, "timed out waiting for background workers during shutdown")
	}
	if a.window != nil {
		a.window.cancelPendingFades()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			runtimeLogger.Warningf(logCtx, "database close failed: %v", err)
		}
	}
}

// teardownLoopState runs on the loop.
func (a *App) teardownLoopState() {
	for _, unsubscribe := range a.unsubscribers {
		unsubscribe()
	}
	a.unsubscribers = nil
	if a.recorder != nil {
		a.recorder.StopRecording()
	}
	if a.overlay != nil {
		if vm := a.overlay.Session(); vm != nil {
			vm.Close()
		}
	}
}

func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	// The waiting goroutine may outlive timeout; this only runs while the
	// process is exiting.
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
