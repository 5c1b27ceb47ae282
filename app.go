package main

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"glimpse/internal/config"
	"glimpse/internal/history"
	"glimpse/internal/hotkeys"
	"glimpse/internal/ipc"
	"glimpse/internal/keyevents"
	"glimpse/internal/kvstore"
	"glimpse/internal/overlay"
	"glimpse/internal/preferences"
	"glimpse/internal/recorder"
	"glimpse/internal/sessionlog"
	"glimpse/internal/surface"
	"glimpse/internal/uiloop"
)

// App is the Wails-bound application service.
//
// Overlay, recorder and session state belong to loop. Bound methods and
// IPC requests reach that state through loop.Call; runtime event handlers
// post onto it.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	cfgMu      sync.RWMutex
	cfg        config.Config
	configPath string
	logLevel   *slog.LevelVar

	loop      *uiloop.Loop
	store     kvstore.Store
	prefs     *preferences.Store
	history   *history.Store
	hub       *surface.Hub
	keys      *keyevents.Router
	hotkeys   *hotkeys.Center
	window    *overlayWindow
	ipcServer *ipc.Server
	watcher   *config.Watcher
	journal   *sessionlog.Journal

	// Loop-confined.
	overlay        *overlay.Controller
	recorder       *recorder.Recorder
	activeShortcut hotkeys.Shortcut
	unsubscribers  []func()

	domReadyOnce sync.Once
	shuttingDown atomic.Bool
	loopCancel   context.CancelFunc
	bgWG         sync.WaitGroup
}

// NewApp creates the app service. Nothing touches the OS until startup.
func NewApp(configPath string, cfg config.Config, logLevel *slog.LevelVar) *App {
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
		logLevel.Set(cfg.SlogLevel())
	}
	return &App{
		cfg:        cfg,
		configPath: configPath,
		logLevel:   logLevel,
		loop:       uiloop.New(),
		keys:       keyevents.NewRouter(),
	}
}

func (a *App) setRuntimeContext(ctx context.Context) {
	a.ctxMu.Lock()
	a.ctx = ctx
	a.ctxMu.Unlock()
}

func (a *App) runtimeContext() context.Context {
	a.ctxMu.RLock()
	ctx := a.ctx
	a.ctxMu.RUnlock()
	return ctx
}

func (a *App) configSnapshot() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// swapConfig stores next and returns the previous value.
func (a *App) swapConfig(next config.Config) config.Config {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	prev := a.cfg
	a.cfg = next
	return prev
}
