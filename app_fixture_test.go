package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/hotkeys"
	"glimpse/internal/ipc"
	"glimpse/internal/kvstore"
	"glimpse/internal/overlay"
	"glimpse/internal/testutil"
)

const waitTimeout = 2 * time.Second

func swapForTest[T any](t *testing.T, target *T, value T) {
	t.Helper()
	prev := *target
	*target = value
	t.Cleanup(func() { *target = prev })
}

type emittedEvent struct {
	name    string
	payload any
}

// runtimeStub replaces the Wails runtime seams.
type runtimeStub struct {
	mu          sync.Mutex
	events      []emittedEvent
	handlers    map[string]func(...interface{})
	windowCalls []string
}

func stubRuntime(t *testing.T) *runtimeStub {
	t.Helper()
	rt := &runtimeStub{handlers: map[string]func(...interface{}){}}
	swapForTest(t, &runtimeEventsEmitFn, func(_ context.Context, name string, data ...interface{}) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		rt.mu.Lock()
		rt.events = append(rt.events, emittedEvent{name: name, payload: payload})
		rt.mu.Unlock()
	})
	swapForTest(t, &runtimeEventsOnFn, func(_ context.Context, name string, cb func(...interface{})) func() {
		rt.mu.Lock()
		rt.handlers[name] = cb
		rt.mu.Unlock()
		return func() {}
	})
	swapForTest(t, &runtimeWindowShowFn, func(context.Context) { rt.window("show") })
	swapForTest(t, &runtimeWindowHideFn, func(context.Context) { rt.window("hide") })
	swapForTest(t, &runtimeWindowCenterFn, func(context.Context) { rt.window("center") })
	swapForTest(t, &runtimeWindowUnminimiseFn, func(context.Context) { rt.window("unminimise") })
	swapForTest(t, &runtimeWindowSetAlwaysOnTopFn, func(_ context.Context, b bool) { rt.window(fmt.Sprintf("on-top:%v", b)) })
	swapForTest(t, &runtimeWindowSetMinSizeFn, func(_ context.Context, w, h int) { rt.window(fmt.Sprintf("min-size:%dx%d", w, h)) })
	swapForTest[appRuntimeLogger](t, &runtimeLogger, slogRuntimeLogger{})
	return rt
}

func (rt *runtimeStub) window(call string) {
	rt.mu.Lock()
	rt.windowCalls = append(rt.windowCalls, call)
	rt.mu.Unlock()
}

func (rt *runtimeStub) emitted(name string) []any {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	var out []any
	for _, e := range rt.events {
		if e.name == name {
			out = append(out, e.payload)
		}
	}
	return out
}

func (rt *runtimeStub) lastEmitted(name string) (any, bool) {
	all := rt.emitted(name)
	if len(all) == 0 {
		return nil, false
	}
	return all[len(all)-1], true
}

// fire invokes a registered frontend event handler.
func (rt *runtimeStub) fire(t *testing.T, name string, data ...interface{}) {
	t.Helper()
	rt.mu.Lock()
	cb := rt.handlers[name]
	rt.mu.Unlock()
	if cb == nil {
		t.Fatalf("no handler registered for %s", name)
	}
	cb(data...)
}

type slogRuntimeLogger struct{}

func (slogRuntimeLogger) Warningf(_ context.Context, message string, args ...interface{}) {
	slog.Warn(formatRuntimeLogMessage(message, args...))
}

func (slogRuntimeLogger) Infof(_ context.Context, message string, args ...interface{}) {
	slog.Info(formatRuntimeLogMessage(message, args...))
}

func (slogRuntimeLogger) Errorf(_ context.Context, message string, args ...interface{}) {
	slog.Error(formatRuntimeLogMessage(message, args...))
}

type fakeHotkeyHandle struct {
	backend *fakeHotkeyBackend
	binding *fakeHotkeyBinding
}

func (h *fakeHotkeyHandle) Release() error {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.binding.released = true
	return nil
}

type fakeHotkeyBinding struct {
	shortcut hotkeys.Shortcut
	sig      hotkeys.Signature
	sink     chan<- hotkeys.Signature
	released bool
}

// fakeHotkeyBackend refuses the shortcuts listed in refuse with the given
// platform code.
type fakeHotkeyBackend struct {
	mu       sync.Mutex
	refuse   map[hotkeys.Shortcut]int
	bindings []*fakeHotkeyBinding
}

func newFakeHotkeyBackend() *fakeHotkeyBackend {
	return &fakeHotkeyBackend{refuse: map[hotkeys.Shortcut]int{}}
}

func (f *fakeHotkeyBackend) Bind(s hotkeys.Shortcut, sig hotkeys.Signature, sink chan<- hotkeys.Signature) (hotkeys.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.refuse[s]; ok {
		return nil, &hotkeys.RegistrationError{Shortcut: s, Code: code}
	}
	b := &fakeHotkeyBinding{shortcut: s, sig: sig, sink: sink}
	f.bindings = append(f.bindings, b)
	return &fakeHotkeyHandle{backend: f, binding: b}, nil
}

func (f *fakeHotkeyBackend) refuseShortcut(s hotkeys.Shortcut, code int) {
	f.mu.Lock()
	f.refuse[s] = code
	f.mu.Unlock()
}

// live returns the shortcut currently bound, if exactly one is.
func (f *fakeHotkeyBackend) live() (hotkeys.Shortcut, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var live []*fakeHotkeyBinding
	for _, b := range f.bindings {
		if !b.released {
			live = append(live, b)
		}
	}
	if len(live) != 1 {
		return hotkeys.Shortcut{}, false
	}
	return live[0].shortcut, true
}

// press simulates the OS delivering the live binding.
func (f *fakeHotkeyBackend) press(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	var target *fakeHotkeyBinding
	for _, b := range f.bindings {
		if !b.released {
			target = b
		}
	}
	f.mu.Unlock()
	if target == nil {
		t.Fatal("no live hotkey binding to press")
	}
	target.sink <- target.sig
}

type fakeWorkspace struct{}

func (fakeWorkspace) Frontmost() (overlay.App, bool) { return overlay.App{}, false }
func (fakeWorkspace) Activate(overlay.App) error     { return nil }
func (fakeWorkspace) IsRunning(overlay.App) bool     { return false }

type testAppOptions struct {
	store  kvstore.Store
	cfg    *config.Config
	refuse map[hotkeys.Shortcut]int
}

type testApp struct {
	*App
	rt      *runtimeStub
	backend *fakeHotkeyBackend
	kv      kvstore.Store
}

// newTestApp starts an App against stubbed runtime, hotkey and workspace
// seams, with the overlay built as after DOM ready.
func newTestApp(t *testing.T, opts testAppOptions) *testApp {
	t.Helper()
	testutil.CaptureLogBuffer(t, slog.LevelDebug)
	rt := stubRuntime(t)
	backend := newFakeHotkeyBackend()
	for s, code := range opts.refuse {
		backend.refuseShortcut(s, code)
	}
	store := opts.store
	if store == nil {
		store = kvstore.NewMemory()
	}
	dir := t.TempDir()
	swapForTest(t, &newHotkeyBackendFn, func() hotkeys.Backend { return backend })
	swapForTest(t, &newWorkspaceFn, func() overlay.Workspace { return fakeWorkspace{} })
	swapForTest(t, &openStoreFn, func(string) (kvstore.Store, error) { return store, nil })
	swapForTest(t, &ipcEndpointFn, func() string { return filepath.Join(dir, "ipc.sock") })

	cfg := config.DefaultConfig()
	if opts.cfg != nil {
		cfg = *opts.cfg
	}
	app := NewApp(filepath.Join(dir, "config.yaml"), cfg, nil)
	ctx := context.Background()
	app.startup(ctx)
	t.Cleanup(func() { app.shutdown(ctx) })
	app.domReady(ctx)
	return &testApp{App: app, rt: rt, backend: backend, kv: store}
}

// drain waits until all work posted to the loop so far has run.
func (ta *testApp) drain(t *testing.T) {
	t.Helper()
	if err := ta.onLoop(func() error { return nil }); err != nil {
		t.Fatalf("loop sync: %v", err)
	}
}

func (ta *testApp) visibility(t *testing.T) string {
	t.Helper()
	view, err := ta.GetOverlayState()
	if err != nil {
		t.Fatalf("GetOverlayState() error = %v", err)
	}
	return view.Visibility
}

// ackFades completes every fade the frontend was asked to run.
func (ta *testApp) ackFades(t *testing.T) {
	t.Helper()
	for _, p := range ta.rt.emitted(eventOverlayFade) {
		ta.window.finishFade(p.(fadePayload).ID, false)
	}
	ta.drain(t)
}

func ipcShow() ipc.Request { return ipc.Request{Command: ipc.CmdShow} }

// withOverlayShown shows the overlay and completes the fade.
func (ta *testApp) withOverlayShown(t *testing.T) error {
	t.Helper()
	if resp := ta.handleIPC(ipcShow()); !resp.OK {
		return fmt.Errorf("show: %s", resp.Error)
	}
	ta.ackFades(t)
	if got := ta.visibility(t); got != "visible" {
		return fmt.Errorf("visibility = %q after show", got)
	}
	return nil
}
