package main

import (
	"log/slog"
	"sync"
	"time"

	"glimpse/internal/overlay"

	"github.com/google/uuid"
)

// fadePayload asks the frontend to animate the overlay's opacity. The
// frontend answers with overlay:fade-done carrying the same id.
type fadePayload struct {
	ID         string  `json:"id"`
	To         float64 `json:"to"`
	DurationMS int64   `json:"durationMs"`
	Easing     string  `json:"easing"`
}

type opacityPayload struct {
	Opacity float64 `json:"opacity"`
}

type pendingFade struct {
	done  func()
	timer *time.Timer
}

// overlayWindow drives the Wails window for the overlay controller. Window
// calls go through the runtime; opacity is rendered by the frontend, since
// the runtime has no window-level alpha.
type overlayWindow struct {
	app *App
	// grace is added to each fade's duration before a missing
	// acknowledgment is treated as done.
	grace time.Duration

	mu      sync.Mutex
	pending map[string]*pendingFade
}

var (
	_ overlay.Window   = (*overlayWindow)(nil)
	_ overlay.Animator = (*overlayWindow)(nil)
)

func newOverlayWindow(app *App, grace time.Duration) *overlayWindow {
	return &overlayWindow{app: app, grace: grace, pending: map[string]*pendingFade{}}
}

func (w *overlayWindow) Prepare(style overlay.Style) {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeWindowSetMinSizeFn(ctx, style.MinWidth, style.MinHeight)
	runtimeWindowSetAlwaysOnTopFn(ctx, style.Floating)
}

func (w *overlayWindow) Center() {
	if ctx := w.app.runtimeContext(); ctx != nil {
		runtimeWindowCenterFn(ctx)
	}
}

func (w *overlayWindow) Show() {
	if ctx := w.app.runtimeContext(); ctx != nil {
		runtimeWindowShowFn(ctx)
	}
}

func (w *overlayWindow) Hide() {
	if ctx := w.app.runtimeContext(); ctx != nil {
		runtimeWindowHideFn(ctx)
	}
}

// Activate raises the window above other applications.
func (w *overlayWindow) Activate() {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowShowFn(ctx)
}

func (w *overlayWindow) SetOpacity(v float64) {
	if ctx := w.app.runtimeContext(); ctx != nil {
		runtimeEventsEmitFn(ctx, eventOverlayOpacity, opacityPayload{Opacity: v})
	}
}

// Fade emits the animation and calls done on acknowledgment, or after the
// duration plus grace when none arrives. done runs at most once.
func (w *overlayWindow) Fade(req overlay.FadeRequest, done func()) {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		done()
		return
	}
	id := uuid.NewString()
	p := &pendingFade{done: done}
	w.mu.Lock()
	w.pending[id] = p
	p.timer = time.AfterFunc(req.Duration+w.grace, func() { w.finishFade(id, true) })
	w.mu.Unlock()

	runtimeEventsEmitFn(ctx, eventOverlayFade, fadePayload{
		ID:         id,
		To:         req.To,
		DurationMS: req.Duration.Milliseconds(),
		Easing:     req.Curve.String(),
	})
}

// finishFade completes the fade with id. Unknown or already finished ids
// are ignored.
func (w *overlayWindow) finishFade(id string, timedOut bool) {
	w.mu.Lock()
	p, ok := w.pending[id]
	delete(w.pending, id)
	w.mu.Unlock()
	if !ok {
		return
	}
	p.timer.Stop()
	if timedOut {
		slog.Debug("[DEBUG-OVERLAY] fade not acknowledged, completing on timer", "id", id)
	}
	p.done()
}

// cancelPendingFades drops outstanding fades without completing them.
func (w *overlayWindow) cancelPendingFades() {
	w.mu.Lock()
	pending := w.pending
	w.pending = map[string]*pendingFade{}
	w.mu.Unlock()
	for _, p := range pending {
		p.timer.Stop()
	}
}
