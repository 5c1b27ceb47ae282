// Package overlay controls the single overlay window: its show and hide
// transitions, the prior-application handoff and the per-showing search
// session.
package overlay

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"glimpse/internal/observe"
	"glimpse/internal/session"
	"glimpse/internal/uiloop"
	"glimpse/internal/workerutil"
)

// Visibility is the window transition state.
type Visibility int

const (
	Hidden Visibility = iota
	AnimatingIn
	Visible
	AnimatingOut
)

func (v Visibility) String() string {
	switch v {
	case AnimatingIn:
		return "animating-in"
	case Visible:
		return "visible"
	case AnimatingOut:
		return "animating-out"
	default:
		return "hidden"
	}
}

// Shown reports whether the window is visible or on its way there.
func (v Visibility) Shown() bool { return v == AnimatingIn || v == Visible }

// Timings are the transition durations.
type Timings struct {
	ShowFade time.Duration
	HideFade time.Duration
	// FocusDelay is the fallback wait before focusing a freshly created
	// session whose presentation has not reported ready.
	FocusDelay time.Duration
}

// DefaultTimings returns 180ms, 140ms and 100ms.
func DefaultTimings() Timings {
	return Timings{
		ShowFade:   180 * time.Millisecond,
		HideFade:   140 * time.Millisecond,
		FocusDelay: 100 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.ShowFade <= 0 {
		t.ShowFade = d.ShowFade
	}
	if t.HideFade <= 0 {
		t.HideFade = d.HideFade
	}
	if t.FocusDelay <= 0 {
		t.FocusDelay = d.FocusDelay
	}
	return t
}

// SessionFactory builds a fresh session for the next showing.
type SessionFactory func() *session.ViewModel

// Config wires a Controller.
type Config struct {
	Window     Window
	Animator   Animator
	Workspace  Workspace
	Scheduler  uiloop.Scheduler
	NewSession SessionFactory
	Timings    Timings
	Style      Style
	// SelfPID is never recorded as the prior application. Defaults to
	// os.Getpid().
	SelfPID int
	// Background runs workspace queries off the UI loop. Defaults to a
	// panic-recovered goroutine.
	Background func(fn func())
}

// Snapshot is the observable controller state.
type Snapshot struct {
	Visibility Visibility `json:"visibility"`
	SurfaceID  string     `json:"surfaceId"`
}

type intent int

const (
	intentNone intent = iota
	intentShow
	intentHide
)

// Controller is confined to the UI loop.
type Controller struct {
	window     Window
	animator   Animator
	workspace  Workspace
	sched      uiloop.Scheduler
	newSession SessionFactory
	timings    Timings
	style      Style
	selfPID    int
	background func(fn func())
	bgWG       sync.WaitGroup

	prepared   bool
	visibility Visibility
	deferred   intent
	fadeSeq    uint64
	previous   *App

	// lookupSeq identifies the newest frontmost query; older results are
	// dropped. A hide that completes while the query is out restores once
	// the answer arrives.
	lookupSeq       uint64
	lookupPending   bool
	restoreOnLookup bool

	session          *session.ViewModel
	sessionReady     bool
	focusPending     bool
	cancelFocusDelay func()

	changes observe.Subject[Snapshot]
}

// New validates cfg and creates the first session. The window is not
// touched until PrepareWindow or Show.
func New(cfg Config) (*Controller, error) {
	switch {
	case cfg.Window == nil:
		return nil, errors.New("overlay window is required")
	case cfg.Animator == nil:
		return nil, errors.New("overlay animator is required")
	case cfg.Workspace == nil:
		return nil, errors.New("overlay workspace is required")
	case cfg.Scheduler == nil:
		return nil, errors.New("overlay scheduler is required")
	case cfg.NewSession == nil:
		return nil, errors.New("overlay session factory is required")
	}
	if cfg.SelfPID == 0 {
		cfg.SelfPID = os.Getpid()
	}
	if cfg.Style == (Style{}) {
		cfg.Style = DefaultStyle()
	}
	c := &Controller{
		window:     cfg.Window,
		animator:   cfg.Animator,
		workspace:  cfg.Workspace,
		sched:      cfg.Scheduler,
		newSession: cfg.NewSession,
		timings:    cfg.Timings.withDefaults(),
		style:      cfg.Style,
		selfPID:    cfg.SelfPID,
		background: cfg.Background,
	}
	if c.background == nil {
		c.background = c.runWorker
	}
	c.session = c.newSession()
	return c, nil
}

func (c *Controller) runWorker(fn func()) {
	workerutil.RunWithPanicRecovery(context.Background(), "overlay-workspace", &c.bgWG, func(context.Context) {
		fn()
	}, workerutil.RecoveryOptions{MaxRetries: 1})
}

// Visibility returns the transition state.
func (c *Controller) Visibility() Visibility { return c.visibility }

// Session returns the current session.
func (c *Controller) Session() *session.ViewModel { return c.session }

// Snapshot returns the observable state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{Visibility: c.visibility, SurfaceID: c.session.State().SurfaceID}
}

// Subscribe observes visibility changes and session replacement.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return c.changes.Subscribe(fn)
}

func (c *Controller) setVisibility(v Visibility) {
	if c.visibility == v {
		return
	}
	slog.Debug("[overlay] visibility changed", "from", c.visibility.String(), "to", v.String())
	c.visibility = v
	c.changes.Publish(c.Snapshot())
}

// PrepareWindow styles the window once; later calls are no-ops.
func (c *Controller) PrepareWindow() {
	if c.prepared {
		return
	}
	c.prepared = true
	c.window.Prepare(c.style)
	c.window.SetOpacity(0)
}

// Show presents the window and focuses the query field.
func (c *Controller) Show() {
	c.PrepareWindow()
	switch c.visibility {
	case AnimatingOut:
		c.deferred = intentShow
		return
	case AnimatingIn:
		c.deferred = intentNone
		return
	case Visible:
		c.window.Activate()
		c.requestFocus()
		return
	}

	c.recordFrontmost()
	c.window.Center()
	c.window.SetOpacity(0)
	c.window.Show()
	c.window.Activate()
	c.setVisibility(AnimatingIn)
	c.fade(FadeRequest{To: 1, Duration: c.timings.ShowFade, Curve: EaseOut}, func() {
		c.setVisibility(Visible)
	})
	c.requestFocus()
}

// Hide fades the window out, replaces the session and returns focus to the
// previously active application. When already hidden only the cleanup runs.
func (c *Controller) Hide() {
	switch c.visibility {
	case AnimatingIn:
		c.deferred = intentHide
		return
	case AnimatingOut:
		c.deferred = intentNone
		return
	case Hidden:
		c.resetSession()
		c.restorePrevious()
		return
	}

	c.setVisibility(AnimatingOut)
	c.fade(FadeRequest{To: 0, Duration: c.timings.HideFade, Curve: EaseIn}, func() {
		c.window.Hide()
		c.window.SetOpacity(0)
		c.resetSession()
		c.setVisibility(Hidden)
		c.restorePrevious()
	})
}

// Toggle hides a shown window and shows a hidden one.
func (c *Controller) Toggle() {
	if c.visibility.Shown() {
		c.Hide()
		return
	}
	c.Show()
}

// DidResignKey handles the window losing key status.
func (c *Controller) DidResignKey() {
	if !c.visibility.Shown() {
		return
	}
	slog.Debug("[overlay] window resigned key, hiding")
	c.Hide()
}

// HandleEscape hides the overlay.
func (c *Controller) HandleEscape() {
	c.Hide()
}

// SessionReady reports that the presentation attached to the session with
// surfaceID. A pending focus request runs immediately.
func (c *Controller) SessionReady(surfaceID string) {
	if surfaceID != c.session.State().SurfaceID {
		slog.Debug("[overlay] ignoring ready signal for stale session", "surfaceId", surfaceID)
		return
	}
	c.sessionReady = true
	if c.focusPending {
		c.flushFocus()
	}
}

// fade starts an animation whose completion runs on the scheduler. A
// completion that arrives after a newer fade started is dropped.
func (c *Controller) fade(req FadeRequest, then func()) {
	c.fadeSeq++
	seq := c.fadeSeq
	c.animator.Fade(req, func() {
		c.sched.Post(func() {
			if seq != c.fadeSeq {
				slog.Debug("[overlay] dropping stale fade completion", "seq", seq)
				return
			}
			then()
			c.runDeferred()
		})
	})
}

func (c *Controller) runDeferred() {
	next := c.deferred
	c.deferred = intentNone
	switch next {
	case intentShow:
		c.Show()
	case intentHide:
		c.Hide()
	}
}

func (c *Controller) requestFocus() {
	if c.sessionReady {
		c.session.RequestFocus()
		return
	}
	if c.focusPending {
		return
	}
	c.focusPending = true
	c.cancelFocusDelay = c.sched.After(c.timings.FocusDelay, func() {
		c.cancelFocusDelay = nil
		if c.focusPending {
			slog.Debug("[overlay] session not ready, focusing after fallback delay")
			c.flushFocus()
		}
	})
}

func (c *Controller) flushFocus() {
	c.clearPendingFocus()
	c.session.RequestFocus()
}

func (c *Controller) clearPendingFocus() {
	c.focusPending = false
	if c.cancelFocusDelay != nil {
		c.cancelFocusDelay()
		c.cancelFocusDelay = nil
	}
}

func (c *Controller) resetSession() {
	c.clearPendingFocus()
	c.session.Close()
	c.session = c.newSession()
	c.sessionReady = false
	c.changes.Publish(c.Snapshot())
}

// recordFrontmost asks the workspace for the active application without
// blocking the loop; the answer is applied when it is posted back.
func (c *Controller) recordFrontmost() {
	c.lookupSeq++
	seq := c.lookupSeq
	c.previous = nil
	c.lookupPending = true
	c.restoreOnLookup = false

	ws, sched := c.workspace, c.sched
	c.background(func() {
		app, ok := ws.Frontmost()
		sched.Post(func() { c.frontmostFound(seq, app, ok) })
	})
}

func (c *Controller) frontmostFound(seq uint64, app App, ok bool) {
	if seq != c.lookupSeq {
		slog.Debug("[overlay] dropping stale frontmost lookup", "seq", seq)
		return
	}
	c.lookupPending = false
	if ok && app.PID != c.selfPID {
		c.previous = &app
	}
	if c.restoreOnLookup {
		c.restoreOnLookup = false
		c.restorePrevious()
	}
}

// restorePrevious reactivates the recorded application off the loop.
func (c *Controller) restorePrevious() {
	if c.lookupPending {
		c.restoreOnLookup = true
		return
	}
	prev := c.previous
	c.previous = nil
	if prev == nil {
		return
	}
	app, ws := *prev, c.workspace
	c.background(func() {
		if !ws.IsRunning(app) {
			slog.Debug("[overlay] previous application terminated", "pid", app.PID, "name", app.Name)
			return
		}
		if err := ws.Activate(app); err != nil {
			slog.Warn("[overlay] failed to reactivate previous application", "pid", app.PID, "name", app.Name, "error", err)
		}
	})
}
