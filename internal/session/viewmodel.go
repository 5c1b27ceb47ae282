// Package session implements the per-showing search view-model: query
// text, navigation flags, sign-in detection and the focus handoff between
// the native query field and the embedded surface.
package session

import (
	"log/slog"
	"strings"
	"time"

	"glimpse/internal/observe"
	"glimpse/internal/search"
	"glimpse/internal/surface"
	"glimpse/internal/uiloop"
)

// FocusTarget names the element that should hold keyboard focus.
type FocusTarget int

const (
	FocusNativeField FocusTarget = iota
	FocusSurface
)

func (t FocusTarget) String() string {
	if t == FocusSurface {
		return "surface"
	}
	return "native-field"
}

// State is the observable view-model state.
type State struct {
	SurfaceID    string      `json:"surfaceId"`
	ProviderID   string      `json:"providerId"`
	Query        string      `json:"query"`
	CanGoBack    bool        `json:"canGoBack"`
	CanGoForward bool        `json:"canGoForward"`
	SignedIn     bool        `json:"signedIn"`
	FocusTick    uint64      `json:"focusTick"`
	FocusTarget  FocusTarget `json:"focusTarget"`
}

// Timings are the focus handoff delays.
type Timings struct {
	// HandoffFocusDelay is the wait before the in-page input is focused.
	HandoffFocusDelay time.Duration
	// HandoffRevokeDelay bounds how long the surface may accept focus when
	// no input-focused acknowledgment arrives.
	HandoffRevokeDelay time.Duration
}

// DefaultTimings returns 150ms and 500ms.
func DefaultTimings() Timings {
	return Timings{
		HandoffFocusDelay:  150 * time.Millisecond,
		HandoffRevokeDelay: 500 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.HandoffFocusDelay <= 0 {
		t.HandoffFocusDelay = d.HandoffFocusDelay
	}
	if t.HandoffRevokeDelay <= 0 {
		t.HandoffRevokeDelay = d.HandoffRevokeDelay
	}
	return t
}

// HistoryRecorder records submitted queries.
type HistoryRecorder interface {
	Record(query string) error
}

// Config wires a ViewModel.
type Config struct {
	Surface   surface.Surface
	Provider  search.Provider
	History   HistoryRecorder
	Scheduler uiloop.Scheduler
	Timings   Timings
	// OnEscape runs on the scheduler when Escape is pressed inside the
	// surface content.
	OnEscape func()
}

// ViewModel is confined to the UI loop. Surface callbacks are re-posted onto
// the scheduler and ignored once the view-model is closed.
type ViewModel struct {
	surface  surface.Surface
	provider search.Provider
	history  HistoryRecorder
	sched    uiloop.Scheduler
	timings  Timings
	onEscape func()

	state              State
	nativeFieldFocused bool
	shouldFocusOnLoad  bool
	handoffActive      bool
	cancelHandoffFocus func()
	cancelRevoke       func()
	closed             bool

	changes observe.Subject[State]
}

// New creates a view-model and loads the provider's home page.
func New(cfg Config) *ViewModel {
	if cfg.Provider == nil {
		cfg.Provider = search.Default()
	}
	vm := &ViewModel{
		surface:  cfg.Surface,
		provider: cfg.Provider,
		history:  cfg.History,
		sched:    cfg.Scheduler,
		timings:  cfg.Timings.withDefaults(),
		onEscape: cfg.OnEscape,
		state: State{
			SurfaceID:   cfg.Surface.ID(),
			ProviderID:  cfg.Provider.ID(),
			FocusTarget: FocusNativeField,
		},
		nativeFieldFocused: true,
	}
	vm.surface.SetObserver(surface.Observer{
		DidCommit:     vm.onLoop(vm.didCommit),
		DidFinish:     vm.onLoop(vm.didFinish),
		InputFocused:  vm.onLoop(vm.SurfaceInputFocused),
		EscapePressed: vm.onLoop(vm.escapePressed),
	})
	vm.surface.SetAcceptsFocus(false)
	vm.surface.Load(vm.provider.HomeURL())
	return vm
}

// onLoop wraps fn so it runs on the scheduler unless the view-model closed.
func (vm *ViewModel) onLoop(fn func()) func() {
	return func() {
		vm.sched.Post(func() {
			if vm.closed {
				return
			}
			fn()
		})
	}
}

// State returns a copy of the current state.
func (vm *ViewModel) State() State { return vm.state }

// Surface returns the surface owned by the view-model.
func (vm *ViewModel) Surface() surface.Surface { return vm.surface }

// Subscribe observes state changes.
func (vm *ViewModel) Subscribe(fn func(State)) (unsubscribe func()) {
	return vm.changes.Subscribe(fn)
}

func (vm *ViewModel) publish() {
	vm.changes.Publish(vm.state)
}

// SetQuery replaces the query text.
func (vm *ViewModel) SetQuery(q string) {
	if vm.closed || vm.state.Query == q {
		return
	}
	vm.state.Query = q
	vm.publish()
}

// PerformSearch records the trimmed query and loads its results page.
// A blank query is a no-op.
func (vm *ViewModel) PerformSearch() {
	if vm.closed {
		return
	}
	trimmed := strings.TrimSpace(vm.state.Query)
	if trimmed == "" {
		return
	}
	target, err := vm.provider.SearchURL(trimmed)
	if err != nil {
		slog.Warn("[session] could not build search url", "provider", vm.provider.ID(), "error", err)
		return
	}
	if vm.history != nil {
		// Persist failures are logged by the store; the search proceeds.
		_ = vm.history.Record(trimmed)
	}
	vm.surface.Load(target)
}

// NavigateToHome clears the query and loads the home page. The native
// field is focused once the load finishes.
func (vm *ViewModel) NavigateToHome() {
	if vm.closed {
		return
	}
	vm.state.Query = ""
	vm.shouldFocusOnLoad = true
	vm.surface.Load(vm.provider.HomeURL())
	vm.publish()
}

// NavigateToSignIn loads the provider's account page when it has one.
func (vm *ViewModel) NavigateToSignIn() {
	if vm.closed {
		return
	}
	signIn := vm.provider.SignInURL()
	if signIn == "" {
		slog.Debug("[session] provider has no sign-in page", "provider", vm.provider.ID())
		return
	}
	vm.surface.Load(signIn)
}

func (vm *ViewModel) Reload() {
	if vm.closed {
		return
	}
	vm.surface.Reload()
}

// GoBack is a no-op unless CanGoBack.
func (vm *ViewModel) GoBack() {
	if vm.closed || !vm.state.CanGoBack {
		return
	}
	vm.surface.GoBack()
}

// GoForward is a no-op unless CanGoForward.
func (vm *ViewModel) GoForward() {
	if vm.closed || !vm.state.CanGoForward {
		return
	}
	vm.surface.GoForward()
}

// RequestFocus asks the presentation layer to focus the native field.
func (vm *ViewModel) RequestFocus() {
	if vm.closed {
		return
	}
	vm.state.FocusTick++
	vm.state.FocusTarget = FocusNativeField
	vm.publish()
}

// SetNativeFieldFocused records whether the native field holds focus.
func (vm *ViewModel) SetNativeFieldFocused(focused bool) {
	vm.nativeFieldFocused = focused
	if focused && vm.state.FocusTarget != FocusNativeField {
		vm.state.FocusTarget = FocusNativeField
		vm.publish()
	}
}

// HandOffFocus toggles focus between the native field and the surface's
// in-page search input.
func (vm *ViewModel) HandOffFocus() {
	if vm.closed {
		return
	}
	if !vm.nativeFieldFocused {
		vm.RequestFocus()
		return
	}

	vm.cancelHandoffTimers()
	vm.nativeFieldFocused = false
	vm.handoffActive = true
	vm.state.FocusTarget = FocusSurface
	vm.surface.SetAcceptsFocus(true)
	vm.surface.Focus()

	script := focusInputScript(vm.provider.InputSelectors())
	vm.cancelHandoffFocus = vm.sched.After(vm.timings.HandoffFocusDelay, func() {
		vm.cancelHandoffFocus = nil
		if vm.closed {
			return
		}
		vm.surface.EvaluateScript(script, func(result string, err error) {
			vm.onLoop(func() { vm.focusScriptDone(result, err) })()
		})
	})
	vm.cancelRevoke = vm.sched.After(vm.timings.HandoffRevokeDelay, func() {
		vm.cancelRevoke = nil
		if vm.closed {
			return
		}
		slog.Debug("[session] handoff window elapsed without acknowledgment")
		vm.revokeSurfaceFocus()
	})
	vm.publish()
}

func (vm *ViewModel) focusScriptDone(result string, err error) {
	switch {
	case err != nil:
		slog.Debug("[session] focus script failed", "error", err)
	case result == focusScriptFocused:
		vm.SurfaceInputFocused()
	case result == focusScriptMissing:
		slog.Debug("[session] no search input found in page", "provider", vm.provider.ID())
	}
}

// SurfaceInputFocused acknowledges that the in-page input took focus and
// revokes the surface's focus acceptance immediately.
func (vm *ViewModel) SurfaceInputFocused() {
	if vm.closed || !vm.handoffActive {
		return
	}
	vm.revokeSurfaceFocus()
}

func (vm *ViewModel) revokeSurfaceFocus() {
	vm.cancelHandoffTimers()
	vm.handoffActive = false
	vm.surface.SetAcceptsFocus(false)
}

func (vm *ViewModel) cancelHandoffTimers() {
	if vm.cancelRevoke != nil {
		vm.cancelRevoke()
		vm.cancelRevoke = nil
	}
	if vm.cancelHandoffFocus != nil {
		vm.cancelHandoffFocus()
		vm.cancelHandoffFocus = nil
	}
}

// HandoffActive reports whether the surface is currently allowed focus.
func (vm *ViewModel) HandoffActive() bool { return vm.handoffActive }

func (vm *ViewModel) didCommit() {
	vm.updateNavigationState()
	vm.publish()
}

func (vm *ViewModel) didFinish() {
	if !vm.surface.AcceptsFocus() {
		vm.surface.EvaluateScript(blurActiveElementScript, nil)
	}
	if vm.shouldFocusOnLoad {
		vm.shouldFocusOnLoad = false
		vm.state.FocusTick++
		vm.state.FocusTarget = FocusNativeField
	}
	vm.updateNavigationState()
	vm.publish()
	vm.checkSignIn()
}

func (vm *ViewModel) updateNavigationState() {
	vm.state.CanGoBack = vm.surface.CanGoBack()
	vm.state.CanGoForward = vm.surface.CanGoForward()
}

func (vm *ViewModel) checkSignIn() {
	if !search.SignInSupported(vm.provider) {
		return
	}
	domain := vm.provider.CookieDomain()
	names := vm.provider.SessionCookieNames()
	vm.surface.Cookies(domain, func(cookies []surface.Cookie, err error) {
		vm.onLoop(func() {
			if err != nil {
				slog.Debug("[session] cookie query failed", "error", err)
				return
			}
			signedIn := hasSessionCookie(cookies, domain, names)
			if signedIn == vm.state.SignedIn {
				return
			}
			vm.state.SignedIn = signedIn
			vm.publish()
		})()
	})
}

func hasSessionCookie(cookies []surface.Cookie, domain string, names []string) bool {
	for _, c := range cookies {
		if !strings.Contains(c.Domain, domain) {
			continue
		}
		for _, n := range names {
			if c.Name == n {
				return true
			}
		}
	}
	return false
}

func (vm *ViewModel) escapePressed() {
	if vm.onEscape != nil {
		vm.onEscape()
	}
}

// Close cancels pending timers, ignores late callbacks and releases the
// surface. Idempotent.
func (vm *ViewModel) Close() {
	if vm.closed {
		return
	}
	vm.closed = true
	vm.handoffActive = false
	vm.cancelHandoffTimers()
	vm.surface.SetObserver(surface.Observer{})
	vm.surface.Close()
}

// Closed reports whether Close has been called.
func (vm *ViewModel) Closed() bool { return vm.closed }
