package main

import (
	"glimpse/internal/history"
	"glimpse/internal/keyevents"
	"glimpse/internal/overlay"
	"glimpse/internal/session"
)

// GetSessionState returns the current search session state.
func (a *App) GetSessionState() (session.State, error) {
	var st session.State
	err := a.withSession(func(vm *session.ViewModel) { st = vm.State() })
	return st, err
}

// GetOverlayState returns the overlay visibility and session surface.
func (a *App) GetOverlayState() (overlayStateView, error) {
	var view overlayStateView
	err := a.withOverlay(func(c *overlay.Controller) {
		snap := c.Snapshot()
		view = overlayStateView{Visibility: snap.Visibility.String(), SurfaceID: snap.SurfaceID}
	})
	return view, err
}

// SetQuery mirrors the native query field.
func (a *App) SetQuery(query string) error {
	return a.withSession(func(vm *session.ViewModel) { vm.SetQuery(query) })
}

// PerformSearch submits the current query.
func (a *App) PerformSearch() error {
	return a.withSession(func(vm *session.ViewModel) { vm.PerformSearch() })
}

// SearchFor sets the query and submits it in one step, as picking a
// history entry does.
func (a *App) SearchFor(query string) error {
	return a.withSession(func(vm *session.ViewModel) {
		vm.SetQuery(query)
		vm.PerformSearch()
	})
}

func (a *App) NavigateHome() error {
	return a.withSession(func(vm *session.ViewModel) { vm.NavigateToHome() })
}

func (a *App) NavigateSignIn() error {
	return a.withSession(func(vm *session.ViewModel) { vm.NavigateToSignIn() })
}

func (a *App) ReloadPage() error {
	return a.withSession(func(vm *session.ViewModel) { vm.Reload() })
}

func (a *App) GoBack() error {
	return a.withSession(func(vm *session.ViewModel) { vm.GoBack() })
}

func (a *App) GoForward() error {
	return a.withSession(func(vm *session.ViewModel) { vm.GoForward() })
}

// HandOffFocus moves keyboard focus between the query field and the page.
func (a *App) HandOffFocus() error {
	return a.withSession(func(vm *session.ViewModel) { vm.HandOffFocus() })
}

// SetNativeFieldFocused reports focus changes of the query field.
func (a *App) SetNativeFieldFocused(focused bool) error {
	return a.withSession(func(vm *session.ViewModel) { vm.SetNativeFieldFocused(focused) })
}

// HideOverlay hides the overlay, as the close button does.
func (a *App) HideOverlay() error {
	return a.withOverlay(func(c *overlay.Controller) { c.Hide() })
}

// HandleKey routes a key-down from the frontend. It reports whether the
// key was consumed, in which case the frontend prevents its default.
func (a *App) HandleKey(key keyevents.BrowserKey) (bool, error) {
	ev, ok := keyevents.FromBrowser(key)
	if !ok {
		return false, nil
	}
	var consumed bool
	err := a.onLoop(func() error {
		consumed = a.keys.Dispatch(ev)
		return nil
	})
	return consumed, err
}

// GetHistory returns recent queries, most recent first.
func (a *App) GetHistory() []string {
	if a.history == nil {
		return []string{}
	}
	return nonNil(a.history.Entries())
}

// SuggestHistory ranks history entries against a partial query. An empty
// query lists the most recent entries.
func (a *App) SuggestHistory(query string) []string {
	if a.history == nil {
		return []string{}
	}
	return nonNil(a.history.Suggest(query, history.MaxEntries))
}

func (a *App) ClearHistory() error {
	if a.history == nil {
		return nil
	}
	return a.history.Clear()
}
