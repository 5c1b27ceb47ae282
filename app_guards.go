package main

import (
	"context"
	"errors"

	"glimpse/internal/overlay"
	"glimpse/internal/preferences"
	"glimpse/internal/recorder"
	"glimpse/internal/session"
)

var errShuttingDown = errors.New("application is shutting down")

// requireOverlay must be called on the loop.
func (a *App) requireOverlay() (*overlay.Controller, error) {
	if a.overlay == nil {
		return nil, errors.New("overlay is unavailable")
	}
	return a.overlay, nil
}

// requireSession must be called on the loop.
func (a *App) requireSession() (*session.ViewModel, error) {
	ctrl, err := a.requireOverlay()
	if err != nil {
		return nil, err
	}
	vm := ctrl.Session()
	if vm == nil || vm.Closed() {
		return nil, errors.New("search session is unavailable")
	}
	return vm, nil
}

// requireRecorder must be called on the loop.
func (a *App) requireRecorder() (*recorder.Recorder, error) {
	if a.recorder == nil {
		return nil, errors.New("shortcut recorder is unavailable")
	}
	return a.recorder, nil
}

func (a *App) requirePreferences() (*preferences.Store, error) {
	if a.prefs == nil {
		return nil, errors.New("preferences are unavailable")
	}
	return a.prefs, nil
}

// onLoop runs fn on the loop and returns its error. It must not be called
// from the loop itself.
func (a *App) onLoop(fn func() error) error {
	if a.shuttingDown.Load() {
		return errShuttingDown
	}
	ctx, cancel := context.WithTimeout(context.Background(), loopCallTimeout)
	defer cancel()
	var fnErr error
	if err := a.loop.Call(ctx, func() { fnErr = fn() }); err != nil {
		return err
	}
	return fnErr
}

// withOverlay runs fn against the controller on the loop.
func (a *App) withOverlay(fn func(*overlay.Controller)) error {
	return a.onLoop(func() error {
		ctrl, err := a.requireOverlay()
		if err != nil {
			return err
		}
		fn(ctrl)
		return nil
	})
}

// withSession runs fn against the current session on the loop.
func (a *App) withSession(fn func(*session.ViewModel)) error {
	return a.onLoop(func() error {
		vm, err := a.requireSession()
		if err != nil {
			return err
		}
		fn(vm)
		return nil
	})
}
