//go:build darwin

package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"glimpse/internal/overlay"
	"glimpse/internal/procutil"
)

const (
	frontmostScript = `tell application "System Events" to get {unix id, name} of first application process whose frontmost is true`
	activateScript  = `tell application "System Events" to set frontmost of (first application process whose unix id is %d) to true`
)

var runScriptFn = func(script string, timeout time.Duration) (string, error) {
	return procutil.Output(context.Background(), timeout, "osascript", "-e", script)
}

// Workspace drives System Events through osascript.
type Workspace struct {
	timeout time.Duration
}

// New returns a workspace with the default helper timeout.
func New() *Workspace {
	return &Workspace{timeout: procutil.DefaultTimeout}
}

func (w *Workspace) Frontmost() (overlay.App, bool) {
	out, err := runScriptFn(frontmostScript, w.timeout)
	if err != nil {
		slog.Debug("[workspace] frontmost query failed", "error", err)
		return overlay.App{}, false
	}
	app, err := parseFrontmost(out)
	if err != nil {
		slog.Debug("[workspace] frontmost output rejected", "error", err)
		return overlay.App{}, false
	}
	return app, true
}

func (w *Workspace) Activate(app overlay.App) error {
	if _, err := runScriptFn(fmt.Sprintf(activateScript, app.PID), w.timeout); err != nil {
		return fmt.Errorf("activate %s (pid %d): %w", app.Name, app.PID, err)
	}
	return nil
}

func (w *Workspace) IsRunning(app overlay.App) bool {
	return processAlive(app.PID)
}
